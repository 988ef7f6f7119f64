package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseDecodeTolerantFieldNames(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Course
	}{
		{
			name: "canonical fields",
			body: `{"id": 1, "code": "CS101", "name": "Intro to CS", "credits": 6}`,
			want: Course{ID: 1, Code: "CS101", Name: "Intro to CS", Credits: 6},
		},
		{
			name: "legacy field spellings",
			body: `{"id": 2, "course_code": "MATH201", "title": "Linear Algebra"}`,
			want: Course{ID: 2, Code: "MATH201", Name: "Linear Algebra"},
		},
		{
			name: "canonical wins when both present",
			body: `{"id": 3, "code": "PHYS1", "course_code": "OLD", "name": "Physics", "title": "Old Title"}`,
			want: Course{ID: 3, Code: "PHYS1", Name: "Physics"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Course
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
