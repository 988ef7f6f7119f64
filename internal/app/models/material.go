package models

import "fmt"

// MaterialType is the backend's integer enum for material kinds.
type MaterialType int

const (
	MaterialTypeLecture MaterialType = iota
	MaterialTypeAssignment
	MaterialTypeExam
	MaterialTypeQuiz
	MaterialTypeNotes
	MaterialTypeOther
)

// Label returns the display name for the type. Unknown values fall back to
// "Type {n}" so new backend enum members render instead of breaking the page.
func (t MaterialType) Label() string {
	switch t {
	case MaterialTypeLecture:
		return "Lecture"
	case MaterialTypeAssignment:
		return "Assignment"
	case MaterialTypeExam:
		return "Exam"
	case MaterialTypeQuiz:
		return "Quiz"
	case MaterialTypeNotes:
		return "Notes"
	case MaterialTypeOther:
		return "Other"
	default:
		return fmt.Sprintf("Type %d", int(t))
	}
}

// MaterialTypes lists the selectable types for the creation form, in enum
// order.
func MaterialTypes() []MaterialType {
	return []MaterialType{
		MaterialTypeLecture,
		MaterialTypeAssignment,
		MaterialTypeExam,
		MaterialTypeQuiz,
		MaterialTypeNotes,
		MaterialTypeOther,
	}
}

// Material is a community-contributed course resource.
type Material struct {
	ID          int64        `json:"id"`
	CourseID    int64        `json:"course_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        MaterialType `json:"type"`
	FileLink    string       `json:"file_link"`
	Score       int          `json:"score"`
	UserID      int64        `json:"user_id"`
	Role        bool         `json:"role"`
}

// MaterialPayload is the full record the backend expects on POST and PUT.
// Votes resend the material with only the score adjusted.
type MaterialPayload struct {
	CourseID    int64        `json:"course_id"`
	Title       string       `json:"title"`
	Type        MaterialType `json:"type"`
	Description string       `json:"description"`
	Role        bool         `json:"role"`
	Score       int          `json:"score"`
	FileLink    string       `json:"file_link"`
}

// WithScore builds the update payload for this material carrying the given
// score. The score never goes below zero.
func (m Material) WithScore(score int) MaterialPayload {
	if score < 0 {
		score = 0
	}
	return MaterialPayload{
		CourseID:    m.CourseID,
		Title:       m.Title,
		Type:        m.Type,
		Description: m.Description,
		Role:        m.Role,
		Score:       score,
		FileLink:    m.FileLink,
	}
}
