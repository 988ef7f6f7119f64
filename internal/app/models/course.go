package models

import "encoding/json"

// Course represents a course as listed by the backend.
type Course struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Department  string `json:"department"`
	Credits     int    `json:"credits"`
	Instructors string `json:"instructors"`
}

// UnmarshalJSON tolerates the two field spellings the backend has used over
// time: course_code vs code, and title vs name.
func (c *Course) UnmarshalJSON(data []byte) error {
	type alias struct {
		ID          int64  `json:"id"`
		Code        string `json:"code"`
		CourseCode  string `json:"course_code"`
		Name        string `json:"name"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Department  string `json:"department"`
		Credits     int    `json:"credits"`
		Instructors string `json:"instructors"`
	}

	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	c.ID = a.ID
	c.Code = a.Code
	if c.Code == "" {
		c.Code = a.CourseCode
	}
	c.Name = a.Name
	if c.Name == "" {
		c.Name = a.Title
	}
	c.Description = a.Description
	c.Department = a.Department
	c.Credits = a.Credits
	c.Instructors = a.Instructors
	return nil
}
