package models

// Course represents a course offered by the institute. Name is unique
// (case-sensitive exact match).
type Course struct {
	ID       int64      `json:"id" db:"id"`
	Name     string     `json:"name" db:"name"`
	Subjects []*Subject `json:"subjects,omitempty"` // Relation, no db tag
}

// Subject belongs to exactly one course; deleting the course deletes it.
type Subject struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	CourseID int64  `json:"courseId" db:"course_id"`
}
