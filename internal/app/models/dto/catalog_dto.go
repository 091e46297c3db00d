package dto

// CreateCourseRequest adds a course to the catalog.
type CreateCourseRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameCourseRequest renames a course. Empty names are rejected.
type RenameCourseRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateSubjectRequest adds a subject under a course.
type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameSubjectRequest renames a subject. Empty names are rejected.
type RenameSubjectRequest struct {
	Name string `json:"name" binding:"required"`
}
