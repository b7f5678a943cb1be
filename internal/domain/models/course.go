package models

import (
	"time"
)

// Section is an ordered group of file references inside a course.
// Files holds file ids (weak references into the files table).
type Section struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Files       []string `json:"files"`
}

// Enrollment records one user's membership in a course. Progress is a
// percentage in [0, 100].
type Enrollment struct {
	UserID     string    `json:"user"`
	EnrolledAt time.Time `json:"enrolledAt"`
	Progress   int       `json:"progress"`
}

// Course is an owned collection of sections and enrollments. Sections
// and enrollments are stored as JSONB documents on the course row.
type Course struct {
	ID           string       `json:"_id" db:"id"`
	Title        string       `json:"title" db:"title"`
	Description  string       `json:"description" db:"description"`
	Category     string       `json:"category" db:"category"`
	InstructorID string       `json:"-" db:"instructor_id"`
	Instructor   UserRef      `json:"instructor"`
	CoverImage   string       `json:"coverImage" db:"cover_image"`
	Sections     []Section    `json:"sections" db:"sections"`
	Enrollments  []Enrollment `json:"enrolledUsers" db:"enrollments"`
	Tags         []string     `json:"tags" db:"tags"`
	IsPublished  bool         `json:"isPublished" db:"is_published"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`

	// Files is populated on single-course reads with the files whose
	// course_id references this course. Never stored.
	Files []File `json:"files,omitempty"`
}

// EnrollmentFor returns the enrollment for userID, or nil.
func (c *Course) EnrollmentFor(userID string) *Enrollment {
	for i := range c.Enrollments {
		if c.Enrollments[i].UserID == userID {
			return &c.Enrollments[i]
		}
	}
	return nil
}
