package course

import (
	"errors"
	"strconv"
	"time"
)

var (
	ErrNotFound   = errors.New("course not found")
	ErrHasLessons = errors.New("course still has lessons")
)

type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	Status      bool      `json:"status"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Instructor is the read-only projection attached to public catalog
// entries. Derived from the owning user, never stored on the course.
type Instructor struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type PublicCourse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    int        `json:"duration"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	Instructor  Instructor `json:"instructor"`
	LessonCount int        `json:"lessonCount"`
}

// Duration arrives as a string and must parse to a positive integer.
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Duration    string  `json:"duration" binding:"required"`
	ImageURL    *string `json:"imageUrl"`
	Status      *bool   `json:"status"`
}

// Merge-patch payload: nil fields keep their previous values.
type UpdateCourseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Duration    *string `json:"duration"`
	ImageURL    *string `json:"imageUrl"`
	Status      *bool   `json:"status"`
}

// ParseDuration validates the unit-agnostic duration field.
func ParseDuration(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)

	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}
