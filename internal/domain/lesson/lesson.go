package lesson

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("lesson not found")

// A lesson has no owner of its own; ownership is resolved transitively
// through the parent course.
type Lesson struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CoverImage  *string   `json:"coverImage,omitempty"`
	VideoURL    string    `json:"videoUrl"`
	Status      bool      `json:"status"`
	CourseID    string    `json:"courseId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateLessonRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	CoverImage  *string `json:"coverImage"`
	VideoURL    string  `json:"videoUrl" binding:"required"`
	CourseID    string  `json:"courseId" binding:"required"`
	Status      *bool   `json:"status"`
}

// Merge-patch payload: nil fields keep their previous values. The parent
// course reference is immutable and not part of the patch.
type UpdateLessonRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CoverImage  *string `json:"coverImage"`
	VideoURL    *string `json:"videoUrl"`
	Status      *bool   `json:"status"`
}
