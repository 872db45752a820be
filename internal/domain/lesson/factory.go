package lesson

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateLessonRequest) Lesson {
	status := true
	if req.Status != nil {
		status = *req.Status
	}

	return Lesson{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		VideoURL:    req.VideoURL,
		Status:      status,
		CourseID:    req.CourseID,
		CreatedAt:   time.Now().UTC(),
	}
}

// Patch is the repo-facing merge-patch: nil means keep the stored value.
type Patch struct {
	Name        *string
	Description *string
	CoverImage  *string
	VideoURL    *string
	Status      *bool
}
