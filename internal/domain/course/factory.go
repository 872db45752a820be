package course

import (
	"time"

	"github.com/google/uuid"
)

// NewFromCreateRequest builds a Course owned by ownerID. duration is the
// already-validated positive integer; visibility defaults to published
// when the request leaves it unset.
func NewFromCreateRequest(req CreateCourseRequest, duration int, ownerID string) Course {
	now := time.Now().UTC()

	status := true
	if req.Status != nil {
		status = *req.Status
	}

	return Course{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Duration:    duration,
		ImageURL:    req.ImageURL,
		Status:      status,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Patch is the repo-facing merge-patch: nil means keep the stored value.
// Duration is already parsed by the time a Patch exists.
type Patch struct {
	Title       *string
	Description *string
	Duration    *int
	ImageURL    *string
	Status      *bool
}
