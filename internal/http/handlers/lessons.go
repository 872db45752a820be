package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coursehub/backend/internal/actorctx"
	"github.com/coursehub/backend/internal/authz"
	"github.com/coursehub/backend/internal/domain/course"
	"github.com/coursehub/backend/internal/domain/lesson"
	"github.com/gin-gonic/gin"
)

type LessonStore interface {
	Create(ctx context.Context, l lesson.Lesson) (lesson.Lesson, error)
	ListByCourse(ctx context.Context, courseID string) ([]lesson.Lesson, error)
	GetWithOwner(ctx context.Context, id string) (lesson.Lesson, string, error)
	UpdateOwned(ctx context.Context, id, ownerID string, p lesson.Patch) (lesson.Lesson, error)
	DeleteOwned(ctx context.Context, id, ownerID string) error
	ListPublicByCourse(ctx context.Context, courseID string) ([]lesson.Lesson, error)
	PublicCourseExists(ctx context.Context, courseID string) (bool, error)
}

// CourseOwnership is the slice of the course store lessons need for the
// transitive parent check.
type CourseOwnership interface {
	GetOwned(ctx context.Context, id, ownerID string) (course.Course, error)
}

type LessonsHandler struct {
	repo    LessonStore
	courses CourseOwnership
}

func NewLessonsHandler(repo LessonStore, courses CourseOwnership) *LessonsHandler {
	return &LessonsHandler{repo: repo, courses: courses}
}

func (h *LessonsHandler) CreateLesson(ctx *gin.Context) {
	caller, ok := actorctx.CallerFrom(ctx.Request.Context())

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	var req lesson.CreateLessonRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	// the parent course must exist and belong to the caller; a foreign
	// or dangling courseId reads as missing
	_, err := h.courses.GetOwned(cctx, req.CourseID, caller.ID)

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			RespondNotFound(ctx, "Course not found")
			return
		}

		RespondInternal(ctx, "Could not create lesson")
		return
	}

	l, err := h.repo.Create(cctx, lesson.NewFromCreateRequest(req))

	if err != nil {
		RespondInternal(ctx, "Could not create lesson")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"lesson": l})
}

func (h *LessonsHandler) ListLessonsByCourse(ctx *gin.Context) {
	caller, ok := actorctx.CallerFrom(ctx.Request.Context())

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	courseID := ctx.Param("courseId")

	_, err := h.courses.GetOwned(cctx, courseID, caller.ID)

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			RespondNotFound(ctx, "Course not found")
			return
		}

		RespondInternal(ctx, "Could not list lessons")
		return
	}

	lessons, err := h.repo.ListByCourse(cctx, courseID)

	if err != nil {
		RespondInternal(ctx, "Could not list lessons")
		return
	}

	ctx.JSON(http.StatusOK, lessons)
}

func (h *LessonsHandler) GetLessonByID(ctx *gin.Context) {
	caller, ok := actorctx.CallerFrom(ctx.Request.Context())

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	l, ownerID, err := h.repo.GetWithOwner(cctx, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, lesson.ErrNotFound) {
			RespondNotFound(ctx, "Lesson not found")
			return
		}

		RespondInternal(ctx, "Could not fetch lesson")
		return
	}

	// transitive ownership via the parent course; denial reads the same
	// as a missing lesson so foreign ids leak nothing
	if d := authz.Decide(caller, ownerID, false, authz.OpRead); !d.Allowed {
		RespondNotFound(ctx, "Lesson not found")
		return
	}

	ctx.JSON(http.StatusOK, l)
}

func (h *LessonsHandler) UpdateLesson(ctx *gin.Context) {
	caller, ok := actorctx.CallerFrom(ctx.Request.Context())

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	var req lesson.UpdateLessonRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	l, err := h.repo.UpdateOwned(cctx, ctx.Param("id"), caller.ID, lesson.Patch{
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		VideoURL:    req.VideoURL,
		Status:      req.Status,
	})

	if err != nil {
		if errors.Is(err, lesson.ErrNotFound) {
			RespondNotFound(ctx, "Lesson not found")
			return
		}

		RespondInternal(ctx, "Could not update lesson")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"lesson": l})
}

func (h *LessonsHandler) DeleteLesson(ctx *gin.Context) {
	caller, ok := actorctx.CallerFrom(ctx.Request.Context())

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	err := h.repo.DeleteOwned(cctx, ctx.Param("id"), caller.ID)

	if err != nil {
		if errors.Is(err, lesson.ErrNotFound) {
			RespondNotFound(ctx, "Lesson not found")
			return
		}

		RespondInternal(ctx, "Could not delete lesson")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Lesson deleted"})
}

// ListPublicLessonsByCourse lists lessons visible in the public catalog:
// both the lesson and its parent course must be published.
func (h *LessonsHandler) ListPublicLessonsByCourse(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	courseID := ctx.Param("courseId")

	visible, err := h.repo.PublicCourseExists(cctx, courseID)

	if err != nil {
		RespondInternal(ctx, "Could not list lessons")
		return
	}

	if !visible {
		// unpublished and nonexistent courses answer alike
		RespondNotFound(ctx, "Course not found")
		return
	}

	lessons, err := h.repo.ListPublicByCourse(cctx, courseID)

	if err != nil {
		RespondInternal(ctx, "Could not list lessons")
		return
	}

	ctx.JSON(http.StatusOK, lessons)
}
