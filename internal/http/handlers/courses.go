package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coursehub/backend/internal/actorctx"
	"github.com/coursehub/backend/internal/domain/course"
	"github.com/gin-gonic/gin"
)

type CourseStore interface {
	Create(ctx context.Context, c course.Course) (course.Course, error)
	ListByOwner(ctx context.Context, ownerID string) ([]course.Course, error)
	GetOwned(ctx context.Context, id, ownerID string) (course.Course, error)
	UpdateOwned(ctx context.Context, id, ownerID string, p course.Patch) (course.Course, error)
	DeleteOwned(ctx context.Context, id, ownerID string) error
	ListPublic(ctx context.Context) ([]course.PublicCourse, error)
	GetPublicByID(ctx context.Context, id string) (course.PublicCourse, error)
}

type CoursesHandler struct {
	repo CourseStore
}

func NewCoursesHandler(repo CourseStore) *CoursesHandler {
	return &CoursesHandler{repo: repo}
}

func (h *CoursesHandler) CreateCourse(ctx *gin.Context) {
	caller, ok := actorctx.CallerFrom(ctx.Request.Context())

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	var req course.CreateCourseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	duration, ok := course.ParseDuration(req.Duration)

	if !ok {
		RespondBadRequest(ctx, "Invalid request body", gin.H{
			"fields": []FieldError{{Field: "duration", Rule: "positive_int", Message: "must be a positive integer"}},
		})
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	c, err := h.repo.Create(cctx, course.NewFromCreateRequest(req, duration, caller.ID))

	if err != nil {
		RespondInternal(ctx, "Could not create course")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"course": c})
}

func (h *CoursesHandler) ListCourses(ctx *gin.Context) {
	caller, ok := actorctx.CallerFrom(ctx.Request.Context())

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	courses, err := h.repo.ListByOwner(cctx, caller.ID)

	if err != nil {
		RespondInternal(ctx, "Could not list courses")
		return
	}

	ctx.JSON(http.StatusOK, courses)
}

func (h *CoursesHandler) GetCourseByID(ctx *gin.Context) {
	caller, ok := actorctx.CallerFrom(ctx.Request.Context())

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	// ownership-scoped: a course owned by someone else reads as missing
	c, err := h.repo.GetOwned(cctx, ctx.Param("id"), caller.ID)

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			RespondNotFound(ctx, "Course not found")
			return
		}

		RespondInternal(ctx, "Could not fetch course")
		return
	}

	ctx.JSON(http.StatusOK, c)
}

func (h *CoursesHandler) UpdateCourse(ctx *gin.Context) {
	caller, ok := actorctx.CallerFrom(ctx.Request.Context())

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	var req course.UpdateCourseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	patch := course.Patch{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Status:      req.Status,
	}

	if req.Duration != nil {
		duration, ok := course.ParseDuration(*req.Duration)

		if !ok {
			RespondBadRequest(ctx, "Invalid request body", gin.H{
				"fields": []FieldError{{Field: "duration", Rule: "positive_int", Message: "must be a positive integer"}},
			})
			return
		}

		patch.Duration = &duration
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	c, err := h.repo.UpdateOwned(cctx, ctx.Param("id"), caller.ID, patch)

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			RespondNotFound(ctx, "Course not found")
			return
		}

		RespondInternal(ctx, "Could not update course")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"course": c})
}

func (h *CoursesHandler) DeleteCourse(ctx *gin.Context) {
	caller, ok := actorctx.CallerFrom(ctx.Request.Context())

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	err := h.repo.DeleteOwned(cctx, ctx.Param("id"), caller.ID)

	if err != nil {
		switch {
		case errors.Is(err, course.ErrNotFound):
			RespondNotFound(ctx, "Course not found")
		case errors.Is(err, course.ErrHasLessons):
			RespondConflict(ctx, "course_has_lessons", "Delete the course lessons first.")
		default:
			RespondInternal(ctx, "Could not delete course")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
}

// Public catalog endpoints: no identity involved, visibility only.

func (h *CoursesHandler) ListPublicCourses(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	courses, err := h.repo.ListPublic(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list courses")
		return
	}

	ctx.JSON(http.StatusOK, courses)
}

func (h *CoursesHandler) GetPublicCourseByID(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	c, err := h.repo.GetPublicByID(cctx, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			// draft and nonexistent are deliberately the same answer
			RespondNotFound(ctx, "Course not found")
			return
		}

		RespondInternal(ctx, "Could not fetch course")
		return
	}

	ctx.JSON(http.StatusOK, c)
}
