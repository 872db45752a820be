package postgres

import (
	"context"
	"errors"

	"github.com/coursehub/backend/internal/domain/course"
	"github.com/coursehub/backend/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CoursesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCoursesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CoursesRepo {
	return &CoursesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *CoursesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const courseColumns = `id, title, description, duration, image_url, status, user_id, created_at, updated_at`

func scanCourse(row pgx.Row) (course.Course, error) {
	var c course.Course

	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Duration,
		&c.ImageURL,
		&c.Status,
		&c.UserID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	return c, err
}

func (r *CoursesRepo) Create(ctx context.Context, c course.Course) (course.Course, error) {
	err := r.observe("courses.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO courses (id, title, description, duration, image_url, status, user_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			c.ID, c.Title, c.Description, c.Duration, c.ImageURL, c.Status, c.UserID, c.CreatedAt, c.UpdatedAt)
		return err
	})

	if err != nil {
		return course.Course{}, err
	}

	return c, nil
}

func (r *CoursesRepo) ListByOwner(ctx context.Context, ownerID string) ([]course.Course, error) {
	output := make([]course.Course, 0)

	err := r.observe("courses.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+courseColumns+`
			 FROM courses
			 WHERE user_id = $1
			 ORDER BY created_at DESC`,
			ownerID)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			c, err := scanCourse(rows)

			if err != nil {
				return err
			}

			output = append(output, c)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// GetOwned loads a course scoped to (id, owner). A course owned by
// someone else scans as no rows, so foreign and missing ids are the same
// ErrNotFound.
func (r *CoursesRepo) GetOwned(ctx context.Context, id, ownerID string) (course.Course, error) {
	var c course.Course

	err := r.observe("courses.get_owned", func() error {
		var err error
		c, err = scanCourse(r.pool.QueryRow(ctx,
			`SELECT `+courseColumns+`
			 FROM courses
			 WHERE id = $1 AND user_id = $2`,
			id, ownerID))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, course.ErrNotFound
		}

		return course.Course{}, err
	}

	return c, nil
}

// UpdateOwned applies a merge patch in a single statement: NULL patch
// fields keep the stored column. The ownership-scoped WHERE makes a
// concurrent delete read as ErrNotFound.
func (r *CoursesRepo) UpdateOwned(ctx context.Context, id, ownerID string, p course.Patch) (course.Course, error) {
	var c course.Course

	err := r.observe("courses.update_owned", func() error {
		var err error
		c, err = scanCourse(r.pool.QueryRow(ctx,
			`UPDATE courses
			 SET title       = COALESCE($3, title),
			     description = COALESCE($4, description),
			     duration    = COALESCE($5, duration),
			     image_url   = COALESCE($6, image_url),
			     status      = COALESCE($7, status),
			     updated_at  = NOW()
			 WHERE id = $1 AND user_id = $2
			 RETURNING `+courseColumns,
			id, ownerID, p.Title, p.Description, p.Duration, p.ImageURL, p.Status))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, course.ErrNotFound
		}

		return course.Course{}, err
	}

	return c, nil
}

// DeleteOwned removes a course. Deletion is rejected with ErrHasLessons
// while lessons still reference the course; the check and the delete run
// in one transaction so a lesson created in between cannot be orphaned.
func (r *CoursesRepo) DeleteOwned(ctx context.Context, id, ownerID string) error {
	return r.observe("courses.delete_owned", func() error {
		tx, err := r.pool.Begin(ctx)

		if err != nil {
			return err
		}

		defer func() { _ = tx.Rollback(ctx) }()

		var lessonCount int

		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM lessons WHERE course_id = $1`, id).Scan(&lessonCount)

		if err != nil {
			return err
		}

		if lessonCount > 0 {
			// only report the conflict if the caller actually owns the course
			var dummy string

			err = tx.QueryRow(ctx,
				`SELECT id FROM courses WHERE id = $1 AND user_id = $2`, id, ownerID).Scan(&dummy)

			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return course.ErrNotFound
				}

				return err
			}

			return course.ErrHasLessons
		}

		tag, err := tx.Exec(ctx,
			`DELETE FROM courses WHERE id = $1 AND user_id = $2`, id, ownerID)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return course.ErrNotFound
		}

		return tx.Commit(ctx)
	})
}

const publicCourseQuery = `
	SELECT c.id,
	       c.title,
	       c.description,
	       c.duration,
	       c.image_url,
	       c.created_at,
	       u.name,
	       u.role,
	       COUNT(l.id) AS lesson_count
	FROM courses c
	JOIN users u ON u.id = c.user_id
	LEFT JOIN lessons l ON l.course_id = c.id
	WHERE c.status = TRUE`

const publicCourseGroup = `
	GROUP BY c.id, c.title, c.description, c.duration, c.image_url, c.created_at, u.name, u.role`

func scanPublicCourse(row pgx.Row) (course.PublicCourse, error) {
	var p course.PublicCourse

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Duration,
		&p.ImageURL,
		&p.CreatedAt,
		&p.Instructor.Name,
		&p.Instructor.Role,
		&p.LessonCount,
	)

	return p, err
}

// ListPublic returns the catalog projection: published courses only,
// enriched with the instructor and a lesson count.
func (r *CoursesRepo) ListPublic(ctx context.Context) ([]course.PublicCourse, error) {
	output := make([]course.PublicCourse, 0)

	err := r.observe("courses.list_public", func() error {
		rows, err := r.pool.Query(ctx,
			publicCourseQuery+publicCourseGroup+` ORDER BY c.created_at DESC`)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			p, err := scanPublicCourse(rows)

			if err != nil {
				return err
			}

			output = append(output, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// GetPublicByID treats a draft course and a nonexistent id identically:
// both scan as no rows and surface as ErrNotFound.
func (r *CoursesRepo) GetPublicByID(ctx context.Context, id string) (course.PublicCourse, error) {
	var p course.PublicCourse

	err := r.observe("courses.get_public_by_id", func() error {
		var err error
		p, err = scanPublicCourse(r.pool.QueryRow(ctx,
			publicCourseQuery+` AND c.id = $1`+publicCourseGroup, id))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.PublicCourse{}, course.ErrNotFound
		}

		return course.PublicCourse{}, err
	}

	return p, nil
}
