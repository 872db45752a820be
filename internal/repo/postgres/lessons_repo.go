package postgres

import (
	"context"
	"errors"

	"github.com/coursehub/backend/internal/domain/lesson"
	"github.com/coursehub/backend/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LessonsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewLessonsRepo(pool *pgxpool.Pool, prom *observability.Prom) *LessonsRepo {
	return &LessonsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *LessonsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const lessonColumns = `id, name, description, cover_image, video_url, status, course_id, created_at`

func scanLesson(row pgx.Row) (lesson.Lesson, error) {
	var l lesson.Lesson

	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Description,
		&l.CoverImage,
		&l.VideoURL,
		&l.Status,
		&l.CourseID,
		&l.CreatedAt,
	)

	return l, err
}

func (r *LessonsRepo) Create(ctx context.Context, l lesson.Lesson) (lesson.Lesson, error) {
	err := r.observe("lessons.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO lessons (id, name, description, cover_image, video_url, status, course_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.ID, l.Name, l.Description, l.CoverImage, l.VideoURL, l.Status, l.CourseID, l.CreatedAt)
		return err
	})

	if err != nil {
		return lesson.Lesson{}, err
	}

	return l, nil
}

func (r *LessonsRepo) ListByCourse(ctx context.Context, courseID string) ([]lesson.Lesson, error) {
	return r.list(ctx, "lessons.list_by_course",
		`SELECT `+lessonColumns+`
		 FROM lessons
		 WHERE course_id = $1
		 ORDER BY created_at ASC`,
		courseID)
}

// ListPublicByCourse returns lessons visible in the public catalog: the
// lesson and its parent course must both be published.
func (r *LessonsRepo) ListPublicByCourse(ctx context.Context, courseID string) ([]lesson.Lesson, error) {
	return r.list(ctx, "lessons.list_public_by_course",
		`SELECT l.id, l.name, l.description, l.cover_image, l.video_url, l.status, l.course_id, l.created_at
		 FROM lessons l
		 JOIN courses c ON c.id = l.course_id
		 WHERE l.course_id = $1 AND l.status = TRUE AND c.status = TRUE
		 ORDER BY l.created_at ASC`,
		courseID)
}

func (r *LessonsRepo) list(ctx context.Context, op, query, courseID string) ([]lesson.Lesson, error) {
	output := make([]lesson.Lesson, 0)

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx, query, courseID)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			l, err := scanLesson(rows)

			if err != nil {
				return err
			}

			output = append(output, l)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// GetWithOwner loads a lesson together with the owner of its parent
// course, so callers can run the transitive ownership check.
func (r *LessonsRepo) GetWithOwner(ctx context.Context, id string) (lesson.Lesson, string, error) {
	var (
		l       lesson.Lesson
		ownerID string
	)

	err := r.observe("lessons.get_with_owner", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT l.id, l.name, l.description, l.cover_image, l.video_url, l.status, l.course_id, l.created_at, c.user_id
			 FROM lessons l
			 JOIN courses c ON c.id = l.course_id
			 WHERE l.id = $1`,
			id,
		).Scan(
			&l.ID,
			&l.Name,
			&l.Description,
			&l.CoverImage,
			&l.VideoURL,
			&l.Status,
			&l.CourseID,
			&l.CreatedAt,
			&ownerID,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lesson.Lesson{}, "", lesson.ErrNotFound
		}

		return lesson.Lesson{}, "", err
	}

	return l, ownerID, nil
}

// UpdateOwned applies a merge patch scoped to lessons whose parent course
// belongs to ownerID; anything else reads as ErrNotFound.
func (r *LessonsRepo) UpdateOwned(ctx context.Context, id, ownerID string, p lesson.Patch) (lesson.Lesson, error) {
	var l lesson.Lesson

	err := r.observe("lessons.update_owned", func() error {
		var err error
		l, err = scanLesson(r.pool.QueryRow(ctx,
			`UPDATE lessons l
			 SET name        = COALESCE($3, name),
			     description = COALESCE($4, description),
			     cover_image = COALESCE($5, cover_image),
			     video_url   = COALESCE($6, video_url),
			     status      = COALESCE($7, status)
			 FROM courses c
			 WHERE l.id = $1 AND c.id = l.course_id AND c.user_id = $2
			 RETURNING l.id, l.name, l.description, l.cover_image, l.video_url, l.status, l.course_id, l.created_at`,
			id, ownerID, p.Name, p.Description, p.CoverImage, p.VideoURL, p.Status))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lesson.Lesson{}, lesson.ErrNotFound
		}

		return lesson.Lesson{}, err
	}

	return l, nil
}

func (r *LessonsRepo) DeleteOwned(ctx context.Context, id, ownerID string) error {
	return r.observe("lessons.delete_owned", func() error {
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM lessons l
			 USING courses c
			 WHERE l.id = $1 AND c.id = l.course_id AND c.user_id = $2`,
			id, ownerID)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return lesson.ErrNotFound
		}

		return nil
	})
}

// PublicCourseExists backs the public lesson listing: a course that is
// missing or unpublished yields the same not-found answer.
func (r *LessonsRepo) PublicCourseExists(ctx context.Context, courseID string) (bool, error) {
	var dummy string

	err := r.observe("lessons.public_course_exists", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id FROM courses WHERE id = $1 AND status = TRUE`, courseID).Scan(&dummy)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
