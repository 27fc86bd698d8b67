package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/omran-academy/academy-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollment applications.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentColumns = `id, student_name, email, phone, course_id, course_name, course_level, message, status, created_at`

// Create persists a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = time.Now().UTC()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusPending
	}
	const query = `INSERT INTO enrollments (id, student_name, email, phone, course_id, course_name, course_level, message, status, created_at)
        VALUES (:id, :student_name, :email, :phone, :course_id, :course_name, :course_level, :message, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// List returns enrollments, optionally filtered by status. Ordering is
// storage order; callers apply their own sort.
func (r *EnrollmentRepository) List(ctx context.Context, status models.EnrollmentStatus) ([]models.Enrollment, error) {
	enrollments := []models.Enrollment{}
	if status != "" {
		query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE status = $1`, enrollmentColumns)
		if err := r.db.SelectContext(ctx, &enrollments, query, status); err != nil {
			return nil, fmt.Errorf("list enrollments: %w", err)
		}
		return enrollments, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM enrollments`, enrollmentColumns)
	if err := r.db.SelectContext(ctx, &enrollments, query); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE id = $1`, enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindByEmail returns an applicant's submissions, newest first. Matching is
// case-insensitive.
func (r *EnrollmentRepository) FindByEmail(ctx context.Context, email string) ([]models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE LOWER(email) = LOWER($1) ORDER BY created_at DESC`, enrollmentColumns)
	enrollments := []models.Enrollment{}
	if err := r.db.SelectContext(ctx, &enrollments, query, email); err != nil {
		return nil, fmt.Errorf("find enrollments by email: %w", err)
	}
	return enrollments, nil
}

// UpdateStatus replaces the status field only.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error {
	const query = `UPDATE enrollments SET status = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByStatus aggregates applications per review state.
func (r *EnrollmentRepository) CountByStatus(ctx context.Context) (*models.EnrollmentCounts, error) {
	const query = `SELECT
        COUNT(*) AS total,
        COUNT(*) FILTER (WHERE status = 'pending') AS pending,
        COUNT(*) FILTER (WHERE status = 'approved') AS approved,
        COUNT(*) FILTER (WHERE status = 'rejected') AS rejected
        FROM enrollments`
	var counts models.EnrollmentCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	return &counts, nil
}
