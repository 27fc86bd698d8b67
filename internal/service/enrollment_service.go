package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/omran-academy/academy-api/internal/models"
	appErrors "github.com/omran-academy/academy-api/pkg/errors"
)

type enrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	List(ctx context.Context, status models.EnrollmentStatus) ([]models.Enrollment, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	FindByEmail(ctx context.Context, email string) ([]models.Enrollment, error)
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error
	CountByStatus(ctx context.Context) (*models.EnrollmentCounts, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// Notifier publishes fire-and-forget operator notifications. Publishing
// must never fail the originating operation.
type Notifier interface {
	Publish(n models.Notification)
}

// Applicant-facing receipts attached to mutation response envelopes. Kept
// here so handlers never duplicate the copy.
var (
	NotificationEnrollmentReceived = models.Notification{
		Title:    "Enrollment Submitted!",
		Body:     "We'll contact you shortly to confirm your enrollment.",
		Severity: models.SeverityNormal,
	}
	NotificationStatusChanged = models.Notification{
		Title:    "Status updated",
		Body:     "The enrollment status has been updated successfully",
		Severity: models.SeverityNormal,
	}
)

// SubmitEnrollmentRequest describes an enrollment form submission.
type SubmitEnrollmentRequest struct {
	StudentName string `json:"student_name" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,min=6"`
	CourseID    string `json:"course_id" validate:"required"`
	Message     string `json:"message"`
}

// UpdateStatusRequest describes a status transition command.
type UpdateStatusRequest struct {
	Status models.EnrollmentStatus `json:"status" validate:"required"`
}

// EnrollmentService orchestrates the enrollment lifecycle.
type EnrollmentService struct {
	repo      enrollmentRepository
	courses   courseReader
	notifier  Notifier
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService. stats may be nil.
func NewEnrollmentService(repo enrollmentRepository, courses courseReader, notifier Notifier, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, notifier: notifier, stats: stats, validator: validate, logger: logger}
}

// Submit validates the draft, snapshots the referenced course and appends a
// pending application. No partial record survives a failed submission.
func (s *EnrollmentService) Submit(ctx context.Context, req SubmitEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	enrollment := &models.Enrollment{
		StudentName: req.StudentName,
		Email:       req.Email,
		Phone:       req.Phone,
		CourseID:    course.ID,
		CourseName:  course.Name,
		CourseLevel: string(course.Level),
		Message:     req.Message,
		Status:      models.EnrollmentStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		s.notify(models.Notification{
			Title:    "Enrollment Failed",
			Body:     fmt.Sprintf("Could not store %s's application for %s", enrollment.StudentName, enrollment.CourseName),
			Severity: models.SeverityDestructive,
		})
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	s.invalidateStats(ctx)
	s.notify(models.Notification{
		Title:    "Enrollment Submitted!",
		Body:     fmt.Sprintf("%s applied for %s", enrollment.StudentName, enrollment.CourseName),
		Severity: models.SeverityNormal,
	})
	s.logger.Info("enrollment submitted", zap.String("enrollment_id", enrollment.ID), zap.String("course_id", enrollment.CourseID))
	return enrollment, nil
}

// List loads applications, applies a stable in-memory sort and paginates.
func (s *EnrollmentService) List(ctx context.Context, query models.EnrollmentQuery) ([]models.Enrollment, *models.Pagination, error) {
	if query.Status != "" && !query.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown enrollment status")
	}
	enrollments, err := s.repo.List(ctx, query.Status)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	sortEnrollments(enrollments, query.SortBy, query.SortOrder)

	total := len(enrollments)
	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return enrollments[start:end], pagination, nil
}

// UpdateStatus replaces the review status. Transitions are unconditional:
// any status may move to any other.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) (*models.Enrollment, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown enrollment status")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment status")
	}
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	s.invalidateStats(ctx)
	s.notify(models.Notification{
		Title:    "Status updated",
		Body:     fmt.Sprintf("Enrollment for %s is now %s", enrollment.StudentName, enrollment.Status),
		Severity: models.SeverityNormal,
	})
	return enrollment, nil
}

// Approve marks an application approved.
func (s *EnrollmentService) Approve(ctx context.Context, id string) (*models.Enrollment, error) {
	return s.UpdateStatus(ctx, id, models.EnrollmentStatusApproved)
}

// Reject marks an application rejected.
func (s *EnrollmentService) Reject(ctx context.Context, id string) (*models.Enrollment, error) {
	return s.UpdateStatus(ctx, id, models.EnrollmentStatusRejected)
}

// FindByEmail returns an applicant's own submissions, newest first.
func (s *EnrollmentService) FindByEmail(ctx context.Context, email string) ([]models.Enrollment, error) {
	if strings.TrimSpace(email) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email is required")
	}
	enrollments, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up enrollments")
	}
	return enrollments, nil
}

// CountByStatus aggregates applications for the dashboard.
func (s *EnrollmentService) CountByStatus(ctx context.Context) (*models.EnrollmentCounts, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}
	return counts, nil
}

func (s *EnrollmentService) notify(n models.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(n)
}

func (s *EnrollmentService) invalidateStats(ctx context.Context) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
}

// sortEnrollments applies a stable sort in place. Unknown keys fall back to
// created_at; unknown directions fall back to desc.
func sortEnrollments(enrollments []models.Enrollment, key, direction string) {
	desc := !strings.EqualFold(direction, "asc")

	var less func(a, b models.Enrollment) bool
	switch key {
	case "student_name":
		less = func(a, b models.Enrollment) bool { return a.StudentName < b.StudentName }
	case "email":
		less = func(a, b models.Enrollment) bool { return a.Email < b.Email }
	case "course_name":
		less = func(a, b models.Enrollment) bool { return a.CourseName < b.CourseName }
	case "status":
		less = func(a, b models.Enrollment) bool { return a.Status < b.Status }
	default:
		less = func(a, b models.Enrollment) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}

	sort.SliceStable(enrollments, func(i, j int) bool {
		if desc {
			return less(enrollments[j], enrollments[i])
		}
		return less(enrollments[i], enrollments[j])
	})
}
