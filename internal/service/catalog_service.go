package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/omran-academy/academy-api/internal/models"
	appErrors "github.com/omran-academy/academy-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type statsInvalidator interface {
	Invalidate(ctx context.Context)
}

// CourseDraft describes a course create/update payload.
type CourseDraft struct {
	Name        string  `json:"name" validate:"required,min=3"`
	Description string  `json:"description" validate:"required,min=10"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Duration    string  `json:"duration" validate:"required"`
	Level       string  `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
	Instructor  string  `json:"instructor" validate:"required,min=3"`
}

// CatalogService manages the course catalog.
type CatalogService struct {
	repo      courseRepository
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs CatalogService. stats may be nil.
func NewCatalogService(repo courseRepository, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, stats: stats, validator: validate, logger: logger}
}

// List returns the catalog ordered by name ascending.
func (s *CatalogService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Create validates the draft and appends a new course.
func (s *CatalogService) Create(ctx context.Context, draft CourseDraft) (*models.Course, error) {
	if err := s.validator.Struct(draft); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := &models.Course{
		Name:        draft.Name,
		Description: draft.Description,
		Price:       draft.Price,
		Duration:    draft.Duration,
		Level:       models.CourseLevel(draft.Level),
		Instructor:  draft.Instructor,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.invalidateStats(ctx)
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("name", course.Name))
	return course, nil
}

// Update replaces the mutable fields of an existing course.
func (s *CatalogService) Update(ctx context.Context, id string, draft CourseDraft) (*models.Course, error) {
	if err := s.validator.Struct(draft); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	course.Name = draft.Name
	course.Description = draft.Description
	course.Price = draft.Price
	course.Duration = draft.Duration
	course.Level = models.CourseLevel(draft.Level)
	course.Instructor = draft.Instructor
	if err := s.repo.Update(ctx, course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// Delete removes a course. Enrollments referencing it are left untouched.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.invalidateStats(ctx)
	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}

func (s *CatalogService) invalidateStats(ctx context.Context) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
}

// Count returns the catalog size for the dashboard.
func (s *CatalogService) Count(ctx context.Context) (int, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count courses")
	}
	return total, nil
}
