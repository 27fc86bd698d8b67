package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omran-academy/academy-api/internal/models"
	appErrors "github.com/omran-academy/academy-api/pkg/errors"
)

type mockCourseRepo struct {
	courses []models.Course
}

func (m *mockCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	out := make([]models.Course, len(m.courses))
	copy(out, m.courses)
	return out, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	for i := range m.courses {
		if m.courses[i].ID == id {
			c := m.courses[i]
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = "new-course"
	}
	course.CreatedAt = time.Now().UTC()
	course.UpdatedAt = course.CreatedAt
	m.courses = append(m.courses, *course)
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	for i := range m.courses {
		if m.courses[i].ID == course.ID {
			m.courses[i] = *course
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	for i := range m.courses {
		if m.courses[i].ID == id {
			m.courses = append(m.courses[:i], m.courses[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockCourseRepo) Count(ctx context.Context) (int, error) {
	return len(m.courses), nil
}

func validDraft() CourseDraft {
	return CourseDraft{
		Name:        "English Basics",
		Description: "Intro course for absolute beginners",
		Price:       99,
		Duration:    "8 weeks",
		Level:       "Beginner",
		Instructor:  "Sara Haddad",
	}
}

func TestCatalogServiceCreate(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := NewCatalogService(repo, nil, nil, nil)

	course, err := svc.Create(context.Background(), validDraft())
	require.NoError(t, err)
	assert.NotEmpty(t, course.ID)
	assert.Equal(t, models.CourseLevelBeginner, course.Level)
	assert.Len(t, repo.courses, 1)
}

func TestCatalogServiceCreateValidation(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := NewCatalogService(repo, nil, nil, nil)

	cases := []func(d *CourseDraft){
		func(d *CourseDraft) { d.Name = "ab" },
		func(d *CourseDraft) { d.Description = "too short" },
		func(d *CourseDraft) { d.Price = 0 },
		func(d *CourseDraft) { d.Price = -5 },
		func(d *CourseDraft) { d.Duration = "" },
		func(d *CourseDraft) { d.Level = "Expert" },
		func(d *CourseDraft) { d.Instructor = "" },
	}
	for _, mutate := range cases {
		draft := validDraft()
		mutate(&draft)
		_, err := svc.Create(context.Background(), draft)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
	assert.Empty(t, repo.courses, "invalid drafts must not be persisted")
}

func TestCatalogServiceMutationsInvalidateStats(t *testing.T) {
	repo := &mockCourseRepo{}
	stats := &mockStatsInvalidator{}
	svc := NewCatalogService(repo, stats, nil, nil)

	course, err := svc.Create(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.calls)

	require.NoError(t, svc.Delete(context.Background(), course.ID))
	assert.Equal(t, 2, stats.calls)
}

func TestCatalogServiceUpdate(t *testing.T) {
	repo := &mockCourseRepo{courses: []models.Course{{
		ID: "c-1", Name: "English Basics", Description: "Intro course for absolute beginners",
		Price: 99, Duration: "8 weeks", Level: models.CourseLevelBeginner, Instructor: "Sara Haddad",
	}}}
	svc := NewCatalogService(repo, nil, nil, nil)

	draft := validDraft()
	draft.Price = 149
	draft.Level = "Intermediate"

	course, err := svc.Update(context.Background(), "c-1", draft)
	require.NoError(t, err)
	assert.Equal(t, float64(149), course.Price)
	assert.Equal(t, models.CourseLevelIntermediate, course.Level)
	assert.Equal(t, float64(149), repo.courses[0].Price)
}

func TestCatalogServiceUpdateMissing(t *testing.T) {
	svc := NewCatalogService(&mockCourseRepo{}, nil, nil, nil)

	_, err := svc.Update(context.Background(), "nope", validDraft())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceDelete(t *testing.T) {
	repo := &mockCourseRepo{courses: []models.Course{{ID: "c-1"}}}
	svc := NewCatalogService(repo, nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "c-1"))
	assert.Empty(t, repo.courses)

	err := svc.Delete(context.Background(), "c-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
