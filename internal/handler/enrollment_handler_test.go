package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omran-academy/academy-api/internal/models"
	"github.com/omran-academy/academy-api/internal/service"
	"github.com/omran-academy/academy-api/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubEnrollmentRepo struct {
	enrollments []models.Enrollment
}

func (s *stubEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = "e-new"
	}
	s.enrollments = append(s.enrollments, *enrollment)
	return nil
}

func (s *stubEnrollmentRepo) List(ctx context.Context, status models.EnrollmentStatus) ([]models.Enrollment, error) {
	if status == "" {
		return append([]models.Enrollment(nil), s.enrollments...), nil
	}
	var out []models.Enrollment
	for _, e := range s.enrollments {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	for i := range s.enrollments {
		if s.enrollments[i].ID == id {
			e := s.enrollments[i]
			return &e, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubEnrollmentRepo) FindByEmail(ctx context.Context, email string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range s.enrollments {
		if e.Email == email {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubEnrollmentRepo) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error {
	for i := range s.enrollments {
		if s.enrollments[i].ID == id {
			s.enrollments[i].Status = status
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *stubEnrollmentRepo) CountByStatus(ctx context.Context) (*models.EnrollmentCounts, error) {
	return &models.EnrollmentCounts{Total: len(s.enrollments)}, nil
}

type stubCourseReader struct {
	course *models.Course
}

func (s *stubCourseReader) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if s.course != nil && s.course.ID == id {
		return s.course, nil
	}
	return nil, sql.ErrNoRows
}

func newEnrollmentRouter(repo *stubEnrollmentRepo) *gin.Engine {
	courses := &stubCourseReader{course: &models.Course{ID: "c-1", Name: "English Basics", Level: models.CourseLevelBeginner}}
	svc := service.NewEnrollmentService(repo, courses, nil, nil, nil, nil)
	h := NewEnrollmentHandler(svc)

	r := gin.New()
	r.POST("/enrollments", h.Create)
	r.GET("/enrollments/lookup", h.Lookup)
	r.GET("/admin/enrollments", h.List)
	r.PATCH("/admin/enrollments/:id/status", h.UpdateStatus)
	r.POST("/admin/enrollments/:id/approve", h.Approve)
	r.POST("/admin/enrollments/:id/reject", h.Reject)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newAuthedRequest(t *testing.T, method, path, token string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestEnrollmentHandlerCreate(t *testing.T) {
	repo := &stubEnrollmentRepo{}
	r := newEnrollmentRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/enrollments", map[string]string{
		"student_name": "Ann",
		"email":        "ann@example.com",
		"phone":        "5551234",
		"course_id":    "c-1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Data)
	require.NotNil(t, envelope.Meta)
	notification, ok := envelope.Meta["notification"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, service.NotificationEnrollmentReceived.Title, notification["title"])
	assert.Equal(t, service.NotificationEnrollmentReceived.Body, notification["body"])
	assert.Len(t, repo.enrollments, 1)
	assert.Equal(t, models.EnrollmentStatusPending, repo.enrollments[0].Status)
}

func TestEnrollmentHandlerCreateValidation(t *testing.T) {
	repo := &stubEnrollmentRepo{}
	r := newEnrollmentRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/enrollments", map[string]string{
		"student_name": "Ann",
		"email":        "not-an-email",
		"phone":        "5551234",
		"course_id":    "c-1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
	assert.Empty(t, repo.enrollments)
}

func TestEnrollmentHandlerLookup(t *testing.T) {
	repo := &stubEnrollmentRepo{enrollments: []models.Enrollment{
		{ID: "e-1", Email: "ann@example.com", Status: models.EnrollmentStatusPending},
	}}
	r := newEnrollmentRouter(repo)

	w := doJSON(t, r, http.MethodGet, "/enrollments/lookup?email=ann@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/enrollments/lookup", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentHandlerList(t *testing.T) {
	now := time.Now().UTC()
	repo := &stubEnrollmentRepo{enrollments: []models.Enrollment{
		{ID: "e-1", StudentName: "Ann", Status: models.EnrollmentStatusPending, CreatedAt: now},
		{ID: "e-2", StudentName: "Bob", Status: models.EnrollmentStatusApproved, CreatedAt: now.Add(time.Minute)},
	}}
	r := newEnrollmentRouter(repo)

	w := doJSON(t, r, http.MethodGet, "/admin/enrollments?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
}

func TestEnrollmentHandlerUpdateStatus(t *testing.T) {
	repo := &stubEnrollmentRepo{enrollments: []models.Enrollment{
		{ID: "e-1", StudentName: "Ann", Status: models.EnrollmentStatusPending},
	}}
	r := newEnrollmentRouter(repo)

	w := doJSON(t, r, http.MethodPatch, "/admin/enrollments/e-1/status", map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.EnrollmentStatusApproved, repo.enrollments[0].Status)

	envelope := decodeEnvelope(t, w)
	assert.Contains(t, envelope.Meta, "notification")
}

func TestEnrollmentHandlerApproveMissing(t *testing.T) {
	r := newEnrollmentRouter(&stubEnrollmentRepo{})

	w := doJSON(t, r, http.MethodPost, "/admin/enrollments/nope/approve", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestEnrollmentHandlerReject(t *testing.T) {
	repo := &stubEnrollmentRepo{enrollments: []models.Enrollment{
		{ID: "e-1", Status: models.EnrollmentStatusApproved},
	}}
	r := newEnrollmentRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/admin/enrollments/e-1/reject", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.EnrollmentStatusRejected, repo.enrollments[0].Status)
}
