package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omran-academy/academy-api/internal/models"
	appErrors "github.com/omran-academy/academy-api/pkg/errors"
	"github.com/omran-academy/academy-api/pkg/export"
)

func TestExportServiceEnrollmentsCSV(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := &mockEnrollmentRepo{enrollments: []models.Enrollment{
		{ID: "e-1", StudentName: "Ann", Email: "ann@example.com", Phone: "5551234", CourseName: "English Basics", CourseLevel: "Beginner", Status: models.EnrollmentStatusPending, CreatedAt: t1},
		{ID: "e-2", StudentName: "Bob", Email: "bob@example.com", Phone: "5555678", CourseName: "French Advanced", CourseLevel: "Advanced", Status: models.EnrollmentStatusApproved, CreatedAt: t1.Add(time.Hour)},
	}}
	svc := NewExportService(repo, export.NewCSVExporter(), export.NewPDFExporter(), nil)

	result, err := svc.Enrollments(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasSuffix(result.FileName, ".csv"))

	body := string(result.Content)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3, "header plus two rows")
	assert.Contains(t, lines[0], "Student")
	// Newest first.
	assert.Contains(t, lines[1], "Bob")
	assert.Contains(t, lines[2], "Ann")
}

func TestExportServiceEnrollmentsPDF(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: []models.Enrollment{
		{ID: "e-1", StudentName: "Ann", Email: "ann@example.com", Phone: "5551234", CourseName: "English Basics", CourseLevel: "Beginner", Status: models.EnrollmentStatusPending, CreatedAt: time.Now()},
	}}
	svc := NewExportService(repo, export.NewCSVExporter(), export.NewPDFExporter(), nil)

	result, err := svc.Enrollments(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasSuffix(result.FileName, ".pdf"))
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportServiceDefaultsToCSV(t *testing.T) {
	svc := NewExportService(&mockEnrollmentRepo{}, export.NewCSVExporter(), export.NewPDFExporter(), nil)

	result, err := svc.Enrollments(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&mockEnrollmentRepo{}, export.NewCSVExporter(), export.NewPDFExporter(), nil)

	_, err := svc.Enrollments(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
