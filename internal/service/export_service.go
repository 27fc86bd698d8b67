package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/omran-academy/academy-api/internal/models"
	appErrors "github.com/omran-academy/academy-api/pkg/errors"
	"github.com/omran-academy/academy-api/pkg/export"
)

type enrollmentLister interface {
	List(ctx context.Context, status models.EnrollmentStatus) ([]models.Enrollment, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// ExportResult holds a rendered download.
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders the enrollment table for admin downloads.
type ExportService struct {
	enrollments enrollmentLister
	csv         tableRenderer
	pdf         tableRenderer
	logger      *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(enrollments enrollmentLister, csv, pdf tableRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{enrollments: enrollments, csv: csv, pdf: pdf, logger: logger}
}

// Enrollments renders the current applications, newest first, in the
// requested format (csv or pdf).
func (s *ExportService) Enrollments(ctx context.Context, format string) (*ExportResult, error) {
	var renderer tableRenderer
	var contentType string
	switch strings.ToLower(format) {
	case "csv", "":
		renderer = s.csv
		contentType = "text/csv"
		format = "csv"
	case "pdf":
		renderer = s.pdf
		contentType = "application/pdf"
		format = "pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	enrollments, err := s.enrollments.List(ctx, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	sortEnrollments(enrollments, "created_at", "desc")

	table := export.Table{
		Title:   "Enrollments",
		Columns: []string{"Student", "Email", "Phone", "Course", "Level", "Status", "Submitted"},
		Rows:    make([][]string, 0, len(enrollments)),
	}
	for _, e := range enrollments {
		table.Rows = append(table.Rows, []string{
			e.StudentName,
			e.Email,
			e.Phone,
			e.CourseName,
			e.CourseLevel,
			string(e.Status),
			e.CreatedAt.Format(time.RFC3339),
		})
	}

	content, err := renderer.Render(table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("enrollments exported", zap.String("format", format), zap.Int("rows", len(table.Rows)))
	return &ExportResult{
		FileName:    fmt.Sprintf("enrollments-%s.%s", time.Now().UTC().Format("20060102"), format),
		ContentType: contentType,
		Content:     content,
	}, nil
}
