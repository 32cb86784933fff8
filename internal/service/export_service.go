package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliter/classsight-api/internal/models"
	appErrors "github.com/goliter/classsight-api/pkg/errors"
	"github.com/goliter/classsight-api/pkg/export"
)

// ExportFormat selects the output encoding for roster downloads.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

var rosterHeaders = []string{"Student ID", "Name", "Email", "Major", "Class", "Status", "Enrolled At"}

type rosterReader interface {
	Roster(ctx context.Context, courseID string) ([]models.RosterEntry, error)
}

type courseGetter interface {
	Get(ctx context.Context, id string) (*models.CourseDetail, error)
}

// ExportResult carries the rendered document and its HTTP metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders course rosters as downloadable documents.
type ExportService struct {
	enrollments rosterReader
	courses     courseGetter
	maxRows     int
	pdfTitle    string
	logger      *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(enrollments rosterReader, courses courseGetter, maxRows int, pdfTitle string, logger *zap.Logger) *ExportService {
	if maxRows <= 0 {
		maxRows = 5000
	}
	if pdfTitle == "" {
		pdfTitle = "Course Roster"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		enrollments: enrollments,
		courses:     courses,
		maxRows:     maxRows,
		pdfTitle:    pdfTitle,
		logger:      logger,
	}
}

// Roster renders the roster of a course in the requested format.
func (s *ExportService) Roster(ctx context.Context, courseID string, format ExportFormat) (*ExportResult, error) {
	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	roster, err := s.enrollments.Roster(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if len(roster) > s.maxRows {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("roster exceeds export limit of %d rows", s.maxRows))
	}

	table := export.Table{Columns: rosterHeaders, Rows: make([][]string, 0, len(roster))}
	for _, entry := range roster {
		status := ""
		if entry.Status != nil {
			status = *entry.Status
		}
		table.Rows = append(table.Rows, []string{
			entry.StudentID,
			entry.StudentName,
			entry.StudentEmail,
			entry.Major,
			entry.ClassName,
			status,
			entry.EnrolledAt.Format("2006-01-02"),
		})
	}

	base := fmt.Sprintf("roster_%s", sanitizeFilename(course.Code))
	switch format {
	case ExportFormatCSV:
		content, err := export.CSV(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: base + ".csv"}, nil
	case ExportFormatPDF:
		title := fmt.Sprintf("%s %s %s", s.pdfTitle, course.Code, course.Name)
		content, err := export.PDF(table, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: base + ".pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format, use csv or pdf")
	}
}

func sanitizeFilename(raw string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-")
	return strings.ToLower(replacer.Replace(raw))
}
