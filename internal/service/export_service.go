package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/attendance-register/internal/models"
	appErrors "github.com/noah-isme/attendance-register/pkg/errors"
	"github.com/noah-isme/attendance-register/pkg/export"
	"github.com/noah-isme/attendance-register/pkg/storage"
)

const exportTitle = "Attendance Register"

var exportHeaders = []string{"Roll Number", "Name", "Class", "Date", "Status", "Remarks"}

type attendanceTableSource interface {
	AttendanceTable(filter models.AttendanceFilter) models.AttendanceTable
	Today() string
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) string
}

// ExportResult is a rendered attendance export.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
	RowCount    int
}

// ExportService renders the filtered attendance table into documents.
type ExportService struct {
	source  attendanceTableSource
	storage fileStorage
	logger  *zap.Logger
}

// NewExportService constructs an ExportService. files may be nil when
// exports are only streamed back to the caller.
func NewExportService(source attendanceTableSource, files fileStorage, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{source: source, storage: files, logger: logger}
}

// Export renders the records matching filter in the requested format.
func (s *ExportService) Export(ctx context.Context, filter models.AttendanceFilter, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = export.FormatCSV
	}
	renderer, err := export.NewRenderer(format)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := s.source.AttendanceTable(filter)
	dataset := export.Dataset{
		Title:   exportTitle,
		Headers: exportHeaders,
		Rows:    make([]map[string]string, 0, len(table.Rows)),
	}
	for _, row := range table.Rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Roll Number": row.RollNumber,
			"Name":        row.StudentName,
			"Class":       row.Class,
			"Date":        row.Date,
			"Status":      string(row.Status),
			"Remarks":     row.Remarks,
		})
	}

	payload, err := renderer.Render(dataset)
	if err != nil {
		s.logger.Error("render attendance export failed", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	result := &ExportResult{
		Filename:    fmt.Sprintf("attendance-%s.%s", s.source.Today(), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
		RowCount:    len(table.Rows),
	}
	s.logger.Info("attendance export rendered",
		zap.String("format", format),
		zap.Int("rows", result.RowCount),
		zap.Int("bytes", len(payload)),
	)
	return result, nil
}

// Save renders an export and writes it into the configured storage,
// returning the absolute path of the written file.
func (s *ExportService) Save(ctx context.Context, filter models.AttendanceFilter, format string) (string, *ExportResult, error) {
	if s.storage == nil {
		return "", nil, storage.ErrNotConfigured
	}
	result, err := s.Export(ctx, filter, format)
	if err != nil {
		return "", nil, err
	}
	rel, err := s.storage.Save(result.Filename, result.Payload)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	return s.storage.Path(rel), result, nil
}
