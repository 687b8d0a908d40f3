package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/peakstart/ledger-api/internal/dto"
	"github.com/peakstart/ledger-api/internal/models"
	appErrors "github.com/peakstart/ledger-api/pkg/errors"
	"github.com/peakstart/ledger-api/pkg/export"
)

// ExportFormat enumerates supported cost export encodings.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

var exportContentTypes = map[ExportFormat]string{
	ExportFormatCSV:  "text/csv",
	ExportFormatPDF:  "application/pdf",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

var costExportHeaders = []string{"ID", "Date", "Site", "Worker", "Activity", "Type", "Category", "Description", "Amount"}

type costLister interface {
	List(ctx context.Context, filter models.CostFilter) ([]dto.CostView, error)
}

type datasetRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered export ready to be served as an attachment.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// ExportService renders filtered cost listings as downloadable files.
type ExportService struct {
	costs     costLister
	renderers map[ExportFormat]datasetRenderer
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with the csv, pdf and xlsx renderers.
func NewExportService(costs costLister, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		costs: costs,
		renderers: map[ExportFormat]datasetRenderer{
			ExportFormatCSV:  export.NewCSVExporter(),
			ExportFormatPDF:  export.NewPDFExporter(),
			ExportFormatXLSX: export.NewXLSXExporter(),
		},
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// ParseExportFormat validates a format name; empty defaults to csv.
func ParseExportFormat(raw string) (ExportFormat, error) {
	format := ExportFormat(strings.ToLower(strings.TrimSpace(raw)))
	if format == "" {
		return ExportFormatCSV, nil
	}
	if _, ok := exportContentTypes[format]; !ok {
		return "", appErrors.Validation(fmt.Sprintf("format must be one of [csv pdf xlsx], got %q", raw), nil)
	}
	return format, nil
}

// ExportCosts renders the costs matching filter.
func (s *ExportService) ExportCosts(ctx context.Context, filter models.CostFilter, format ExportFormat) (*ExportResult, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Validation(fmt.Sprintf("unsupported export format %q", format), nil)
	}

	costs, err := s.costs.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "costs", "list")
	}

	generatedAt := s.now().UTC()
	title := "Cost ledger " + generatedAt.Format(models.DateLayout)
	data, err := renderer.Render(costDataset(costs), title)
	if err != nil {
		s.logger.Error("render cost export failed", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Internal("failed to render export", err)
	}

	s.metrics.RecordExport(string(format))
	s.logger.Info("cost export rendered", zap.String("format", string(format)), zap.Int("rows", len(costs)))
	return &ExportResult{
		Filename:    fmt.Sprintf("costs-%s.%s", generatedAt.Format("20060102-150405"), format),
		ContentType: exportContentTypes[format],
		Data:        data,
		Rows:        len(costs),
	}, nil
}

func costDataset(costs []dto.CostView) export.Dataset {
	rows := make([]map[string]string, 0, len(costs))
	var total float64
	for _, cost := range costs {
		total += cost.Amount
		rows = append(rows, map[string]string{
			"ID":          strconv.FormatInt(cost.ID, 10),
			"Date":        cost.Date.String(),
			"Site":        deref(cost.SiteName),
			"Worker":      deref(cost.WorkerName),
			"Activity":    deref(cost.ActivityName),
			"Type":        cost.CostType,
			"Category":    deref(cost.Category),
			"Description": deref(cost.Description),
			"Amount":      formatAmount(cost.Amount),
		})
	}
	return export.Dataset{
		Headers: costExportHeaders,
		Rows:    rows,
		Footer:  map[string]string{"Description": "Total", "Amount": formatAmount(total)},
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
