package reports

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Service builds attendance reports and serialises them for export.
type Service struct {
	repo   RepositoryPort
	pdf    *PDFExporter
	logger *slog.Logger
	group  singleflight.Group

	// now is swapped in tests to pin range windows.
	now func() time.Time
}

// NewService constructs the report service. The PDF exporter may be nil
// when no Gotenberg endpoint is configured; PDF exports then fail with an
// explicit error while CSV keeps working.
func NewService(repo RepositoryPort, pdf *PDFExporter, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		pdf:    pdf,
		logger: logger,
		now:    time.Now,
	}
}

// Build fetches records for the window and aggregates them for the tab.
// Identical concurrent builds collapse onto one repository query.
func (s *Service) Build(ctx context.Context, tab Tab, rng Range, lecturerID string) (Report, error) {
	key := fmt.Sprintf("%s|%s|%s", tab, rng, lecturerID)
	ch := s.group.DoChan(key, func() (any, error) {
		from, to := rng.Window(s.now())
		rows, err := s.repo.FetchRecords(ctx, from, to, lecturerID)
		if err != nil {
			return Report{}, fmt.Errorf("fetch attendance rows: %w", err)
		}
		report := Aggregate(tab, rng, rows)
		report.From = from
		report.To = to
		return report, nil
	})
	select {
	case <-ctx.Done():
		return Report{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Report{}, res.Err
		}
		return res.Val.(Report), nil
	}
}

// RenderPDF serialises a report to PDF bytes.
func (s *Service) RenderPDF(ctx context.Context, report Report) ([]byte, error) {
	if s.pdf == nil {
		return nil, fmt.Errorf("pdf export not configured")
	}
	return s.pdf.Render(ctx, report)
}

// Filename derives the attachment filename, resolving the lecturer's name
// when the export is lecturer-scoped. A lookup failure degrades to the
// unscoped filename.
func (s *Service) Filename(ctx context.Context, tab Tab, rng Range, format, lecturerID string) string {
	var first, last string
	if lecturerID != "" {
		var err error
		first, last, err = s.repo.LecturerName(ctx, lecturerID)
		if err != nil {
			s.logger.Warn("report filename lecturer lookup failed",
				slog.Any("error", err),
				slog.String("lecturer_id", lecturerID))
			first, last = "", ""
		}
	}
	return ExportFilename(tab, rng, format, first, last)
}
