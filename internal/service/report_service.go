package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/maarif-dev/school-ops-api/internal/models"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
	"github.com/maarif-dev/school-ops-api/pkg/export"
)

type daySheetProvider interface {
	DaySheet(ctx context.Context, slotID string, date time.Time) ([]models.DaySheetRow, error)
}

type completionChecker interface {
	SlotCompletion(ctx context.Context, slotID string, date time.Time) (*models.SlotCompletion, error)
}

// ReportService renders a session's day sheet as a downloadable document.
// Generation is gated on full roster coverage for the date: a sheet with
// unrecorded students cannot be sent out.
type ReportService struct {
	sheets     daySheetProvider
	completion completionChecker
	slots      slotReader
	archive    *ReportArchive
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	enabled    bool
	schoolName string
	logger     *zap.Logger
}

// NewReportService constructs the report service. archive may be nil, in
// which case documents are returned inline only.
func NewReportService(sheets daySheetProvider, completion completionChecker, slots slotReader, archive *ReportArchive, enabled bool, schoolName string, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		sheets:     sheets,
		completion: completion,
		slots:      slots,
		archive:    archive,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		enabled:    enabled,
		schoolName: schoolName,
		logger:     logger,
	}
}

// SendBulkReport renders the day sheet for one slot and date. format is
// "csv" or "pdf". Returns the rendered bytes and a receipt describing what
// was generated.
func (s *ReportService) SendBulkReport(ctx context.Context, slotID string, date time.Time, format string) ([]byte, *models.BulkReportReceipt, error) {
	if !s.enabled {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "report generation is disabled")
	}
	if format != "csv" && format != "pdf" {
		return nil, nil, appErrors.Clone(appErrors.ErrInvalidArgument, "format must be csv or pdf")
	}

	completion, err := s.completion.SlotCompletion(ctx, slotID, date)
	if err != nil {
		return nil, nil, err
	}
	if !completion.Complete {
		msg := fmt.Sprintf("attendance incomplete: %d of %d students recorded", completion.Recorded, completion.Roster)
		return nil, nil, appErrors.Clone(appErrors.ErrPreconditionFailed, msg)
	}

	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}

	rows, err := s.sheets.DaySheet(ctx, slotID, date)
	if err != nil {
		return nil, nil, err
	}

	sheet := buildReportSheet(rows)

	var rendered []byte
	switch format {
	case "csv":
		rendered, err = s.csv.Render(sheet)
	case "pdf":
		title := fmt.Sprintf("%s - Daily Attendance Report", s.schoolName)
		subtitle := fmt.Sprintf("%s, %s, period %d (%s)", slot.Subject, slot.ClassRoom, slot.Period, date.Format("2006-01-02"))
		rendered, err = s.pdf.Render(sheet, title, subtitle)
	}
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	receipt := &models.BulkReportReceipt{
		SlotID:      slotID,
		Date:        date,
		Format:      format,
		Students:    len(rows),
		GeneratedAt: time.Now(),
	}

	if s.archive != nil {
		if err := s.archive.Archive(receipt, rendered); err != nil {
			s.logger.Warn("report archiving failed", zap.Error(err))
		}
	}

	s.logger.Info("bulk report generated",
		zap.String("slot_id", slotID),
		zap.String("date", date.Format("2006-01-02")),
		zap.String("format", format),
		zap.Int("students", receipt.Students),
	)
	return rendered, receipt, nil
}

// Download serves a previously archived document by its signed token.
func (s *ReportService) Download(token string) ([]byte, string, error) {
	if s.archive == nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report downloads are not enabled")
	}
	return s.archive.OpenDownload(token)
}

func buildReportSheet(rows []models.DaySheetRow) export.Sheet {
	sheet := export.Sheet{
		Headers: []string{"Student ID", "Student Name", "Attendance", "Participation", "Homework", "Behavior", "Notes"},
	}
	for _, row := range rows {
		rec := row.Record
		sheet.Rows = append(sheet.Rows, []string{
			row.StudentID,
			row.StudentName,
			string(rec.Attendance),
			string(rec.Participation),
			string(rec.Homework),
			string(rec.Behavior),
			rec.Notes,
		})
	}
	return sheet
}
