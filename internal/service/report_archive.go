package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maarif-dev/school-ops-api/internal/models"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
	"github.com/maarif-dev/school-ops-api/pkg/jobs"
	"github.com/maarif-dev/school-ops-api/pkg/storage"
)

type archivePayload struct {
	RelPath string
	Data    []byte
}

// ReportArchive persists generated report documents on disk and hands out
// signed download tokens. Writes go through a worker queue so report
// requests are not blocked on disk IO. Documents older than the retention
// window are swept on startup; their tokens have expired by then anyway.
type ReportArchive struct {
	store     *storage.Archive
	signer    *storage.DownloadSigner
	queue     *jobs.Queue
	retention time.Duration
	logger    *zap.Logger
}

// NewReportArchive constructs the archive. Call Start before archiving and
// Stop on shutdown.
func NewReportArchive(store *storage.Archive, signer *storage.DownloadSigner, cfg jobs.QueueConfig, retention time.Duration, logger *zap.Logger) *ReportArchive {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &ReportArchive{store: store, signer: signer, retention: retention, logger: logger}
	a.queue = jobs.NewQueue("report_archive", a.handle, cfg)
	return a
}

// Start spins up the archive workers and sweeps out expired documents.
func (a *ReportArchive) Start(ctx context.Context) {
	a.queue.Start(ctx)
	if a.retention > 0 {
		go a.sweep()
	}
}

// Stop drains the archive workers.
func (a *ReportArchive) Stop() {
	a.queue.Stop()
}

// Archive queues the document for storage and stamps the receipt with the
// storage path and a signed download token.
func (a *ReportArchive) Archive(receipt *models.BulkReportReceipt, data []byte) error {
	relPath := fmt.Sprintf("%s/%s.%s", receipt.Date.Format("2006-01-02"), receipt.SlotID, receipt.Format)
	jobID := uuid.NewString()

	if err := a.queue.Enqueue(jobs.Job{
		ID:      jobID,
		Type:    "archive_report",
		Payload: archivePayload{RelPath: relPath, Data: data},
	}); err != nil {
		return fmt.Errorf("enqueue report archive: %w", err)
	}

	token, expiresAt, err := a.signer.Sign(jobID, relPath)
	if err != nil {
		return fmt.Errorf("sign report download: %w", err)
	}

	receipt.StoragePath = relPath
	receipt.DownloadToken = token
	receipt.DownloadExpiresAt = &expiresAt
	return nil
}

// OpenDownload validates a token and returns the archived document bytes
// with its storage path.
func (a *ReportArchive) OpenDownload(token string) ([]byte, string, error) {
	_, relPath, _, err := a.signer.Verify(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download token")
	}

	file, err := a.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "report document not found")
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read report document")
	}
	return data, relPath, nil
}

func (a *ReportArchive) handle(_ context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(archivePayload)
	if !ok {
		a.logger.Error("unexpected archive payload", zap.String("job_id", job.ID))
		return nil
	}
	if err := a.store.Save(payload.RelPath, payload.Data); err != nil {
		return err
	}
	a.logger.Info("report archived", zap.String("path", payload.RelPath))
	return nil
}

func (a *ReportArchive) sweep() {
	removed, err := a.store.Sweep(a.retention)
	if err != nil {
		a.logger.Warn("archive sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		a.logger.Info("expired reports removed", zap.Int("count", removed))
	}
}
