package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maarif-dev/school-ops-api/internal/models"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
	"github.com/maarif-dev/school-ops-api/pkg/jobs"
	"github.com/maarif-dev/school-ops-api/pkg/storage"
)

func newArchiveFixture(t *testing.T) *ReportArchive {
	t.Helper()
	store, err := storage.NewArchive(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewDownloadSigner("test-secret", time.Hour)
	archive := NewReportArchive(store, signer, jobs.QueueConfig{Workers: 1}, 0, nil)
	archive.Start(context.Background())
	t.Cleanup(archive.Stop)
	return archive
}

func TestReportArchiveRoundTrip(t *testing.T) {
	archive := newArchiveFixture(t)

	receipt := &models.BulkReportReceipt{
		SlotID: "sl-1",
		Date:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Format: "csv",
	}
	require.NoError(t, archive.Archive(receipt, []byte("header\nrow\n")))
	assert.Equal(t, "2026-03-15/sl-1.csv", receipt.StoragePath)
	require.NotEmpty(t, receipt.DownloadToken)
	require.NotNil(t, receipt.DownloadExpiresAt)

	// The write is queued; wait for the worker to land it.
	require.Eventually(t, func() bool {
		data, _, err := archive.OpenDownload(receipt.DownloadToken)
		return err == nil && string(data) == "header\nrow\n"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestReportArchiveRejectsBadToken(t *testing.T) {
	archive := newArchiveFixture(t)

	_, _, err := archive.OpenDownload("not.a.valid.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
