package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDownloadSignerRoundTrip(t *testing.T) {
	signer := NewDownloadSigner("secret", time.Hour)
	token, expiresAt, err := signer.Sign("job-1", "2026-03-15/sl-1.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	jobID, path, parsedExpiry, err := signer.Verify(token, false)
	require.NoError(t, err)
	require.Equal(t, "job-1", jobID)
	require.Equal(t, "2026-03-15/sl-1.csv", path)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestDownloadSignerExpired(t *testing.T) {
	signer := NewDownloadSigner("secret", time.Nanosecond)
	token, _, err := signer.Sign("job-1", "2026-03-15/sl-1.csv")
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 10)

	_, _, _, err = signer.Verify(token, false)
	require.Error(t, err)

	jobID, path, _, err := signer.Verify(token, true)
	require.NoError(t, err)
	require.Equal(t, "job-1", jobID)
	require.Equal(t, "2026-03-15/sl-1.csv", path)
}

func TestDownloadSignerRejectsTampering(t *testing.T) {
	signer := NewDownloadSigner("secret", time.Hour)
	token, _, err := signer.Sign("job-1", "2026-03-15/sl-1.csv")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "job-2"
	_, _, _, err = signer.Verify(strings.Join(parts, "."), false)
	require.Error(t, err)

	_, _, _, err = NewDownloadSigner("other", time.Hour).Verify(token, false)
	require.Error(t, err)
}

func TestArchiveSaveOpenSweep(t *testing.T) {
	archive, err := NewArchive(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, archive.Save("2026-03-15/sl-1.csv", []byte("header\n")))

	file, err := archive.Open("2026-03-15/sl-1.csv")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	_, err = archive.Open("../outside.csv")
	require.Error(t, err)

	removed, err := archive.Sweep(-time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = archive.Open("2026-03-15/sl-1.csv")
	require.Error(t, err)
}
