package fetcher

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinLens/internal/model"
)

// memStore is an in-memory ObjectStore.
type memStore struct {
	objects map[string][]byte
	keys    []string
	listErr error
	failKey string
	gets    []string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) put(key string, data []byte) {
	m.objects[key] = data
	m.keys = append(m.keys, key)
}

func (m *memStore) Name() string { return "mem" }

func (m *memStore) ListKeys(_ context.Context, _ string) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.keys, nil
}

func (m *memStore) Download(_ context.Context, bucket, key string, w io.WriterAt) (int64, error) {
	m.gets = append(m.gets, key)
	if key == m.failKey {
		return 0, fmt.Errorf("get %s/%s: access denied", bucket, key)
	}
	data, ok := m.objects[key]
	if !ok {
		return 0, fmt.Errorf("no such key %s", key)
	}
	n, err := w.WriteAt(data, 0)
	return int64(n), err
}

func zipOf(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFetch_DownloadsAndExtracts(t *testing.T) {
	store := newMemStore()
	store.put("2024/statements-a.zip", zipOf(t, map[string]string{"MNZIRS0108.csv": "id,scale\n"}))
	store.put("folder/", nil)
	store.put("statements-b.zip", zipOf(t, map[string]string{"nested/Y1HZ7B0146.csv": "id,scale\n"}))

	dest := filepath.Join(t.TempDir(), "downloads")
	res, err := NewFetcher(store).Fetch(context.Background(), "bucket", dest)
	require.NoError(t, err)

	assert.False(t, res.Empty)
	assert.Equal(t, []string{"2024/statements-a.zip", "statements-b.zip"}, store.gets)
	assert.Equal(t, []string{
		filepath.Join(dest, "statements-a.zip"),
		filepath.Join(dest, "statements-b.zip"),
	}, res.Downloaded)
	assert.Len(t, res.Extracted, 2)
	assert.FileExists(t, filepath.Join(dest, "MNZIRS0108.csv"))
	assert.FileExists(t, filepath.Join(dest, "nested", "Y1HZ7B0146.csv"))
}

func TestFetch_OverwritesExistingFiles(t *testing.T) {
	dest := t.TempDir()
	target := filepath.Join(dest, "a.csv")
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0644))

	store := newMemStore()
	store.put("a.zip", zipOf(t, map[string]string{"a.csv": "fresh"}))

	_, err := NewFetcher(store).Fetch(context.Background(), "bucket", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

func TestFetch_EmptyBucket(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "new")
	res, err := NewFetcher(newMemStore()).Fetch(context.Background(), "empty", dest)
	require.NoError(t, err)

	assert.True(t, res.Empty)
	assert.DirExists(t, dest)
	assert.Empty(t, res.Downloaded)
}

func TestFetch_ListFailure(t *testing.T) {
	store := newMemStore()
	store.listErr = errors.New("bucket does not exist")

	_, err := NewFetcher(store).Fetch(context.Background(), "bucket", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrRemoteAccess)
}

func TestFetch_DownloadFailureAbortsRemaining(t *testing.T) {
	store := newMemStore()
	store.put("a.zip", zipOf(t, map[string]string{"a.csv": "id\n"}))
	store.put("b.zip", zipOf(t, map[string]string{"b.csv": "id\n"}))
	store.put("c.zip", zipOf(t, map[string]string{"c.csv": "id\n"}))
	store.failKey = "b.zip"

	dest := t.TempDir()
	res, err := NewFetcher(store).Fetch(context.Background(), "bucket", dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrRemoteAccess)

	assert.Equal(t, []string{"a.zip", "b.zip"}, store.gets)
	assert.Len(t, res.Downloaded, 1)
	assert.FileExists(t, filepath.Join(dest, "a.csv"))
	assert.NoFileExists(t, filepath.Join(dest, "c.csv"))
}

func TestFetch_MalformedArchive(t *testing.T) {
	store := newMemStore()
	store.put("broken.zip", []byte("this is not a zip file"))
	store.put("b.zip", zipOf(t, map[string]string{"b.csv": "id\n"}))

	res, err := NewFetcher(store).Fetch(context.Background(), "bucket", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrArchiveExtraction)
	assert.Equal(t, []string{"broken.zip"}, store.gets)
	assert.Len(t, res.Downloaded, 1)
}

func TestFetch_RejectsEscapingEntries(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "work")

	store := newMemStore()
	store.put("evil.zip", zipOf(t, map[string]string{"../outside.csv": "id\n"}))

	_, err := NewFetcher(store).Fetch(context.Background(), "bucket", dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrArchiveExtraction)
	assert.NoFileExists(t, filepath.Join(root, "outside.csv"))
}

func TestFetch_CancelledContext(t *testing.T) {
	store := newMemStore()
	store.put("a.zip", zipOf(t, map[string]string{"a.csv": "id\n"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFetcher(store).Fetch(ctx, "bucket", t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.gets)
}
