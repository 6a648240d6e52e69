package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/rentdesk/pkg/adapters/file"
	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/aretw0/rentdesk/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.RecordBackend = (*file.Backend)(nil)
	_ ports.SessionStore  = (*file.Store)(nil)
)

func TestBackend_Contract(t *testing.T) {
	ports.RunRecordBackendContract(t, file.NewBackend(filepath.Join(t.TempDir(), "rentals.json")))
}

func TestStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, file.NewStore(t.TempDir()))
}

func TestBackend_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rentals.json")
	b := file.NewBackend(path)
	records := ports.ContractRecords(2)
	require.NoError(t, b.Save(context.Background(), records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lastName": "Last0"`)
	assert.Contains(t, string(data), `"amount": "10.00 EUR"`)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files may be left behind")
}

func TestBackend_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rentals.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	records, err := file.NewBackend(path).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestBackend_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rentals.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := file.NewBackend(path).Load(context.Background())
	assert.ErrorContains(t, err, "failed to unmarshal records")
}

func TestBackend_UnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := file.NewBackend(filepath.Join(blocker, "rentals.json")).Save(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestStore_RejectsPathTraversal(t *testing.T) {
	s := file.NewStore(t.TempDir())
	assert.Error(t, s.Save(context.Background(), "../escape", &domain.Session{}))
	_, err := s.Load(context.Background(), "")
	assert.Error(t, err)
}

func TestStore_ListSkipsTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := file.NewStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-a.json-123"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-b.json"), []byte("{}"), 0644))
	require.NoError(t, s.Save(context.Background(), "conv", &domain.Session{ConversationID: "conv"}))

	ids, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"conv"}, ids)
}
