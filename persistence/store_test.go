package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workbook.db")
	store, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_VersionRoundTrip(t *testing.T) {
	store := openTemp(t)

	require.NoError(t, store.WriteVersion("v1"))
	got, err := store.ReadVersion()
	require.NoError(t, err)
	assert.Equal(t, "v1", got)
}

func TestStore_ReadVersion_EmptyBeforeAnyWrite(t *testing.T) {
	store := openTemp(t)

	got, err := store.ReadVersion()
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestStore_CellsRoundTrip(t *testing.T) {
	store := openTemp(t)

	want := map[string]string{
		"A1": "5",
		"B1": "=A1-2",
		"C1": "hello world",
	}
	require.NoError(t, store.WriteCells(want))

	got, err := store.ReadCells()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_WriteCells_ReplacesPreviousContents(t *testing.T) {
	store := openTemp(t)

	require.NoError(t, store.WriteCells(map[string]string{"A1": "5", "B1": "6"}))
	require.NoError(t, store.WriteCells(map[string]string{"A1": "7"}))

	got, err := store.ReadCells()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A1": "7"}, got)
}

func TestStore_ReadCells_EmptyBeforeAnyWrite(t *testing.T) {
	store := openTemp(t)

	got, err := store.ReadCells()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEncodeDecodeCell_RoundTrip(t *testing.T) {
	data := encodeCell("A1", "=B1+C1")
	name, sourceText, err := decodeCell(data)
	require.NoError(t, err)
	assert.Equal(t, "A1", name)
	assert.Equal(t, "=B1+C1", sourceText)
}

func TestDecodeCell_RejectsTruncatedRecord(t *testing.T) {
	_, _, err := decodeCell([]byte{0x05, 0x00, 'A'})
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestDecodeCell_RejectsTooShortForLengthPrefix(t *testing.T) {
	_, _, err := decodeCell([]byte{0x01})
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workbook.db")

	store, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.WriteVersion("v1"))
	require.NoError(t, store.WriteCells(map[string]string{"A1": "42"}))
	require.NoError(t, store.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	version, err := reopened.ReadVersion()
	require.NoError(t, err)
	assert.Equal(t, "v1", version)

	cells, err := reopened.ReadCells()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A1": "42"}, cells)
}
