package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/docket/internal/common"
	"github.com/Veraticus/docket/internal/model"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func debitMetadata() model.DocumentMetadata {
	return model.SinglePoint(time.Date(2019, time.March, 1, 0, 0, 0, 0, time.UTC),
		model.BankDeutsche, model.DocDebit, "ajuntament", "ibi ciencies")
}

func TestMigrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	require.NoError(t, store.Migrate(ctx), "migrating twice is a no-op")

	var indexCount int
	err = store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'index' AND name LIKE 'idx_documents_%'
	`).Scan(&indexCount)
	require.NoError(t, err)
	assert.Equal(t, 4, indexCount)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "docket.db")
	store, err := Open(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	require.NoError(t, store.Close())

	reopened, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	version, err := reopened.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestNewRecord(t *testing.T) {
	md := debitMetadata()

	rec := NewRecord("a.pdf", "h1", md, "2019.03.01 db debit ajuntament ibi ciencies.pdf", nil)
	assert.Equal(t, StatusClassified, rec.Status)
	assert.Equal(t, md, rec.Metadata())

	rec = NewRecord("b.pdf", "h2", model.Unclassified(), "ignored", nil)
	assert.Equal(t, StatusUnclassified, rec.Status)
	assert.Empty(t, rec.FileName)

	rec = NewRecord("c.pdf", "h3", model.Unclassified(), "ignored", errors.New("db debit/FECHA: missing"))
	assert.Equal(t, StatusFailed, rec.Status)
	assert.Equal(t, "db debit/FECHA: missing", rec.Error)
	assert.Empty(t, rec.FileName)
}

func TestSaveAndGetRecord(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rec := NewRecord("in/scan.pdf", "abc", debitMetadata(), "2019.03.01 db debit ajuntament ibi ciencies.pdf", nil)
	require.NoError(t, store.SaveRecord(ctx, &rec))
	assert.False(t, rec.ProcessedAt.IsZero())

	got, err := store.GetRecordByHash(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, rec.Path, got.Path)
	assert.Equal(t, StatusClassified, got.Status)
	assert.Equal(t, debitMetadata(), got.Metadata())
	assert.Equal(t, rec.FileName, got.FileName)

	byPath, err := store.GetRecord(ctx, "in/scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, got.Hash, byPath.Hash)

	_, err = store.GetRecordByHash(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = store.GetRecord(ctx, "missing.pdf")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveRecord_ReplacesPath(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	first := NewRecord("scan.pdf", "old", model.Unclassified(), "", nil)
	require.NoError(t, store.SaveRecord(ctx, &first))
	second := NewRecord("scan.pdf", "new", debitMetadata(), "x.pdf", nil)
	require.NoError(t, store.SaveRecord(ctx, &second))

	records, err := store.ListRecords(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "new", records[0].Hash)
	require.NotNil(t, records[0].PeriodEnd)
	assert.True(t, records[0].PeriodEnd.Equal(*debitMetadata().PeriodEnd))

	_, err = store.GetRecordByHash(ctx, "old")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveRecord_Invalid(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	end := time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		rec  *Record
		want error
		name string
	}{
		{name: "nil", rec: nil, want: ErrInvalidRecord},
		{name: "no path", rec: &Record{Hash: "h", Status: StatusFailed}, want: ErrInvalidRecord},
		{name: "no hash", rec: &Record{Path: "p", Status: StatusFailed}, want: ErrInvalidRecord},
		{name: "bad status", rec: &Record{Path: "p", Hash: "h", Status: "done"}, want: ErrInvalidStatus},
		{
			name: "inverted period",
			rec: &Record{
				Path: "p", Hash: "h", Status: StatusClassified,
				PeriodStart: time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC), PeriodEnd: &end,
			},
			want: ErrInvalidRecord,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.SaveRecord(ctx, tt.rec), tt.want)
		})
	}
}

func TestListRecords(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	base := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	fixtures := []Record{
		NewRecord("a.pdf", "a", debitMetadata(), "a-named.pdf", nil),
		NewRecord("b.pdf", "b", model.Unclassified(), "", nil),
		NewRecord("c.pdf", "c", model.Unclassified(), "", errors.New("boom")),
		NewRecord("d.pdf", "d", model.SinglePoint(base, model.BankCitibankUK, model.DocStatement, "current", "summary"), "d-named.pdf", nil),
	}
	for i := range fixtures {
		fixtures[i].ProcessedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.SaveRecord(ctx, &fixtures[i]))
	}

	paths := func(records []Record) []string {
		out := make([]string, 0, len(records))
		for _, r := range records {
			out = append(out, r.Path)
		}
		return out
	}

	all, err := store.ListRecords(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"d.pdf", "c.pdf", "b.pdf", "a.pdf"}, paths(all))

	classified, err := store.ListRecords(ctx, ListFilter{Status: StatusClassified})
	require.NoError(t, err)
	assert.Equal(t, []string{"d.pdf", "a.pdf"}, paths(classified))

	db, err := store.ListRecords(ctx, ListFilter{Bank: model.BankDeutsche})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, paths(db))

	failed, err := store.ListRecords(ctx, ListFilter{Status: StatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "boom", failed[0].Error)

	limited, err := store.ListRecords(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"d.pdf", "c.pdf"}, paths(limited))

	_, err = store.ListRecords(ctx, ListFilter{Status: "pending"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus(" Failed ")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got)

	_, err = ParseStatus("done")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestNewRecord_LoadFailure(t *testing.T) {
	rec := NewRecord("broken.pdf", "h", model.DocumentMetadata{}, "", errors.New("not a pdf"))
	assert.Equal(t, StatusFailed, rec.Status)
	assert.Equal(t, model.BankUnknown, rec.Bank)
	assert.Equal(t, model.UnclassifiedDate, rec.PeriodStart)
}
