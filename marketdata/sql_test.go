package marketdata

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hubenschmidt/go-sectormatch/core"
	"github.com/hubenschmidt/go-sectormatch/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQL(t *testing.T) *SQLSource {
	t.Helper()
	s, err := OpenSQL(filepath.Join(t.TempDir(), "nested", "sectors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLSourceUpsertAndRead(t *testing.T) {
	ctx := context.Background()
	s := openTestSQL(t)

	require.NoError(t, s.Upsert(ctx, "vti", vector.SectorWeights{"Technology": 0.3, "Energy": 0.04}))

	w, err := s.SectorWeights(ctx, "VTI")
	require.NoError(t, err)
	assert.Equal(t, vector.SectorWeights{"Technology": 0.3, "Energy": 0.04}, w)

	// upsert replaces every row for the ticker
	require.NoError(t, s.Upsert(ctx, "VTI", vector.SectorWeights{"Healthcare": 0.12}))
	w, err = s.SectorWeights(ctx, "VTI")
	require.NoError(t, err)
	assert.Equal(t, vector.SectorWeights{"Healthcare": 0.12}, w)
}

func TestSQLSourceUnknownTickerIsEmpty(t *testing.T) {
	s := openTestSQL(t)

	w, err := s.SectorWeights(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.True(t, w.IsEmpty())
}

func TestSQLSourceTickers(t *testing.T) {
	ctx := context.Background()
	s := openTestSQL(t)

	require.NoError(t, s.Upsert(ctx, "VOO", vector.SectorWeights{"Technology": 0.3}))
	require.NoError(t, s.Upsert(ctx, "ITOT", vector.SectorWeights{"Technology": 0.3}))

	tickers, err := s.Tickers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ITOT", "VOO"}, tickers)
}

func TestSQLSourceRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	s := openTestSQL(t)

	assert.ErrorIs(t, s.Upsert(ctx, " ", vector.SectorWeights{"Energy": 1}), core.ErrInvalidArgument)
	assert.ErrorIs(t, s.Upsert(ctx, "VTI", vector.SectorWeights{"Energy": -0.1}), core.ErrInvalidArgument)
}

func TestSQLSourceReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sectors.db")

	s, err := OpenSQL(path)
	require.NoError(t, err)
	require.NoError(t, s.Upsert(ctx, "SCHB", vector.SectorWeights{"Utilities": 0.02}))
	require.NoError(t, s.Close())

	s, err = OpenSQL(path)
	require.NoError(t, err)
	defer s.Close()

	w, err := s.SectorWeights(ctx, "SCHB")
	require.NoError(t, err)
	assert.Equal(t, 0.02, w["Utilities"])
}
