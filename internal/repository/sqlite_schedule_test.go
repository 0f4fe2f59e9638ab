package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/ironflow/internal/calendar"
	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/pipeline"
	"github.com/alexanderramin/ironflow/internal/scheduler"
	"github.com/alexanderramin/ironflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRepo_SaveAndGetRun(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	p := pipeline.Default()
	blocks := []domain.Block{
		*testutil.NewTestBlock(testutil.WithProject("H1"), testutil.WithDuration("Cutting", 2)),
		*testutil.NewTestBlock(testutil.WithProject("H2"), testutil.WithDeadline(domain.Date(2026, 6, 15))),
	}
	results, err := scheduler.Schedule(blocks, p, calendar.NewSet(nil, nil))
	require.NoError(t, err)

	run := &domain.ScheduleRun{
		ComputedAt: time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC),
		Pipeline:   p.Steps(),
		Blocks:     results,
	}
	require.NoError(t, repo.SaveRun(ctx, run))
	require.NotEmpty(t, run.ID)

	loaded, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, run.ComputedAt.Equal(loaded.ComputedAt))
	assert.Equal(t, run.Pipeline, loaded.Pipeline)
	require.Len(t, loaded.Blocks, 2)

	for i, want := range results {
		got := loaded.Blocks[i]
		assert.Equal(t, want.Block.ID, got.Block.ID)
		assert.Equal(t, want.Block.Label(), got.Block.Label())
		assert.Equal(t, want.Deadline, got.Deadline)
		assert.Equal(t, want.PND, got.PND)
		assert.Equal(t, want.Processes, got.Processes)
	}
	assert.True(t, loaded.Blocks[1].Processes["Cutting"].Defaulted)
	assert.False(t, loaded.Blocks[0].Processes["Cutting"].Defaulted)
}

func TestScheduleRepo_LatestRun(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	_, err := repo.LatestRun(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	older := &domain.ScheduleRun{ComputedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Pipeline: pipeline.Default().Steps()}
	newer := &domain.ScheduleRun{ComputedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Pipeline: pipeline.Default().Steps()}
	require.NoError(t, repo.SaveRun(ctx, newer))
	require.NoError(t, repo.SaveRun(ctx, older))

	latest, err := repo.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
	assert.Empty(t, latest.Blocks)
}

func TestScheduleRepo_GetRun_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)

	_, err := repo.GetRun(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
