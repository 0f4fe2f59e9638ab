package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/repository"
	"github.com/alexanderramin/ironflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarService_TeamHolidays(t *testing.T) {
	uow := testutil.NewTestUoW(testutil.NewTestDB(t))
	svc := NewCalendarService(uow)
	ctx := context.Background()
	require.NoError(t, NewPipelineService(uow).EnsureDefaults(ctx))

	added, err := svc.AddTeamHoliday(ctx, "welding", domain.Date(2026, 5, 5))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.AddTeamHoliday(ctx, "welding", domain.Date(2026, 5, 5))
	require.NoError(t, err)
	assert.False(t, added, "duplicate holiday")

	team, err := svc.Team(ctx, "welding")
	require.NoError(t, err)
	assert.Equal(t, []time.Time{domain.Date(2026, 5, 5)}, team.Holidays)
	assert.Equal(t, domain.DefaultWorkWeekdays, team.WorkWeekdays)

	removed, err := svc.RemoveTeamHoliday(ctx, "welding", domain.Date(2026, 5, 5))
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveTeamHoliday(ctx, "welding", domain.Date(2026, 5, 5))
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCalendarService_SetWorkWeekdaysCreatesMissingTeam(t *testing.T) {
	svc := NewCalendarService(testutil.NewTestUoW(testutil.NewTestDB(t)))
	ctx := context.Background()

	mask := domain.NewWeekdayMask(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
	require.NoError(t, svc.SetWorkWeekdays(ctx, "outfitting", mask))

	team, err := svc.Team(ctx, "outfitting")
	require.NoError(t, err)
	assert.Equal(t, mask, team.WorkWeekdays)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, team.WorkWeekdays.Indices())
}

func TestCalendarService_TeamNotFound(t *testing.T) {
	svc := NewCalendarService(testutil.NewTestUoW(testutil.NewTestDB(t)))

	_, err := svc.Team(context.Background(), "nobody")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCalendarService_RequiresTeamCode(t *testing.T) {
	svc := NewCalendarService(testutil.NewTestUoW(testutil.NewTestDB(t)))

	_, err := svc.AddTeamHoliday(context.Background(), "  ", domain.Date(2026, 5, 5))
	require.Error(t, err)
}

func TestCalendarService_GlobalHolidaysApplyToEveryTeam(t *testing.T) {
	uow := testutil.NewTestUoW(testutil.NewTestDB(t))
	svc := NewCalendarService(uow)
	ctx := context.Background()
	require.NoError(t, NewPipelineService(uow).EnsureDefaults(ctx))

	// 2026-05-01 is a Friday.
	added, err := svc.AddGlobalHoliday(ctx, domain.Date(2026, 5, 1))
	require.NoError(t, err)
	assert.True(t, added)
	added, err = svc.AddGlobalHoliday(ctx, domain.Date(2026, 5, 1))
	require.NoError(t, err)
	assert.False(t, added)

	set, err := svc.Set(ctx)
	require.NoError(t, err)
	assert.False(t, set.Resolve("cutting").IsWorkingDay(domain.Date(2026, 5, 1)))
	assert.False(t, set.Resolve("unknown-team").IsWorkingDay(domain.Date(2026, 5, 1)))
	assert.True(t, set.Resolve("cutting").IsWorkingDay(domain.Date(2026, 5, 2)), "saturday works by default")

	dates, err := svc.GlobalHolidays(ctx)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{domain.Date(2026, 5, 1)}, dates)

	removed, err := svc.RemoveGlobalHoliday(ctx, domain.Date(2026, 5, 1))
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestCalendarService_SetIsDetachedFromLaterEdits(t *testing.T) {
	uow := testutil.NewTestUoW(testutil.NewTestDB(t))
	svc := NewCalendarService(uow)
	ctx := context.Background()
	require.NoError(t, NewPipelineService(uow).EnsureDefaults(ctx))

	set, err := svc.Set(ctx)
	require.NoError(t, err)
	_, err = svc.AddTeamHoliday(ctx, "cutting", domain.Date(2026, 5, 4))
	require.NoError(t, err)

	assert.True(t, set.Resolve("cutting").IsWorkingDay(domain.Date(2026, 5, 4)))
}
