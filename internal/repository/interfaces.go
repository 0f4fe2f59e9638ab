package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/ironflow/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type ProcessRepo interface {
	List(ctx context.Context) ([]domain.ProcessDefinition, error)
	ReplaceAll(ctx context.Context, defs []domain.ProcessDefinition) error
	Count(ctx context.Context) (int, error)
}

type CalendarRepo interface {
	ListTeams(ctx context.Context) ([]domain.TeamCalendar, error)
	GetTeam(ctx context.Context, teamCode string) (*domain.TeamCalendar, error)
	UpsertTeam(ctx context.Context, c domain.TeamCalendar) error
	DeleteTeam(ctx context.Context, teamCode string) error

	ListGlobalHolidays(ctx context.Context) ([]time.Time, error)
	AddGlobalHoliday(ctx context.Context, d time.Time) (bool, error)
	RemoveGlobalHoliday(ctx context.Context, d time.Time) (bool, error)
	CountHolidays(ctx context.Context) (int, error)
}

type BlockRepo interface {
	// Upsert inserts b or updates the block with the same project and block
	// number. b.ID is set to the stored identity.
	Upsert(ctx context.Context, b *domain.Block) error
	GetByKey(ctx context.Context, projectNo, blockNo string) (*domain.Block, error)
	List(ctx context.Context) ([]domain.Block, error)
	ListByProject(ctx context.Context, projectNo string) ([]domain.Block, error)
	DeleteProject(ctx context.Context, projectNo string) (int, error)
	SetProjectDuration(ctx context.Context, projectNo, process string, days int) (int, error)
	Summaries(ctx context.Context) ([]domain.ProjectSummary, error)
}

type ScheduleRepo interface {
	SaveRun(ctx context.Context, run *domain.ScheduleRun) error
	GetRun(ctx context.Context, id string) (*domain.ScheduleRun, error)
	LatestRun(ctx context.Context) (*domain.ScheduleRun, error)
}
