package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/ironflow/internal/calendar"
	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/pipeline"
	"github.com/alexanderramin/ironflow/internal/workbook"
)

// ImportResult holds the outcome of a workbook or block sheet import.
type ImportResult struct {
	ProcessCount int
	TeamCount    int
	HolidayCount int
	ProjectCount int
	BlockCount   int
}

type ImportService interface {
	// ImportWorkbook replaces the whole workspace with the contents of a
	// workbook file.
	ImportWorkbook(ctx context.Context, path string) (*ImportResult, error)
	ImportWorkbookContents(ctx context.Context, wb *workbook.Workbook) (*ImportResult, error)
	// ImportBlocks registers every project found in a block sheet. Projects
	// already in the workspace are overwritten; others are left alone.
	ImportBlocks(ctx context.Context, r io.Reader) (*ImportResult, error)
	// Export returns the workspace as a workbook.
	Export(ctx context.Context) (*workbook.Workbook, error)
}

// PipelineChange reports the calendar sync that accompanied a pipeline edit.
type PipelineChange struct {
	Pipeline     *pipeline.Pipeline
	AddedTeams   []string
	RemovedTeams []string
}

type PipelineService interface {
	Get(ctx context.Context) (*pipeline.Pipeline, error)
	Replace(ctx context.Context, defs []domain.ProcessDefinition) (*PipelineChange, error)
	ResetDefault(ctx context.Context) (*PipelineChange, error)
	// EnsureDefaults stores the default pipeline and its calendars when the
	// workspace has no processes yet.
	EnsureDefaults(ctx context.Context) error
}

type CalendarService interface {
	Teams(ctx context.Context) ([]domain.TeamCalendar, error)
	Team(ctx context.Context, teamCode string) (*domain.TeamCalendar, error)
	SetWorkWeekdays(ctx context.Context, teamCode string, days domain.WeekdayMask) error
	AddTeamHoliday(ctx context.Context, teamCode string, d time.Time) (bool, error)
	RemoveTeamHoliday(ctx context.Context, teamCode string, d time.Time) (bool, error)
	GlobalHolidays(ctx context.Context) ([]time.Time, error)
	AddGlobalHoliday(ctx context.Context, d time.Time) (bool, error)
	RemoveGlobalHoliday(ctx context.Context, d time.Time) (bool, error)
	// Set returns the immutable calendar set the scheduler consumes.
	Set(ctx context.Context) (*calendar.Set, error)
}

type BlockService interface {
	// RegisterProject replaces every block of projectNo with blocks.
	RegisterProject(ctx context.Context, projectNo string, blocks []domain.Block) (int, error)
	UpsertBlock(ctx context.Context, b *domain.Block) error
	// ApplyDuration sets days for a Duration process on every block of a project.
	ApplyDuration(ctx context.Context, projectNo, process string, days int) (int, error)
	List(ctx context.Context) ([]domain.Block, error)
	ListProject(ctx context.Context, projectNo string) ([]domain.Block, error)
	DeleteProject(ctx context.Context, projectNo string) (int, error)
	Projects(ctx context.Context) ([]domain.ProjectSummary, error)
}

// RunOptions narrows a schedule run. The zero value schedules every block.
type RunOptions struct {
	Projects []string
	Now      *time.Time
}

type ScheduleService interface {
	Run(ctx context.Context, opts RunOptions) (*domain.ScheduleRun, error)
	Get(ctx context.Context, id string) (*domain.ScheduleRun, error)
	Latest(ctx context.Context) (*domain.ScheduleRun, error)
}

// WorkspaceSummary counts what the workspace holds.
type WorkspaceSummary struct {
	ProcessCount int
	TeamCount    int
	ProjectCount int
	BlockCount   int
	HolidayCount int
	LatestRun    *time.Time
}

type SummaryService interface {
	Summary(ctx context.Context) (*WorkspaceSummary, error)
}
