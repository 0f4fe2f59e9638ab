package cli

import (
	"github.com/alexanderramin/ironflow/internal/db"
	"github.com/alexanderramin/ironflow/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Import    service.ImportService
	Pipeline  service.PipelineService
	Calendars service.CalendarService
	Blocks    service.BlockService
	Schedule  service.ScheduleService
	Summary   service.SummaryService

	// DateLayout is the Go time layout of dates in result tables.
	DateLayout string
	// LookbackDays bounds calendar walks; zero selects the default.
	LookbackDays int
	// IsInteractive reports whether stderr is a terminal that may show
	// progress. Nil means never.
	IsInteractive func() bool
}

// NewApp wires every service against one unit of work.
func NewApp(uow db.UnitOfWork, lookbackDays int, observers ...service.UseCaseObserver) *App {
	return &App{
		Import:       service.NewImportService(uow, observers...),
		Pipeline:     service.NewPipelineService(uow, observers...),
		Calendars:    service.NewCalendarService(uow, observers...),
		Blocks:       service.NewBlockService(uow, observers...),
		Schedule:     service.NewScheduleService(uow, lookbackDays, observers...),
		Summary:      service.NewSummaryService(uow),
		DateLayout:   "01-02",
		LookbackDays: lookbackDays,
	}
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
