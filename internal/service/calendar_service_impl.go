package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ironflow/internal/calendar"
	"github.com/alexanderramin/ironflow/internal/db"
	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/repository"
)

type calendarService struct {
	observed
	uow db.UnitOfWork
}

func NewCalendarService(uow db.UnitOfWork, observers ...UseCaseObserver) CalendarService {
	return &calendarService{observed: newObserved(observers), uow: uow}
}

func (s *calendarService) Teams(ctx context.Context) (teams []domain.TeamCalendar, err error) {
	err = s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		teams, err = repository.NewSQLiteCalendarRepo(tx).ListTeams(ctx)
		return err
	})
	return teams, err
}

func (s *calendarService) Team(ctx context.Context, teamCode string) (team *domain.TeamCalendar, err error) {
	err = s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		team, err = repository.NewSQLiteCalendarRepo(tx).GetTeam(ctx, teamCode)
		return err
	})
	return team, err
}

// SetWorkWeekdays creates the team calendar when the team has none yet.
// An empty mask is stored as given; scheduling against it fails.
func (s *calendarService) SetWorkWeekdays(ctx context.Context, teamCode string, days domain.WeekdayMask) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"team": teamCode, "weekdays": days.String()}
	defer func() { s.finish(ctx, "set-work-weekdays", startedAt, fields, err) }()

	return s.editTeam(ctx, teamCode, func(c *domain.TeamCalendar) bool {
		c.WorkWeekdays = days
		return true
	})
}

func (s *calendarService) AddTeamHoliday(ctx context.Context, teamCode string, d time.Time) (added bool, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"team": teamCode, "date": domain.FormatDate(d)}
	defer func() { s.finish(ctx, "add-team-holiday", startedAt, fields, err) }()

	err = s.editTeam(ctx, teamCode, func(c *domain.TeamCalendar) bool {
		added = c.AddHoliday(d)
		return added
	})
	return added, err
}

func (s *calendarService) RemoveTeamHoliday(ctx context.Context, teamCode string, d time.Time) (removed bool, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"team": teamCode, "date": domain.FormatDate(d)}
	defer func() { s.finish(ctx, "remove-team-holiday", startedAt, fields, err) }()

	err = s.editTeam(ctx, teamCode, func(c *domain.TeamCalendar) bool {
		removed = c.RemoveHoliday(d)
		return removed
	})
	return removed, err
}

func (s *calendarService) editTeam(ctx context.Context, teamCode string, edit func(*domain.TeamCalendar) bool) error {
	teamCode = strings.TrimSpace(teamCode)
	if teamCode == "" {
		return fmt.Errorf("team code is required")
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteCalendarRepo(tx)
		c, err := repo.GetTeam(ctx, teamCode)
		if errors.Is(err, repository.ErrNotFound) {
			def := domain.DefaultTeamCalendar(teamCode)
			c, err = &def, nil
		}
		if err != nil {
			return err
		}
		if !edit(c) {
			return nil
		}
		return repo.UpsertTeam(ctx, *c)
	})
}

func (s *calendarService) GlobalHolidays(ctx context.Context) (dates []time.Time, err error) {
	err = s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		dates, err = repository.NewSQLiteCalendarRepo(tx).ListGlobalHolidays(ctx)
		return err
	})
	return dates, err
}

func (s *calendarService) AddGlobalHoliday(ctx context.Context, d time.Time) (added bool, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"date": domain.FormatDate(d)}
	defer func() { s.finish(ctx, "add-global-holiday", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		added, err = repository.NewSQLiteCalendarRepo(tx).AddGlobalHoliday(ctx, domain.Day(d))
		return err
	})
	return added, err
}

func (s *calendarService) RemoveGlobalHoliday(ctx context.Context, d time.Time) (removed bool, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"date": domain.FormatDate(d)}
	defer func() { s.finish(ctx, "remove-global-holiday", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		removed, err = repository.NewSQLiteCalendarRepo(tx).RemoveGlobalHoliday(ctx, domain.Day(d))
		return err
	})
	return removed, err
}

func (s *calendarService) Set(ctx context.Context) (set *calendar.Set, err error) {
	err = s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteCalendarRepo(tx)
		teams, err := repo.ListTeams(ctx)
		if err != nil {
			return err
		}
		global, err := repo.ListGlobalHolidays(ctx)
		if err != nil {
			return err
		}
		set = calendar.NewSet(teams, global)
		return nil
	})
	return set, err
}
