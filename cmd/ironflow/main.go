package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/ironflow/internal/cli"
	"github.com/alexanderramin/ironflow/internal/config"
	"github.com/alexanderramin/ironflow/internal/db"
	"github.com/alexanderramin/ironflow/internal/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()

	database, err := db.OpenDB()
	if err != nil {
		return fmt.Errorf("opening workspace: %w", err)
	}
	defer database.Close()

	var observers []service.UseCaseObserver
	if cfg.LogCalls {
		observers = append(observers, service.NewSlogUseCaseObserver(cfg.NewLogger()))
	}

	app := cli.NewApp(db.NewSQLiteUnitOfWork(database), cfg.LookbackDays, observers...)
	app.DateLayout = cfg.DateDisplay

	// Progress and colour only when attached to a terminal.
	app.IsInteractive = func() bool {
		return isTerminal(os.Stderr.Fd())
	}
	if !isTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
