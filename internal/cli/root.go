package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pursuitapp/pursuit/internal/cli/formatter"
	"github.com/pursuitapp/pursuit/internal/pipeline"
	"github.com/pursuitapp/pursuit/internal/urgency"
)

// App holds everything the CLI commands need. Wiring happens in main; the
// commands only consume it.
type App struct {
	Store      *pipeline.Store
	Thresholds urgency.Thresholds
	Version    string

	// IsInteractive reports whether stdin is a terminal. The TUI refuses
	// to start without one.
	IsInteractive func() bool

	// Now supplies the wall clock, overridable in tests.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "pursuit" command. Running it without a
// subcommand opens the board TUI.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "pursuit",
		Short:         "Track applications to competitive opportunities",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(app)
		},
	}

	root.AddCommand(
		newBoardCmd(app),
		newAgendaCmd(app),
		newVersionCmd(app),
	)

	return root
}

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive pipeline board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(app)
		},
	}
}

func runBoard(app *App) error {
	if app.IsInteractive != nil && !app.IsInteractive() {
		return fmt.Errorf("the board needs an interactive terminal; try 'pursuit agenda' for plain output")
	}

	state := &SharedState{
		Store:      app.Store,
		Thresholds: app.Thresholds,
		Now:        app.now,
	}

	p := tea.NewProgram(newAppModel(state), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// newAgendaCmd prints the deadline radar as plain text, for scripts and
// non-interactive shells.
func newAgendaCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "agenda",
		Short: "Print upcoming deadlines for the next two weeks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.Refresh(cmd.Context()); err != nil {
				return err
			}
			now := app.now()
			agenda := urgency.BuildAgenda(app.Store.Items(), now, app.Thresholds)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Upcoming deadlines: %d", agenda.TotalUpcoming)
			if agenda.Conflicts > 0 {
				fmt.Fprintf(out, "  (%d conflict days)", agenda.Conflicts)
			}
			if agenda.Pressure != urgency.PressureNormal {
				fmt.Fprintf(out, "  [%s load]", agenda.Pressure)
			}
			fmt.Fprintln(out)

			for _, day := range agenda.Days {
				if len(day.Items) == 0 {
					continue
				}
				fmt.Fprintf(out, "\n%s (%s)\n", formatter.FormatDate(day.Date), formatter.RelativeDate(day.Date, now))
				for _, item := range day.Items {
					u := urgency.Classify(item.Deadline, now)
					fmt.Fprintf(out, "  - %-40s %-10s %s\n",
						item.Opportunity.Title, item.Stage.Label(), strings.ToLower(u.Label()))
				}
			}
			if agenda.TotalUpcoming == 0 {
				fmt.Fprintln(out, "\nNo deadlines in the window.")
			}
			return nil
		},
	}
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pursuit version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "pursuit", app.Version)
		},
	}
}
