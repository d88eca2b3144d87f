package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pursuitapp/pursuit/internal/cli/formatter"
	"github.com/pursuitapp/pursuit/internal/urgency"
)

// agendaView is the deadline radar: a day-by-day projection of the next
// two weeks, with conflict markers where deadlines collide and a pressure
// banner when the window is overloaded.
type agendaView struct {
	state  *SharedState
	agenda urgency.Agenda
}

func newAgendaView(state *SharedState) *agendaView {
	v := &agendaView{state: state}
	v.rebuild()
	return v
}

func (v *agendaView) rebuild() {
	v.agenda = urgency.BuildAgenda(v.state.Store.Items(), v.state.Now(), v.state.Thresholds)
}

func (v *agendaView) ID() ViewID    { return ViewAgenda }
func (v *agendaView) Title() string { return "Deadlines" }

func (v *agendaView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (v *agendaView) Init() tea.Cmd { return nil }

func (v *agendaView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(refreshViewMsg); ok {
		v.rebuild()
	}
	return v, nil
}

func (v *agendaView) View() string {
	var b strings.Builder
	now := v.state.Now()

	b.WriteString("\n  " + formatter.StyleHeader.Render("NEXT 14 DAYS") + "\n")
	b.WriteString("  " + v.summaryLine() + "\n\n")

	for _, day := range v.agenda.Days {
		if len(day.Items) == 0 {
			continue
		}

		label := formatter.FormatDate(day.Date)
		rel := formatter.RelativeDate(day.Date, now)
		marker := "  "
		if len(day.Items) >= 2 {
			marker = formatter.StyleRed.Render("‼ ")
		}
		b.WriteString(fmt.Sprintf("  %s%s %s\n", marker, formatter.Bold(label), formatter.Dim("("+rel+")")))

		for _, item := range day.Items {
			u := urgency.Classify(item.Deadline, now)
			b.WriteString(fmt.Sprintf("      %s %s %s\n",
				formatter.UrgencyBadge(u),
				item.Opportunity.Title,
				formatter.StageColor(item.Stage).Render(item.Stage.Label())))
		}
	}

	if v.agenda.TotalUpcoming == 0 {
		b.WriteString("  " + formatter.Dim("No deadlines in the window.") + "\n")
	}

	return b.String()
}

func (v *agendaView) summaryLine() string {
	parts := []string{
		fmt.Sprintf("%d upcoming", v.agenda.TotalUpcoming),
	}
	if v.agenda.Conflicts > 0 {
		parts = append(parts, formatter.StyleRed.Render(fmt.Sprintf("%d conflict days", v.agenda.Conflicts)))
	}
	switch v.agenda.Pressure {
	case urgency.PressureCritical:
		parts = append(parts, formatter.StyleRed.Render("CRITICAL LOAD"))
	case urgency.PressureHeavy:
		parts = append(parts, formatter.StyleYellow.Render("heavy load"))
	}
	return strings.Join(parts, formatter.Dim("  ·  "))
}
