package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pursuitapp/pursuit/internal/cli/formatter"
	"github.com/pursuitapp/pursuit/internal/domain"
	"github.com/pursuitapp/pursuit/internal/urgency"
)

// menuAction represents a single option in the action menu.
type menuAction struct {
	label string
	key   string // single-key shortcut
	fn    func() tea.Cmd
}

// actionMenuView presents the actions available for a selected pipeline
// item. Stage moves here and drops on the board converge on the same store
// call.
type actionMenuView struct {
	state   *SharedState
	item    *domain.PipelineItem
	cursor  int
	actions []menuAction
}

func newActionMenuView(state *SharedState, item *domain.PipelineItem) *actionMenuView {
	v := &actionMenuView{state: state, item: item}

	if next, ok := domain.NextStage(item.Stage); ok {
		v.actions = append(v.actions, menuAction{
			label: "Advance to " + next.Label(), key: "n", fn: func() tea.Cmd { return v.move(next) },
		})
	}
	v.actions = append(v.actions, menuAction{label: "Move to Stage…", key: "m", fn: v.actionPickStage})
	if !item.Stage.IsTerminal() {
		v.actions = append(v.actions, menuAction{label: "Record Outcome", key: "o", fn: v.actionOutcome})
	}
	if item.Stage == domain.StageLost {
		v.actions = append(v.actions, menuAction{label: "Restore to Discovered", key: "u", fn: v.actionRestore})
	}
	v.actions = append(v.actions, menuAction{label: "Delete", key: "x", fn: v.actionDelete})

	return v
}

func (v *actionMenuView) ID() ViewID    { return ViewActionMenu }
func (v *actionMenuView) Title() string { return "Actions" }

func (v *actionMenuView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (v *actionMenuView) Init() tea.Cmd { return nil }

func (v *actionMenuView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.actions)-1 {
				v.cursor++
			}
		case "enter":
			if v.cursor < len(v.actions) {
				return v, v.actions[v.cursor].fn()
			}
		default:
			for i, a := range v.actions {
				if msg.String() == a.key {
					v.cursor = i
					return v, a.fn()
				}
			}
		}
	}
	return v, nil
}

func (v *actionMenuView) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + formatter.StyleHeader.Render("ACTIONS") + "\n")
	b.WriteString("  " + formatter.Dim("for ") + formatter.Bold(v.item.Opportunity.Title) +
		"  " + formatter.StageColor(v.item.Stage).Render(v.item.Stage.Label()))

	if u := urgency.Classify(v.item.Deadline, v.state.Now()); u.Tier != urgency.TierNone {
		b.WriteString("  " + formatter.UrgencyBadge(u))
	}
	b.WriteString("\n\n")

	for i, a := range v.actions {
		cursor := "  "
		style := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			style = formatter.StyleBold
		}
		keyHint := formatter.Dim("[" + a.key + "]")
		b.WriteString(fmt.Sprintf("%s%s  %s\n", cursor, style.Render(a.label), keyHint))
	}

	return b.String()
}

// ── action handlers ──────────────────────────────────────────────────────────

// move issues the transition and pops back to the board.
func (v *actionMenuView) move(target domain.Stage) tea.Cmd {
	store := v.state.Store
	itemID := v.item.ID
	return tea.Sequence(popView(), func() tea.Msg {
		item, err := store.RequestTransition(context.Background(), itemID, target)
		return transitionDoneMsg{item: item, issued: true, err: err}
	})
}

func (v *actionMenuView) actionPickStage() tea.Cmd {
	return pushView(newStagePickerView(v.state, v.item))
}

func (v *actionMenuView) actionOutcome() tea.Cmd {
	return pushView(newFeedbackView(v.state, v.item))
}

func (v *actionMenuView) actionRestore() tea.Cmd {
	store := v.state.Store
	itemID := v.item.ID
	return tea.Sequence(popView(), func() tea.Msg {
		item, err := store.Restore(context.Background(), itemID, domain.StageDiscovered)
		if err != nil {
			return noticeMsg{text: "Restore failed: " + err.Error(), isErr: true}
		}
		return transitionDoneMsg{item: item, issued: true}
	})
}

func (v *actionMenuView) actionDelete() tea.Cmd {
	return pushView(newDeleteConfirmView(v.state, v.item))
}
