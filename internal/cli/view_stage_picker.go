package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pursuitapp/pursuit/internal/cli/formatter"
	"github.com/pursuitapp/pursuit/internal/domain"
)

// stagePickerView lets the user move an item to any of the six stages
// explicitly. Selecting the current stage is a harmless no-op.
type stagePickerView struct {
	state  *SharedState
	item   *domain.PipelineItem
	cursor int
}

func newStagePickerView(state *SharedState, item *domain.PipelineItem) *stagePickerView {
	v := &stagePickerView{state: state, item: item}
	v.cursor = item.Stage.Ordinal()
	return v
}

func (v *stagePickerView) ID() ViewID    { return ViewStagePicker }
func (v *stagePickerView) Title() string { return "Move to Stage" }

func (v *stagePickerView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "move")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (v *stagePickerView) Init() tea.Cmd { return nil }

func (v *stagePickerView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(domain.AllStages)-1 {
				v.cursor++
			}
		case "enter":
			target := domain.AllStages[v.cursor]
			store := v.state.Store
			itemID := v.item.ID
			// Pop the picker and the action menu beneath it.
			return v, tea.Sequence(popView(), popView(), func() tea.Msg {
				item, err := store.RequestTransition(context.Background(), itemID, target)
				return transitionDoneMsg{item: item, issued: true, err: err}
			})
		}
	}
	return v, nil
}

func (v *stagePickerView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + formatter.StyleHeader.Render("MOVE TO STAGE") + "\n")
	b.WriteString("  " + formatter.Dim("for ") + formatter.Bold(v.item.Opportunity.Title) + "\n\n")

	for i, stage := range domain.AllStages {
		cursor := "  "
		style := formatter.StageColor(stage)
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
		}
		marker := " "
		if stage == v.item.Stage {
			marker = formatter.Dim("(current)")
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, style.Render(stage.Label()), marker))
	}
	return b.String()
}
