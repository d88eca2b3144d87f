package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/pursuitapp/pursuit/internal/domain"
)

// deleteConfirmView guards the destructive path: hard delete requires an
// explicit confirmation, unlike archiving to Lost.
type deleteConfirmView struct {
	state     *SharedState
	item      *domain.PipelineItem
	form      *huh.Form
	confirmed bool
}

func newDeleteConfirmView(state *SharedState, item *domain.PipelineItem) *deleteConfirmView {
	v := &deleteConfirmView{state: state, item: item}
	v.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Permanently delete %q?", item.Opportunity.Title)).
				Description("This removes the item entirely. Moving to Lost archives it instead.").
				Affirmative("Delete").
				Negative("Keep").
				Value(&v.confirmed),
		),
	).WithTheme(pursuitHuhTheme()).WithShowHelp(false)
	return v
}

func (v *deleteConfirmView) ID() ViewID    { return ViewForm }
func (v *deleteConfirmView) Title() string { return "Delete" }

func (v *deleteConfirmView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (v *deleteConfirmView) Init() tea.Cmd { return v.form.Init() }

func (v *deleteConfirmView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, popView()
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		if !v.confirmed {
			return v, popView()
		}
		store := v.state.Store
		itemID := v.item.ID
		title := v.item.Opportunity.Title
		return v, tea.Sequence(popView(), func() tea.Msg {
			if err := store.Remove(context.Background(), itemID); err != nil {
				return noticeMsg{text: "Delete failed: " + err.Error(), isErr: true}
			}
			return noticeMsg{text: fmt.Sprintf("Deleted %q", title)}
		}, refreshViews())
	}

	return v, cmd
}

func (v *deleteConfirmView) View() string { return v.form.View() }
