package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/pursuitapp/pursuit/internal/cli/formatter"
	"github.com/pursuitapp/pursuit/internal/domain"
	"github.com/pursuitapp/pursuit/internal/feedback"
)

// feedbackDoneMsg carries the result of the wizard submission.
type feedbackDoneMsg struct {
	rec *domain.FeedbackRecord
	err error
}

// factorLabels maps canonical factor tags to display names.
var factorLabels = map[string]string{
	"strong_team":          "Strong team",
	"early_start":          "Started early",
	"good_fit":             "Good fit for us",
	"prior_experience":     "Prior experience",
	"mentor_support":       "Mentor support",
	"polished_demo":        "Polished demo",
	"clear_writeup":        "Clear writeup",
	"time_pressure":        "Time pressure",
	"scope_too_big":        "Scope too big",
	"tech_issues":          "Technical issues",
	"weak_demo":            "Weak demo",
	"strong_competition":   "Strong competition",
	"unclear_requirements": "Unclear requirements",
	"team_gaps":            "Team gaps",
}

// feedbackView renders the three-step outcome wizard. Step ordering and
// gating live in the feedback package; this view only binds form inputs to
// the wizard's fields, one huh form per step.
type feedbackView struct {
	state  *SharedState
	wizard *feedback.Wizard
	form   *huh.Form

	hoursInput string // text-bound, parsed into the wizard on advance
	submitting bool
}

func newFeedbackView(state *SharedState, item *domain.PipelineItem) *feedbackView {
	v := &feedbackView{
		state:  state,
		wizard: feedback.New(item.ID, item.Opportunity.Title),
	}
	v.form = v.buildForm()
	return v
}

func (v *feedbackView) ID() ViewID { return ViewFeedback }

func (v *feedbackView) Title() string {
	return fmt.Sprintf("Outcome %d/3", int(v.wizard.Step())+1)
}

func (v *feedbackView) ShortHelp() []key.Binding {
	back := "cancel"
	if v.wizard.Step() > feedback.StepOutcome {
		back = "back"
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", back)),
	}
}

func (v *feedbackView) Init() tea.Cmd { return v.form.Init() }

// buildForm constructs the huh form for the wizard's current step. The
// form's values point straight at the wizard's fields, so backward
// navigation naturally restores whatever was entered before.
func (v *feedbackView) buildForm() *huh.Form {
	var form *huh.Form
	switch v.wizard.Step() {
	case feedback.StepOutcome:
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[domain.Outcome]().
					Title("How did it end?").
					Options(
						huh.NewOption("Won", domain.OutcomeWon),
						huh.NewOption("Lost", domain.OutcomeLost),
						huh.NewOption("Withdrew", domain.OutcomeWithdrew),
					).
					Value(&v.wizard.Outcome),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Placement").
					Placeholder("e.g. 1st place, finalist").
					Value(&v.wizard.Placement),
				huh.NewInput().
					Title("Prize won").
					Placeholder("optional").
					Value(&v.wizard.PrizeWon),
			).WithHideFunc(func() bool {
				return v.wizard.Outcome != domain.OutcomeWon
			}),
		)

	case feedback.StepReflection:
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewMultiSelect[string]().
					Title("What went well?").
					Options(factorOptions(domain.ValidSuccessFactors)...).
					Value(&v.wizard.SuccessFactors),
				huh.NewMultiSelect[string]().
					Title("What was hard?").
					Options(factorOptions(domain.ValidChallengeFactors)...).
					Value(&v.wizard.ChallengeFactors),
				huh.NewConfirm().
					Title("Would you apply again?").
					Value(&v.wizard.WouldApplyAgain),
			),
		)

	case feedback.StepDetails:
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewNote().
					Title("Summary").
					Description(v.summary()),
				huh.NewSelect[int]().
					Title("Difficulty").
					Options(
						huh.NewOption("1 · trivial", 1),
						huh.NewOption("2 · easy", 2),
						huh.NewOption("3 · moderate", 3),
						huh.NewOption("4 · hard", 4),
						huh.NewOption("5 · brutal", 5),
					).
					Value(&v.wizard.DifficultyRating),
				huh.NewInput().
					Title("Hours spent").
					Placeholder("optional").
					Validate(validateOptionalHours).
					Value(&v.hoursInput),
				huh.NewText().
					Title("Notes").
					Placeholder("anything worth remembering next time").
					Value(&v.wizard.Notes),
			),
		)
	}
	return form.WithTheme(pursuitHuhTheme()).WithShowHelp(false)
}

// summary recaps what the first two steps captured, shown read-only above
// the details inputs.
func (v *feedbackView) summary() string {
	parts := []string{string(v.wizard.Outcome)}
	if v.wizard.Outcome == domain.OutcomeWon && v.wizard.Placement != "" {
		parts = append(parts, v.wizard.Placement)
	}
	if n := len(v.wizard.SuccessFactors) + len(v.wizard.ChallengeFactors); n > 0 {
		parts = append(parts, fmt.Sprintf("%d factors", n))
	}
	if v.wizard.WouldApplyAgain {
		parts = append(parts, "would apply again")
	}
	return strings.Join(parts, " · ")
}

// factorOptions flattens a tag vocabulary into sorted form options.
func factorOptions(vocab map[string]bool) []huh.Option[string] {
	tags := make([]string, 0, len(vocab))
	for tag := range vocab {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	opts := make([]huh.Option[string], 0, len(tags))
	for _, tag := range tags {
		label := factorLabels[tag]
		if label == "" {
			label = tag
		}
		opts = append(opts, huh.NewOption(label, tag))
	}
	return opts
}

func (v *feedbackView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case feedbackDoneMsg:
		v.submitting = false
		if msg.err != nil {
			// Everything entered survives; the user can adjust and retry.
			v.form = v.buildForm()
			return v, tea.Batch(v.form.Init(),
				notify("Submission failed: "+msg.err.Error()+" — press enter to retry", true))
		}
		return v, tea.Sequence(popView(),
			notify(fmt.Sprintf("Recorded %s for %q", msg.rec.Outcome, v.wizard.ItemTitle), false),
			refreshViews())

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}
		if msg.Type == tea.KeyEsc {
			if v.wizard.Step() == feedback.StepOutcome {
				return v, popView()
			}
			v.wizard.Back()
			v.form = v.buildForm()
			return v, v.form.Init()
		}
	}

	if v.submitting {
		return v, nil
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		return v.advance(cmd)
	}
	return v, cmd
}

// advance reacts to a completed step form: move the wizard forward, or
// submit from the final step.
func (v *feedbackView) advance(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if v.wizard.Step() == feedback.StepDetails {
		v.wizard.TimeSpentHours = parseOptionalInt(v.hoursInput, 0)
		v.submitting = true
		wizard := v.wizard
		store := v.state.Store
		now := v.state.Now()
		return v, func() tea.Msg {
			rec, err := wizard.Submit(context.Background(), store, now)
			return feedbackDoneMsg{rec: rec, err: err}
		}
	}

	if err := v.wizard.Next(); err != nil {
		v.form = v.buildForm()
		return v, tea.Batch(v.form.Init(), notify(err.Error(), true))
	}
	v.form = v.buildForm()
	return v, tea.Batch(cmd, v.form.Init())
}

func (v *feedbackView) View() string {
	header := "  " + formatter.StyleHeader.Render("RECORD OUTCOME") +
		"  " + formatter.Dim(v.wizard.ItemTitle) + "\n" +
		"  " + v.stepIndicator() + "\n\n"

	if v.submitting {
		return "\n" + header + "  " + formatter.Dim("Submitting...")
	}
	return "\n" + header + v.form.View()
}

// stepIndicator renders the "Outcome › Reflection › Details" breadcrumb with
// the active step highlighted.
func (v *feedbackView) stepIndicator() string {
	out := ""
	for i, s := range []feedback.Step{feedback.StepOutcome, feedback.StepReflection, feedback.StepDetails} {
		if i > 0 {
			out += formatter.Dim(" › ")
		}
		label := strconv.Itoa(i+1) + " " + s.Label()
		if s == v.wizard.Step() {
			out += formatter.StyleGreen.Render(label)
		} else {
			out += formatter.Dim(label)
		}
	}
	return out
}
