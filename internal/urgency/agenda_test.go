package urgency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuitapp/pursuit/internal/domain"
	"github.com/pursuitapp/pursuit/internal/testutil"
)

func TestBuildAgenda_Empty(t *testing.T) {
	a := BuildAgenda(nil, testNow, DefaultThresholds())
	require.Len(t, a.Days, WindowDays+1)
	assert.Equal(t, 0, a.TotalUpcoming)
	assert.Equal(t, 0, a.Conflicts)
	assert.Equal(t, PressureNormal, a.Pressure)
}

func TestBuildAgenda_BucketsAndConflicts(t *testing.T) {
	items := []*domain.PipelineItem{
		testutil.NewItem("a", testutil.WithDeadline(*deadlineIn(2))),
		testutil.NewItem("b", testutil.WithDeadline(*deadlineIn(2))),
		testutil.NewItem("c", testutil.WithDeadline(*deadlineIn(5))),
	}
	a := BuildAgenda(items, testNow, DefaultThresholds())

	assert.Equal(t, 3, a.TotalUpcoming)
	assert.Equal(t, 1, a.Conflicts, "only the doubled-up day counts")
	assert.Len(t, a.Days[2].Items, 2)
	assert.Len(t, a.Days[5].Items, 1)
}

func TestBuildAgenda_SkipsTerminalAndNoDeadline(t *testing.T) {
	items := []*domain.PipelineItem{
		testutil.NewItem("won", testutil.WithStage(domain.StageWon), testutil.WithDeadline(*deadlineIn(2))),
		testutil.NewItem("lost", testutil.WithStage(domain.StageLost), testutil.WithDeadline(*deadlineIn(2))),
		testutil.NewItem("no deadline"),
	}
	a := BuildAgenda(items, testNow, DefaultThresholds())
	assert.Equal(t, 0, a.TotalUpcoming)
	assert.Empty(t, a.Days[2].Items)
}

func TestBuildAgenda_WindowEdges(t *testing.T) {
	items := []*domain.PipelineItem{
		testutil.NewItem("today", testutil.WithDeadline(testNow.Add(2 * time.Hour))),
		testutil.NewItem("last day", testutil.WithDeadline(*deadlineIn(WindowDays))),
		testutil.NewItem("outside", testutil.WithDeadline(*deadlineIn(WindowDays + 1))),
		testutil.NewItem("past", testutil.WithDeadline(*deadlineIn(-3))),
	}
	a := BuildAgenda(items, testNow, DefaultThresholds())

	assert.Equal(t, 2, a.TotalUpcoming)
	assert.Len(t, a.Days[0].Items, 1)
	assert.Len(t, a.Days[WindowDays].Items, 1)
}

func TestBuildAgenda_Pressure(t *testing.T) {
	th := Thresholds{Heavy: 4, Critical: 6}

	build := func(n int) Agenda {
		var items []*domain.PipelineItem
		for i := 0; i < n; i++ {
			items = append(items, testutil.NewItem("x", testutil.WithDeadline(*deadlineIn(1+i%10))))
		}
		return BuildAgenda(items, testNow, th)
	}

	assert.Equal(t, PressureNormal, build(3).Pressure)
	assert.Equal(t, PressureHeavy, build(4).Pressure)
	assert.Equal(t, PressureHeavy, build(5).Pressure)
	assert.Equal(t, PressureCritical, build(6).Pressure)
}

func TestBuildAgenda_CustomThresholds(t *testing.T) {
	items := []*domain.PipelineItem{
		testutil.NewItem("a", testutil.WithDeadline(*deadlineIn(1))),
		testutil.NewItem("b", testutil.WithDeadline(*deadlineIn(2))),
	}
	a := BuildAgenda(items, testNow, Thresholds{Heavy: 2, Critical: 10})
	assert.Equal(t, PressureHeavy, a.Pressure)
}
