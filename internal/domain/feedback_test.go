package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeValid(t *testing.T) {
	assert.True(t, OutcomeWon.Valid())
	assert.True(t, OutcomeLost.Valid())
	assert.True(t, OutcomeWithdrew.Valid())
	assert.False(t, Outcome("").Valid())
	assert.False(t, Outcome("abandoned").Valid())
}

func TestOutcomeTargetStage(t *testing.T) {
	assert.Equal(t, StageWon, OutcomeWon.TargetStage())
	assert.Equal(t, StageLost, OutcomeLost.TargetStage())
	assert.Equal(t, StageLost, OutcomeWithdrew.TargetStage(), "withdrawing archives like a loss")
}

func TestFactorVocabularies(t *testing.T) {
	assert.True(t, ValidSuccessFactors["strong_team"])
	assert.True(t, ValidChallengeFactors["time_pressure"])
	assert.False(t, ValidSuccessFactors["time_pressure"], "vocabularies are disjoint")
	assert.False(t, ValidChallengeFactors["strong_team"])
}
