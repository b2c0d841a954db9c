package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closerlab/internal/model"
)

const gradingJSON = `{
  "discovery": {"score": 70, "evidence": "asked about the pipeline early"},
  "valueCommunication": {"score": 60, "evidence": "tied price to outcome"},
  "trustBuilding": {"score": 80, "evidence": "mirrored concerns"},
  "objectionHandling": {"score": 50, "evidence": "rushed past the budget objection"},
  "closing": {"score": 40, "evidence": "asked for the sale once"},
  "phases": [{"phase": "discovery", "score": 72, "summary": "solid opening questions"}],
  "objectionSummary": "Budget objection raised and partially handled.",
  "recommendations": [
    {"priority": "high", "category": "closing", "text": "Ask for the close after value is confirmed."},
    {"priority": "urgent-ish", "category": "discovery", "text": "Go one level deeper on pain."}
  ]
}`

const reconJSON = `{
  "positionProblemAlignment": {"score": 6, "justification": "their problem matches the offer"},
  "painAmbitionIntensity": {"score": 7, "justification": "frustrated with flat growth"},
  "perceivedNeedForHelp": {"score": 5, "justification": "tried solving it alone first"},
  "funnelContextScore": {"score": 4, "justification": "heard of the rep once"},
  "executionResistance": {"score": 8, "justification": "budget exists, decides alone"}
}`

func scoringFixture(t *testing.T) (*ScoringService, *memSessionRepo, *memAnalysisRepo, *memPatternCache, *stubGenerator) {
	t.Helper()
	gen := &stubGenerator{responses: map[string]string{
		"scoring-model": gradingJSON,
		"recon-model":   reconJSON,
	}}
	sessionRepo := newMemSessionRepo()
	analysisRepo := newMemAnalysisRepo()
	patterns := newMemPatternCache()
	svc := NewScoringService(testAIConfig(), gen, sessionRepo, analysisRepo, patterns)
	return svc, sessionRepo, analysisRepo, patterns, gen
}

func endedSession(id string, turns []model.ConversationTurn) *model.Session {
	now := time.Now()
	return &model.Session{
		ID:        id,
		TraineeID: "trainee-1",
		OfferID:   "offer-1",
		Status:    model.SessionCompleted,
		Turns:     turns,
		StartedAt: now.Add(-10 * time.Minute),
		EndedAt:   &now,
	}
}

func sampleTurns() []model.ConversationTurn {
	return []model.ConversationTurn{
		{Role: model.RoleRep, Text: "What made you take this call?", TurnIndex: 0},
		{Role: model.RoleProspect, Text: "We've been stuck at the same revenue for a year.", TurnIndex: 1},
		{Role: model.RoleRep, Text: "What have you tried so far?", TurnIndex: 2},
		{Role: model.RoleProspect, Text: "Hired two SDRs, it didn't move the needle.", TurnIndex: 3},
	}
}

func TestAnalyzeProducesFullResult(t *testing.T) {
	svc, sessionRepo, _, patterns, gen := scoringFixture(t)
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)

	require.NoError(t, sessionRepo.Create(context.Background(), endedSession("s1", sampleTurns())))

	result, err := svc.Analyze(context.Background(), "s1")
	require.NoError(t, err)

	require.Len(t, result.CategoryScores, 5)
	assert.InDelta(t, 60.0, result.OverallScore, 1e-9) // mean of 70,60,80,50,40
	assert.Equal(t, "Budget objection raised and partially handled.", result.ObjectionSummary)

	require.Len(t, result.ReconstructedDimensions, 5)
	assert.InDelta(t, 30.0, result.ReconstructedIndex, 1e-9) // 6+7+5+4+8
	assert.Equal(t, model.TierHard, result.ReconstructedTier)
	assert.InDelta(t, CloserEffectiveness(60, 30), result.CloserEffectiveness, 1e-9)

	// Short call: no phase scores even if the model volunteered them.
	assert.Empty(t, result.PhaseScores)

	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, "high", result.Recommendations[0].Priority)
	assert.Equal(t, "medium", result.Recommendations[1].Priority, "unknown priority normalizes to medium")

	stored, _ := sessionRepo.GetByID(context.Background(), "s1")
	assert.Equal(t, model.AnalysisReady, stored.AnalysisStatus)
	assert.Equal(t, 1, patterns.recorded)
	assert.Contains(t, b.traineeMsgs, "analysis_ready")
	assert.Len(t, gen.calls, 2)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	svc, sessionRepo, _, _, gen := scoringFixture(t)
	require.NoError(t, sessionRepo.Create(context.Background(), endedSession("s1", sampleTurns())))

	first, err := svc.Analyze(context.Background(), "s1")
	require.NoError(t, err)

	second, err := svc.Analyze(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, first.OverallScore, second.OverallScore)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Len(t, gen.calls, 2, "second call must not re-run generation")
}

func TestAnalyzeRejectsLiveSession(t *testing.T) {
	svc, sessionRepo, _, _, _ := scoringFixture(t)
	live := endedSession("s1", sampleTurns())
	live.Status = model.SessionInProgress
	require.NoError(t, sessionRepo.Create(context.Background(), live))

	_, err := svc.Analyze(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrSessionNotEnded)
}

func TestAnalyzeRejectsEmptyTranscript(t *testing.T) {
	svc, sessionRepo, _, _, _ := scoringFixture(t)
	require.NoError(t, sessionRepo.Create(context.Background(), endedSession("s1", nil)))

	_, err := svc.Analyze(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrTranscriptEmpty)
}

func TestAnalyzeTransientFailureStaysPending(t *testing.T) {
	svc, sessionRepo, analysisRepo, patterns, gen := scoringFixture(t)
	gen.err = &GenerationError{Op: "scoring", StatusCode: 503, Transient: true, Err: errors.New("upstream flaked")}
	require.NoError(t, sessionRepo.Create(context.Background(), endedSession("s1", sampleTurns())))

	_, err := svc.Analyze(context.Background(), "s1")
	require.Error(t, err)
	assert.True(t, IsTransientGeneration(err))

	stored, _ := sessionRepo.GetByID(context.Background(), "s1")
	assert.Equal(t, model.AnalysisPending, stored.AnalysisStatus)

	saved, _ := analysisRepo.GetBySessionID(context.Background(), "s1")
	assert.Nil(t, saved, "no partial result may be persisted")
	assert.Equal(t, 0, patterns.recorded)
}

func TestAnalyzeTerminalFailureMarksFailed(t *testing.T) {
	svc, sessionRepo, _, _, gen := scoringFixture(t)
	gen.err = &GenerationError{Op: "scoring", StatusCode: 401, Transient: false, Err: errors.New("bad key")}
	require.NoError(t, sessionRepo.Create(context.Background(), endedSession("s1", sampleTurns())))

	_, err := svc.Analyze(context.Background(), "s1")
	require.Error(t, err)
	assert.False(t, IsTransientGeneration(err))

	stored, _ := sessionRepo.GetByID(context.Background(), "s1")
	assert.Equal(t, model.AnalysisFailed, stored.AnalysisStatus)
}

func TestAnalyzeUnparseableGradingIsTransient(t *testing.T) {
	svc, sessionRepo, _, _, gen := scoringFixture(t)
	gen.responses["scoring-model"] = "I would rate this call a solid seven."
	require.NoError(t, sessionRepo.Create(context.Background(), endedSession("s1", sampleTurns())))

	_, err := svc.Analyze(context.Background(), "s1")
	require.Error(t, err)
	assert.True(t, IsTransientGeneration(err))
}

func TestAnalyzeDefaultsObjectionSummary(t *testing.T) {
	svc, sessionRepo, _, _, gen := scoringFixture(t)
	gen.responses["scoring-model"] = `{
	  "discovery": {"score": 70}, "valueCommunication": {"score": 60},
	  "trustBuilding": {"score": 80}, "objectionHandling": {"score": 50},
	  "closing": {"score": 40}, "recommendations": []
	}`
	require.NoError(t, sessionRepo.Create(context.Background(), endedSession("s1", sampleTurns())))

	result, err := svc.Analyze(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "No objections were raised during this call.", result.ObjectionSummary)
}

func TestCloserEffectivenessMonotonic(t *testing.T) {
	// Fixed difficulty: more performance never scores lower.
	for perf := 0.0; perf < 100; perf += 10 {
		assert.LessOrEqual(t, CloserEffectiveness(perf, 30), CloserEffectiveness(perf+10, 30))
	}
	// Fixed performance: a harder prospect (lower index) never scores lower.
	for index := 50.0; index > 0; index -= 5 {
		assert.LessOrEqual(t, CloserEffectiveness(70, index), CloserEffectiveness(70, index-5))
	}
}

func TestCloserEffectivenessBounds(t *testing.T) {
	assert.Equal(t, 100.0, CloserEffectiveness(100, 0))
	assert.Equal(t, 60.0, CloserEffectiveness(100, 50))
	assert.Equal(t, 0.0, CloserEffectiveness(0, 25))
	// Out-of-range inputs clamp instead of exploding.
	assert.Equal(t, 100.0, CloserEffectiveness(150, -10))
}

func TestProspectEvidenceIsOutcomeBlind(t *testing.T) {
	base := []model.ConversationTurn{
		{Role: model.RoleRep, Text: "What made you take this call?", TurnIndex: 0},
		{Role: model.RoleProspect, Text: "We've been stuck at the same revenue for a year.", TurnIndex: 1},
		{Role: model.RoleRep, Text: "Here's how we'd fix that.", TurnIndex: 2},
		{Role: model.RoleProspect, Text: "That could work for us, I think.", TurnIndex: 3},
	}

	won := append(append([]model.ConversationTurn{}, base...),
		model.ConversationTurn{Role: model.RoleProspect, Text: "Alright, I'm in. Send the contract.", TurnIndex: 4})
	lost := append(append([]model.ConversationTurn{}, base...),
		model.ConversationTurn{Role: model.RoleProspect, Text: "Not interested. We're done here.", TurnIndex: 4})

	assert.Equal(t, ProspectEvidence(won), ProspectEvidence(lost))
}

func TestProspectEvidenceExcludesRepTurns(t *testing.T) {
	evidence := ProspectEvidence(sampleTurns())
	assert.NotContains(t, evidence, "What made you take this call?")
	assert.Contains(t, evidence, "stuck at the same revenue")
}
