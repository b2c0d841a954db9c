package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closerlab/internal/model"
	"closerlab/internal/sim"
)

func testSession() *model.Session {
	profile := sim.NewProfile(model.ProfileInputs{
		PositionProblemAlignment: 6,
		PainAmbitionIntensity:    6,
		PerceivedNeedForHelp:     6,
		AuthorityLevel:           "peer",
		FunnelContextScore:       6,
		ExecutionResistance:      6,
	})
	return &model.Session{
		ID:        "s1",
		TraineeID: "trainee-1",
		OfferID:   "offer-1",
		Status:    model.SessionInProgress,
		Profile:   profile,
		Funnel:    model.FunnelContext{Source: "inbound", WarmthScore: 5},
		Turns:     []model.ConversationTurn{},
	}
}

func TestSynthesizeProfileIsDeterministic(t *testing.T) {
	a := SynthesizeProfile("expert")
	b := SynthesizeProfile("expert")
	assert.Equal(t, a, b)
	assert.Equal(t, model.TierExpert, a.DifficultyTier)
}

func TestSynthesizeProfileCoversAllTiers(t *testing.T) {
	for _, label := range []string{"easy", "realistic", "hard", "expert", "near_impossible"} {
		p := SynthesizeProfile(label)
		assert.Equal(t, model.DifficultyTier(label), p.DifficultyTier, "label %s", label)
	}
}

func TestSynthesizeProfileUnknownLabelFallsBack(t *testing.T) {
	p := SynthesizeProfile("nightmare")
	assert.Equal(t, model.TierRealistic, p.DifficultyTier)
	assert.Equal(t, SynthesizeProfile("realistic"), p)
}

func TestRespondMovesStateAndTrimsReply(t *testing.T) {
	gen := &stubGenerator{responses: map[string]string{
		"dialogue-model": "  Honestly, lead flow has been the problem.\n",
	}}
	svc := NewPolicyService(testAIConfig(), gen)

	session := testSession()
	state := sim.InitialState(session.Profile, session.Funnel)

	reply, next, _, err := svc.Respond(context.Background(), session, testOffer(), state,
		"What's your biggest bottleneck right now?", nil)
	require.NoError(t, err)

	assert.Equal(t, "Honestly, lead flow has been the problem.", reply)
	assert.Greater(t, next.TrustLevel, state.TrustLevel, "discovery question should build trust")
	require.Len(t, gen.calls, 1)
	assert.Equal(t, "dialogue-model", gen.calls[0])
}

func TestRespondFailureReturnsNothing(t *testing.T) {
	gen := &stubGenerator{err: &GenerationError{Op: "dialogue", Transient: true, Err: errors.New("timeout")}}
	svc := NewPolicyService(testAIConfig(), gen)

	session := testSession()
	state := sim.InitialState(session.Profile, session.Funnel)

	reply, next, side, err := svc.Respond(context.Background(), session, testOffer(), state, "Hello?", nil)
	require.Error(t, err)
	assert.True(t, IsTransientGeneration(err))
	assert.Empty(t, reply)
	assert.Equal(t, model.BehaviourState{}, next)
	assert.Equal(t, model.SideSignals{}, side)
}

func TestBuildBriefContents(t *testing.T) {
	svc := NewPolicyService(testAIConfig(), &stubGenerator{})
	session := testSession()
	session.Replay = &model.ReplayFocus{Phase: "objection_handling", Topic: "budget"}
	state := sim.InitialState(session.Profile, session.Funnel)

	brief := svc.BuildBrief(session, testOffer(), state, "So what do you think?", []string{"closing", "discovery"})

	assert.Contains(t, brief, "Pipeline Accelerator")
	assert.Contains(t, brief, "inbound")
	assert.Contains(t, brief, `"objection_handling" phase`)
	assert.Contains(t, brief, `around "budget"`)
	assert.Contains(t, brief, "closing, discovery")
	assert.Contains(t, brief, "So what do you think?")
	assert.Contains(t, brief, "(call just started)")
}

func TestBuildBriefTruncatesHistory(t *testing.T) {
	svc := NewPolicyService(testAIConfig(), &stubGenerator{})
	session := testSession()
	for i := 0; i < 30; i++ {
		role := model.RoleRep
		if i%2 == 1 {
			role = model.RoleProspect
		}
		session.Turns = append(session.Turns, model.ConversationTurn{
			Role: role, Text: "line", TurnIndex: i,
		})
	}
	session.Turns[0].Text = "the very first line"

	state := sim.InitialState(session.Profile, session.Funnel)
	brief := svc.BuildBrief(session, testOffer(), state, "next?", nil)
	assert.NotContains(t, brief, "the very first line")
}

func TestDefaultFunnelFollowsProfileWarmth(t *testing.T) {
	cases := []struct {
		score  float64
		source string
	}{
		{9, "referral"},
		{7, "referral"},
		{5, "inbound"},
		{4, "inbound"},
		{2, "cold_outbound"},
	}
	for _, c := range cases {
		p := model.DifficultyProfile{FunnelContextScore: c.score}
		f := DefaultFunnel(p)
		assert.Equal(t, c.source, f.Source, "score %v", c.score)
		assert.Equal(t, c.score, f.WarmthScore)
	}
}
