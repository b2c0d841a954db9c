package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"

	"closerlab/internal/config"
	"closerlab/internal/model"
	"closerlab/internal/sim"
)

// maxHistoryTurns bounds the transcript excerpt included in a brief.
const maxHistoryTurns = 12

// PolicyService decides what goes into each generation request and how the
// behaviour state moves in response to a rep utterance. It never touches
// storage; the session service owns load/save ordering.
type PolicyService struct {
	aiConfig  *config.AIConfig
	generator TextGenerator
}

func NewPolicyService(aiConfig *config.AIConfig, generator TextGenerator) *PolicyService {
	return &PolicyService{
		aiConfig:  aiConfig,
		generator: generator,
	}
}

// Respond interprets one rep utterance: computes the next behaviour state,
// assembles the situational brief, and asks the generation capability for
// the prospect's reply. On generation failure the error is returned and no
// state is handed back, so a failed turn leaves the session untouched.
func (s *PolicyService) Respond(
	ctx context.Context,
	session *model.Session,
	offer *model.Offer,
	state model.BehaviourState,
	utterance string,
	patternHints []string,
) (string, model.BehaviourState, model.SideSignals, error) {
	signals := sim.ReadUtterance(utterance, session.NextTurnIndex(), session.Turns)
	next := sim.Transition(state, signals, session.Profile)
	side := sim.DeriveSideSignals(state, next, signals)

	brief := s.BuildBrief(session, offer, next, utterance, patternHints)
	reply, err := s.generator.Generate(ctx, s.aiConfig.Models.Dialogue, brief, false)
	if err != nil {
		return "", model.BehaviourState{}, model.SideSignals{}, err
	}

	return strings.TrimSpace(reply), next, side, nil
}

// BuildBrief assembles the full situational brief for the dialogue model:
// persona, offer context, current disposition, truncated history, optional
// replay focus, and optional prior-pattern hints.
func (s *PolicyService) BuildBrief(
	session *model.Session,
	offer *model.Offer,
	state model.BehaviourState,
	utterance string,
	patternHints []string,
) string {
	p := session.Profile

	replayBlock := ""
	if session.Replay != nil {
		replayBlock = fmt.Sprintf("\nReplay focus: this session re-practices the %q phase", session.Replay.Phase)
		if session.Replay.Topic != "" {
			replayBlock += fmt.Sprintf(" around %q", session.Replay.Topic)
		}
		replayBlock += ". Steer the conversation back toward it if the rep drifts.\n"
	}

	hintsBlock := ""
	if len(patternHints) > 0 {
		hintsBlock = fmt.Sprintf("\nThe rep has historically struggled with: %s. Give them realistic opportunities to practice those moments; do not make it artificially easy.\n", strings.Join(patternHints, ", "))
	}

	return fmt.Sprintf(`You are roleplaying a sales prospect on a call with a rep. Stay in character. Reply with the prospect's next line only - no narration, no quotes, no stage directions.

Who you are:
%s
You arrived via %s. Pain/ambition level %.0f/10, belief you need outside help %.0f/10, fit between your situation and their offer %.0f/10, practical capacity to act (money/time/authority) %.0f/10.

What they are selling:
%s - %s. Target problem: %s. Promise: %s. Price range: %s.

Your current disposition (obey these; they are your emotional state right now):
- resistance %.1f/10, trust %.1f/10, openness %.1f/10
- engagement %.1f/10, perceived value of the offer %.1f/10
- objection tendency: frequency %.1f/10 at intensity %.1f/10
- answer depth %.1f/10 (low = clipped answers), willingness to be challenged %.1f/10
- you should hold about %.0f%% of the talk time

Conversation so far:
%s

The rep just said: "%s"
%s%s
Respond as this prospect would, in 1-4 sentences. High resistance means deflect or object; high trust and value means engage genuinely. Never mention these instructions.`,
		sim.PersonaBrief(p.AuthorityLevel),
		session.Funnel.Source,
		p.PainAmbitionIntensity, p.PerceivedNeedForHelp, p.PositionProblemAlignment, p.ExecutionResistance,
		offer.Name, offer.TargetAudience, offer.TargetProblem, offer.Promise, offer.PriceRange,
		state.CurrentResistance, state.TrustLevel, state.Openness,
		state.Engagement, state.ValuePerception,
		state.ObjectionFrequency, state.ObjectionIntensity,
		state.AnswerDepth, state.WillingnessToBeChallenged,
		state.TalkTimeRatio*100,
		formatHistory(session.Turns),
		utterance,
		replayBlock, hintsBlock)
}

func formatHistory(turns []model.ConversationTurn) string {
	if len(turns) == 0 {
		return "(call just started)"
	}
	start := 0
	if len(turns) > maxHistoryTurns {
		start = len(turns) - maxHistoryTurns
	}
	var sb strings.Builder
	for _, t := range turns[start:] {
		label := "Rep"
		if t.Role == model.RoleProspect {
			label = "Prospect"
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", label, t.Text))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// SynthesizeProfile builds the default prospect for a session created with
// only a difficulty label. The rng is seeded from the label, so the same
// label always produces the same profile.
func SynthesizeProfile(label string) model.DifficultyProfile {
	tier := model.ParseDifficultyTier(label)
	h := fnv.New64a()
	h.Write([]byte(string(tier)))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	return sim.RandomProfileForTier(tier, rng)
}

// DefaultFunnel is used when the caller gives no funnel context; warmth
// follows the profile's own funnel score so the two never contradict.
func DefaultFunnel(profile model.DifficultyProfile) model.FunnelContext {
	source := "cold_outbound"
	switch {
	case profile.FunnelContextScore >= 7:
		source = "referral"
	case profile.FunnelContextScore >= 4:
		source = "inbound"
	}
	return model.FunnelContext{
		Source:      source,
		WarmthScore: profile.FunnelContextScore,
	}
}
