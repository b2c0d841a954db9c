package sim

import "closerlab/internal/model"

// InitialState derives the behaviour vector from the fixed profile and
// funnel context. Fixed mapping, no randomness: the same profile always
// opens the same way.
func InitialState(profile model.DifficultyProfile, funnel model.FunnelContext) model.BehaviourState {
	inf := influenceFor(profile.AuthorityLevel)
	warmth := ClampDimension(funnel.WarmthScore)

	s := model.BehaviourState{
		// Low execution capacity shows up as elevated resistance and more
		// frequent objections before the rep has said a word.
		CurrentResistance:  10 - (profile.ExecutionResistance+profile.PositionProblemAlignment)/2 + inf.resistanceDelta,
		ObjectionFrequency: 8 - 0.4*profile.PainAmbitionIntensity - 0.3*profile.ExecutionResistance,
		ObjectionIntensity: 7 - 0.4*profile.PerceivedNeedForHelp - 0.2*warmth,

		AnswerDepth: 3 + 0.4*profile.PositionProblemAlignment + 0.3*warmth,
		Openness:    2.5 + 0.45*profile.PerceivedNeedForHelp + inf.opennessDelta,
		Engagement:  3 + 0.4*profile.PainAmbitionIntensity + 0.2*warmth,

		WillingnessToBeChallenged: 5 + inf.willingnessDelta,
		ResponseSpeed:             3.5 + 0.3*profile.PainAmbitionIntensity + 0.2*warmth,
		TalkTimeRatio:             0.45 + inf.talkTimeDelta,

		TrustLevel:      0.35*profile.FunnelContextScore + 0.35*warmth,
		ValuePerception: 0.3*profile.PositionProblemAlignment + 0.3*profile.PerceivedNeedForHelp,
	}
	s.Clamp()
	return s
}

// Transition computes the next behaviour state from the current one and the
// deterministic read of the rep's utterance. State moves monotone-forward:
// the input is taken by value and a new clamped vector is returned.
//
// Harder prospects (lower index) move less on positive signals and more on
// negative ones.
func Transition(state model.BehaviourState, sig model.UtteranceSignals, profile model.DifficultyProfile) model.BehaviourState {
	stubborn := 1 - profile.DifficultyIndex/100 // 0.5 (easiest) .. 1.0 (hardest)
	warm := 1.5 - stubborn                      // positive-signal multiplier
	cold := 0.5 + stubborn                      // negative-signal multiplier

	if sig.DiscoveryQuestion {
		state.TrustLevel += 0.6 * warm
		state.Openness += 0.5 * warm
		state.AnswerDepth += 0.4 * warm
		state.CurrentResistance -= 0.3 * warm
	}
	if sig.DeepQuestion {
		state.TrustLevel += 0.8 * warm
		state.Engagement += 0.6 * warm
		state.AnswerDepth += 0.6 * warm
		state.TalkTimeRatio += 0.04
	}
	if sig.ActiveListening {
		state.TrustLevel += 0.5 * warm
		state.Openness += 0.4 * warm
	}
	if sig.ValueFraming {
		state.ValuePerception += 0.7 * warm
		state.Engagement += 0.4 * warm
	}
	if sig.SocialProof {
		state.TrustLevel += 0.4 * warm
		state.ValuePerception += 0.3 * warm
	}

	if sig.PrematurePitch {
		state.CurrentResistance += 1.2 * cold
		state.ObjectionFrequency += 0.8 * cold
		state.Openness -= 0.6 * cold
	}
	if sig.PriceMention {
		if state.ValuePerception >= 5 {
			state.ObjectionIntensity += 0.3
		} else {
			// Price before value lands hard.
			state.ObjectionIntensity += 1.5 * cold
			state.CurrentResistance += 0.8 * cold
		}
	}
	if sig.PressureLanguage {
		state.CurrentResistance += 1.0 * cold
		state.TrustLevel -= 0.8 * cold
		state.WillingnessToBeChallenged -= 0.5 * cold
	}
	if sig.ChallengeFrame {
		if state.WillingnessToBeChallenged >= 6 {
			state.Engagement += 0.6 * warm
			state.TrustLevel += 0.3 * warm
		} else {
			state.CurrentResistance += 0.9 * cold
			state.ObjectionIntensity += 0.6 * cold
		}
	}
	if sig.CloseAttempt {
		if state.ValuePerception >= 6 && state.TrustLevel >= 6 {
			state.CurrentResistance -= 0.8 * warm
			state.ObjectionFrequency -= 0.5 * warm
		} else {
			state.ObjectionIntensity += 0.8 * cold
			state.CurrentResistance += 0.5 * cold
		}
	}

	// Monologues lose the prospect; short turns hand them the floor.
	if sig.WordCount > 120 {
		state.Engagement -= 0.5
		state.TalkTimeRatio -= 0.05
	} else if sig.WordCount < 30 && sig.DiscoveryQuestion {
		state.TalkTimeRatio += 0.03
	}

	// Passive drift: heat decays between flashpoints, pace follows interest.
	state.ObjectionIntensity -= 0.2
	state.ResponseSpeed += 0.15 * (state.Engagement - state.ResponseSpeed)

	state.Clamp()
	return state
}

// DeriveSideSignals compares consecutive states into advisory observations
// for telemetry. Never fed back into the profile or the scoring engine.
func DeriveSideSignals(prev, next model.BehaviourState, sig model.UtteranceSignals) model.SideSignals {
	out := model.SideSignals{
		ObjectionRaised:  next.ObjectionIntensity > prev.ObjectionIntensity+0.5,
		InterestRising:   next.Engagement > prev.Engagement || next.ValuePerception > prev.ValuePerception,
		TrustRising:      next.TrustLevel > prev.TrustLevel,
		ResistanceRising: next.CurrentResistance > prev.CurrentResistance,
	}
	if sig.PrematurePitch {
		out.Notes = append(out.Notes, "pitch landed before discovery")
	}
	if sig.PriceMention && prev.ValuePerception < 5 {
		out.Notes = append(out.Notes, "price raised before value was established")
	}
	if sig.PressureLanguage {
		out.Notes = append(out.Notes, "pressure language detected")
	}
	return out
}
