package sim

import (
	"strings"

	"closerlab/internal/model"
)

// Keyword groups for the lexical utterance read. Deliberately coarse: the
// transition function only needs directional signals, not understanding.
var (
	discoveryMarkers = []string{
		"what ", "how ", "tell me", "walk me through", "help me understand",
		"where are you", "what's your", "whats your", "describe",
	}
	deepMarkers = []string{
		"why ", "what happens if", "what does that cost", "what's at stake",
		"how long has", "what have you tried", "impact", "consequence",
	}
	listeningMarkers = []string{
		"sounds like", "what i'm hearing", "what im hearing", "so you're saying",
		"so youre saying", "if i understand", "let me make sure",
	}
	pitchMarkers = []string{
		"our program", "our offer", "we offer", "let me tell you about",
		"what we do is", "our system", "our process",
	}
	priceMarkers = []string{
		"$", "price", "cost", "investment", "per month", "pay", "payment plan",
	}
	pressureMarkers = []string{
		"only today", "last spot", "spots left", "act now", "need to decide",
		"right now or", "expires",
	}
	valueMarkers = []string{
		"roi", "return on", "outcome", "results", "imagine", "worth it",
		"pays for itself",
	}
	proofMarkers = []string{
		"clients", "case study", "testimonial", "people like you",
		"others in your position", "we've helped", "weve helped",
	}
	challengeMarkers = []string{
		"disagree", "you're wrong", "youre wrong", "push back", "challenge you",
		"that's not true", "thats not true", "respectfully",
	}
	closeMarkers = []string{
		"ready to get started", "move forward", "sign up", "get you enrolled",
		"next step", "shall we", "pull the trigger", "get started today",
	}
)

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// ReadUtterance extracts directional signals from one rep utterance. Pure
// and deterministic so the transition layer stays unit-testable without any
// generation capability.
func ReadUtterance(text string, turnIndex int, history []model.ConversationTurn) model.UtteranceSignals {
	lower := strings.ToLower(text)
	isQuestion := strings.Contains(lower, "?")

	sig := model.UtteranceSignals{
		DiscoveryQuestion: isQuestion && containsAny(lower, discoveryMarkers),
		DeepQuestion:      isQuestion && containsAny(lower, deepMarkers),
		ActiveListening:   containsAny(lower, listeningMarkers),
		PriceMention:      containsAny(lower, priceMarkers),
		PressureLanguage:  containsAny(lower, pressureMarkers),
		ValueFraming:      containsAny(lower, valueMarkers),
		SocialProof:       containsAny(lower, proofMarkers),
		ChallengeFrame:    containsAny(lower, challengeMarkers),
		CloseAttempt:      containsAny(lower, closeMarkers),
		WordCount:         len(strings.Fields(text)),
	}

	// A pitch is premature when it lands before any discovery question has
	// been asked in this session.
	if containsAny(lower, pitchMarkers) && !discoveryHappened(history) {
		sig.PrematurePitch = true
	}
	return sig
}

func discoveryHappened(history []model.ConversationTurn) bool {
	for _, turn := range history {
		if turn.Role != model.RoleRep {
			continue
		}
		lower := strings.ToLower(turn.Text)
		if strings.Contains(lower, "?") && containsAny(lower, discoveryMarkers) {
			return true
		}
	}
	return false
}
