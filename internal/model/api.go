package model

// StartSessionRequest creates a roleplay session. Either Difficulty (a tier
// label, prospect synthesized deterministically) or Profile (explicit
// dimension values) must be set; Profile wins when both are present.
type StartSessionRequest struct {
	OfferID    string               `json:"offerId"`
	Difficulty string               `json:"difficulty,omitempty"`
	Profile    *ProfileInputs       `json:"profile,omitempty"`
	Funnel     *FunnelContext       `json:"funnel,omitempty"`
	Replay     *ReplayFocus         `json:"replay,omitempty"`
	VoiceMode  bool                 `json:"voiceMode,omitempty"`
}

// ProfileInputs are the raw six dimensions before clamping/validation.
type ProfileInputs struct {
	PositionProblemAlignment float64 `json:"positionProblemAlignment"`
	PainAmbitionIntensity    float64 `json:"painAmbitionIntensity"`
	PerceivedNeedForHelp     float64 `json:"perceivedNeedForHelp"`
	AuthorityLevel           string  `json:"authorityLevel"`
	FunnelContextScore       float64 `json:"funnelContextScore"`
	ExecutionResistance      float64 `json:"executionResistance"`
}

// StartSessionResponse returns the created session's identity and fixed
// starting conditions.
type StartSessionResponse struct {
	SessionID string            `json:"sessionId"`
	Profile   DifficultyProfile `json:"profile"`
	VoiceID   string            `json:"voiceId,omitempty"`
}

// PostTurnRequest carries one rep utterance.
type PostTurnRequest struct {
	Text string `json:"text"`
}

// PostTurnResponse carries the prospect's reply and advisory signals.
type PostTurnResponse struct {
	Reply       ConversationTurn `json:"reply"`
	SideSignals SideSignals      `json:"sideSignals"`
}

// EndSessionRequest closes a session.
type EndSessionRequest struct {
	Status string `json:"status"` // "completed" or "abandoned"
}

// VoiceBrief exposes the current generation instructions plus a voice
// identity for an external realtime speech session.
type VoiceBrief struct {
	SessionID    string `json:"sessionId"`
	VoiceID      string `json:"voiceId"`
	Instructions string `json:"instructions"`
}
