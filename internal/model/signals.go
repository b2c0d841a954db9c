package model

// UtteranceSignals is the deterministic read of one rep utterance. It drives
// the behaviour transition and is never fed back into the DifficultyProfile.
type UtteranceSignals struct {
	DiscoveryQuestion bool `json:"discoveryQuestion"` // open question about situation/goals
	DeepQuestion      bool `json:"deepQuestion"`      // probes pain, stakes, consequences
	ActiveListening   bool `json:"activeListening"`   // mirrors or labels what prospect said
	PrematurePitch    bool `json:"prematurePitch"`    // pitching before discovery happened
	PriceMention      bool `json:"priceMention"`
	PressureLanguage  bool `json:"pressureLanguage"` // urgency/scarcity pushing
	ValueFraming      bool `json:"valueFraming"`     // outcome/ROI framing
	SocialProof       bool `json:"socialProof"`
	ChallengeFrame    bool `json:"challengeFrame"` // direct challenge to the prospect's view
	CloseAttempt      bool `json:"closeAttempt"`
	WordCount         int  `json:"wordCount"`
}

// SideSignals are advisory observations emitted per turn for telemetry and
// live UI. They never mutate the profile or feed scoring.
type SideSignals struct {
	ObjectionRaised  bool     `json:"objectionRaised"`
	InterestRising   bool     `json:"interestRising"`
	TrustRising      bool     `json:"trustRising"`
	ResistanceRising bool     `json:"resistanceRising"`
	Notes            []string `json:"notes,omitempty"`
}
