package model

// AuthorityLevel is the prospect's self-perceived status relative to the rep.
type AuthorityLevel string

const (
	AuthorityAdvisee AuthorityLevel = "advisee" // deferential, open to guidance
	AuthorityPeer    AuthorityLevel = "peer"
	AuthorityAdvisor AuthorityLevel = "advisor" // challenges and teaches
)

// ParseAuthorityLevel validates raw input against the three-value enum,
// falling back to peer on anything unrecognized.
func ParseAuthorityLevel(raw string) AuthorityLevel {
	switch AuthorityLevel(raw) {
	case AuthorityAdvisee, AuthorityPeer, AuthorityAdvisor:
		return AuthorityLevel(raw)
	}
	return AuthorityPeer
}

// DifficultyTier classifies the summed difficulty dimensions.
type DifficultyTier string

const (
	TierEasy           DifficultyTier = "easy"
	TierRealistic      DifficultyTier = "realistic"
	TierHard           DifficultyTier = "hard"
	TierExpert         DifficultyTier = "expert"
	TierNearImpossible DifficultyTier = "near_impossible"
)

// ParseDifficultyTier validates a tier label, falling back to realistic.
func ParseDifficultyTier(raw string) DifficultyTier {
	switch DifficultyTier(raw) {
	case TierEasy, TierRealistic, TierHard, TierExpert, TierNearImpossible:
		return DifficultyTier(raw)
	}
	return TierRealistic
}

// DifficultyProfile fixes a simulated prospect's starting conditions.
// It is created once at session start and never recomputed from anything
// observed during the conversation or its outcome.
type DifficultyProfile struct {
	ID string `json:"id" bson:"_id,omitempty"`

	// Five numeric dimensions, each clamped to 0-10. Higher = easier sale.
	PositionProblemAlignment float64 `json:"positionProblemAlignment" bson:"positionProblemAlignment"`
	PainAmbitionIntensity    float64 `json:"painAmbitionIntensity" bson:"painAmbitionIntensity"`
	PerceivedNeedForHelp     float64 `json:"perceivedNeedForHelp" bson:"perceivedNeedForHelp"`
	FunnelContextScore       float64 `json:"funnelContextScore" bson:"funnelContextScore"`
	ExecutionResistance      float64 `json:"executionResistance" bson:"executionResistance"`

	// AuthorityLevel is advisory: it shapes behaviour initialization and the
	// generation brief but contributes nothing to the numeric index.
	AuthorityLevel AuthorityLevel `json:"authorityLevel" bson:"authorityLevel"`

	// Derived at creation, immutable afterward.
	DifficultyIndex float64        `json:"difficultyIndex" bson:"difficultyIndex"`
	DifficultyTier  DifficultyTier `json:"difficultyTier" bson:"difficultyTier"`
}

// FunnelContext describes how warm the prospect was before the conversation.
type FunnelContext struct {
	Source        string  `json:"source" bson:"source"` // e.g. "cold_outbound", "inbound", "referral"
	PriorExposure string  `json:"priorExposure,omitempty" bson:"priorExposure,omitempty"`
	WarmthScore   float64 `json:"warmthScore" bson:"warmthScore"` // 0-10
}
