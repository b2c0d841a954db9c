package model

import "time"

type AnalysisStatus string

const (
	AnalysisNotStarted AnalysisStatus = "not_started"
	AnalysisPending    AnalysisStatus = "pending"
	AnalysisReady      AnalysisStatus = "ready"
	AnalysisFailed     AnalysisStatus = "failed"
)

// Rubric category keys. Fixed; every AnalysisResult scores all of them.
const (
	CategoryDiscovery          = "discovery"
	CategoryValueCommunication = "value_communication"
	CategoryTrustBuilding      = "trust_building"
	CategoryObjectionHandling  = "objection_handling"
	CategoryClosing            = "closing"
)

// Conversation phases used for phase-segmented scoring.
const (
	PhaseOpening           = "opening"
	PhaseDiscovery         = "discovery"
	PhasePitch             = "pitch"
	PhaseObjectionHandling = "objection_handling"
	PhaseClose             = "close"
)

// CategoryScore is one rubric category graded 0-100 with evidence.
type CategoryScore struct {
	Category string  `json:"category" bson:"category"`
	Score    float64 `json:"score" bson:"score"` // 0-100
	Evidence string  `json:"evidence,omitempty" bson:"evidence,omitempty"`
}

// PhaseScore grades one segment of a longer conversation.
type PhaseScore struct {
	Phase   string  `json:"phase" bson:"phase"`
	Score   float64 `json:"score" bson:"score"` // 0-100
	Summary string  `json:"summary,omitempty" bson:"summary,omitempty"`
}

// DimensionEstimate reconstructs one starting-condition dimension from
// transcript evidence alone, with a short justification. It may legitimately
// disagree with the profile that drove a roleplay.
type DimensionEstimate struct {
	Dimension     string  `json:"dimension" bson:"dimension"`
	Score         float64 `json:"score" bson:"score"` // 0-10
	Justification string  `json:"justification" bson:"justification"`
}

// Recommendation is one coaching action point.
type Recommendation struct {
	Priority string `json:"priority" bson:"priority"` // "high", "medium", "low"
	Category string `json:"category,omitempty" bson:"category,omitempty"`
	Text     string `json:"text" bson:"text"`
}

// AnalysisResult is produced once at session completion from the transcript
// alone and never retroactively edited.
type AnalysisResult struct {
	SessionID string `json:"sessionId" bson:"_id,omitempty"`

	CategoryScores []CategoryScore `json:"categoryScores" bson:"categoryScores"`
	PhaseScores    []PhaseScore    `json:"phaseScores,omitempty" bson:"phaseScores,omitempty"`
	OverallScore   float64         `json:"overallScore" bson:"overallScore"` // 0-100

	// ObjectionSummary is always present; a clean call states explicitly
	// that no objections were raised.
	ObjectionSummary string `json:"objectionSummary" bson:"objectionSummary"`

	// Difficulty reconstruction, outcome-blind by construction.
	ReconstructedDimensions []DimensionEstimate `json:"reconstructedDimensions" bson:"reconstructedDimensions"`
	ReconstructedIndex      float64             `json:"reconstructedIndex" bson:"reconstructedIndex"` // 0-50
	ReconstructedTier       DifficultyTier      `json:"reconstructedTier" bson:"reconstructedTier"`

	CloserEffectiveness float64          `json:"closerEffectiveness" bson:"closerEffectiveness"` // 0-100
	Recommendations     []Recommendation `json:"recommendations" bson:"recommendations"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
