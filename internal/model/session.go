package model

import "time"

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// TurnRole identifies which side of the conversation spoke.
type TurnRole string

const (
	RoleRep      TurnRole = "rep"
	RoleProspect TurnRole = "prospect"
)

// ConversationTurn is one utterance in the ordered, append-only transcript.
type ConversationTurn struct {
	Role            TurnRole `json:"role" bson:"role"`
	Text            string   `json:"text" bson:"text"`
	TurnIndex       int      `json:"turnIndex" bson:"turnIndex"`
	TimestampOffset float64  `json:"timestampOffset" bson:"timestampOffset"` // seconds since session start
}

// ReplayFocus points a session at a specific prior phase/topic to re-practice.
type ReplayFocus struct {
	Phase string `json:"phase" bson:"phase"`
	Topic string `json:"topic,omitempty" bson:"topic,omitempty"`
}

// Session aggregates one roleplay: a fixed profile, the evolving behaviour
// state snapshot, the transcript, and lifecycle status. Owned exclusively by
// the trainee that created it.
type Session struct {
	ID        string        `json:"id" bson:"_id,omitempty"`
	TraineeID string        `json:"traineeId" bson:"traineeId"`
	OfferID   string        `json:"offerId" bson:"offerId"`
	Status    SessionStatus `json:"status" bson:"status"`

	Profile DifficultyProfile `json:"profile" bson:"profile"`
	Funnel  FunnelContext     `json:"funnel" bson:"funnel"`

	// StateSnapshot is the durable copy of the behaviour state, refreshed
	// after every turn. The hot copy lives in redis.
	StateSnapshot *BehaviourState `json:"stateSnapshot,omitempty" bson:"stateSnapshot,omitempty"`

	Turns  []ConversationTurn `json:"turns" bson:"turns"`
	Replay *ReplayFocus       `json:"replay,omitempty" bson:"replay,omitempty"`

	VoiceMode bool   `json:"voiceMode" bson:"voiceMode"`
	VoiceID   string `json:"voiceId,omitempty" bson:"voiceId,omitempty"`

	AnalysisStatus AnalysisStatus `json:"analysisStatus" bson:"analysisStatus"`

	StartedAt time.Time  `json:"startedAt" bson:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
}

// Ended reports whether the behaviour state has stopped evolving.
func (s *Session) Ended() bool {
	return s.Status == SessionCompleted || s.Status == SessionAbandoned
}

// NextTurnIndex is the index the next appended turn should carry.
func (s *Session) NextTurnIndex() int {
	return len(s.Turns)
}
