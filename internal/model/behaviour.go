package model

import "fmt"

// BehaviourState is the prospect's moment-to-moment disposition: eleven
// bounded attributes, mutated once per conversational turn and persisted
// between request cycles. All attributes are 0-10 except TalkTimeRatio
// which is a 0-1 fraction.
type BehaviourState struct {
	ObjectionFrequency        float64 `json:"objectionFrequency" bson:"objectionFrequency"`
	ObjectionIntensity        float64 `json:"objectionIntensity" bson:"objectionIntensity"`
	CurrentResistance         float64 `json:"currentResistance" bson:"currentResistance"`
	AnswerDepth               float64 `json:"answerDepth" bson:"answerDepth"`
	Openness                  float64 `json:"openness" bson:"openness"`
	Engagement                float64 `json:"engagement" bson:"engagement"`
	WillingnessToBeChallenged float64 `json:"willingnessToBeChallenged" bson:"willingnessToBeChallenged"`
	ResponseSpeed             float64 `json:"responseSpeed" bson:"responseSpeed"`
	TalkTimeRatio             float64 `json:"talkTimeRatio" bson:"talkTimeRatio"`
	TrustLevel                float64 `json:"trustLevel" bson:"trustLevel"`
	ValuePerception           float64 `json:"valuePerception" bson:"valuePerception"`
}

type attrBound struct {
	name  string
	value float64
	max   float64
}

func (s *BehaviourState) bounds() []attrBound {
	return []attrBound{
		{"objectionFrequency", s.ObjectionFrequency, 10},
		{"objectionIntensity", s.ObjectionIntensity, 10},
		{"currentResistance", s.CurrentResistance, 10},
		{"answerDepth", s.AnswerDepth, 10},
		{"openness", s.Openness, 10},
		{"engagement", s.Engagement, 10},
		{"willingnessToBeChallenged", s.WillingnessToBeChallenged, 10},
		{"responseSpeed", s.ResponseSpeed, 10},
		{"talkTimeRatio", s.TalkTimeRatio, 1},
		{"trustLevel", s.TrustLevel, 10},
		{"valuePerception", s.ValuePerception, 10},
	}
}

// Validate reports the first attribute outside its declared domain. A nil
// error means the state is safe to resume a session with.
func (s *BehaviourState) Validate() error {
	for _, b := range s.bounds() {
		if b.value < 0 || b.value > b.max {
			return fmt.Errorf("behaviour attribute %s out of range: %v (max %v)", b.name, b.value, b.max)
		}
	}
	return nil
}

// Clamp forces every attribute back into its domain in place.
func (s *BehaviourState) Clamp() {
	s.ObjectionFrequency = clampTo(s.ObjectionFrequency, 10)
	s.ObjectionIntensity = clampTo(s.ObjectionIntensity, 10)
	s.CurrentResistance = clampTo(s.CurrentResistance, 10)
	s.AnswerDepth = clampTo(s.AnswerDepth, 10)
	s.Openness = clampTo(s.Openness, 10)
	s.Engagement = clampTo(s.Engagement, 10)
	s.WillingnessToBeChallenged = clampTo(s.WillingnessToBeChallenged, 10)
	s.ResponseSpeed = clampTo(s.ResponseSpeed, 10)
	s.TalkTimeRatio = clampTo(s.TalkTimeRatio, 1)
	s.TrustLevel = clampTo(s.TrustLevel, 10)
	s.ValuePerception = clampTo(s.ValuePerception, 10)
}

func clampTo(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
