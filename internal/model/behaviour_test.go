package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBehaviourStateJSONRoundTrip(t *testing.T) {
	in := BehaviourState{
		ObjectionFrequency:        4.25,
		ObjectionIntensity:        3.5,
		CurrentResistance:         6.125,
		AnswerDepth:               5,
		Openness:                  4.75,
		Engagement:                7,
		WillingnessToBeChallenged: 2,
		ResponseSpeed:             5.5,
		TalkTimeRatio:             0.45,
		TrustLevel:                3.875,
		ValuePerception:           1.25,
	}

	data, err := json.Marshal(&in)
	require.NoError(t, err)

	var out BehaviourState
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestBehaviourStateValidate(t *testing.T) {
	var s BehaviourState
	assert.NoError(t, s.Validate(), "zero state is in-domain")

	s.TrustLevel = 10.01
	assert.Error(t, s.Validate())

	s.TrustLevel = 10
	s.TalkTimeRatio = 1.5
	assert.Error(t, s.Validate(), "talkTimeRatio is a 0-1 fraction")

	s.TalkTimeRatio = -0.1
	assert.Error(t, s.Validate())
}

func TestBehaviourStateClamp(t *testing.T) {
	s := BehaviourState{
		TrustLevel:    42,
		Openness:      -3,
		TalkTimeRatio: 2,
	}
	s.Clamp()
	assert.Equal(t, 10.0, s.TrustLevel)
	assert.Equal(t, 0.0, s.Openness)
	assert.Equal(t, 1.0, s.TalkTimeRatio)
	assert.NoError(t, s.Validate())
}
