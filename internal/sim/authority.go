package sim

import "closerlab/internal/model"

// authorityInfluence is the closed mapping from authority archetype to its
// numeric effect on the initial behaviour state. All archetype-dependent
// behaviour flows through this table; nothing branches on the enum elsewhere.
type authorityInfluence struct {
	willingnessDelta float64
	opennessDelta    float64
	talkTimeDelta    float64
	resistanceDelta  float64
}

var authorityInfluences = map[model.AuthorityLevel]authorityInfluence{
	model.AuthorityAdvisee: {willingnessDelta: +2.0, opennessDelta: +1.5, talkTimeDelta: -0.10, resistanceDelta: -1.0},
	model.AuthorityPeer:    {},
	model.AuthorityAdvisor: {willingnessDelta: -3.0, opennessDelta: -1.0, talkTimeDelta: +0.15, resistanceDelta: +1.5},
}

func influenceFor(level model.AuthorityLevel) authorityInfluence {
	if inf, ok := authorityInfluences[level]; ok {
		return inf
	}
	return authorityInfluences[model.AuthorityPeer]
}

// authorityPersona is the prose brief for the generation instructions.
var authorityPersona = map[model.AuthorityLevel]string{
	model.AuthorityAdvisee: "You see the rep as someone further along than you. You are deferential, ask for guidance, and accept reframes readily, though you still hesitate when the conversation moves faster than your comfort.",
	model.AuthorityPeer:    "You see the rep as an equal. You engage openly but expect your time to be respected, and you push back when claims outrun evidence.",
	model.AuthorityAdvisor: "You see yourself as the senior party. You interrupt to correct, answer questions with questions, and expect the rep to earn every inch. You teach more than you listen.",
}

// PersonaBrief returns the archetype prose for a profile.
func PersonaBrief(level model.AuthorityLevel) string {
	if p, ok := authorityPersona[level]; ok {
		return p
	}
	return authorityPersona[model.AuthorityPeer]
}

// VoiceForAuthority selects the realtime speech voice identity per archetype.
var voiceForAuthority = map[model.AuthorityLevel]string{
	model.AuthorityAdvisee: "aria-soft",
	model.AuthorityPeer:    "morgan-neutral",
	model.AuthorityAdvisor: "victor-low",
}

// VoiceID returns the speech voice for a profile's archetype.
func VoiceID(level model.AuthorityLevel) string {
	if v, ok := voiceForAuthority[level]; ok {
		return v
	}
	return voiceForAuthority[model.AuthorityPeer]
}
