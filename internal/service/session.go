package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"closerlab/internal/cache"
	"closerlab/internal/model"
	"closerlab/internal/repository"
	"closerlab/internal/sim"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotSessionOwner = errors.New("session belongs to another trainee")
	ErrSessionEnded    = errors.New("session already ended")
	ErrEmptyUtterance  = errors.New("utterance text is empty")
	ErrOfferNotFound   = errors.New("offer not found")
)

// SessionService owns the roleplay lifecycle and the session store adapter:
// behaviour state lives hot in redis and durable inside the mongo session
// document, and every load is shape-validated with re-initialization as the
// repair path.
type SessionService struct {
	sessionRepo repository.SessionRepo
	offerRepo   repository.OfferRepo
	stateCache  cache.StateCache
	patterns    cache.PatternCache
	policy      *PolicyService
	broadcaster Broadcaster
}

func NewSessionService(
	sessionRepo repository.SessionRepo,
	offerRepo repository.OfferRepo,
	stateCache cache.StateCache,
	patterns cache.PatternCache,
	policy *PolicyService,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		offerRepo:   offerRepo,
		stateCache:  stateCache,
		patterns:    patterns,
		policy:      policy,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events.
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start creates a session: fixes the difficulty profile (explicit inputs or
// deterministic synthesis from a tier label), derives the opening behaviour
// state, and persists both.
func (s *SessionService) Start(ctx context.Context, traineeID string, req *model.StartSessionRequest) (*model.StartSessionResponse, error) {
	offer, err := s.offerRepo.GetByID(ctx, req.OfferID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}

	var profile model.DifficultyProfile
	if req.Profile != nil {
		profile = sim.NewProfile(*req.Profile)
	} else {
		profile = SynthesizeProfile(req.Difficulty)
	}
	profile.ID = uuid.New().String()

	funnel := DefaultFunnel(profile)
	if req.Funnel != nil {
		funnel = *req.Funnel
		funnel.WarmthScore = sim.ClampDimension(funnel.WarmthScore)
	}

	state := sim.InitialState(profile, funnel)
	voiceID := ""
	if req.VoiceMode {
		voiceID = sim.VoiceID(profile.AuthorityLevel)
	}

	session := &model.Session{
		ID:             uuid.New().String(),
		TraineeID:      traineeID,
		OfferID:        offer.ID,
		Status:         model.SessionInProgress,
		Profile:        profile,
		Funnel:         funnel,
		StateSnapshot:  &state,
		Turns:          []model.ConversationTurn{},
		Replay:         req.Replay,
		VoiceMode:      req.VoiceMode,
		VoiceID:        voiceID,
		AnalysisStatus: model.AnalysisNotStarted,
		StartedAt:      time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := s.stateCache.Set(ctx, session.ID, &state); err != nil {
		// The durable snapshot already exists; the next load repairs the
		// cache, so a cold cache is not worth failing session creation for.
		log.Printf("Warning: state cache write failed for session %s: %v", session.ID, err)
	}

	return &model.StartSessionResponse{
		SessionID: session.ID,
		Profile:   profile,
		VoiceID:   voiceID,
	}, nil
}

// PostTurn processes one rep utterance on the calling path: load state,
// compute reply and next state, append both turns, persist. A failed
// generation call leaves the session exactly as it was.
func (s *SessionService) PostTurn(ctx context.Context, traineeID, sessionID, text string) (*model.PostTurnResponse, error) {
	if text == "" {
		return nil, ErrEmptyUtterance
	}

	session, err := s.ownedSession(ctx, traineeID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Ended() {
		return nil, ErrSessionEnded
	}

	offer, err := s.offerRepo.GetByID(ctx, session.OfferID)
	if err != nil {
		return nil, fmt.Errorf("load offer: %w", err)
	}

	state := s.loadState(ctx, session)
	hints := s.patternHints(ctx, traineeID)

	reply, nextState, side, err := s.policy.Respond(ctx, session, offer, state, text, hints)
	if err != nil {
		return nil, err
	}

	offset := time.Since(session.StartedAt).Seconds()
	repTurn := model.ConversationTurn{
		Role:            model.RoleRep,
		Text:            text,
		TurnIndex:       session.NextTurnIndex(),
		TimestampOffset: offset,
	}
	prospectTurn := model.ConversationTurn{
		Role:            model.RoleProspect,
		Text:            reply,
		TurnIndex:       session.NextTurnIndex() + 1,
		TimestampOffset: offset,
	}

	if err := s.sessionRepo.AppendTurns(ctx, sessionID, []model.ConversationTurn{repTurn, prospectTurn}, &nextState); err != nil {
		return nil, fmt.Errorf("append turns: %w", err)
	}
	if err := s.stateCache.Set(ctx, sessionID, &nextState); err != nil {
		log.Printf("Warning: state cache write failed for session %s: %v", sessionID, err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToTrainee(sessionID, "prospect_reply", prospectTurn)
		s.broadcaster.BroadcastToObservers(sessionID, "state_update", map[string]interface{}{
			"turnIndex":   prospectTurn.TurnIndex,
			"sideSignals": side,
			"state":       nextState,
		})
	}

	return &model.PostTurnResponse{
		Reply:       prospectTurn,
		SideSignals: side,
	}, nil
}

// End closes a session. The behaviour state stops evolving; the final
// snapshot stays on the session record for the caller but is never consulted
// by the scoring engine.
func (s *SessionService) End(ctx context.Context, traineeID, sessionID, status string) (*model.Session, error) {
	session, err := s.ownedSession(ctx, traineeID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Ended() {
		return nil, ErrSessionEnded
	}

	final := model.SessionCompleted
	if status == string(model.SessionAbandoned) {
		final = model.SessionAbandoned
	}
	now := time.Now()
	if err := s.sessionRepo.SetStatus(ctx, sessionID, final, &now); err != nil {
		return nil, err
	}
	if err := s.stateCache.Delete(ctx, sessionID); err != nil {
		log.Printf("Warning: state cache delete failed for session %s: %v", sessionID, err)
	}

	session.Status = final
	session.EndedAt = &now

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToTrainee(sessionID, "session_ended", map[string]string{"status": string(final)})
		s.broadcaster.BroadcastToObservers(sessionID, "session_ended", map[string]string{"status": string(final)})
	}
	return session, nil
}

// Get returns a session owned by the trainee.
func (s *SessionService) Get(ctx context.Context, traineeID, sessionID string) (*model.Session, error) {
	return s.ownedSession(ctx, traineeID, sessionID)
}

// List returns all sessions belonging to the trainee.
func (s *SessionService) List(ctx context.Context, traineeID string) ([]*model.Session, error) {
	return s.sessionRepo.ListByTrainee(ctx, traineeID)
}

// VoiceBrief exposes the current generation instructions plus the session's
// voice identity for an external realtime speech session.
func (s *SessionService) VoiceBrief(ctx context.Context, traineeID, sessionID string) (*model.VoiceBrief, error) {
	session, err := s.ownedSession(ctx, traineeID, sessionID)
	if err != nil {
		return nil, err
	}
	offer, err := s.offerRepo.GetByID(ctx, session.OfferID)
	if err != nil {
		return nil, fmt.Errorf("load offer: %w", err)
	}

	state := s.loadState(ctx, session)
	voiceID := session.VoiceID
	if voiceID == "" {
		voiceID = sim.VoiceID(session.Profile.AuthorityLevel)
	}

	return &model.VoiceBrief{
		SessionID:    sessionID,
		VoiceID:      voiceID,
		Instructions: s.policy.BuildBrief(session, offer, state, "(the call is live; respond to what you hear)", nil),
	}, nil
}

func (s *SessionService) ownedSession(ctx context.Context, traineeID, sessionID string) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if session.TraineeID != traineeID {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}

// loadState resolves the current behaviour state: redis first, then the
// durable snapshot, then re-initialization from the profile. A corrupted or
// missing state never fails an active session; losing mid-conversation
// nuance is accepted over aborting.
func (s *SessionService) loadState(ctx context.Context, session *model.Session) model.BehaviourState {
	cached, err := s.stateCache.Get(ctx, session.ID)
	if err != nil {
		log.Printf("Warning: state cache read failed for session %s: %v", session.ID, err)
	}
	if cached != nil {
		if err := cached.Validate(); err == nil {
			return *cached
		}
		log.Printf("Warning: cached state invalid for session %s, trying snapshot", session.ID)
	}

	if session.StateSnapshot != nil {
		if err := session.StateSnapshot.Validate(); err == nil {
			return *session.StateSnapshot
		}
		log.Printf("Warning: state snapshot invalid for session %s, re-initializing", session.ID)
	}

	return sim.InitialState(session.Profile, session.Funnel)
}

func (s *SessionService) patternHints(ctx context.Context, traineeID string) []string {
	if s.patterns == nil {
		return nil
	}
	p, err := s.patterns.Get(ctx, traineeID)
	if err != nil || p == nil || p.SessionCount < 2 {
		return nil
	}
	return p.WeakCategories
}
