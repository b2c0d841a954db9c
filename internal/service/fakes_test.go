package service

import (
	"context"
	"time"

	"closerlab/internal/config"
	"closerlab/internal/model"
	"closerlab/internal/repository"
)

func testAIConfig() *config.AIConfig {
	return &config.AIConfig{
		APIKey:  "test-key",
		BaseURL: "http://localhost",
		Models: config.GeminiModels{
			Dialogue:       "dialogue-model",
			Scoring:        "scoring-model",
			Reconstruction: "recon-model",
		},
		TimeoutMS: 1000,
	}
}

// stubGenerator returns canned responses keyed by model name.
type stubGenerator struct {
	responses map[string]string
	err       error
	calls     []string
	prompts   []string
}

func (g *stubGenerator) Generate(_ context.Context, modelName, instructions string, _ bool) (string, error) {
	g.calls = append(g.calls, modelName)
	g.prompts = append(g.prompts, instructions)
	if g.err != nil {
		return "", g.err
	}
	return g.responses[modelName], nil
}

type memSessionRepo struct {
	sessions map[string]*model.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*model.Session)}
}

func (r *memSessionRepo) Create(_ context.Context, s *model.Session) error {
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id string) (*model.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	cp.Turns = append([]model.ConversationTurn(nil), s.Turns...)
	return &cp, nil
}

func (r *memSessionRepo) AppendTurns(_ context.Context, id string, turns []model.ConversationTurn, snapshot *model.BehaviourState) error {
	s, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Turns = append(s.Turns, turns...)
	cp := *snapshot
	s.StateSnapshot = &cp
	return nil
}

func (r *memSessionRepo) SetStatus(_ context.Context, id string, status model.SessionStatus, endedAt *time.Time) error {
	s, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = status
	s.EndedAt = endedAt
	return nil
}

func (r *memSessionRepo) SetAnalysisStatus(_ context.Context, id string, status model.AnalysisStatus) error {
	s, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.AnalysisStatus = status
	return nil
}

func (r *memSessionRepo) ListByTrainee(_ context.Context, traineeID string) ([]*model.Session, error) {
	var out []*model.Session
	for _, s := range r.sessions {
		if s.TraineeID == traineeID {
			out = append(out, s)
		}
	}
	return out, nil
}

type memOfferRepo struct {
	offers map[string]*model.Offer
}

func newMemOfferRepo() *memOfferRepo {
	return &memOfferRepo{offers: make(map[string]*model.Offer)}
}

func (r *memOfferRepo) Create(_ context.Context, o *model.Offer) error {
	r.offers[o.ID] = o
	return nil
}

func (r *memOfferRepo) GetByID(_ context.Context, id string) (*model.Offer, error) {
	o, ok := r.offers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (r *memOfferRepo) List(_ context.Context) ([]*model.Offer, error) {
	var out []*model.Offer
	for _, o := range r.offers {
		out = append(out, o)
	}
	return out, nil
}

type memAnalysisRepo struct {
	results map[string]*model.AnalysisResult
}

func newMemAnalysisRepo() *memAnalysisRepo {
	return &memAnalysisRepo{results: make(map[string]*model.AnalysisResult)}
}

func (r *memAnalysisRepo) Save(_ context.Context, result *model.AnalysisResult) error {
	if _, exists := r.results[result.SessionID]; exists {
		return repository.ErrAlreadyAnalyzed
	}
	r.results[result.SessionID] = result
	return nil
}

func (r *memAnalysisRepo) GetBySessionID(_ context.Context, sessionID string) (*model.AnalysisResult, error) {
	return r.results[sessionID], nil
}

type memStateCache struct {
	states map[string]*model.BehaviourState
}

func newMemStateCache() *memStateCache {
	return &memStateCache{states: make(map[string]*model.BehaviourState)}
}

func (c *memStateCache) Set(_ context.Context, sessionID string, state *model.BehaviourState) error {
	cp := *state
	c.states[sessionID] = &cp
	return nil
}

func (c *memStateCache) Get(_ context.Context, sessionID string) (*model.BehaviourState, error) {
	s, ok := c.states[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (c *memStateCache) Delete(_ context.Context, sessionID string) error {
	delete(c.states, sessionID)
	return nil
}

type memPatternCache struct {
	patterns map[string]*model.TraineePattern
	recorded int
}

func newMemPatternCache() *memPatternCache {
	return &memPatternCache{patterns: make(map[string]*model.TraineePattern)}
}

func (c *memPatternCache) Get(_ context.Context, traineeID string) (*model.TraineePattern, error) {
	return c.patterns[traineeID], nil
}

func (c *memPatternCache) Record(_ context.Context, traineeID string, scores []model.CategoryScore) error {
	c.recorded++
	p := c.patterns[traineeID]
	if p == nil {
		p = &model.TraineePattern{TraineeID: traineeID, CategoryAvg: make(map[string]float64)}
		c.patterns[traineeID] = p
	}
	for _, s := range scores {
		p.CategoryAvg[s.Category] = s.Score
	}
	p.SessionCount++
	return nil
}

type recordingBroadcaster struct {
	traineeMsgs  []string
	observerMsgs []string
}

func (b *recordingBroadcaster) BroadcastToTrainee(_ string, msgType string, _ interface{}) {
	b.traineeMsgs = append(b.traineeMsgs, msgType)
}

func (b *recordingBroadcaster) BroadcastToObservers(_ string, msgType string, _ interface{}) {
	b.observerMsgs = append(b.observerMsgs, msgType)
}

func (b *recordingBroadcaster) DisconnectSession(_ string) {}

func testOffer() *model.Offer {
	return &model.Offer{
		ID:             "offer-1",
		Name:           "Pipeline Accelerator",
		TargetAudience: "B2B founders",
		TargetProblem:  "inconsistent pipeline",
		Promise:        "15 qualified calls per month",
		PriceRange:     "$6,000 - $12,000",
	}
}
