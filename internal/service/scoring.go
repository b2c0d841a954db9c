package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"closerlab/internal/cache"
	"closerlab/internal/config"
	"closerlab/internal/model"
	"closerlab/internal/repository"
	"closerlab/internal/sim"
)

var (
	ErrSessionNotEnded = errors.New("session has not ended")
	ErrTranscriptEmpty = errors.New("transcript is empty")
)

// phaseScoringMinTurns is the transcript length below which phase-segmented
// scoring is skipped.
const phaseScoringMinTurns = 12

// ScoringService converts a finished transcript into an AnalysisResult. It
// is architecturally blind to the live behaviour state: everything is
// re-derived from transcript text, like a human grader working from a
// recording. No partial result is ever persisted.
type ScoringService struct {
	aiConfig     *config.AIConfig
	generator    TextGenerator
	sessionRepo  repository.SessionRepo
	analysisRepo repository.AnalysisRepo
	patterns     cache.PatternCache
	broadcaster  Broadcaster
}

func NewScoringService(
	aiConfig *config.AIConfig,
	generator TextGenerator,
	sessionRepo repository.SessionRepo,
	analysisRepo repository.AnalysisRepo,
	patterns cache.PatternCache,
) *ScoringService {
	return &ScoringService{
		aiConfig:     aiConfig,
		generator:    generator,
		sessionRepo:  sessionRepo,
		analysisRepo: analysisRepo,
		patterns:     patterns,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events.
func (s *ScoringService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// gradedCategory mirrors the JSON the scoring model returns per category.
type gradedCategory struct {
	Score    float64 `json:"score"`
	Evidence string  `json:"evidence"`
}

// performanceGrading pins every rubric category as a named field so a reply
// that drops one fails parsing instead of producing a partial result.
type performanceGrading struct {
	Discovery          gradedCategory `json:"discovery"`
	ValueCommunication gradedCategory `json:"valueCommunication"`
	TrustBuilding      gradedCategory `json:"trustBuilding"`
	ObjectionHandling  gradedCategory `json:"objectionHandling"`
	Closing            gradedCategory `json:"closing"`

	Phases []struct {
		Phase   string  `json:"phase"`
		Score   float64 `json:"score"`
		Summary string  `json:"summary"`
	} `json:"phases,omitempty"`

	ObjectionSummary string `json:"objectionSummary"`

	Recommendations []struct {
		Priority string `json:"priority"`
		Category string `json:"category"`
		Text     string `json:"text"`
	} `json:"recommendations"`
}

// gradedDimension mirrors the JSON the reconstruction model returns.
type gradedDimension struct {
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
}

type difficultyReconstruction struct {
	PositionProblemAlignment gradedDimension `json:"positionProblemAlignment"`
	PainAmbitionIntensity    gradedDimension `json:"painAmbitionIntensity"`
	PerceivedNeedForHelp     gradedDimension `json:"perceivedNeedForHelp"`
	FunnelContextScore       gradedDimension `json:"funnelContextScore"`
	ExecutionResistance      gradedDimension `json:"executionResistance"`
}

// Analyze runs the full post-call analysis for an ended session. Idempotent:
// an existing result is returned as-is. On generation failure the session
// stays in pending status and a typed error surfaces; nothing partial is
// written.
func (s *ScoringService) Analyze(ctx context.Context, sessionID string) (*model.AnalysisResult, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Ended() {
		return nil, ErrSessionNotEnded
	}
	if len(session.Turns) == 0 {
		return nil, ErrTranscriptEmpty
	}

	if existing, err := s.analysisRepo.GetBySessionID(ctx, sessionID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	if err := s.sessionRepo.SetAnalysisStatus(ctx, sessionID, model.AnalysisPending); err != nil {
		return nil, err
	}

	grading, err := s.gradePerformance(ctx, session.Turns)
	if err != nil {
		s.markFailed(ctx, sessionID, err)
		return nil, err
	}

	recon, err := s.reconstructDifficulty(ctx, session.Turns)
	if err != nil {
		s.markFailed(ctx, sessionID, err)
		return nil, err
	}

	result := s.assemble(sessionID, session.Turns, grading, recon)

	if err := s.analysisRepo.Save(ctx, result); err != nil {
		if errors.Is(err, repository.ErrAlreadyAnalyzed) {
			return s.analysisRepo.GetBySessionID(ctx, sessionID)
		}
		return nil, err
	}
	if err := s.sessionRepo.SetAnalysisStatus(ctx, sessionID, model.AnalysisReady); err != nil {
		log.Printf("Warning: analysis status update failed for session %s: %v", sessionID, err)
	}
	if s.patterns != nil {
		if err := s.patterns.Record(ctx, session.TraineeID, result.CategoryScores); err != nil {
			log.Printf("Warning: pattern record failed for trainee %s: %v", session.TraineeID, err)
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToTrainee(sessionID, "analysis_ready", result)
		s.broadcaster.BroadcastToObservers(sessionID, "analysis_ready", result)
	}
	return result, nil
}

// Get returns the stored result, or nil when none exists.
func (s *ScoringService) Get(ctx context.Context, sessionID string) (*model.AnalysisResult, error) {
	return s.analysisRepo.GetBySessionID(ctx, sessionID)
}

// markFailed distinguishes retryable from terminal failures: transient ones
// keep the session in pending so a retry can pick it up, terminal ones flag
// it failed for operator attention.
func (s *ScoringService) markFailed(ctx context.Context, sessionID string, cause error) {
	status := model.AnalysisFailed
	if IsTransientGeneration(cause) {
		status = model.AnalysisPending
	}
	if err := s.sessionRepo.SetAnalysisStatus(ctx, sessionID, status); err != nil {
		log.Printf("Warning: analysis status update failed for session %s: %v", sessionID, err)
	}
}

func (s *ScoringService) gradePerformance(ctx context.Context, turns []model.ConversationTurn) (*performanceGrading, error) {
	prompt := buildGradingPrompt(turns, len(turns) >= phaseScoringMinTurns)
	response, err := s.generator.Generate(ctx, s.aiConfig.Models.Scoring, prompt, true)
	if err != nil {
		return nil, err
	}

	var grading performanceGrading
	if err := json.Unmarshal([]byte(response), &grading); err != nil {
		return nil, &GenerationError{Op: "scoring", Transient: true, Err: fmt.Errorf("unparseable grading: %w", err)}
	}
	if grading.ObjectionSummary == "" {
		grading.ObjectionSummary = "No objections were raised during this call."
	}
	return &grading, nil
}

// reconstructDifficulty estimates the five starting-condition dimensions
// from prospect-side evidence only. Rep turns and outcome statements never
// reach the model, so the known result of the call cannot bias the estimate.
func (s *ScoringService) reconstructDifficulty(ctx context.Context, turns []model.ConversationTurn) (*difficultyReconstruction, error) {
	evidence := ProspectEvidence(turns)
	if evidence == "" {
		return nil, ErrTranscriptEmpty
	}

	prompt := buildReconstructionPrompt(evidence)
	response, err := s.generator.Generate(ctx, s.aiConfig.Models.Reconstruction, prompt, true)
	if err != nil {
		return nil, err
	}

	var recon difficultyReconstruction
	if err := json.Unmarshal([]byte(response), &recon); err != nil {
		return nil, &GenerationError{Op: "reconstruction", Transient: true, Err: fmt.Errorf("unparseable reconstruction: %w", err)}
	}
	return &recon, nil
}

func (s *ScoringService) assemble(sessionID string, turns []model.ConversationTurn, grading *performanceGrading, recon *difficultyReconstruction) *model.AnalysisResult {
	categories := []model.CategoryScore{
		{Category: model.CategoryDiscovery, Score: clampScore(grading.Discovery.Score), Evidence: grading.Discovery.Evidence},
		{Category: model.CategoryValueCommunication, Score: clampScore(grading.ValueCommunication.Score), Evidence: grading.ValueCommunication.Evidence},
		{Category: model.CategoryTrustBuilding, Score: clampScore(grading.TrustBuilding.Score), Evidence: grading.TrustBuilding.Evidence},
		{Category: model.CategoryObjectionHandling, Score: clampScore(grading.ObjectionHandling.Score), Evidence: grading.ObjectionHandling.Evidence},
		{Category: model.CategoryClosing, Score: clampScore(grading.Closing.Score), Evidence: grading.Closing.Evidence},
	}

	overall := 0.0
	for _, c := range categories {
		overall += c.Score
	}
	overall /= float64(len(categories))

	var phases []model.PhaseScore
	if len(turns) >= phaseScoringMinTurns {
		for _, p := range grading.Phases {
			phases = append(phases, model.PhaseScore{
				Phase:   p.Phase,
				Score:   clampScore(p.Score),
				Summary: p.Summary,
			})
		}
	}

	dims := []model.DimensionEstimate{
		{Dimension: "positionProblemAlignment", Score: sim.ClampDimension(recon.PositionProblemAlignment.Score), Justification: recon.PositionProblemAlignment.Justification},
		{Dimension: "painAmbitionIntensity", Score: sim.ClampDimension(recon.PainAmbitionIntensity.Score), Justification: recon.PainAmbitionIntensity.Justification},
		{Dimension: "perceivedNeedForHelp", Score: sim.ClampDimension(recon.PerceivedNeedForHelp.Score), Justification: recon.PerceivedNeedForHelp.Justification},
		{Dimension: "funnelContextScore", Score: sim.ClampDimension(recon.FunnelContextScore.Score), Justification: recon.FunnelContextScore.Justification},
		{Dimension: "executionResistance", Score: sim.ClampDimension(recon.ExecutionResistance.Score), Justification: recon.ExecutionResistance.Justification},
	}
	index := 0.0
	for _, d := range dims {
		index += d.Score
	}

	var recs []model.Recommendation
	for _, r := range grading.Recommendations {
		recs = append(recs, model.Recommendation{
			Priority: normalizePriority(r.Priority),
			Category: r.Category,
			Text:     r.Text,
		})
	}

	return &model.AnalysisResult{
		SessionID:               sessionID,
		CategoryScores:          categories,
		PhaseScores:             phases,
		OverallScore:            overall,
		ObjectionSummary:        grading.ObjectionSummary,
		ReconstructedDimensions: dims,
		ReconstructedIndex:      index,
		ReconstructedTier:       sim.TierOf(index),
		CloserEffectiveness:     CloserEffectiveness(overall, index),
		Recommendations:         recs,
		CreatedAt:               time.Now(),
	}
}

// CloserEffectiveness combines overall performance (0-100) with the
// reconstructed difficulty index (0-50, lower = harder). Monotonically
// non-decreasing in performance for fixed difficulty and in hardness for
// fixed performance: the same score against a harder prospect is worth more.
func CloserEffectiveness(performance, reconstructedIndex float64) float64 {
	if performance < 0 {
		performance = 0
	} else if performance > 100 {
		performance = 100
	}
	if reconstructedIndex < 0 {
		reconstructedIndex = 0
	} else if reconstructedIndex > 50 {
		reconstructedIndex = 50
	}
	hardness := (50 - reconstructedIndex) / 50
	return performance * (0.6 + 0.4*hardness)
}

// outcomeMarkers flag explicit buy/reject statements. Turns containing them
// are excluded from reconstruction evidence so a won call and a lost call
// with otherwise identical transcripts reconstruct identically.
var outcomeMarkers = []string{
	"i'm in", "im in", "let's do it", "lets do it", "sign me up", "i'll take it",
	"ill take it", "send the contract", "send me the link", "i'm sold", "im sold",
	"not interested", "no thanks", "it's a no", "its a no", "we're done here",
	"were done here", "i'll pass", "ill pass", "count me out",
}

// ProspectEvidence renders the prospect-side transcript used for difficulty
// reconstruction: prospect turns only, with explicit outcome statements
// removed.
func ProspectEvidence(turns []model.ConversationTurn) string {
	var sb strings.Builder
	for _, t := range turns {
		if t.Role != model.RoleProspect {
			continue
		}
		lower := strings.ToLower(t.Text)
		skip := false
		for _, m := range outcomeMarkers {
			if strings.Contains(lower, m) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		sb.WriteString("- ")
		sb.WriteString(t.Text)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func buildGradingPrompt(turns []model.ConversationTurn, withPhases bool) string {
	phaseSchema := ""
	phaseInstr := ""
	if withPhases {
		phaseSchema = `
  "phases": [{"phase": "opening|discovery|pitch|objection_handling|close", "score": 0-100, "summary": "one sentence"}],`
		phaseInstr = "\nSegment the call into its phases (opening, discovery, pitch, objection_handling, close - only phases that actually occurred) and score each."
	}

	return fmt.Sprintf(`You are grading a sales rep's performance on a call. Return ONLY valid JSON matching this schema:
{
  "discovery": {"score": 0-100, "evidence": "short quote or observation"},
  "valueCommunication": {"score": 0-100, "evidence": "..."},
  "trustBuilding": {"score": 0-100, "evidence": "..."},
  "objectionHandling": {"score": 0-100, "evidence": "..."},
  "closing": {"score": 0-100, "evidence": "..."},%s
  "objectionSummary": "how objections went; if none were raised, say exactly that",
  "recommendations": [{"priority": "high|medium|low", "category": "one of the five categories", "text": "specific, actionable advice"}]
}

Transcript:
%s

Grade each category on the rep's actual behavior, not the call's outcome. If no objections were raised, score objectionHandling on whether the rep preempted objections well and state "no objections raised" in the summary.%s
Give 2-5 recommendations, most important first.`,
		phaseSchema, formatTranscript(turns), phaseInstr)
}

func buildReconstructionPrompt(prospectEvidence string) string {
	return fmt.Sprintf(`You are profiling a sales prospect from their side of a call transcript. You see ONLY what the prospect said. Judge their STARTING conditions - what was true about them when the call began - not how the call went. Return ONLY valid JSON:
{
  "positionProblemAlignment": {"score": 0-10, "justification": "one sentence citing their words"},
  "painAmbitionIntensity": {"score": 0-10, "justification": "..."},
  "perceivedNeedForHelp": {"score": 0-10, "justification": "..."},
  "funnelContextScore": {"score": 0-10, "justification": "..."},
  "executionResistance": {"score": 0-10, "justification": "..."}
}

Dimension meanings:
- positionProblemAlignment: how well their situation matches the problem being solved
- painAmbitionIntensity: strength of their internal drive to change
- perceivedNeedForHelp: how much they believe outside help is required
- funnelContextScore: how warm they arrived (prior trust, familiarity)
- executionResistance: practical capacity to act (money, time, authority), independent of willingness

Prospect statements:
%s

Score each dimension from this evidence alone. Higher = more favorable starting conditions for the rep.`,
		prospectEvidence)
}

func formatTranscript(turns []model.ConversationTurn) string {
	var sb strings.Builder
	for _, t := range turns {
		label := "Rep"
		if t.Role == model.RoleProspect {
			label = "Prospect"
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", label, t.Text))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func normalizePriority(p string) string {
	switch strings.ToLower(p) {
	case "high", "medium", "low":
		return strings.ToLower(p)
	}
	return "medium"
}
