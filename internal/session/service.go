// Package session owns the in-memory session map and enforces the
// per-session turn, message, token and cost ceilings around each
// provider call.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/linqiu-dev/mingshi/internal/llm"
	"github.com/linqiu-dev/mingshi/internal/naming"
	"github.com/linqiu-dev/mingshi/internal/prompts"
)

// maxSubjectLength is the ceiling on the caller-supplied name, in runes.
const maxSubjectLength = 50

// averageOutputTokens is the assumed response size for the pre-call cost
// estimate. The actual output size cannot be known before the call; this
// heuristic keeps the gate conservative without blocking normal use.
const averageOutputTokens = 300

// Config holds the limits and sampling knobs the service enforces.
type Config struct {
	Model                string
	MaxConversationTurns int
	MaxSessionMessages   int
	MaxTokensPerSession  int
	CostThresholdUSD     float64
	InputTokenPrice      float64 // per 1K tokens, USD
	OutputTokenPrice     float64 // per 1K tokens, USD
	Temperature          float32
	MaxOutputTokens      int
	RequestTimeout       time.Duration
	IdleTimeout          time.Duration
}

// Service is the session and budget tracker. It delegates generation to
// the llm.Client collaborator and post-processes its output.
type Service struct {
	store   *Store
	client  llm.Client
	prompts *prompts.Store
	cfg     Config
	log     *logrus.Logger
}

// NewService creates a Service around an empty store.
func NewService(client llm.Client, promptStore *prompts.Store, cfg Config, log *logrus.Logger) *Service {
	return &Service{
		store:   NewStore(),
		client:  client,
		prompts: promptStore,
		cfg:     cfg,
		log:     log,
	}
}

// Store exposes the underlying session store, primarily for the sweeper
// and tests.
func (s *Service) Store() *Store {
	return s.store
}

// CreateParams are the caller-supplied inputs for a new session.
type CreateParams struct {
	Subject        string
	Locale         string
	Strategy       prompts.Strategy // optional; empty selects the default template
	PromptOverride string           // optional; takes precedence over Strategy
}

// Outcome is what create and continue return to the caller.
type Outcome struct {
	SessionID     string        `json:"sessionId"`
	Subject       string        `json:"name"`
	Locale        string        `json:"locale"`
	Result        naming.Result `json:"result"`
	TokensUsed    int           `json:"tokensUsed"`
	EstimatedCost float64       `json:"estimatedCost"`
}

// Create validates the subject, renders the prompt, makes the first
// provider call and stores the new session. On provider failure no session
// is created.
func (s *Service) Create(ctx context.Context, params CreateParams) (Outcome, error) {
	subject := strings.TrimSpace(params.Subject)
	if subject == "" {
		return Outcome{}, &InvalidInputError{Field: "name", Reason: "cannot be empty"}
	}
	if len([]rune(subject)) > maxSubjectLength {
		return Outcome{}, &InvalidInputError{Field: "name", Reason: "too long (max 50 characters)"}
	}

	locale := params.Locale
	if locale == "" {
		locale = prompts.DefaultLocale
	}

	template := params.PromptOverride
	if template == "" {
		if params.Strategy != "" {
			var err error
			template, err = s.prompts.ForStrategy(params.Strategy)
			if err != nil {
				return Outcome{}, &InvalidInputError{Field: "strategy", Reason: err.Error()}
			}
		} else {
			template = s.prompts.Default()
		}
	}

	rendered := prompts.Render(template, subject, locale)
	transcript := []llm.ChatMessage{{Role: llm.RoleUser, Content: rendered}}

	resp, err := s.chat(ctx, transcript)
	if err != nil {
		return Outcome{}, &GenerationError{Err: err}
	}

	inTokens, outTokens := s.tokensFor(resp, transcript)

	sess := &Session{
		ID:           uuid.NewString(),
		Subject:      subject,
		Locale:       locale,
		Transcript:   append(transcript, llm.ChatMessage{Role: llm.RoleAssistant, Content: resp.Content}),
		TurnCount:    1,
		TotalTokens:  inTokens + outTokens,
		TotalCostUSD: s.cost(inTokens, outTokens),
		CreatedAt:    time.Now(),
	}
	s.store.Put(sess)

	result := naming.ParseResult(resp.Content)
	if result.Degraded {
		s.log.WithField("session", sess.ID).Warn("model output could not be parsed, returning raw text")
	}

	return Outcome{
		SessionID:     sess.ID,
		Subject:       subject,
		Locale:        locale,
		Result:        result,
		TokensUsed:    sess.TotalTokens,
		EstimatedCost: sess.TotalCostUSD,
	}, nil
}

// Continue appends a follow-up message to an existing session and calls
// the provider with the entire transcript so the model retains
// conversational memory.
//
// All limit gates run before the provider call, so no spend is incurred
// once a ceiling is reached. If the call fails, the speculatively appended
// user turn is removed and the session is left exactly as it was.
func (s *Service) Continue(ctx context.Context, id, message string) (Outcome, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Outcome{}, &InvalidInputError{Field: "message", Reason: "cannot be empty"}
	}

	sess, err := s.store.Get(id)
	if err != nil {
		return Outcome{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.TurnCount >= s.cfg.MaxConversationTurns {
		return Outcome{}, &LimitError{Kind: LimitTurns, Limit: float64(s.cfg.MaxConversationTurns), Current: float64(sess.TurnCount)}
	}
	if len(sess.Transcript)/2 >= s.cfg.MaxSessionMessages {
		return Outcome{}, &LimitError{Kind: LimitMessages, Limit: float64(s.cfg.MaxSessionMessages), Current: float64(len(sess.Transcript) / 2)}
	}

	estimatedInput := llm.EstimateTokens(message)
	projectedTokens := sess.TotalTokens + estimatedInput + averageOutputTokens
	if projectedTokens > s.cfg.MaxTokensPerSession {
		return Outcome{}, &LimitError{Kind: LimitTokens, Limit: float64(s.cfg.MaxTokensPerSession), Current: float64(sess.TotalTokens)}
	}

	projectedCost := sess.TotalCostUSD + s.cost(estimatedInput, averageOutputTokens)
	if projectedCost > s.cfg.CostThresholdUSD {
		return Outcome{}, &LimitError{Kind: LimitCost, Limit: s.cfg.CostThresholdUSD, Current: sess.TotalCostUSD}
	}

	// Speculative append: committed only after the provider call succeeds.
	sess.Transcript = append(sess.Transcript, llm.ChatMessage{Role: llm.RoleUser, Content: message})

	resp, err := s.chat(ctx, sess.Transcript)
	if err != nil {
		// Rollback: leave the transcript exactly as it was before the call.
		sess.Transcript = sess.Transcript[:len(sess.Transcript)-1]
		return Outcome{}, &GenerationError{Err: err}
	}

	inTokens, outTokens := s.tokensFor(resp, sess.Transcript)

	sess.Transcript = append(sess.Transcript, llm.ChatMessage{Role: llm.RoleAssistant, Content: resp.Content})
	sess.TurnCount++
	sess.TotalTokens += inTokens + outTokens
	sess.TotalCostUSD += s.cost(inTokens, outTokens)
	sess.touch(time.Now())

	result := naming.ParseResult(resp.Content)
	if result.Degraded {
		s.log.WithField("session", sess.ID).Warn("model output could not be parsed, returning raw text")
	}

	return Outcome{
		SessionID:     sess.ID,
		Subject:       sess.Subject,
		Locale:        sess.Locale,
		Result:        result,
		TokensUsed:    sess.TotalTokens,
		EstimatedCost: sess.TotalCostUSD,
	}, nil
}

// Get returns a read-only projection of a session.
func (s *Service) Get(id string) (Meta, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return Meta{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return Meta{
		ID:           sess.ID,
		Subject:      sess.Subject,
		Locale:       sess.Locale,
		CreatedAt:    sess.CreatedAt,
		TurnCount:    sess.TurnCount,
		MessageCount: len(sess.Transcript),
	}, nil
}

// Remove deletes a session. Idempotent.
func (s *Service) Remove(id string) {
	s.store.Remove(id)
}

// RunSweeper periodically removes idle sessions until ctx is cancelled.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := s.store.SweepExpired(now, s.cfg.IdleTimeout); removed > 0 {
				s.log.WithField("removed", removed).Info("expired idle sessions")
			}
		}
	}
}

// chat performs one bounded provider call.
func (s *Service) chat(ctx context.Context, transcript []llm.ChatMessage) (llm.Response, error) {
	callCtx := ctx
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	return s.client.Chat(callCtx, s.cfg.Model, transcript, llm.ChatOptions{
		Temperature:     s.cfg.Temperature,
		MaxOutputTokens: s.cfg.MaxOutputTokens,
	})
}

// tokensFor returns the input/output token counts for a completed call,
// preferring provider-reported usage and falling back to estimating over
// the full transcript that was sent.
func (s *Service) tokensFor(resp llm.Response, sent []llm.ChatMessage) (int, int) {
	if resp.Usage.Reported() {
		return resp.Usage.Prompt, resp.Usage.Completion
	}
	return llm.EstimateTokensForMessages(sent), llm.EstimateTokens(resp.Content)
}

// cost converts token counts to an estimated dollar amount.
func (s *Service) cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1000*s.cfg.InputTokenPrice +
		float64(outputTokens)/1000*s.cfg.OutputTokenPrice
}
