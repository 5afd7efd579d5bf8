package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/sync/errgroup"

	"github.com/workbenchhq/workbench/internal/errors"
	"github.com/workbenchhq/workbench/internal/observability"
	"github.com/workbenchhq/workbench/plugin/ai"
	"github.com/workbenchhq/workbench/plugin/ai/cache"
	"github.com/workbenchhq/workbench/store"
)

const (
	// cacheTTL is the lifetime of a cached response.
	cacheTTL = 24 * time.Hour

	// alertFetchLimit caps how many open alerts are considered for
	// relevance filtering.
	alertFetchLimit = 20

	// sessionTitleMaxChars bounds a lazily created session title.
	sessionTitleMaxChars = 64

	// degradedAnswer is the fixed text returned when the completion
	// provider fails. It is cached and appended like any other answer.
	degradedAnswer = "I'm sorry, I wasn't able to generate an answer right now. Please try again in a moment."

	systemPrompt = "You are a knowledge-base assistant for a workspace. " +
		"Answer using only the provided context. When a statement is grounded in a " +
		"context item, cite it inline as [Source: <item title>]. If the context does " +
		"not contain the answer, say so instead of guessing."
)

// TenantContext identifies the tenant and user on whose behalf a query
// runs. It is threaded explicitly into every call; nothing is read from
// ambient state.
type TenantContext struct {
	TenantID string
	UserID   string
}

// QueryRequest is one chat query.
type QueryRequest struct {
	TenantContext

	// SessionUID optionally continues an existing session. A session is
	// created lazily when empty or unresolvable within the tenant.
	SessionUID string
	Query      string
}

// QueryResponse is the terminal state of the pipeline: the session and the
// assistant message appended for this query.
type QueryResponse struct {
	Session  *store.ChatSession
	Message  *store.ChatMessage
	CacheHit bool
	Model    string
}

// Pipeline is the retrieval-augmented chat query pipeline.
type Pipeline struct {
	store      *store.Store
	retriever  *Retriever
	completion ai.CompletionService
	hotCache   *cache.ResponseCache
	logger     *slog.Logger

	defaultModel string
	hardModel    string
	maxTokens    int
}

// NewPipeline creates the pipeline. completion may be nil when AI is not
// configured; Query then fails with a configuration error.
func NewPipeline(st *store.Store, embedding ai.EmbeddingService, completion ai.CompletionService, llmConfig *ai.LLMConfig, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		store:        st,
		retriever:    NewRetriever(st, embedding),
		completion:   completion,
		hotCache:     cache.NewResponseCache(1000, 5*time.Minute),
		logger:       logger,
		defaultModel: llmConfig.Model,
		hardModel:    llmConfig.HardModel,
		maxTokens:    llmConfig.MaxTokens,
	}
}

// InvalidateTenant drops the tenant's in-process cache entries. Called when
// tenant content changes, so a replica that just served a hot replay does
// not keep doing so for the full hot TTL; the durable cache stays
// authoritative and fingerprinting re-keys subsequent queries.
func (p *Pipeline) InvalidateTenant(tenantID string) {
	p.hotCache.InvalidateTenant(tenantID)
}

// Query answers one chat query. The user always ends up with a message in
// their transcript: a grounded answer, a cache replay, or the degraded
// provider-failure text. Only configuration and storage errors propagate.
func (p *Pipeline) Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, errors.InvalidArgument("query is required")
	}
	if req.TenantID == "" {
		return nil, errors.InvalidArgument("tenant is required")
	}
	if p.completion == nil {
		return nil, errors.Configuration("completion provider is not configured")
	}

	rc := observability.NewRequestContext(p.logger, req.TenantID, req.UserID)

	normalized := Normalize(req.Query)
	queryHash := Hash(normalized)

	session, err := p.resolveSession(ctx, req)
	if err != nil {
		return nil, err
	}

	// Retrieval and the alert fetch are independent reads.
	var retrieval *RetrievalResult
	var alerts []*store.Alert
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		retrieval, err = p.retriever.Retrieve(gctx, rc, req.TenantID, req.Query)
		return err
	})
	g.Go(func() error {
		var err error
		alerts, err = p.openAlerts(gctx, req.TenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	relevantAlerts := FilterRelevantAlerts(normalized, alerts)
	contextHash := ContextFingerprint(retrieval.Items, relevantAlerts)

	cached, err := p.lookupCache(ctx, req.TenantID, queryHash, contextHash)
	if err != nil {
		rc.Warn("cache lookup failed, treating as miss", slog.String("error", err.Error()))
	}
	if cached != nil {
		return p.replay(ctx, rc, req, session, cached)
	}

	contextText := AssembleContext(retrieval.Header, retrieval.Items, relevantAlerts, contextTokenBudget)
	choice := RouteModel(normalized, contextText, p.maxTokens, p.defaultModel, p.hardModel)

	answer, citations, tokensUsed := p.generate(ctx, rc, req.Query, contextText, choice, retrieval.Items, relevantAlerts)

	p.writeCache(ctx, rc, &store.CachedResponse{
		TenantID:    req.TenantID,
		QueryHash:   queryHash,
		ContextHash: contextHash,
		Answer:      answer,
		Citations:   citations,
		TokensUsed:  tokensUsed,
		Model:       choice.Model,
		ExpiresAt:   time.Now().Add(cacheTTL).Unix(),
		CreatedTs:   time.Now().Unix(),
		UpdatedTs:   time.Now().Unix(),
	})

	p.recordUsage(req.TenantContext, choice.Model, tokensUsed, citations)

	assistantMsg, err := p.appendExchange(ctx, session, req.Query, answer, citations)
	if err != nil {
		return nil, err
	}

	rc.Info("chat query answered",
		slog.String(observability.LogFieldQueryHash, queryHash),
		slog.String(observability.LogFieldContextHash, contextHash),
		slog.String(observability.LogFieldModel, choice.Model),
		slog.String("route_reason", choice.Reason),
		slog.Bool(observability.LogFieldCacheHit, false),
		slog.Bool("retrieval_degraded", retrieval.Degraded),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()))

	return &QueryResponse{
		Session: session,
		Message: assistantMsg,
		Model:   choice.Model,
	}, nil
}

// replay serves a cache hit. The transcript gets a full message pair exactly
// as on fresh generation, while usage is recorded with zero tokens under the
// distinguished cache label so billing can tell replays apart.
func (p *Pipeline) replay(ctx context.Context, rc *observability.RequestContext, req *QueryRequest, session *store.ChatSession, cached *store.CachedResponse) (*QueryResponse, error) {
	p.recordUsage(req.TenantContext, store.UsageModelCache, 0, cached.Citations)

	assistantMsg, err := p.appendExchange(ctx, session, req.Query, cached.Answer, cached.Citations)
	if err != nil {
		return nil, err
	}

	rc.Info("chat query replayed from cache",
		slog.String(observability.LogFieldQueryHash, cached.QueryHash),
		slog.String(observability.LogFieldContextHash, cached.ContextHash),
		slog.Bool(observability.LogFieldCacheHit, true),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()))

	return &QueryResponse{
		Session:  session,
		Message:  assistantMsg,
		CacheHit: true,
		Model:    store.UsageModelCache,
	}, nil
}

// generate calls the completion provider. Provider failure degrades to the
// fixed apology answer with no citations; it is never retried and never
// surfaces as an error.
func (p *Pipeline) generate(ctx context.Context, rc *observability.RequestContext, query, contextText string, choice *ModelChoice, items []*RetrievedItem, alerts []*store.Alert) (string, []*store.Citation, int) {
	userPrompt := contextText + "\n\nQuestion: " + query

	result, err := p.completion.Complete(ctx, systemPrompt, userPrompt, choice.Model, p.maxTokens)
	if err != nil {
		rc.Error("completion provider failed, returning degraded answer",
			errors.ProviderUnavailable("completion call failed", err),
			slog.String(observability.LogFieldModel, choice.Model))
		return degradedAnswer, []*store.Citation{}, 0
	}

	return result.Answer, ReconcileCitations(result.Citations, items, alerts), result.TokensUsed
}

func (p *Pipeline) resolveSession(ctx context.Context, req *QueryRequest) (*store.ChatSession, error) {
	if req.SessionUID != "" {
		session, err := p.store.GetChatSession(ctx, &store.FindChatSession{
			UID:      &req.SessionUID,
			TenantID: &req.TenantID,
		})
		if err != nil {
			return nil, errors.StorageFailure("failed to resolve chat session", err)
		}
		if session != nil {
			return session, nil
		}
		// Unresolvable within the tenant: fall through to lazy creation.
	}

	title := truncateChars(strings.TrimSpace(req.Query), sessionTitleMaxChars)
	now := time.Now().Unix()
	session, err := p.store.CreateChatSession(ctx, &store.ChatSession{
		UID:       shortuuid.New(),
		TenantID:  req.TenantID,
		CreatorID: req.UserID,
		Title:     title,
		CreatedTs: now,
		UpdatedTs: now,
	})
	if err != nil {
		return nil, errors.StorageFailure("failed to create chat session", err)
	}
	return session, nil
}

func (p *Pipeline) openAlerts(ctx context.Context, tenantID string) ([]*store.Alert, error) {
	status := store.AlertStatusOpen
	alerts, err := p.store.ListAlerts(ctx, &store.FindAlert{
		TenantID: &tenantID,
		Status:   &status,
		Limit:    alertFetchLimit,
	})
	if err != nil {
		return nil, errors.StorageFailure("failed to list alerts", err)
	}
	return alerts, nil
}

func (p *Pipeline) lookupCache(ctx context.Context, tenantID, queryHash, contextHash string) (*store.CachedResponse, error) {
	if cached, ok := p.hotCache.Get(tenantID, queryHash, contextHash); ok {
		return cached, nil
	}

	cached, err := p.store.GetCachedResponse(ctx, &store.FindCachedResponse{
		TenantID:    tenantID,
		QueryHash:   queryHash,
		ContextHash: contextHash,
		Now:         time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}
	if cached != nil {
		p.hotCache.Set(cached)
	}
	return cached, nil
}

// writeCache persists the response for replay. Write failures after a
// successful generation are accounting failures: logged, never fatal.
func (p *Pipeline) writeCache(ctx context.Context, rc *observability.RequestContext, response *store.CachedResponse) {
	if _, err := p.store.UpsertCachedResponse(ctx, response); err != nil {
		rc.Warn("cache write failed",
			slog.String("error", errors.AccountingFailure("cache write failed", err).Error()))
		return
	}
	p.hotCache.Set(response)
}

// recordUsage is fire-and-forget accounting on a detached goroutine. A
// panic or error here must never affect the response path.
func (p *Pipeline) recordUsage(tc TenantContext, model string, tokens int, citations []*store.Citation) {
	citedTitles := []string{}
	for _, c := range citations {
		if c.Title != "" {
			citedTitles = append(citedTitles, c.Title)
		}
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("usage recording panicked", slog.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := p.store.CreateUsageLog(ctx, &store.UsageLog{
			TenantID:    tc.TenantID,
			UserID:      tc.UserID,
			Model:       model,
			TokensUsed:  tokens,
			CitedTitles: citedTitles,
			CreatedTs:   time.Now().Unix(),
		}); err != nil {
			p.logger.Warn("usage recording failed",
				slog.String("error", errors.AccountingFailure("usage log write failed", err).Error()),
				slog.String(observability.LogFieldTenantID, tc.TenantID))
		}
	}()
}

// appendExchange appends the user/assistant pair atomically. This only runs
// once an answer, cached or generated, is in hand, so no partial exchange
// can be observed.
func (p *Pipeline) appendExchange(ctx context.Context, session *store.ChatSession, query, answer string, citations []*store.Citation) (*store.ChatMessage, error) {
	now := time.Now().Unix()
	userMsg := &store.ChatMessage{
		UID:       shortuuid.New(),
		SessionID: session.ID,
		Role:      store.ChatMessageRoleUser,
		Content:   query,
		CreatedTs: now,
	}
	assistantMsg := &store.ChatMessage{
		UID:       shortuuid.New(),
		SessionID: session.ID,
		Role:      store.ChatMessageRoleAssistant,
		Content:   answer,
		Citations: citations,
		CreatedTs: now,
	}

	if _, err := p.store.AppendMessagePair(ctx, userMsg, assistantMsg); err != nil {
		return nil, errors.StorageFailure("failed to append message pair", err)
	}
	return assistantMsg, nil
}
