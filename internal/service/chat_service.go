package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"docuchat-be/internal/constant"
	"docuchat-be/internal/dto"
	"docuchat-be/internal/entity"
	"docuchat-be/internal/pkg/logger"
	"docuchat-be/internal/pkg/metrics"
	"docuchat-be/internal/pkg/serverutils"
	"docuchat-be/internal/pkg/sessionlock"
	"docuchat-be/internal/repository/contract"
	"docuchat-be/pkg/llm"
	"docuchat-be/pkg/rag/compact"
	"docuchat-be/pkg/rag/prompt"
	"docuchat-be/pkg/rag/rewrite"
	"docuchat-be/pkg/rag/search"
	"docuchat-be/pkg/vectorstore"
)

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	BatchQuery(ctx context.Context, req *dto.BatchQueryRequest) (*dto.BatchQueryResponse, error)
	GetHistory(ctx context.Context, sessionId string) (*dto.HistoryResponse, error)
	ClearHistory(ctx context.Context, sessionId string) error
	GetSummary(ctx context.Context, sessionId string) (*dto.SummaryResponse, error)
}

// ChatTuning carries the orchestrator knobs from config. The rewrite window
// size lives on the Rewriter itself.
type ChatTuning struct {
	SummaryEveryN int
	TopK          int
	LLMTimeout    time.Duration
	SearchTimeout time.Duration
}

type chatService struct {
	sessionService ISessionService
	sessionRepo    contract.SessionRepository
	documentRepo   contract.DocumentRepository
	historyRepo    contract.HistoryRepository
	cacheRepo      contract.CacheRepository
	llmProvider    llm.LLMProvider
	searcher       *search.Orchestrator
	rewriter       *rewrite.Rewriter
	compactor      *compact.Compactor
	locks          *sessionlock.KeyedMutex
	sink           metrics.Sink
	tuning         ChatTuning
	logger         logger.ILogger
}

func NewChatService(
	sessionService ISessionService,
	sessionRepo contract.SessionRepository,
	documentRepo contract.DocumentRepository,
	historyRepo contract.HistoryRepository,
	cacheRepo contract.CacheRepository,
	llmProvider llm.LLMProvider,
	searcher *search.Orchestrator,
	rewriter *rewrite.Rewriter,
	compactor *compact.Compactor,
	sink metrics.Sink,
	tuning ChatTuning,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessionService: sessionService,
		sessionRepo:    sessionRepo,
		documentRepo:   documentRepo,
		historyRepo:    historyRepo,
		cacheRepo:      cacheRepo,
		llmProvider:    llmProvider,
		searcher:       searcher,
		rewriter:       rewriter,
		compactor:      compactor,
		locks:          sessionlock.New(),
		sink:           sink,
		tuning:         tuning,
		logger:         log,
	}
}

// Chat runs one full conversational turn. The turn always completes with
// some answer and is always persisted; only a missing session or a session
// with no uploaded documents is surfaced as an error.
func (c *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	start := time.Now()

	sessionId := req.SessionId
	if sessionId == "" {
		created, err := c.sessionService.Create(ctx)
		if err != nil {
			return nil, err
		}
		sessionId = created.SessionId
	} else if err := c.sessionService.Validate(ctx, sessionId); err != nil {
		return nil, err
	}

	unlock := c.locks.Lock(sessionId)
	defer unlock()

	c.touchSession(ctx, sessionId)

	history, err := c.historyRepo.ReadAll(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	window := make([]rewrite.Exchange, 0, len(history))
	for _, turn := range history {
		window = append(window, rewrite.Exchange{Question: turn.Question, Answer: turn.Answer})
	}
	rewritten, didRewrite := c.rewriter.Rewrite(ctx, req.Question, window)

	collection, err := c.documentRepo.ResolveCollection(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	searchCtx, cancelSearch := context.WithTimeout(ctx, c.tuning.SearchTimeout)
	passages, err := c.searcher.Retrieve(searchCtx, collection, rewritten, c.tuning.TopK)
	cancelSearch()
	if err != nil {
		if errors.Is(err, vectorstore.ErrCollectionNotFound) {
			return nil, serverutils.NewCollectionMissingError()
		}
		return nil, err
	}

	answerPrompt, _ := prompt.BuildAnswerPrompt(rewritten, passages)
	contextText := joinPassages(passages)

	answer, cacheHit := c.answer(ctx, answerPrompt, contextText)

	// The original question is persisted; the rewrite is internal to
	// retrieval.
	turn, err := c.historyRepo.Append(ctx, sessionId, req.Question, answer)
	if err != nil {
		return nil, err
	}

	turnNumber, err := c.historyRepo.IncrTurnCount(ctx, sessionId)
	if err != nil {
		c.logger.Warn("chat", "Turn counter increment failed", map[string]interface{}{
			"session_id": sessionId, "error": err.Error(),
		})
	}

	latency := time.Since(start).Seconds()
	c.sink.IncrChats()
	c.sink.AddLatency(latency)

	attachErr := c.historyRepo.AttachMetrics(ctx, sessionId, turn.Id, &entity.TurnMetrics{
		LatencySeconds:    latency,
		RetrievedPassages: len(passages),
		CacheHit:          cacheHit,
		Rewritten:         didRewrite,
		TurnNumber:        turnNumber,
	})
	if attachErr != nil {
		c.logger.Warn("chat", "Metrics attachment failed", map[string]interface{}{
			"session_id": sessionId, "chat_id": turn.Id.String(), "error": attachErr.Error(),
		})
	}

	if c.tuning.SummaryEveryN > 0 && len(history)+1 >= c.tuning.SummaryEveryN {
		if err := c.compactor.Compact(ctx, sessionId); err != nil {
			c.logger.Warn("chat", "History compaction failed", map[string]interface{}{
				"session_id": sessionId, "error": err.Error(),
			})
		}
	}

	return &dto.ChatResponse{
		Answer:    answer,
		SessionId: sessionId,
		ChatId:    turn.Id.String(),
		Latency:   time.Since(start).Seconds(),
	}, nil
}

// answer consults the response cache before spending a model call. Both the
// cache and the model are best effort: the worst case is the fixed apology.
func (c *chatService) answer(ctx context.Context, answerPrompt, contextText string) (string, bool) {
	cacheKey := c.cacheRepo.Key(answerPrompt, contextText)
	if entry, err := c.cacheRepo.Get(ctx, cacheKey); err == nil && entry != nil {
		c.sink.IncrCacheHit()
		return entry.Response, true
	}
	c.sink.IncrCacheMiss()

	llmCtx, cancel := context.WithTimeout(ctx, c.tuning.LLMTimeout)
	defer cancel()

	c.sink.IncrLLMCalls()
	answer, err := c.llmProvider.Generate(llmCtx, answerPrompt)
	if err != nil {
		c.logger.Warn("chat", "Completion failed, using fallback answer", map[string]interface{}{
			"error": err.Error(),
		})
		return constant.FallbackAnswer, false
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return constant.FallbackAnswer, false
	}

	if _, err := c.cacheRepo.Put(ctx, answerPrompt, contextText, answer); err != nil {
		c.logger.Warn("chat", "Cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return answer, false
}

// BatchQuery answers each question against the session's documents. Pairs
// are persisted in question order; a session is issued when none is given.
func (c *chatService) BatchQuery(ctx context.Context, req *dto.BatchQueryRequest) (*dto.BatchQueryResponse, error) {
	start := time.Now()

	sessionId := req.SessionId
	if err := c.sessionService.Validate(ctx, sessionId); err != nil {
		created, createErr := c.sessionService.Create(ctx)
		if createErr != nil {
			return nil, createErr
		}
		sessionId = created.SessionId
	}

	unlock := c.locks.Lock(sessionId)
	defer unlock()

	collection, err := c.documentRepo.ResolveCollection(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	searchCtx, cancelSearch := context.WithTimeout(ctx, c.tuning.SearchTimeout)
	retrieved, err := c.searcher.BatchRetrieve(searchCtx, collection, req.Queries, c.tuning.TopK)
	cancelSearch()
	if err != nil {
		if errors.Is(err, vectorstore.ErrCollectionNotFound) {
			return nil, serverutils.NewCollectionMissingError()
		}
		return nil, err
	}

	answers := make([]string, len(req.Queries))
	for i, question := range req.Queries {
		batchPrompt := prompt.BuildBatchAnswerPrompt(question, retrieved[i])

		llmCtx, cancel := context.WithTimeout(ctx, c.tuning.LLMTimeout)
		c.sink.IncrLLMCalls()
		answer, err := c.llmProvider.Generate(llmCtx, batchPrompt)
		cancel()
		if err != nil || strings.TrimSpace(answer) == "" {
			answer = constant.FallbackAnswer
		}
		answers[i] = strings.TrimSpace(answer)

		if _, err := c.historyRepo.Append(ctx, sessionId, question, answers[i]); err != nil {
			c.logger.Warn("chat", "Batch turn persist failed", map[string]interface{}{
				"session_id": sessionId, "error": err.Error(),
			})
		}
		c.sink.IncrChats()
	}

	c.sink.AddLatency(time.Since(start).Seconds())

	return &dto.BatchQueryResponse{
		Answers:   answers,
		SessionId: sessionId,
		BatchSize: len(req.Queries),
		Latency:   time.Since(start).Seconds(),
	}, nil
}

func (c *chatService) GetHistory(ctx context.Context, sessionId string) (*dto.HistoryResponse, error) {
	start := time.Now()

	if err := c.sessionService.Validate(ctx, sessionId); err != nil {
		return nil, err
	}

	history, err := c.historyRepo.ReadAll(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	return &dto.HistoryResponse{
		History: history,
		Latency: time.Since(start).Seconds(),
	}, nil
}

func (c *chatService) ClearHistory(ctx context.Context, sessionId string) error {
	if err := c.sessionService.Validate(ctx, sessionId); err != nil {
		return err
	}
	if err := c.historyRepo.Clear(ctx, sessionId); err != nil {
		return err
	}
	return c.historyRepo.DeleteSummary(ctx, sessionId)
}

// GetSummary serves the cached standalone summary, regenerating it from the
// current history when absent.
func (c *chatService) GetSummary(ctx context.Context, sessionId string) (*dto.SummaryResponse, error) {
	start := time.Now()

	if err := c.sessionService.Validate(ctx, sessionId); err != nil {
		return nil, err
	}

	cached, err := c.historyRepo.GetSummary(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if cached != "" {
		return &dto.SummaryResponse{Summary: cached, Latency: time.Since(start).Seconds()}, nil
	}

	history, err := c.historyRepo.ReadAll(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return &dto.SummaryResponse{Summary: constant.NoHistorySummary, Latency: time.Since(start).Seconds()}, nil
	}

	summary := c.compactor.Summarize(ctx, history)
	if summary != constant.FallbackSummary {
		if err := c.historyRepo.SetSummary(ctx, sessionId, summary); err != nil {
			c.logger.Warn("chat", "Summary cache write failed", map[string]interface{}{
				"session_id": sessionId, "error": err.Error(),
			})
		}
	}

	return &dto.SummaryResponse{Summary: summary, Latency: time.Since(start).Seconds()}, nil
}

// touchSession renews every per-session TTL on user interaction.
func (c *chatService) touchSession(ctx context.Context, sessionId string) {
	for name, touch := range map[string]func(context.Context, string) error{
		"session":   c.sessionRepo.Touch,
		"history":   c.historyRepo.Touch,
		"documents": c.documentRepo.Touch,
	} {
		if err := touch(ctx, sessionId); err != nil {
			c.logger.Warn("chat", "TTL refresh failed", map[string]interface{}{
				"session_id": sessionId, "namespace": name, "error": err.Error(),
			})
		}
	}
}

func joinPassages(passages []vectorstore.Passage) string {
	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Text)
	}
	return strings.Join(texts, "\n")
}
