// Package compact bounds per-session history growth by folding old turns
// into a single summary turn.
package compact

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"docuchat-be/internal/constant"
	"docuchat-be/internal/entity"
	"docuchat-be/internal/repository/contract"
	"docuchat-be/pkg/llm"
)

// Compactor summarizes a session's history and replaces it with exactly one
// synthetic turn. Summarization failures never fail the caller: a fixed
// placeholder is written instead.
type Compactor struct {
	provider    llm.LLMProvider
	historyRepo contract.HistoryRepository
	timeout     time.Duration
	logger      *log.Logger
}

func NewCompactor(provider llm.LLMProvider, historyRepo contract.HistoryRepository, timeout time.Duration, logger *log.Logger) *Compactor {
	return &Compactor{
		provider:    provider,
		historyRepo: historyRepo,
		timeout:     timeout,
		logger:      logger,
	}
}

// Compact reads the full history, summarizes it and swaps the log for a
// single summary turn. A session with no history is left untouched.
func (c *Compactor) Compact(ctx context.Context, sessionId string) error {
	turns, err := c.historyRepo.ReadAll(ctx, sessionId)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(turns) == 0 {
		return nil
	}

	summary := c.Summarize(ctx, turns)

	if err := c.historyRepo.Clear(ctx, sessionId); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	if _, err := c.historyRepo.Append(ctx, sessionId, constant.SummaryTurnQuestion, summary); err != nil {
		return fmt.Errorf("append summary turn: %w", err)
	}

	// The cached standalone summary describes the old log.
	if err := c.historyRepo.DeleteSummary(ctx, sessionId); err != nil {
		c.logger.Printf("[WARN] Could not invalidate cached summary for session %s: %v", sessionId, err)
	}
	return nil
}

// Summarize renders the turns and asks the model for a short summary,
// falling back to a fixed placeholder on any failure.
func (c *Compactor) Summarize(ctx context.Context, turns []*entity.ChatTurn) string {
	var sb strings.Builder
	for _, turn := range turns {
		sb.WriteString("User: ")
		sb.WriteString(turn.Question)
		sb.WriteString("\nBot: ")
		sb.WriteString(turn.Answer)
		sb.WriteString("\n")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(constant.SummaryPromptTemplate, sb.String())
	summary, err := c.provider.Generate(timeoutCtx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		c.logger.Printf("[WARN] History summarization failed: %v", err)
		return constant.FallbackSummary
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return constant.FallbackSummary
	}
	return summary
}
