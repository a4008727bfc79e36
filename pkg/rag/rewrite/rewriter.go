// Package rewrite turns a follow-up question into a standalone one using the
// recent conversation window, so retrieval is not confused by pronouns and
// ellipsis.
package rewrite

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"docuchat-be/internal/constant"
	"docuchat-be/pkg/llm"
)

// Exchange is one prior question/answer pair from the conversation.
type Exchange struct {
	Question string
	Answer   string
}

// Rewriter rewrites questions with an LLM. All failures are soft: the
// original question is always a valid output.
type Rewriter struct {
	provider llm.LLMProvider
	window   int
	timeout  time.Duration
	logger   *log.Logger
}

func NewRewriter(provider llm.LLMProvider, window int, timeout time.Duration, logger *log.Logger) *Rewriter {
	return &Rewriter{
		provider: provider,
		window:   window,
		timeout:  timeout,
		logger:   logger,
	}
}

// Rewrite returns a standalone version of question, and whether the question
// actually changed. With no history the question passes through untouched and
// no model call is made.
func (r *Rewriter) Rewrite(ctx context.Context, question string, history []Exchange) (string, bool) {
	if len(history) == 0 {
		return question, false
	}

	window := history
	if len(window) > r.window {
		window = window[len(window)-r.window:]
	}

	var sb strings.Builder
	for _, ex := range window {
		sb.WriteString("\nUser: ")
		sb.WriteString(ex.Question)
		sb.WriteString("\nBot: ")
		sb.WriteString(ex.Answer)
	}

	prompt := fmt.Sprintf(constant.RewritePromptTemplate, sb.String(), question)
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	raw, err := r.provider.Generate(timeoutCtx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		r.logger.Printf("[WARN] Question rewrite failed, using original: %v", err)
		return question, false
	}

	rewritten := CleanRewriteOutput(raw)
	if rewritten == "" || rewritten == question {
		return question, false
	}
	return rewritten, true
}

var (
	numberedPrefixRe = regexp.MustCompile(`^\d+\.\s*`)
	// Bullet markers need trailing whitespace so a bare "*" glued to text,
	// such as the opening of a "**bold**" label, is not mistaken for one.
	bulletPrefixRe   = regexp.MustCompile(`^[-*]\s+`)
	boldPrefixRe     = regexp.MustCompile(`^\*\*.*?\*\*\s*`)
	trailingParensRe = regexp.MustCompile(`\s*\([^)]+\)\s*(\?)?\s*$`)
)

// CleanRewriteOutput extracts the actual rewritten question from whatever the
// model produced. Models like to pad answers with list markers, bold labels
// and trailing commentary in parentheses; strip all of that and pick the
// first line that looks like a question.
func CleanRewriteOutput(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	var fallback string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = numberedPrefixRe.ReplaceAllString(line, "")
		line = bulletPrefixRe.ReplaceAllString(line, "")
		line = boldPrefixRe.ReplaceAllString(line, "")
		line = trailingParensRe.ReplaceAllString(line, "$1")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, "?") || strings.Contains(line, "là ai") || strings.Contains(line, "là gì") {
			return line
		}
		if fallback == "" && !strings.HasPrefix(line, "Dưới đây") {
			fallback = line
		}
	}
	if fallback != "" {
		return fallback
	}
	return text
}
