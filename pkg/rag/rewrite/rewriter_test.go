package rewrite

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"docuchat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	response string
	err      error
	called   bool
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.Generate(ctx, "", options...)
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.called = true
	return s.response, s.err
}

func newTestRewriter(provider llm.LLMProvider) *Rewriter {
	return NewRewriter(provider, 3, time.Second, log.New(io.Discard, "", 0))
}

func TestRewritePassthroughOnEmptyHistory(t *testing.T) {
	provider := &stubProvider{response: "should not be used"}
	r := newTestRewriter(provider)

	question := "Ai là tác giả của tài liệu này?"
	rewritten, changed := r.Rewrite(context.Background(), question, nil)

	assert.Equal(t, question, rewritten)
	assert.False(t, changed)
	assert.False(t, provider.called, "no model call expected without history")
}

func TestRewriteUsesOriginalOnProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("model unavailable")}
	r := newTestRewriter(provider)

	history := []Exchange{{Question: "Công ty thành lập khi nào?", Answer: "Năm 2020."}}
	question := "Còn trụ sở ở đâu?"
	rewritten, changed := r.Rewrite(context.Background(), question, history)

	assert.Equal(t, question, rewritten)
	assert.False(t, changed)
}

type hangingProvider struct{}

func (hangingProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (hangingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestRewriteGivesUpAfterTimeout(t *testing.T) {
	r := NewRewriter(hangingProvider{}, 3, 50*time.Millisecond, log.New(io.Discard, "", 0))

	history := []Exchange{{Question: "Công ty thành lập khi nào?", Answer: "Năm 2020."}}
	question := "Còn trụ sở ở đâu?"

	start := time.Now()
	rewritten, changed := r.Rewrite(context.Background(), question, history)

	assert.Equal(t, question, rewritten)
	assert.False(t, changed)
	assert.Less(t, time.Since(start), 2*time.Second, "rewrite must be bounded by its own timeout")
}

func TestRewriteCleansModelOutput(t *testing.T) {
	provider := &stubProvider{response: "Dưới đây là câu hỏi được viết lại:\n\n1. **Câu hỏi:** Điều gì đã xảy ra vào năm 2020 (theo tài liệu)?"}
	r := newTestRewriter(provider)

	history := []Exchange{{Question: "Tài liệu nói về năm nào?", Answer: "Năm 2020."}}
	rewritten, changed := r.Rewrite(context.Background(), "Điều gì đã xảy ra?", history)

	assert.Equal(t, "Điều gì đã xảy ra vào năm 2020?", rewritten)
	assert.True(t, changed)
}

func TestCleanRewriteOutput(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "plain question",
			raw:      "Điều gì đã xảy ra vào năm 2020?",
			expected: "Điều gì đã xảy ra vào năm 2020?",
		},
		{
			name:     "numbered bold prefix and trailing parenthetical",
			raw:      "1. **Note** Điều gì đã xảy ra vào năm 2020 (theo tài liệu)?",
			expected: "Điều gì đã xảy ra vào năm 2020?",
		},
		{
			name:     "bullet prefix followed by bold label",
			raw:      "- **Ghi chú:** Ai là giám đốc hiện tại?",
			expected: "Ai là giám đốc hiện tại?",
		},
		{
			name:     "bullet prefix",
			raw:      "- Công ty được thành lập khi nào?",
			expected: "Công ty được thành lập khi nào?",
		},
		{
			name:     "la gi without question mark",
			raw:      "Sản phẩm chính của công ty là gì",
			expected: "Sản phẩm chính của công ty là gì",
		},
		{
			name:     "preamble then question",
			raw:      "Dưới đây là các lựa chọn:\nAi là giám đốc hiện tại?",
			expected: "Ai là giám đốc hiện tại?",
		},
		{
			name:     "no question-like line falls back to first line",
			raw:      "Hãy mô tả sản phẩm chính.",
			expected: "Hãy mô tả sản phẩm chính.",
		},
		{
			name:     "empty input",
			raw:      "   \n  ",
			expected: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CleanRewriteOutput(tc.raw))
		})
	}
}
