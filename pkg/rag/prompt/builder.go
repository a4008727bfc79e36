// Package prompt assembles the completion prompts used by the chat flow.
package prompt

import (
	"fmt"
	"strings"

	"docuchat-be/internal/constant"
	"docuchat-be/pkg/vectorstore"
)

// BuildAnswerPrompt renders the answer prompt for a question and its
// retrieved passages. The second return value reports whether the prompt is
// grounded in document context; with no passages the model is asked to answer
// briefly from general knowledge instead.
func BuildAnswerPrompt(question string, passages []vectorstore.Passage) (string, bool) {
	if len(passages) == 0 {
		return fmt.Sprintf(constant.AnswerPromptNoContext, question), false
	}

	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Text)
	}
	return fmt.Sprintf(constant.AnswerPromptWithContext, strings.Join(texts, "\n"), question), true
}

// BuildBatchAnswerPrompt renders the compact prompt used by the batch query
// endpoint.
func BuildBatchAnswerPrompt(question string, passages []vectorstore.Passage) string {
	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Text)
	}
	return fmt.Sprintf(constant.BatchAnswerPromptTemplate, strings.Join(texts, "\n"), question)
}
