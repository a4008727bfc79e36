package prompt

import (
	"strings"
	"testing"

	"docuchat-be/pkg/vectorstore"

	"github.com/stretchr/testify/assert"
)

func TestBuildAnswerPromptWithoutPassages(t *testing.T) {
	prompt, grounded := BuildAnswerPrompt("Công ty thành lập khi nào?", nil)

	assert.False(t, grounded)
	assert.Contains(t, prompt, "Công ty thành lập khi nào?")
	assert.Contains(t, prompt, "Không có tài liệu nào liên quan")
	assert.NotContains(t, prompt, "Tài liệu tham khảo")
}

func TestBuildAnswerPromptJoinsPassages(t *testing.T) {
	passages := []vectorstore.Passage{
		{Text: "Công ty được thành lập năm 2020.", Score: 0.91},
		{Text: "Trụ sở chính đặt tại Hà Nội.", Score: 0.84},
	}

	prompt, grounded := BuildAnswerPrompt("Công ty thành lập khi nào?", passages)

	assert.True(t, grounded)
	assert.Contains(t, prompt, "Công ty được thành lập năm 2020.\nTrụ sở chính đặt tại Hà Nội.")
	assert.True(t, strings.Contains(prompt, "Tài liệu tham khảo"))
}

func TestBuildBatchAnswerPrompt(t *testing.T) {
	passages := []vectorstore.Passage{{Text: "Doanh thu năm 2023 là 10 tỷ."}}

	prompt := BuildBatchAnswerPrompt("Doanh thu là bao nhiêu?", passages)

	assert.Equal(t, "Context: Doanh thu năm 2023 là 10 tỷ.\nQuestion: Doanh thu là bao nhiêu?\nAnswer:", prompt)
}
