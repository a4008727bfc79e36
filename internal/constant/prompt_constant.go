package constant

// Prompt templates and fixed fallback strings. The deployed corpus is
// Vietnamese, so the user-facing strings are too.

const (
	// RewritePromptTemplate expects (chat window, user question).
	RewritePromptTemplate = `Giving the following chat history of conversation, rewrite the user question to reflect what the user is actually asking. Response in Vietnamese
Chat history:%s
User question: %s
Your rewritten query:
`

	// AnswerPromptNoContext expects the (possibly rewritten) question.
	AnswerPromptNoContext = `Câu hỏi: %s

Không có tài liệu nào liên quan được tìm thấy trong cơ sở dữ liệu. 
Hãy trả lời dựa trên kiến thức chung của bạn một cách ngắn gọn (tối đa 3 câu).

Trả lời:`

	// AnswerPromptWithContext expects (joined passages, question).
	AnswerPromptWithContext = `Tài liệu tham khảo: %s

Câu hỏi: %s

Hãy trả lời câu hỏi dựa trên tài liệu tham khảo trên. Nếu tài liệu không chứa thông tin cần thiết, hãy nói rõ điều đó.

Trả lời:`

	// BatchAnswerPromptTemplate expects (context, question).
	BatchAnswerPromptTemplate = "Context: %s\nQuestion: %s\nAnswer:"

	// SummaryPromptTemplate expects the rendered conversation.
	SummaryPromptTemplate = "Tóm tắt ngắn gọn đoạn hội thoại sau (dưới 3 câu):\n%s"
)

const (
	// FallbackAnswer stands in for the model answer when completion fails.
	FallbackAnswer = "Không thể trả lời câu hỏi này."

	// FallbackSummary stands in when the compaction summary fails.
	FallbackSummary = "Không thể tóm tắt."

	// SummaryTurnQuestion labels the single synthetic turn left after
	// compaction.
	SummaryTurnQuestion = "Tóm tắt hội thoại"

	// NoHistorySummary is returned by the summary endpoint on an empty
	// history.
	NoHistorySummary = "Chưa có lịch sử chat."
)
