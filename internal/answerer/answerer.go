// Package answerer turns a question into an answer: retrieve context triples
// from the store, build the prompt, call the LLM, and fall back to a raw
// context dump when generation is unavailable.
package answerer

import (
	"context"
	"fmt"
	"strings"

	"github.com/minhtn/ragchat/internal/llm"
	"github.com/minhtn/ragchat/internal/logger"
)

// Retriever supplies context documents. *store.Client satisfies it.
type Retriever interface {
	SelectFormations(ctx context.Context) ([]string, error)
}

// Result carries everything the /ask response needs.
type Result struct {
	Question   string
	Answer     string
	Context    []string
	Confidence float64
	Provider   string
}

const noContextAnswer = "Xin lỗi, tôi không tìm thấy thông tin liên quan để trả lời câu hỏi của bạn."

const promptTemplate = `Dựa trên dữ liệu SPARQL sau về các tỉnh thành Việt Nam, hãy trả lời câu hỏi bằng tiếng Việt:

Dữ liệu (format: new_province: URI tỉnh sau sát nhập, new_label: tên tỉnh sau sát nhập, old_province: URI tỉnh trước sát nhập, old_label: tên tỉnh trước sát nhập):
%s

Câu hỏi: %s

Hãy phân tích dữ liệu và trả lời chính xác, đưa ra các uri liên quan nếu có:`

// Answerer orchestrates retrieval and generation.
type Answerer struct {
	llm       llm.Client
	retriever Retriever
	// maxContextDocs caps how many documents go into the prompt; zero
	// means the whole corpus is used, as the original service does.
	maxContextDocs int
}

// New creates an answerer. llmClient may be nil, in which case every
// question gets the fallback answer.
func New(llmClient llm.Client, retriever Retriever, maxContextDocs int) *Answerer {
	return &Answerer{
		llm:            llmClient,
		retriever:      retriever,
		maxContextDocs: maxContextDocs,
	}
}

// Ask answers one question. A retrieval failure is an error; a generation
// failure is not, it degrades to the fallback answer.
func (a *Answerer) Ask(ctx context.Context, question string) (*Result, error) {
	docs, err := a.retriever.SelectFormations(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	if a.maxContextDocs > 0 && len(docs) > a.maxContextDocs {
		docs = rankDocs(question, docs, a.maxContextDocs)
	}

	res := &Result{
		Question:   question,
		Context:    docs,
		Confidence: 1,
		Provider:   a.provider(),
	}

	if len(docs) == 0 {
		res.Answer = noContextAnswer
		return res, nil
	}

	contextText := strings.Join(docs, "\n")
	if a.llm == nil {
		res.Answer = fallbackAnswer(question, contextText)
		return res, nil
	}

	prompt := fmt.Sprintf(promptTemplate, contextText, question)
	answer, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		logger.L.Warn("llm generation failed; using fallback answer", "error", err)
		res.Answer = fallbackAnswer(question, contextText)
		return res, nil
	}

	res.Answer = answer
	return res, nil
}

func (a *Answerer) provider() string {
	if a.llm == nil {
		return "fallback"
	}
	return a.llm.Provider()
}

func fallbackAnswer(question, contextText string) string {
	return fmt.Sprintf(`Dựa trên thông tin tìm được, đây là những gì liên quan đến câu hỏi "%s":

%s

Đây là thông tin thô từ cơ sở dữ liệu. Bạn có thể cần phân tích thêm để hiểu rõ hơn.`, question, contextText)
}
