package response

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"chat-archivist-be/pkg/llm"
	"chat-archivist-be/pkg/rag/language"
	"chat-archivist-be/pkg/store"
)

type blockingProvider struct {
	response string
	err      error
	calls    int
}

func (p *blockingProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.calls++
	return p.response, p.err
}

func (p *blockingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.response, p.err
}

type streamingProvider struct {
	blockingProvider
	chunks []string
}

func (p *streamingProvider) ChatStream(ctx context.Context, history []llm.Message, onChunk func(string), options ...llm.Option) error {
	for _, c := range p.chunks {
		onChunk(c)
	}
	return nil
}

func quiet() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func resultSet(n int) []store.Candidate {
	out := make([]store.Candidate, n)
	for i := range out {
		out[i] = store.Candidate{
			VectorID:  "msg_" + strings.Repeat("x", i+1),
			MessageID: int64(i + 1),
			Text:      "archived message",
			Metadata:  store.Metadata{DisplayName: "Alice", FormattedDate: "01.02.2023 10:00"},
		}
	}
	return out
}

func TestSynthesizeEmptyResultsAnswersInQuestionLanguage(t *testing.T) {
	provider := &blockingProvider{}
	s := NewSynthesizer(provider, quiet())

	answer, err := s.Synthesize(context.Background(), "Хто згадував про відпустку?", nil, Options{})

	assert.NoError(t, err)
	assert.Equal(t, language.NoResultsMessage(language.Ukrainian), answer.Text)
	assert.Equal(t, "low", answer.Confidence)
	assert.Equal(t, language.Ukrainian, answer.Language)
	assert.Equal(t, 0, provider.calls, "no model call without context")
}

func TestSynthesizeConfidenceLevels(t *testing.T) {
	tests := []struct {
		results int
		want    string
	}{
		{results: 1, want: "medium"},
		{results: 2, want: "medium"},
		{results: 3, want: "high"},
		{results: 7, want: "high"},
	}

	for _, tt := range tests {
		provider := &blockingProvider{response: "They talked about it on Monday."}
		s := NewSynthesizer(provider, quiet())

		answer, err := s.Synthesize(context.Background(), "when did they talk", resultSet(tt.results), Options{})
		assert.NoError(t, err)
		assert.Equal(t, tt.want, answer.Confidence, "with %d results", tt.results)
	}
}

func TestSynthesizeAttachesQuotes(t *testing.T) {
	provider := &blockingProvider{response: "answer"}
	s := NewSynthesizer(provider, quiet())

	answer, err := s.Synthesize(context.Background(), "q", resultSet(5), Options{})

	assert.NoError(t, err)
	assert.Len(t, answer.Quotes, 3, "quotes cap at three")
	assert.Equal(t, "Alice", answer.Quotes[0].Speaker)
}

func TestSynthesizeStreamDeliversChunks(t *testing.T) {
	provider := &streamingProvider{chunks: []string{"The ", "answer ", "is here."}}
	s := NewSynthesizer(provider, quiet())

	var received []string
	answer, err := s.SynthesizeStream(context.Background(), "q", resultSet(3), Options{}, func(chunk string) {
		received = append(received, chunk)
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"The ", "answer ", "is here."}, received)
	assert.Equal(t, "The answer is here.", answer.Text)
}

func TestSynthesizeStreamFallsBackToBlockingProvider(t *testing.T) {
	provider := &blockingProvider{response: "single shot answer"}
	s := NewSynthesizer(provider, quiet())

	var received []string
	answer, err := s.SynthesizeStream(context.Background(), "q", resultSet(2), Options{}, func(chunk string) {
		received = append(received, chunk)
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"single shot answer"}, received)
	assert.Equal(t, "single shot answer", answer.Text)
}

func TestSynthesizeReFilterDropsWeakResults(t *testing.T) {
	provider := &blockingProvider{response: "answer"}
	s := NewSynthesizer(provider, quiet())

	results := resultSet(2)
	results[0].SetRelevance(9, "q")
	results[1].SetRelevance(2, "q")

	answer, err := s.Synthesize(context.Background(), "q", results, Options{ReFilter: true, MinRelevanceScore: 5})

	assert.NoError(t, err)
	assert.Equal(t, "medium", answer.Confidence, "only one result should survive the refilter")
}
