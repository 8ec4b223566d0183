package analysis

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chat-archivist-be/pkg/llm"
	"chat-archivist-be/pkg/rag/agent"
	"chat-archivist-be/pkg/store"
)

type fakeRetriever struct {
	results []store.Candidate
	err     error
	filters agent.Filters
}

func (f *fakeRetriever) Search(ctx context.Context, query string, limit int, filters agent.Filters) ([]store.Candidate, error) {
	f.filters = filters
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeProvider struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	if len(history) > 0 {
		f.prompt = history[len(history)-1].Content
	}
	return f.response, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func quiet() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func speakerMessage(id int64, text string, ts time.Time) store.Candidate {
	return store.Candidate{
		VectorID:  "msg_" + text,
		MessageID: id,
		Text:      text,
		Metadata: store.Metadata{
			UserID:        "100",
			DisplayName:   "Alice",
			Timestamp:     ts,
			FormattedDate: ts.Format("02.01.2006 15:04"),
		},
	}
}

func TestDetectWithoutMessages(t *testing.T) {
	provider := &fakeProvider{}
	d := NewFlipDetector(&fakeRetriever{}, provider, quiet())

	result, err := d.Detect(context.Background(), "100", "remote work", 0)

	assert.NoError(t, err)
	assert.False(t, result.HasFlip)
	assert.Equal(t, "low", result.Confidence)
	assert.Contains(t, result.Summary, "No messages found")
	assert.Equal(t, 0, provider.calls, "no model call without evidence")
}

func TestDetectSingleMessageIsInconclusive(t *testing.T) {
	retriever := &fakeRetriever{results: []store.Candidate{
		speakerMessage(1, "remote work is great", time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC)),
	}}
	provider := &fakeProvider{}
	d := NewFlipDetector(retriever, provider, quiet())

	result, err := d.Detect(context.Background(), "100", "remote work", 15)

	assert.NoError(t, err)
	assert.False(t, result.HasFlip)
	assert.Equal(t, "low", result.Confidence)
	assert.Len(t, result.Messages, 1)
	assert.Equal(t, 0, provider.calls)
}

func TestDetectParsesVerdict(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		wantFlip       bool
		wantConfidence string
		wantSummary    string
	}{
		{
			name: "flip with high confidence",
			response: "FLIP_DETECTED: YES\nCONFIDENCE: HIGH\n" +
				"SUMMARY: First praised remote work, later called it unproductive.\n" +
				"BEFORE: pro remote (March)\nAFTER: against remote (June)",
			wantFlip:       true,
			wantConfidence: "high",
			wantSummary:    "First praised remote work, later called it unproductive.",
		},
		{
			name:           "no flip",
			response:       "FLIP_DETECTED: NO\nCONFIDENCE: LOW\nSUMMARY: No significant position change detected",
			wantFlip:       false,
			wantConfidence: "low",
			wantSummary:    "No significant position change detected",
		},
		{
			name:           "unclear defaults to medium",
			response:       "FLIP_DETECTED: UNCLEAR\nSome rambling without a summary line",
			wantFlip:       false,
			wantConfidence: "medium",
			wantSummary:    "Analysis complete - see details below",
		},
	}

	base := time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retriever := &fakeRetriever{results: []store.Candidate{
				speakerMessage(1, "remote work is great", base),
				speakerMessage(2, "actually remote work is unproductive", base.AddDate(0, 3, 0)),
			}}
			d := NewFlipDetector(retriever, &fakeProvider{response: tt.response}, quiet())

			result, err := d.Detect(context.Background(), "100", "remote work", 15)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantFlip, result.HasFlip)
			assert.Equal(t, tt.wantConfidence, result.Confidence)
			assert.Equal(t, tt.wantSummary, result.Summary)
			assert.NotEmpty(t, result.Analysis)
		})
	}
}

func TestDetectOrdersEvidenceChronologically(t *testing.T) {
	jan := time.Date(2023, 1, 5, 9, 0, 0, 0, time.UTC)
	jun := time.Date(2023, 6, 20, 9, 0, 0, 0, time.UTC)
	retriever := &fakeRetriever{results: []store.Candidate{
		speakerMessage(2, "changed my mind about the office", jun),
		speakerMessage(1, "the office is where work happens", jan),
	}}
	provider := &fakeProvider{response: "FLIP_DETECTED: NO\nSUMMARY: stable"}
	d := NewFlipDetector(retriever, provider, quiet())

	result, err := d.Detect(context.Background(), "100", "office", 15)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.Messages[0].MessageID, "oldest message first")
	first := strings.Index(provider.prompt, "the office is where work happens")
	second := strings.Index(provider.prompt, "changed my mind about the office")
	assert.True(t, first >= 0 && second > first, "prompt must list messages oldest to newest")
}

func TestDetectSpeakerFilterApplied(t *testing.T) {
	retriever := &fakeRetriever{}
	d := NewFlipDetector(retriever, &fakeProvider{}, quiet())

	_, err := d.Detect(context.Background(), "100", "vacation", 15)

	assert.NoError(t, err)
	assert.Equal(t, "100", retriever.filters.Speaker)
}

func TestDetectModelFailureDegradesToNoSignal(t *testing.T) {
	base := time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC)
	retriever := &fakeRetriever{results: []store.Candidate{
		speakerMessage(1, "a", base),
		speakerMessage(2, "b", base.Add(time.Hour)),
	}}
	d := NewFlipDetector(retriever, &fakeProvider{err: errors.New("model down")}, quiet())

	result, err := d.Detect(context.Background(), "100", "anything", 15)

	assert.NoError(t, err)
	assert.False(t, result.HasFlip)
	assert.Equal(t, "low", result.Confidence)
	assert.Equal(t, "Analysis unavailable", result.Summary)
	assert.Len(t, result.Messages, 2, "evidence survives a failed analysis")
}

func TestDetectRetrievalErrorSurfaces(t *testing.T) {
	d := NewFlipDetector(&fakeRetriever{err: errors.New("db down")}, &fakeProvider{}, quiet())

	_, err := d.Detect(context.Background(), "100", "anything", 15)

	assert.Error(t, err)
}
