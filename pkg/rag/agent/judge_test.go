package agent

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"chat-archivist-be/pkg/llm"
	"chat-archivist-be/pkg/store"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestParseScoreArray(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     int
		scores   []int
		ok       bool
	}{
		{
			name:     "plain array",
			response: "[7, 0, 3]",
			want:     3,
			scores:   []int{7, 0, 3},
			ok:       true,
		},
		{
			name:     "array inside prose",
			response: "Here are the scores: [5,5,10] as requested.",
			want:     3,
			scores:   []int{5, 5, 10},
			ok:       true,
		},
		{
			name:     "values clamped to scale",
			response: "[15, 3]",
			want:     2,
			scores:   []int{10, 3},
			ok:       true,
		},
		{
			name:     "wrong length skipped in favor of matching one",
			response: "[1, 2] then [4, 5, 6]",
			want:     3,
			scores:   []int{4, 5, 6},
			ok:       true,
		},
		{
			name:     "no array at all",
			response: "I cannot rate these messages.",
			want:     2,
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, ok := parseScoreArray(tt.response, tt.want)
			if ok != tt.ok {
				t.Fatalf("parseScoreArray ok=%v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			for i := range tt.scores {
				if scores[i] != tt.scores[i] {
					t.Errorf("score[%d]=%d, want %d", i, scores[i], tt.scores[i])
				}
			}
		})
	}
}

func TestJudgeFallsBackToSimilarity(t *testing.T) {
	provider := &fakeLLM{chatErr: errors.New("model offline")}
	judge := NewJudge(provider, testLogger())

	candidates := []*store.Candidate{
		{VectorID: "msg_1", MessageID: 1, Text: "hello", Similarity: 0.82},
		{VectorID: "msg_2", MessageID: 2, Text: "world", Similarity: 0.31},
	}
	judge.Score(context.Background(), "greeting", candidates)

	score, ok := candidates[0].Relevance()
	if !ok || score != 8 {
		t.Errorf("candidate 0: got (%d, %v), want fallback 8", score, ok)
	}
	score, ok = candidates[1].Relevance()
	if !ok || score != 3 {
		t.Errorf("candidate 1: got (%d, %v), want fallback 3", score, ok)
	}
}

func TestJudgeParsesModelScores(t *testing.T) {
	provider := &fakeLLM{chatResponse: "[9, 2]"}
	judge := NewJudge(provider, testLogger())

	candidates := []*store.Candidate{
		{VectorID: "msg_1", MessageID: 1, Text: "relevant", Similarity: 0.5},
		{VectorID: "msg_2", MessageID: 2, Text: "noise", Similarity: 0.5},
	}
	judge.Score(context.Background(), "what happened", candidates)

	if score, _ := candidates[0].Relevance(); score != 9 {
		t.Errorf("candidate 0 score=%d, want 9", score)
	}
	if score, _ := candidates[1].Relevance(); score != 2 {
		t.Errorf("candidate 1 score=%d, want 2", score)
	}
	if got := candidates[0].RelevanceQuery(); got != "what happened" {
		t.Errorf("relevance query=%q, want original question", got)
	}
}

// fakeLLM is the shared provider stub for agent tests. genResponses, when
// set, is consumed one element per Generate call.
type fakeLLM struct {
	chatResponse string
	chatErr      error
	genResponse  string
	genResponses []string
	genErr       error

	chatCalls int
	genCalls  int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.chatCalls++
	return f.chatResponse, f.chatErr
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.genCalls++
	if f.genErr != nil {
		return "", f.genErr
	}
	if len(f.genResponses) > 0 {
		r := f.genResponses[0]
		f.genResponses = f.genResponses[1:]
		return r, nil
	}
	return f.genResponse, nil
}
