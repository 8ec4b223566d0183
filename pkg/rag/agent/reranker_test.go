package agent

import (
	"context"
	"errors"
	"testing"

	"chat-archivist-be/pkg/store"
)

func rerankInput() []*store.Candidate {
	return []*store.Candidate{
		{VectorID: "msg_1", MessageID: 1, Text: "first"},
		{VectorID: "msg_2", MessageID: 2, Text: "second"},
		{VectorID: "msg_3", MessageID: 3, Text: "third"},
		{VectorID: "msg_4", MessageID: 4, Text: "fourth"},
	}
}

func vectorIDs(results []*store.Candidate) []string {
	out := make([]string, len(results))
	for i, c := range results {
		out[i] = c.VectorID
	}
	return out
}

func TestRerankIsAlwaysAPermutation(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			name:     "full ranking",
			response: "[3, 1, 4, 2]",
			want:     []string{"msg_3", "msg_1", "msg_4", "msg_2"},
		},
		{
			name:     "duplicates dropped",
			response: "[2, 2, 1, 3, 4]",
			want:     []string{"msg_2", "msg_1", "msg_3", "msg_4"},
		},
		{
			name:     "omitted candidates appended in original order",
			response: "[4, 2]",
			want:     []string{"msg_4", "msg_2", "msg_1", "msg_3"},
		},
		{
			name:     "out of range indices ignored",
			response: "[9, 3, 1, 0]",
			want:     []string{"msg_3", "msg_1", "msg_2", "msg_4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeLLM{genResponse: tt.response}
			reranker := NewReranker(provider, testLogger())

			got := reranker.Rerank(context.Background(), "q", rerankInput())
			if len(got) != 4 {
				t.Fatalf("result count=%d, want 4 (no candidate may be lost)", len(got))
			}
			for i, id := range vectorIDs(got) {
				if id != tt.want[i] {
					t.Errorf("position %d: got %s, want %s", i, id, tt.want[i])
				}
			}
		})
	}
}

func TestRerankKeepsOrderOnFailure(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeLLM
	}{
		{name: "provider error", provider: &fakeLLM{genErr: errors.New("timeout")}},
		{name: "unparseable output", provider: &fakeLLM{genResponse: "the best one is number three"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reranker := NewReranker(tt.provider, testLogger())
			got := reranker.Rerank(context.Background(), "q", rerankInput())

			want := []string{"msg_1", "msg_2", "msg_3", "msg_4"}
			for i, id := range vectorIDs(got) {
				if id != want[i] {
					t.Errorf("position %d: got %s, want %s", i, id, want[i])
				}
			}
		})
	}
}

func TestRerankSingleResultUntouched(t *testing.T) {
	provider := &fakeLLM{}
	reranker := NewReranker(provider, testLogger())

	in := []*store.Candidate{{VectorID: "msg_1", MessageID: 1}}
	got := reranker.Rerank(context.Background(), "q", in)
	if len(got) != 1 || got[0].VectorID != "msg_1" {
		t.Fatalf("single result should pass through unchanged")
	}
	if provider.genCalls != 0 {
		t.Errorf("no model call expected for a single result, got %d", provider.genCalls)
	}
}
