package diversity

import (
	"testing"

	"chat-archivist-be/pkg/store"
)

func speakerCand(id string, userID string) store.Candidate {
	return store.Candidate{
		VectorID: id,
		Metadata: store.Metadata{UserID: userID},
	}
}

func ids(results []store.Candidate) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.VectorID
	}
	return out
}

func TestPerSpeakerCap(t *testing.T) {
	tests := []struct {
		name       string
		in         []store.Candidate
		maxPerUser int
		want       []string
	}{
		{
			name: "cap of two keeps first two per speaker",
			in: []store.Candidate{
				speakerCand("a1", "alice"), speakerCand("a2", "alice"),
				speakerCand("b1", "bob"), speakerCand("a3", "alice"),
				speakerCand("b2", "bob"),
			},
			maxPerUser: 2,
			want:       []string{"a1", "a2", "b1", "b2"},
		},
		{
			name: "missing speaker id always passes",
			in: []store.Candidate{
				speakerCand("x1", ""), speakerCand("x2", ""),
				speakerCand("x3", ""), speakerCand("a1", "alice"),
			},
			maxPerUser: 1,
			want:       []string{"x1", "x2", "x3", "a1"},
		},
		{
			name: "cap disabled",
			in: []store.Candidate{
				speakerCand("a1", "alice"), speakerCand("a2", "alice"), speakerCand("a3", "alice"),
			},
			maxPerUser: 0,
			want:       []string{"a1", "a2", "a3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(PerSpeakerCap(tt.in, tt.maxPerUser))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("position %d: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func mmrCand(id string, score int, embedding []float32) store.Candidate {
	c := store.Candidate{VectorID: id, Embedding: embedding}
	c.SetRelevance(score, "q")
	return c
}

// With lambda 1.0 MMR degrades to pure relevance; with a balanced lambda
// a near-duplicate of an already selected result loses to a less
// relevant but novel one.
func TestMMRLambdaTradeoff(t *testing.T) {
	input := func() []store.Candidate {
		return []store.Candidate{
			mmrCand("top", 9, []float32{1, 0}),
			mmrCand("duplicate", 8, []float32{1, 0}),
			mmrCand("novel", 7, []float32{0, 1}),
		}
	}

	pure := MMR(input(), 1.0, 2)
	if got := ids(pure); got[0] != "top" || got[1] != "duplicate" {
		t.Errorf("lambda 1.0: got %v, want [top duplicate]", got)
	}

	balanced := MMR(input(), 0.5, 2)
	if got := ids(balanced); got[0] != "top" || got[1] != "novel" {
		t.Errorf("lambda 0.5: got %v, want [top novel]", got)
	}
}

func TestMMRWithoutEmbeddingsPicksByRelevance(t *testing.T) {
	in := []store.Candidate{
		mmrCand("mid", 5, nil),
		mmrCand("best", 9, nil),
		mmrCand("low", 2, nil),
	}
	got := ids(MMR(in, 0.5, 2))
	if got[0] != "best" || got[1] != "mid" {
		t.Errorf("got %v, want [best mid]", got)
	}
}

func TestApplyTruncatesToTopK(t *testing.T) {
	in := []store.Candidate{
		mmrCand("a", 9, nil), mmrCand("b", 8, nil),
		mmrCand("c", 7, nil), mmrCand("d", 6, nil),
	}
	got := Apply(in, Config{MaxPerUser: 0, Lambda: 0.7, TopK: 2})
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
}
