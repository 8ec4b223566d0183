package diversity

import (
	"math"

	"chat-archivist-be/pkg/store"
)

// Config tunes the diversity pipeline.
type Config struct {
	MaxPerUser int     // per-speaker cap, <=0 disables
	Lambda     float64 // MMR relevance/diversity trade-off in [0,1]
	TopK       int     // final result count, <=0 means no truncation
}

// PerSpeakerCap keeps at most maxPerUser results per speaker, preserving
// the incoming order. Results without a speaker id always pass.
func PerSpeakerCap(results []store.Candidate, maxPerUser int) []store.Candidate {
	if maxPerUser <= 0 {
		return results
	}
	counts := make(map[string]int)
	out := make([]store.Candidate, 0, len(results))
	for _, r := range results {
		uid := r.Metadata.UserID
		if uid == "" {
			out = append(out, r)
			continue
		}
		if counts[uid] >= maxPerUser {
			continue
		}
		counts[uid]++
		out = append(out, r)
	}
	return out
}

// MMR greedily selects up to topK results by maximal marginal relevance:
// lambda weighs relevance against the strongest similarity to anything
// already selected. Candidates without embeddings contribute zero
// redundancy, so with no embeddings at all this degrades to picking by
// relevance alone.
func MMR(results []store.Candidate, lambda float64, topK int) []store.Candidate {
	if topK <= 0 || len(results) <= 1 {
		if topK > 0 && len(results) > topK {
			return results[:topK]
		}
		return results
	}
	if topK > len(results) {
		topK = len(results)
	}

	remaining := make([]store.Candidate, len(results))
	copy(remaining, results)
	selected := make([]store.Candidate, 0, topK)

	for len(selected) < topK && len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(-1)
		for i, cand := range remaining {
			relevance := normalizedRelevance(&cand)
			redundancy := 0.0
			if len(cand.Embedding) > 0 {
				for _, s := range selected {
					if len(s.Embedding) == 0 {
						continue
					}
					if sim := cosineSimilarity(cand.Embedding, s.Embedding); sim > redundancy {
						redundancy = sim
					}
				}
			}
			score := lambda*relevance - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected
}

// Apply runs the full pipeline: speaker cap, then MMR, then truncation.
func Apply(results []store.Candidate, cfg Config) []store.Candidate {
	out := PerSpeakerCap(results, cfg.MaxPerUser)
	out = MMR(out, cfg.Lambda, cfg.TopK)
	if cfg.TopK > 0 && len(out) > cfg.TopK {
		out = out[:cfg.TopK]
	}
	return out
}

func normalizedRelevance(c *store.Candidate) float64 {
	if score, ok := c.Relevance(); ok {
		return float64(score) / 10.0
	}
	return c.Similarity
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
