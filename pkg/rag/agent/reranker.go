package agent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"chat-archivist-be/pkg/llm"
	"chat-archivist-be/pkg/store"
)

// RerankBatchSize caps how many results one reranking prompt carries.
const RerankBatchSize = 15

// Reranker asks the model for a full ordering of the result set. The
// output is always a permutation of the input: duplicate indices are
// dropped, omitted candidates are appended in their original order.
type Reranker struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewReranker(provider llm.LLMProvider, logger *log.Logger) *Reranker {
	return &Reranker{provider: provider, logger: logger}
}

// Rerank reorders up to RerankBatchSize results by asking the model for
// a ranking. On any failure the input order is returned unchanged.
func (r *Reranker) Rerank(ctx context.Context, question string, results []*store.Candidate) []*store.Candidate {
	if len(results) <= 1 {
		return results
	}
	if len(results) > RerankBatchSize {
		results = results[:RerankBatchSize]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n\nMessages:\n", question)
	for i, c := range results {
		text := c.Text
		if len(text) > judgeTextLimit {
			text = truncateRunes(text, judgeTextLimit)
		}
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, c.Metadata.SpeakerName(), text)
	}
	fmt.Fprintf(&sb,
		"\nOrder the messages from most to least relevant to the question.\n"+
			"Reply with ONLY a JSON array of the message numbers, e.g. [3, 1, 2].")

	response, err := r.provider.Generate(ctx, sb.String(), llm.WithTemperature(0.1))
	if err != nil {
		r.logger.Printf("[WARN] reranking failed, keeping original order: %v", err)
		return results
	}

	order, ok := parseRankingArray(response, len(results))
	if !ok {
		r.logger.Printf("[WARN] unparseable ranking, keeping original order: %.80s", response)
		return results
	}

	reranked := make([]*store.Candidate, 0, len(results))
	used := make([]bool, len(results))
	for _, idx := range order {
		reranked = append(reranked, results[idx])
		used[idx] = true
	}
	// Anything the model left out keeps its original relative position.
	for i, c := range results {
		if !used[i] {
			reranked = append(reranked, c)
		}
	}
	return reranked
}

var rankArrayRe = regexp.MustCompile(`\[[\d,\s]+\]`)

// parseRankingArray returns deduplicated zero-based indices from the
// first bracketed array whose values fall within range.
func parseRankingArray(response string, n int) ([]int, bool) {
	match := rankArrayRe.FindString(response)
	if match == "" {
		return nil, false
	}
	seen := make(map[int]bool)
	var order []int
	for _, p := range strings.Split(strings.Trim(match, "[]"), ",") {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, false
		}
		idx := v - 1
		if idx < 0 || idx >= n || seen[idx] {
			continue
		}
		seen[idx] = true
		order = append(order, idx)
	}
	if len(order) == 0 {
		return nil, false
	}
	return order, true
}
