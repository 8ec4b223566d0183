package agent

import (
	"context"
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"chat-archivist-be/pkg/llm"
	"chat-archivist-be/pkg/rag/language"
	"chat-archivist-be/pkg/store"
)

// JudgeBatchSize caps how many candidates one judging prompt carries.
const JudgeBatchSize = 15

const judgeTextLimit = 300

// Judge scores candidates against a question with a single batched LLM
// call. When the call or the parse fails, every candidate falls back to
// a similarity-derived score so the loop never stalls on a missing score.
type Judge struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewJudge(provider llm.LLMProvider, logger *log.Logger) *Judge {
	return &Judge{provider: provider, logger: logger}
}

// Score judges up to JudgeBatchSize candidates in one call and sets
// their relevance in place. Larger slices are truncated; the caller
// chunks across iterations, not within one call.
func (j *Judge) Score(ctx context.Context, question string, candidates []*store.Candidate) {
	if len(candidates) == 0 {
		return
	}
	if len(candidates) > JudgeBatchSize {
		candidates = candidates[:JudgeBatchSize]
	}

	scores, err := j.askModel(ctx, question, candidates)
	if err != nil {
		j.logger.Printf("[WARN] relevance judging failed, falling back to similarity: %v", err)
		for _, c := range candidates {
			c.SetRelevance(similarityFallback(c.Similarity), question)
		}
		return
	}

	for i, c := range candidates {
		c.SetRelevance(scores[i], question)
	}
}

func (j *Judge) askModel(ctx context.Context, question string, candidates []*store.Candidate) ([]int, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n\nMessages:\n", question)
	for i, c := range candidates {
		text := c.Text
		if len(text) > judgeTextLimit {
			text = truncateRunes(text, judgeTextLimit)
		}
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, c.Metadata.SpeakerName(), text)
	}
	fmt.Fprintf(&sb,
		"\nRate how well each message answers the question on a scale of 0-10.\n"+
			"Reply with ONLY a JSON array of %d integers in the same order, e.g. [7, 0, 3].",
		len(candidates))

	history := []llm.Message{
		{Role: "system", Content: language.RelevanceSystemPrompt(language.Detect(question))},
		{Role: "user", Content: sb.String()},
	}

	response, err := j.provider.Chat(ctx, history, llm.WithTemperature(0.1))
	if err != nil {
		return nil, err
	}

	scores, ok := parseScoreArray(response, len(candidates))
	if !ok {
		return nil, fmt.Errorf("unparseable score array in: %.80s", response)
	}
	return scores, nil
}

var bracketArrayRe = regexp.MustCompile(`\[[\d,\s]+\]`)

// parseScoreArray finds the first bracketed integer array of the
// expected length and clamps each value to 0-10.
func parseScoreArray(response string, want int) ([]int, bool) {
	for _, match := range bracketArrayRe.FindAllString(response, -1) {
		inner := strings.Trim(match, "[]")
		parts := strings.Split(inner, ",")
		if len(parts) != want {
			continue
		}
		scores := make([]int, 0, want)
		valid := true
		for _, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				valid = false
				break
			}
			if n < 0 {
				n = 0
			}
			if n > 10 {
				n = 10
			}
			scores = append(scores, n)
		}
		if valid {
			return scores, true
		}
	}
	return nil, false
}

func similarityFallback(similarity float64) int {
	score := int(math.Round(similarity * 10))
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
