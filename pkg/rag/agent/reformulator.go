package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"chat-archivist-be/pkg/llm"
)

// Reformulator asks the model for an alternative search query after a
// round produced too few relevant results. An empty return means "no
// more ideas" and callers must stop iterating.
type Reformulator struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewReformulator(provider llm.LLMProvider, logger *log.Logger) *Reformulator {
	return &Reformulator{provider: provider, logger: logger}
}

const reformulatePrompt = `The user asked: "%s"

The search query "%s" found %d messages, of which %d were actually relevant.

Suggest ONE alternative search query (8-15 words) phrased the way people
actually write in casual chat, not a keyword list. Keep the language of
the original question. Reply with the query only, no quotes, no explanation.`

// Reformulate returns a new query or "" when the model errors, returns
// nothing usable, or repeats the previous query.
func (r *Reformulator) Reformulate(ctx context.Context, question, previousQuery string, found, relevant int) string {
	prompt := fmt.Sprintf(reformulatePrompt, question, previousQuery, found, relevant)

	response, err := r.provider.Generate(ctx, prompt, llm.WithTemperature(0.8))
	if err != nil {
		r.logger.Printf("[WARN] reformulation failed: %v", err)
		return ""
	}

	query := strings.TrimSpace(strings.Trim(strings.TrimSpace(response), `"'`))
	if query == "" || len([]rune(query)) < 5 {
		return ""
	}
	if normalizeQuery(query) == normalizeQuery(previousQuery) {
		return ""
	}
	return query
}
