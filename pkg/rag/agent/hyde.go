package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"chat-archivist-be/pkg/llm"
)

const maxHydeProbes = 3

// HydeGenerator fabricates short example chat messages that would
// plausibly answer the question. The fakes are only used as extra
// search probes; they are never shown to the user.
type HydeGenerator struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewHydeGenerator(provider llm.LLMProvider, logger *log.Logger) *HydeGenerator {
	return &HydeGenerator{provider: provider, logger: logger}
}

const hydePrompt = `Question: "%s"

Write 2-3 short chat messages, one per line, that someone might have
written in a group chat which would answer this question. Use the same
informal register and language as the question. No numbering, no
explanations, just the messages.`

// Generate returns 0-3 probe strings. Any failure degrades to an empty
// list so HyDE becomes a no-op rather than an error.
func (h *HydeGenerator) Generate(ctx context.Context, question string) []string {
	response, err := h.provider.Generate(ctx, fmt.Sprintf(hydePrompt, question), llm.WithTemperature(0.9))
	if err != nil {
		h.logger.Printf("[WARN] hyde generation failed: %v", err)
		return nil
	}

	var probes []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•0123456789. "))
		if line == "" {
			continue
		}
		probes = append(probes, line)
		if len(probes) == maxHydeProbes {
			break
		}
	}
	return probes
}
