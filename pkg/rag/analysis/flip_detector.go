package analysis

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"chat-archivist-be/pkg/llm"
	"chat-archivist-be/pkg/rag/agent"
	"chat-archivist-be/pkg/store"
)

// DefaultFlipMessages bounds how many of a speaker's messages one
// analysis reads.
const DefaultFlipMessages = 15

const flipSystemPrompt = `You are an analyst examining chat messages to detect if a person changed their position or opinion on a topic over time.

Your task:
1. Analyze the messages chronologically
2. Identify the person's stance/opinion in each message
3. Determine if their position changed, and if so, how
4. Be objective - only report actual contradictions, not minor clarifications

Respond in this format:
FLIP_DETECTED: [YES/NO/UNCLEAR]
CONFIDENCE: [HIGH/MEDIUM/LOW]
SUMMARY: [1-2 sentence summary of what changed, or "No significant position change detected"]

If FLIP_DETECTED is YES, also include:
BEFORE: [Their original position with date]
AFTER: [Their new position with date]`

// FlipResult is one verdict on whether a speaker changed position on a
// topic. Messages holds the analyzed evidence in chronological order.
type FlipResult struct {
	User       string
	Topic      string
	HasFlip    bool
	Confidence string
	Summary    string
	Messages   []store.Candidate
	Analysis   string
}

// FlipDetector pulls one speaker's messages on a topic and asks the
// model whether their stance changed over time.
type FlipDetector struct {
	retriever agent.Retriever
	provider  llm.LLMProvider
	logger    *log.Logger
}

func NewFlipDetector(retriever agent.Retriever, provider llm.LLMProvider, logger *log.Logger) *FlipDetector {
	return &FlipDetector{
		retriever: retriever,
		provider:  provider,
		logger:    logger,
	}
}

// Detect retrieves up to limit topic-relevant messages from one speaker,
// orders them chronologically and runs the contradiction analysis. A
// failing model degrades to a no-signal verdict with the evidence kept;
// only retrieval failures surface as errors.
func (d *FlipDetector) Detect(ctx context.Context, userId, topic string, limit int) (*FlipResult, error) {
	if limit <= 0 {
		limit = DefaultFlipMessages
	}

	messages, err := d.retriever.Search(ctx, topic, limit, agent.Filters{Speaker: userId})
	if err != nil {
		return nil, fmt.Errorf("flip detection retrieval: %w", err)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Metadata.Timestamp.Before(messages[j].Metadata.Timestamp)
	})

	result := &FlipResult{
		User:       userId,
		Topic:      topic,
		Confidence: "low",
		Messages:   messages,
	}

	if len(messages) == 0 {
		result.Summary = fmt.Sprintf("No messages found from %s about %q", userId, topic)
		return result, nil
	}
	if len(messages) == 1 {
		result.Summary = "Only one message found, not enough to detect a position change"
		return result, nil
	}

	prompt := fmt.Sprintf("Analyze these messages from %s about %q:\n\n%s\n\nDid this person change their position or opinion on this topic over time?",
		userId, topic, formatForAnalysis(messages))

	analysis, err := d.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: flipSystemPrompt},
		{Role: "user", Content: prompt},
	}, llm.WithMaxTokens(500))
	if err != nil {
		d.logger.Printf("[WARN] flip analysis failed for %s/%q: %v", userId, topic, err)
		result.Summary = "Analysis unavailable"
		return result, nil
	}

	result.Analysis = analysis
	parseVerdict(result, analysis)
	return result, nil
}

// formatForAnalysis renders messages as "[date]: text" blocks, long
// texts cut at 500 runes.
func formatForAnalysis(messages []store.Candidate) string {
	lines := make([]string, len(messages))
	for i, msg := range messages {
		date := msg.Metadata.FormattedDate
		if date == "" {
			date = "Unknown date"
		}
		text := msg.Text
		if runes := []rune(text); len(runes) > 500 {
			text = string(runes[:500])
		}
		lines[i] = fmt.Sprintf("[%s]: %s", date, text)
	}
	return strings.Join(lines, "\n\n")
}

func parseVerdict(result *FlipResult, analysis string) {
	upper := strings.ToUpper(analysis)

	result.HasFlip = strings.Contains(upper, "FLIP_DETECTED: YES")

	result.Confidence = "medium"
	if strings.Contains(upper, "CONFIDENCE: HIGH") {
		result.Confidence = "high"
	} else if strings.Contains(upper, "CONFIDENCE: LOW") {
		result.Confidence = "low"
	}

	result.Summary = ""
	for _, line := range strings.Split(analysis, "\n") {
		if strings.HasPrefix(line, "SUMMARY:") {
			result.Summary = strings.TrimSpace(strings.TrimPrefix(line, "SUMMARY:"))
			break
		}
	}
	if result.Summary == "" {
		result.Summary = "Analysis complete - see details below"
	}
}
