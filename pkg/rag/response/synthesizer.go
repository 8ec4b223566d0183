package response

import (
	"context"
	"fmt"
	"log"
	"strings"

	"chat-archivist-be/pkg/llm"
	"chat-archivist-be/pkg/rag/language"
	"chat-archivist-be/pkg/store"
)

const (
	maxContextMessages = 10
	contextTextLimit   = 500
	maxQuotes          = 3
)

// Quote is one supporting message surfaced alongside the answer.
type Quote struct {
	Speaker string `json:"speaker"`
	Date    string `json:"date"`
	Text    string `json:"text"`
}

// Answer is the synthesized reply with its grounding metadata.
type Answer struct {
	Text       string  `json:"text"`
	Confidence string  `json:"confidence"` // "high" | "medium" | "low"
	Quotes     []Quote `json:"quotes"`
	Language   string  `json:"language"`
}

// Options tunes one synthesis call.
type Options struct {
	// ReFilter drops results under MinRelevanceScore before building the
	// context, for call sites that did not run the full agent loop.
	ReFilter          bool
	MinRelevanceScore int
}

// Synthesizer turns the agent's final result list into a grounded
// natural-language answer in the language of the question.
type Synthesizer struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewSynthesizer(provider llm.LLMProvider, logger *log.Logger) *Synthesizer {
	return &Synthesizer{provider: provider, logger: logger}
}

// Synthesize produces the full answer in one blocking call.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, results []store.Candidate, opts Options) (*Answer, error) {
	lang := language.Detect(question)
	results = s.prepare(results, opts)
	if len(results) == 0 {
		return emptyAnswer(lang), nil
	}

	text, err := s.provider.Chat(ctx, s.buildHistory(question, results, lang), llm.WithTemperature(0.4))
	if err != nil {
		return nil, fmt.Errorf("answer synthesis failed: %w", err)
	}

	return s.assemble(text, results, lang), nil
}

// SynthesizeStream streams the answer through onChunk as the model
// produces it and returns the assembled answer for final metadata.
// Providers without streaming support fall back to one blocking call
// delivered as a single chunk.
func (s *Synthesizer) SynthesizeStream(ctx context.Context, question string, results []store.Candidate, opts Options, onChunk func(string)) (*Answer, error) {
	lang := language.Detect(question)
	results = s.prepare(results, opts)
	if len(results) == 0 {
		answer := emptyAnswer(lang)
		onChunk(answer.Text)
		return answer, nil
	}

	history := s.buildHistory(question, results, lang)

	streamer, ok := s.provider.(llm.StreamingProvider)
	if !ok {
		text, err := s.provider.Chat(ctx, history, llm.WithTemperature(0.4))
		if err != nil {
			return nil, fmt.Errorf("answer synthesis failed: %w", err)
		}
		onChunk(text)
		return s.assemble(text, results, lang), nil
	}

	var full strings.Builder
	err := streamer.ChatStream(ctx, history, func(chunk string) {
		full.WriteString(chunk)
		onChunk(chunk)
	}, llm.WithTemperature(0.4))
	if err != nil {
		return nil, fmt.Errorf("answer synthesis stream failed: %w", err)
	}

	return s.assemble(full.String(), results, lang), nil
}

func (s *Synthesizer) prepare(results []store.Candidate, opts Options) []store.Candidate {
	if opts.ReFilter {
		filtered := make([]store.Candidate, 0, len(results))
		for _, r := range results {
			if score, ok := r.Relevance(); ok && score < opts.MinRelevanceScore {
				continue
			}
			filtered = append(filtered, r)
		}
		results = filtered
	}
	if len(results) > maxContextMessages {
		results = results[:maxContextMessages]
	}
	return results
}

func (s *Synthesizer) buildHistory(question string, results []store.Candidate, lang string) []llm.Message {
	var sb strings.Builder
	sb.WriteString("Archive messages:\n")
	for i, r := range results {
		text := r.Text
		if len([]rune(text)) > contextTextLimit {
			runes := []rune(text)
			text = string(runes[:contextTextLimit]) + "..."
		}
		fmt.Fprintf(&sb, "%d. %s (%s): %s\n", i+1, r.Metadata.SpeakerName(), r.Metadata.FormattedDate, text)
	}
	fmt.Fprintf(&sb, "\nQuestion: %s", question)

	return []llm.Message{
		{Role: "system", Content: language.AnswerSystemPrompt(lang)},
		{Role: "user", Content: sb.String()},
	}
}

func (s *Synthesizer) assemble(text string, results []store.Candidate, lang string) *Answer {
	quotes := make([]Quote, 0, maxQuotes)
	for _, r := range results {
		if len(quotes) == maxQuotes {
			break
		}
		quotes = append(quotes, Quote{
			Speaker: r.Metadata.SpeakerName(),
			Date:    r.Metadata.FormattedDate,
			Text:    r.Text,
		})
	}
	return &Answer{
		Text:       strings.TrimSpace(text),
		Confidence: confidence(len(results)),
		Quotes:     quotes,
		Language:   lang,
	}
}

func confidence(resultCount int) string {
	switch {
	case resultCount >= 3:
		return "high"
	case resultCount >= 1:
		return "medium"
	default:
		return "low"
	}
}

func emptyAnswer(lang string) *Answer {
	return &Answer{
		Text:       language.NoResultsMessage(lang),
		Confidence: "low",
		Quotes:     []Quote{},
		Language:   lang,
	}
}
