package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"chat-archivist-be/pkg/llm"
)

// ParsedQuestion is the structured form of a user question: a semantic
// search query plus any filters the question implies.
type ParsedQuestion struct {
	SearchQuery    string   `json:"search_query"`
	MentionedUsers []string `json:"mentioned_users"`
	QuestionType   string   `json:"question_type"` // "question" | "summary" | "statistics"
	DateFrom       *time.Time
	DateTo         *time.Time
	SortOrder      string `json:"sort_order"` // "relevance" | "date_desc" | "date_asc"
}

// parserResponse is the wire shape the model is asked to produce.
type parserResponse struct {
	SearchQuery    string   `json:"search_query"`
	MentionedUsers []string `json:"mentioned_users"`
	QuestionType   string   `json:"question_type"`
	DateFrom       string   `json:"date_from"`
	DateTo         string   `json:"date_to"`
	SortOrder      string   `json:"sort_order"`
}

// QuestionParser expands a raw question into a rich search query and
// extracts mentioned speakers and date constraints in one LLM call.
type QuestionParser struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewQuestionParser(provider llm.LLMProvider, logger *log.Logger) *QuestionParser {
	return &QuestionParser{provider: provider, logger: logger}
}

const parserPrompt = `Analyze this question about a group chat archive and reply with JSON only:

{
  "search_query": "expanded semantic search query capturing what to look for, 8-20 words, same language as the question",
  "mentioned_users": ["names or nicknames of people the question asks about, empty if none"],
  "question_type": "question | summary | statistics",
  "date_from": "YYYY-MM-DD or empty",
  "date_to": "YYYY-MM-DD or empty",
  "sort_order": "relevance | date_desc | date_asc"
}

Today is %s.%s

Question: %s`

// Parse returns the structured question. Any model or parse failure
// falls back to searching with the whole question verbatim.
func (p *QuestionParser) Parse(ctx context.Context, question string, conversationContext string) *ParsedQuestion {
	fallback := &ParsedQuestion{
		SearchQuery:  question,
		QuestionType: "question",
		SortOrder:    "relevance",
	}

	contextBlock := ""
	if conversationContext != "" {
		contextBlock = "\nPrevious exchange for context:\n" + conversationContext
	}
	prompt := fmt.Sprintf(parserPrompt, time.Now().Format("2006-01-02"), contextBlock, question)

	response, err := p.provider.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		p.logger.Printf("[WARN] question parsing failed, using raw question: %v", err)
		return fallback
	}

	var raw parserResponse
	if err := json.Unmarshal([]byte(extractJSONObject(response)), &raw); err != nil {
		p.logger.Printf("[WARN] unparseable parser output, using raw question: %.80s", response)
		return fallback
	}

	parsed := &ParsedQuestion{
		SearchQuery:    strings.TrimSpace(raw.SearchQuery),
		MentionedUsers: raw.MentionedUsers,
		QuestionType:   raw.QuestionType,
		SortOrder:      raw.SortOrder,
		DateFrom:       parseDate(raw.DateFrom, false),
		DateTo:         parseDate(raw.DateTo, true),
	}
	if parsed.SearchQuery == "" {
		parsed.SearchQuery = question
	}
	if parsed.QuestionType == "" {
		parsed.QuestionType = "question"
	}
	if parsed.SortOrder == "" {
		parsed.SortOrder = "relevance"
	}
	return parsed
}

// extractJSONObject strips code fences and returns the first {...} span.
func extractJSONObject(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return response
	}
	return response[start : end+1]
}

// parseDate reads YYYY-MM-DD; end dates extend to end of day.
func parseDate(s string, endOfDay bool) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t
}
