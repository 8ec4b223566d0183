package search

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"chat-archivist-be/pkg/llm"
)

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "bare object",
			response: `{"search_query": "test"}`,
			want:     `{"search_query": "test"}`,
		},
		{
			name:     "fenced object",
			response: "```json\n{\"a\": 1}\n```",
			want:     `{"a": 1}`,
		},
		{
			name:     "object inside prose",
			response: `Sure, here it is: {"a": 1} hope that helps`,
			want:     `{"a": 1}`,
		},
		{
			name:     "no braces returns input",
			response: "no json here",
			want:     "no json here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSONObject(tt.response); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFallsBackToRawQuestion(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
	}{
		{name: "model error", provider: &stubProvider{err: errors.New("down")}},
		{name: "garbage output", provider: &stubProvider{response: "not json at all"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewQuestionParser(tt.provider, quietLogger())
			got := p.Parse(context.Background(), "who broke the build", "")

			if got.SearchQuery != "who broke the build" {
				t.Errorf("SearchQuery=%q, want raw question", got.SearchQuery)
			}
			if got.QuestionType != "question" || got.SortOrder != "relevance" {
				t.Errorf("defaults not applied: %+v", got)
			}
		})
	}
}

func TestParseReadsStructuredResponse(t *testing.T) {
	provider := &stubProvider{response: `{
		"search_query": "build failure deployment broken pipeline",
		"mentioned_users": ["Oleh"],
		"question_type": "question",
		"date_from": "2023-01-01",
		"date_to": "2023-01-31",
		"sort_order": "date_desc"
	}`}
	p := NewQuestionParser(provider, quietLogger())

	got := p.Parse(context.Background(), "who broke the build in january", "")

	if got.SearchQuery != "build failure deployment broken pipeline" {
		t.Errorf("SearchQuery=%q", got.SearchQuery)
	}
	if len(got.MentionedUsers) != 1 || got.MentionedUsers[0] != "Oleh" {
		t.Errorf("MentionedUsers=%v", got.MentionedUsers)
	}
	if got.DateFrom == nil || !got.DateFrom.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("DateFrom=%v", got.DateFrom)
	}
	// End dates extend to the end of the day.
	wantTo := time.Date(2023, 1, 31, 23, 59, 59, 0, time.UTC)
	if got.DateTo == nil || !got.DateTo.Equal(wantTo) {
		t.Errorf("DateTo=%v, want %v", got.DateTo, wantTo)
	}
}

func TestParseDate(t *testing.T) {
	if got := parseDate("", false); got != nil {
		t.Errorf("empty date should be nil, got %v", got)
	}
	if got := parseDate("not-a-date", false); got != nil {
		t.Errorf("invalid date should be nil, got %v", got)
	}
	got := parseDate("2024-06-15", true)
	if got == nil || got.Hour() != 23 || got.Minute() != 59 {
		t.Errorf("end-of-day date wrong: %v", got)
	}
}
