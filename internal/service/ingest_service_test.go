package service

import (
	"encoding/json"
	"testing"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain string", raw: `"hello there"`, want: "hello there"},
		{name: "empty string", raw: `""`, want: ""},
		{
			name: "array of strings and entities",
			raw:  `["check ", {"type": "link", "text": "https://example.com"}, " out"]`,
			want: "check https://example.com out",
		},
		{
			name: "entities only",
			raw:  `[{"type": "bold", "text": "important"}]`,
			want: "important",
		},
		{name: "null", raw: `null`, want: ""},
		{name: "empty payload", raw: ``, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractText(json.RawMessage(tt.raw)); got != tt.want {
				t.Errorf("extractText(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseMessagesSkipsServiceAndEmpty(t *testing.T) {
	s := &ingestService{}
	raw := []telegramMessage{
		{Id: 1, Type: "message", Date: "2023-04-12T19:03:04", From: "Alice", FromId: "user100", Text: json.RawMessage(`"hi"`)},
		{Id: 2, Type: "service", Date: "2023-04-12T19:04:00", Text: json.RawMessage(`"Alice joined"`)},
		{Id: 3, Type: "message", Date: "2023-04-12T19:05:00", From: "Bob", FromId: "user200", Text: json.RawMessage(`""`)},
		{Id: 4, Type: "message", Date: "not a date", From: "Bob", FromId: "user200", Text: json.RawMessage(`"late"`)},
		{Id: 5, Type: "message", Date: "2023-04-12T19:06:00", From: "Bob", FromId: "user200",
			ForwardedFrom: json.RawMessage(`"Some Channel"`), Text: json.RawMessage(`"fwd"`)},
	}

	parsed, skipped := s.parseMessages(raw)

	if len(parsed) != 2 {
		t.Fatalf("parsed %d messages, want 2", len(parsed))
	}
	if skipped != 3 {
		t.Errorf("skipped=%d, want 3", skipped)
	}

	first := parsed[0]
	if first.Id != 1 || first.UserId != "100" || first.DisplayName != "Alice" {
		t.Errorf("first message mapped wrong: %+v", first)
	}
	if first.IsForwarded {
		t.Error("plain message marked as forwarded")
	}

	fwd := parsed[1]
	if fwd.Id != 5 || !fwd.IsForwarded {
		t.Errorf("forwarded message not detected: %+v", fwd)
	}
}

func TestParseExportDate(t *testing.T) {
	got, err := parseExportDate("2023-04-12T19:03:04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2023 || got.Month() != 4 || got.Hour() != 19 {
		t.Errorf("parsed wrong: %v", got)
	}

	if _, err := parseExportDate("12.04.2023"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
