package language

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "ukrainian specific letters", text: "Про що йшлося на зустрічі?", want: Ukrainian},
		{name: "ukrainian yi", text: "Чиї це речі?", want: Ukrainian},
		{name: "russian specific letters", text: "Кто был в отпуске этой зимой?", want: Russian},
		{name: "generic cyrillic defaults to ukrainian", text: "Хто казав про роботу", want: Ukrainian},
		{name: "english", text: "Who mentioned the deadline?", want: English},
		{name: "empty string", text: "", want: English},
		{name: "numbers and punctuation", text: "2023-04-12?!", want: English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestPromptsFallBackToEnglish(t *testing.T) {
	if AnswerSystemPrompt("de") != AnswerSystemPrompt(English) {
		t.Error("unknown language should fall back to English answer prompt")
	}
	if RelevanceSystemPrompt("fr") != RelevanceSystemPrompt(English) {
		t.Error("unknown language should fall back to English relevance prompt")
	}
	if NoResultsMessage("pl") != NoResultsMessage(English) {
		t.Error("unknown language should fall back to English no-results message")
	}
}

func TestLocalizedPromptsDiffer(t *testing.T) {
	if AnswerSystemPrompt(Ukrainian) == AnswerSystemPrompt(Russian) {
		t.Error("Ukrainian and Russian prompts must differ")
	}
	if NoResultsMessage(Ukrainian) == NoResultsMessage(English) {
		t.Error("Ukrainian and English no-results messages must differ")
	}
}
