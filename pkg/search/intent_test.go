package search

import "testing"

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		question string
		want     Intent
	}{
		{"Хто казав про відпустку?", IntentQuoteSearch},
		{"Кто сказал что проект закрыт?", IntentQuoteSearch},
		{"Who said the deploy was broken?", IntentQuoteSearch},
		{"Чи був Андрій на зустрічі?", IntentYesNo},
		{"Was the release delayed?", IntentYesNo},
		{"Про що говорили минулого тижня?", IntentSummary},
		{"Summarize the discussion about hosting", IntentSummary},
		{"Порівняй думки Олега і Марії", IntentComparison},
		{"What is the difference between the two plans?", IntentComparison},
		{"Скільки разів згадували бюджет?", IntentAnalytics},
		{"How often did they argue about politics?", IntentAnalytics},
		{"Расскажи про планы на лето", IntentGeneral},
		{"Tell me about the trip", IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			if got := DetectIntent(tt.question); got != tt.want {
				t.Errorf("DetectIntent(%q) = %s, want %s", tt.question, got, tt.want)
			}
		})
	}
}

func TestStrategyForCoversEveryIntent(t *testing.T) {
	intents := []Intent{
		IntentQuoteSearch, IntentYesNo, IntentSummary,
		IntentComparison, IntentAnalytics, IntentGeneral,
	}
	for _, intent := range intents {
		s := StrategyFor(intent)
		if s.MinRelevant <= 0 || s.MaxIterations <= 0 || s.TopK <= 0 {
			t.Errorf("StrategyFor(%s) has zero-valued tuning: %+v", intent, s)
		}
		if s.MinRelevanceScore < 0 || s.MinRelevanceScore > 10 {
			t.Errorf("StrategyFor(%s) score threshold out of range: %d", intent, s.MinRelevanceScore)
		}
	}
}
