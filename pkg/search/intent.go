package search

import (
	"regexp"
	"strings"
)

// Intent classifies what kind of answer the user expects.
type Intent string

const (
	IntentQuoteSearch Intent = "quote_search"
	IntentYesNo       Intent = "yes_no"
	IntentSummary     Intent = "summary"
	IntentComparison  Intent = "comparison"
	IntentAnalytics   Intent = "analytics"
	IntentGeneral     Intent = "general"
)

// Strategy parameterizes the agent loop per intent.
type Strategy struct {
	MinRelevant       int
	MinRelevanceScore int
	MaxIterations     int
	TopK              int
	UseHyde           bool
	UseReranking      bool
}

var intentPatterns = []struct {
	intent   Intent
	patterns []*regexp.Regexp
}{
	{IntentQuoteSearch, compileAll(
		`хто (сказав|казав|писав)`, `що (сказав|казав|писав)`, `цитат`,
		`кто (сказал|говорил|писал)`, `что (сказал|говорил|писал)`, `цитат[аы]`,
		`who (said|wrote|mentioned)`, `exact (words|quote)`, `quote`,
	)},
	{IntentYesNo, compileAll(
		`^чи `, `чи був`, `чи було`, `чи хтось`,
		`^(был|была|было) ли`, `ли кто`,
		`^(did|was|were|is|are|has|have) `,
	)},
	{IntentSummary, compileAll(
		`про що (говорили|йшлося)`, `підсум`, `резюме`,
		`о чем (говорили|шла речь)`, `подыто`, `резюме`,
		`summar(y|ize)`, `what (did .+ talk|was discussed)`, `overview`,
	)},
	{IntentComparison, compileAll(
		`порівня`, `хто краще`, `різниц`,
		`сравн`, `кто лучше`, `разниц`,
		`compar`, `difference between`, `versus|\bvs\b`,
	)},
	{IntentAnalytics, compileAll(
		`скільки разів`, `як часто`, `статистик`,
		`сколько раз`, `как часто`, `статистик`,
		`how (many|often)`, `statistics`, `count of`,
	)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// DetectIntent matches the question against the pattern tables; first
// hit wins, anything else is general.
func DetectIntent(question string) Intent {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, group := range intentPatterns {
		for _, re := range group.patterns {
			if re.MatchString(q) {
				return group.intent
			}
		}
	}
	return IntentGeneral
}

// StrategyFor returns the agent tuning for an intent. Quote search
// digs deepest; analytics and summaries trade precision for recall.
func StrategyFor(intent Intent) Strategy {
	switch intent {
	case IntentQuoteSearch:
		return Strategy{MinRelevant: 1, MinRelevanceScore: 7, MaxIterations: 4, TopK: 5, UseHyde: true, UseReranking: true}
	case IntentYesNo:
		return Strategy{MinRelevant: 1, MinRelevanceScore: 6, MaxIterations: 2, TopK: 5, UseHyde: true, UseReranking: false}
	case IntentSummary:
		return Strategy{MinRelevant: 5, MinRelevanceScore: 4, MaxIterations: 3, TopK: 15, UseHyde: false, UseReranking: false}
	case IntentComparison:
		return Strategy{MinRelevant: 4, MinRelevanceScore: 5, MaxIterations: 3, TopK: 10, UseHyde: true, UseReranking: true}
	case IntentAnalytics:
		return Strategy{MinRelevant: 5, MinRelevanceScore: 4, MaxIterations: 2, TopK: 20, UseHyde: false, UseReranking: false}
	default:
		return Strategy{MinRelevant: 3, MinRelevanceScore: 5, MaxIterations: 3, TopK: 10, UseHyde: true, UseReranking: true}
	}
}
