package language

import "unicode"

// Supported language codes.
const (
	Ukrainian = "uk"
	Russian   = "ru"
	English   = "en"
)

var ukrainianOnly = map[rune]bool{'є': true, 'і': true, 'ї': true, 'ґ': true}
var russianOnly = map[rune]bool{'ъ': true, 'ы': true, 'э': true}

// Detect guesses the language of a text from its character set. Letters
// unique to one alphabet win; generic Cyrillic defaults to Ukrainian,
// anything else to English.
func Detect(text string) string {
	hasCyrillic := false
	for _, r := range text {
		lower := unicode.ToLower(r)
		if ukrainianOnly[lower] {
			return Ukrainian
		}
		if russianOnly[lower] {
			return Russian
		}
		if unicode.Is(unicode.Cyrillic, r) {
			hasCyrillic = true
		}
	}
	if hasCyrillic {
		return Ukrainian
	}
	return English
}

var answerSystemPrompts = map[string]string{
	Ukrainian: "Ти — помічник для пошуку по архіву чату. Відповідай українською мовою, " +
		"спираючись лише на наведені повідомлення з архіву. Якщо повідомлення не містять " +
		"відповіді, чесно скажи про це. Вказуй, хто і коли це писав.",
	Russian: "Ты — помощник для поиска по архиву чата. Отвечай на русском языке, " +
		"опираясь только на приведённые сообщения из архива. Если сообщения не содержат " +
		"ответа, честно скажи об этом. Указывай, кто и когда это писал.",
	English: "You are a chat archive search assistant. Answer in English, relying only " +
		"on the archive messages provided. If the messages do not contain the answer, " +
		"say so honestly. Mention who wrote it and when.",
}

var relevanceSystemPrompts = map[string]string{
	Ukrainian: "Ти оцінюєш, наскільки повідомлення з чату відповідають на запитання. " +
		"Відповідай лише масивом чисел.",
	Russian: "Ты оцениваешь, насколько сообщения из чата отвечают на вопрос. " +
		"Отвечай только массивом чисел.",
	English: "You rate how well chat messages answer a question. " +
		"Reply with an array of numbers only.",
}

var noResultsMessages = map[string]string{
	Ukrainian: "На жаль, в архіві нічого не знайшлося за цим запитом.",
	Russian:   "К сожалению, в архиве ничего не нашлось по этому запросу.",
	English:   "Unfortunately, nothing in the archive matches this question.",
}

// AnswerSystemPrompt returns the synthesis system prompt for lang.
func AnswerSystemPrompt(lang string) string {
	if p, ok := answerSystemPrompts[lang]; ok {
		return p
	}
	return answerSystemPrompts[English]
}

// RelevanceSystemPrompt returns the judging system prompt for lang.
func RelevanceSystemPrompt(lang string) string {
	if p, ok := relevanceSystemPrompts[lang]; ok {
		return p
	}
	return relevanceSystemPrompts[English]
}

// NoResultsMessage returns the localized empty-result reply.
func NoResultsMessage(lang string) string {
	if m, ok := noResultsMessages[lang]; ok {
		return m
	}
	return noResultsMessages[English]
}
