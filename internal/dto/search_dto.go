package dto

type AskRequest struct {
	Question string `json:"question" validate:"required,min=2"`
	ClientId string `json:"client_id,omitempty"`
	Speaker  string `json:"speaker,omitempty"`
	DateFrom string `json:"date_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `json:"date_to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type QuoteDTO struct {
	Speaker string `json:"speaker"`
	Date    string `json:"date"`
	Text    string `json:"text"`
}

type SearchResultDTO struct {
	VectorId       string  `json:"vector_id"`
	MessageId      int64   `json:"message_id"`
	Text           string  `json:"text"`
	Speaker        string  `json:"speaker"`
	Date           string  `json:"date"`
	Similarity     float64 `json:"similarity"`
	RelevanceScore *int    `json:"relevance_score,omitempty"`
}

type SessionDTO struct {
	QueriesTried []string `json:"queries_tried"`
	Iterations   int      `json:"iterations"`
}

type FlipRequest struct {
	User  string `json:"user" validate:"required"`
	Topic string `json:"topic" validate:"required,min=2"`
	Limit int    `json:"limit,omitempty" validate:"omitempty,min=2,max=50"`
}

type FlipResponse struct {
	User       string            `json:"user"`
	Topic      string            `json:"topic"`
	HasFlip    bool              `json:"has_flip"`
	Confidence string            `json:"confidence"`
	Summary    string            `json:"summary"`
	Analysis   string            `json:"analysis,omitempty"`
	Messages   []SearchResultDTO `json:"messages"`
}

type AskResponse struct {
	Answer     string            `json:"answer"`
	Confidence string            `json:"confidence"`
	Language   string            `json:"language"`
	Quotes     []QuoteDTO        `json:"quotes"`
	Results    []SearchResultDTO `json:"results"`
	Session    SessionDTO        `json:"session"`
}
