package store

import "time"

// Metadata carries the speaker and timing attributes of an archived message.
type Metadata struct {
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name"`
	Timestamp     time.Time `json:"timestamp"`
	UnixTimestamp int64     `json:"unix_timestamp"`
	FormattedDate string    `json:"formatted_date"`
	Chunk         int       `json:"chunk"`
}

// SpeakerName returns the best human-readable name for the message author.
func (m Metadata) SpeakerName() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	if m.Username != "" {
		return m.Username
	}
	return "unknown"
}

// Candidate represents a single retrieved message moving through the
// search pipeline. VectorID is unique per stored vector (a message may
// produce several chunks); MessageID identifies the source message.
type Candidate struct {
	VectorID   string    `json:"vector_id"`
	MessageID  int64     `json:"message_id"`
	Text       string    `json:"text"`
	Metadata   Metadata  `json:"metadata"`
	Similarity float64   `json:"similarity"`
	Embedding  []float32 `json:"-"`

	relevanceScore *int
	relevanceQuery string
}

// SetRelevance records the judged score together with the query it was
// judged against. The pair is only ever written through this method so a
// score can never outlive the query that produced it.
func (c *Candidate) SetRelevance(score int, query string) {
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	s := score
	c.relevanceScore = &s
	c.relevanceQuery = query
}

// Relevance returns the judged score and whether one has been recorded.
func (c *Candidate) Relevance() (int, bool) {
	if c.relevanceScore == nil {
		return 0, false
	}
	return *c.relevanceScore, true
}

// RelevanceQuery returns the query the current score was judged against.
func (c *Candidate) RelevanceQuery() string {
	return c.relevanceQuery
}

// EffectiveRelevance is the score used for ranking: the judged score when
// present, otherwise the similarity projected onto the 0-10 scale.
func (c *Candidate) EffectiveRelevance() float64 {
	if c.relevanceScore != nil {
		return float64(*c.relevanceScore)
	}
	return c.Similarity * 10
}
