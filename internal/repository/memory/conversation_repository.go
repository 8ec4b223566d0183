package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Conversation keeps the last exchange per client so follow-up
// questions can be parsed with context.
type Conversation struct {
	ClientID      string
	LastQuestion  string
	LastAnswer    string
	LastVectorIds []string
	UpdatedAt     time.Time
}

type ConversationRepository struct {
	cache *cache.Cache
}

func NewConversationRepository() *ConversationRepository {
	// Follow-up context is only useful for a short while; purge
	// expired entries every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ConversationRepository{
		cache: c,
	}
}

func (r *ConversationRepository) Save(conv *Conversation) {
	conv.UpdatedAt = time.Now()
	r.cache.Set(conv.ClientID, conv, cache.DefaultExpiration)
}

func (r *ConversationRepository) Get(clientID string) (*Conversation, bool) {
	if x, found := r.cache.Get(clientID); found {
		return x.(*Conversation), true
	}
	return nil, false
}

func (r *ConversationRepository) Delete(clientID string) {
	r.cache.Delete(clientID)
}
