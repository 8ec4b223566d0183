package search

import (
	"context"
	"log"
	"strings"

	"chat-archivist-be/internal/repository/contract"
)

// SpeakerResolver turns the names people use in questions into stable
// speaker ids: explicit aliases first, then exact username or display
// name, then a substring match as a last resort.
type SpeakerResolver struct {
	aliases  contract.UserAliasRepository
	messages contract.MessageRepository
	logger   *log.Logger
}

func NewSpeakerResolver(aliases contract.UserAliasRepository, messages contract.MessageRepository, logger *log.Logger) *SpeakerResolver {
	return &SpeakerResolver{aliases: aliases, messages: messages, logger: logger}
}

// Resolve maps one mentioned name to a speaker id, or "" when nothing
// matches. Resolution failures never block a search; they just drop the
// speaker filter.
func (r *SpeakerResolver) Resolve(ctx context.Context, name string) string {
	name = strings.TrimSpace(strings.TrimPrefix(name, "@"))
	if name == "" {
		return ""
	}

	if alias, err := r.aliases.FindByAlias(ctx, name); err == nil && alias != nil {
		return alias.UserId
	}

	speakers, err := r.messages.DistinctSpeakers(ctx)
	if err != nil {
		r.logger.Printf("[WARN] speaker lookup failed for %q: %v", name, err)
		return ""
	}

	lower := strings.ToLower(name)
	for _, s := range speakers {
		if strings.EqualFold(s.Username, name) || strings.EqualFold(s.DisplayName, name) {
			return s.UserId
		}
	}
	for _, s := range speakers {
		if strings.Contains(strings.ToLower(s.Username), lower) ||
			strings.Contains(strings.ToLower(s.DisplayName), lower) {
			return s.UserId
		}
	}
	return ""
}
