package search

import (
	"context"
	"fmt"
	"log"

	"chat-archivist-be/internal/repository/contract"
	"chat-archivist-be/internal/repository/unitofwork"
	"chat-archivist-be/pkg/embedding"
	"chat-archivist-be/pkg/rag/agent"
	"chat-archivist-be/pkg/store"
)

// Config encapsulates retrieval parameters
type Config struct {
	DBThreshold    float64 // pushed into SQL, keep permissive
	LogicThreshold float64 // applied after fetch
	FetchFactor    int     // over-fetch multiplier before filtering
}

// DefaultConfig returns default retrieval configuration
func DefaultConfig() Config {
	return Config{
		DBThreshold:    0.0,
		LogicThreshold: 0.35,
		FetchFactor:    3,
	}
}

// Retriever embeds a query and runs the scored pgvector search,
// converting rows into candidates for the agent loop.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	uowFactory        unitofwork.RepositoryFactory
	config            Config
	logger            *log.Logger
}

var _ agent.Retriever = &Retriever{}

func NewRetriever(
	embeddingProvider embedding.EmbeddingProvider,
	uowFactory unitofwork.RepositoryFactory,
	config Config,
	logger *log.Logger,
) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		uowFactory:        uowFactory,
		config:            config,
		logger:            logger,
	}
}

// Search embeds the query, over-fetches candidates with the caller's
// filters applied server-side, then drops rows under the logic
// threshold. Rows keep their stored embedding vector so the diversity
// stage can compute real redundancy later.
func (r *Retriever) Search(ctx context.Context, query string, limit int, filters agent.Filters) ([]store.Candidate, error) {
	embeddingRes, err := r.embeddingProvider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	fetchFactor := r.config.FetchFactor
	if fetchFactor <= 0 {
		fetchFactor = 3
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.MessageEmbeddingRepository().SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		limit*fetchFactor,
		r.config.DBThreshold,
		contract.VectorFilters{
			SpeakerId: filters.Speaker,
			DateFrom:  filters.DateFrom,
			DateTo:    filters.DateTo,
		},
	)
	if err != nil {
		r.logger.Printf("[ERROR] vector search failed: %v", err)
		return nil, err
	}

	candidates := r.toCandidates(scored, limit)
	r.logger.Printf("[DEBUG] query %q: %d rows, %d kept", query, len(scored), len(candidates))
	return candidates, nil
}

func (r *Retriever) toCandidates(scored []*contract.ScoredMessageEmbedding, limit int) []store.Candidate {
	var candidates []store.Candidate
	seen := make(map[string]bool)

	for _, res := range scored {
		if res.Similarity < r.config.LogicThreshold {
			continue
		}
		if seen[res.Embedding.VectorId] {
			continue
		}
		seen[res.Embedding.VectorId] = true

		msg := res.Message
		candidates = append(candidates, store.Candidate{
			VectorID:   res.Embedding.VectorId,
			MessageID:  res.Embedding.MessageId,
			Text:       res.Embedding.Text,
			Similarity: res.Similarity,
			Embedding:  res.Embedding.EmbeddingValue,
			Metadata: store.Metadata{
				UserID:        msg.UserId,
				Username:      msg.Username,
				DisplayName:   msg.DisplayName,
				Timestamp:     msg.Timestamp,
				UnixTimestamp: msg.Timestamp.Unix(),
				FormattedDate: msg.Timestamp.Format("02.01.2006 15:04"),
				Chunk:         res.Embedding.ChunkIndex,
			},
		})
		if len(candidates) == limit {
			break
		}
	}
	return candidates
}
