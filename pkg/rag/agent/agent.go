package agent

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"chat-archivist-be/pkg/rag/diversity"
	"chat-archivist-be/pkg/store"
)

// Filters narrows a vector search to a speaker and/or date range.
type Filters struct {
	Speaker  string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Retriever is the vector search the agent iterates over.
type Retriever interface {
	Search(ctx context.Context, query string, limit int, filters Filters) ([]store.Candidate, error)
}

// CacheEntry is one (message, query, score) triple written back after
// judging.
type CacheEntry struct {
	MessageID int64
	Query     string
	Score     int
}

// RelevanceCache is the persistent cross-session score store. A failing
// implementation must behave as all-miss, not error the session.
type RelevanceCache interface {
	GetBatch(ctx context.Context, messageIDs []int64, query string) (map[int64]int, error)
	PutBatch(ctx context.Context, entries []CacheEntry) error
}

// Params tunes one Search call.
type Params struct {
	Question     string
	InitialQuery string
	Filters      Filters

	MinRelevant        int
	MinRelevanceScore  int
	MaxIterations      int
	CandidatesPerQuery int

	UseHyde      bool
	UseReranking bool
	UseDiversity bool
	Diversity    diversity.Config
}

// DefaultParams returns the standard tuning for a question.
func DefaultParams(question, initialQuery string) Params {
	return Params{
		Question:           question,
		InitialQuery:       initialQuery,
		MinRelevant:        3,
		MinRelevanceScore:  5,
		MaxIterations:      3,
		CandidatesPerQuery: 15,
		UseHyde:            true,
		UseReranking:       true,
		UseDiversity:       true,
		Diversity: diversity.Config{
			MaxPerUser: 2,
			Lambda:     0.7,
			TopK:       10,
		},
	}
}

// Agent drives the iterative search loop: vector search (plus HyDE
// probes on the first round), cache lookup, batched relevance judging,
// reformulation on shortfall, then rerank and diversity passes on the
// accumulated relevant results.
type Agent struct {
	retriever    Retriever
	cache        RelevanceCache
	judge        *Judge
	reformulator *Reformulator
	hyde         *HydeGenerator
	reranker     *Reranker
	logger       *log.Logger
}

func NewAgent(
	retriever Retriever,
	cache RelevanceCache,
	judge *Judge,
	reformulator *Reformulator,
	hyde *HydeGenerator,
	reranker *Reranker,
	logger *log.Logger,
) *Agent {
	return &Agent{
		retriever:    retriever,
		cache:        cache,
		judge:        judge,
		reformulator: reformulator,
		hyde:         hyde,
		reranker:     reranker,
		logger:       logger,
	}
}

// Search runs the full loop for one question. The returned error is
// non-nil only when ctx is cancelled; every provider failure inside the
// loop degrades to its component fallback and exhaustion yields an
// empty list.
func (a *Agent) Search(ctx context.Context, p Params) ([]store.Candidate, *SearchSession, error) {
	if p.MaxIterations <= 0 {
		p.MaxIterations = 3
	}
	if p.CandidatesPerQuery <= 0 {
		p.CandidatesPerQuery = 15
	}

	session := NewSearchSession(p.Question, p.MaxIterations)
	query := p.InitialQuery
	if query == "" {
		query = p.Question
	}

	var probes []string
	if p.UseHyde {
		// One HyDE call per session, probes only join the first round.
		probes = a.hyde.Generate(ctx, p.Question)
		a.logger.Printf("[DEBUG] hyde produced %d probes", len(probes))
	}

	for session.Iterations < p.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, session, err
		}
		session.Iterations++
		session.RecordQuery(query)

		queries := []string{query}
		if session.Iterations == 1 {
			queries = append(queries, probes...)
		}

		merged := a.searchAll(ctx, queries, p.CandidatesPerQuery, p.Filters)
		fresh := session.Merge(merged)
		a.logger.Printf("[DEBUG] iteration %d: query=%q found=%d new=%d",
			session.Iterations, query, len(merged), len(fresh))

		toJudge := a.applyCache(ctx, session, fresh, p)
		a.judgeAndRecord(ctx, session, toJudge, p)

		if len(merged) == 0 {
			// Dead end: one reformulation attempt before giving up.
			next := a.reformulator.Reformulate(ctx, p.Question, query, 0, 0)
			if next == "" || session.Tried(next) {
				break
			}
			query = next
			continue
		}

		if len(session.RelevantResults) >= p.MinRelevant {
			break
		}

		next := a.reformulator.Reformulate(ctx, p.Question, query, len(merged), len(session.RelevantResults))
		if next == "" || session.Tried(next) {
			break
		}
		query = next
	}

	results := a.finalize(ctx, session, p)
	return results, session, nil
}

// searchAll issues all queries of one round concurrently and merges the
// per-query result lists in query order so repeated runs are
// deterministic. First seen vector id wins.
func (a *Agent) searchAll(ctx context.Context, queries []string, limit int, filters Filters) []store.Candidate {
	perQuery := make([][]store.Candidate, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			results, err := a.retriever.Search(ctx, q, limit, filters)
			if err != nil {
				a.logger.Printf("[WARN] vector search failed for %q: %v", q, err)
				return
			}
			perQuery[i] = results
		}(i, q)
	}
	wg.Wait()

	seen := make(map[string]bool)
	var merged []store.Candidate
	for _, results := range perQuery {
		for _, c := range results {
			if seen[c.VectorID] {
				continue
			}
			seen[c.VectorID] = true
			merged = append(merged, c)
		}
	}
	return merged
}

// applyCache resolves fresh candidates against the persistent cache in
// one batched read and returns the ones still needing a judge call.
func (a *Agent) applyCache(ctx context.Context, session *SearchSession, fresh []*store.Candidate, p Params) []*store.Candidate {
	if len(fresh) == 0 {
		return nil
	}

	ids := make([]int64, len(fresh))
	for i, c := range fresh {
		ids[i] = c.MessageID
	}

	hits, err := a.cache.GetBatch(ctx, ids, p.Question)
	if err != nil {
		a.logger.Printf("[WARN] relevance cache read failed, treating as all-miss: %v", err)
		hits = nil
	}

	var toJudge []*store.Candidate
	for _, c := range fresh {
		score, ok := hits[c.MessageID]
		if !ok {
			toJudge = append(toJudge, c)
			continue
		}
		c.SetRelevance(score, p.Question)
		if score >= p.MinRelevanceScore {
			session.RelevantResults = append(session.RelevantResults, c)
		}
	}
	if n := len(fresh) - len(toJudge); n > 0 {
		a.logger.Printf("[DEBUG] cache resolved %d of %d candidates", n, len(fresh))
	}
	return toJudge
}

// judgeAndRecord scores unjudged candidates in one batched call, writes
// the scores back to the cache and collects new relevant results.
func (a *Agent) judgeAndRecord(ctx context.Context, session *SearchSession, toJudge []*store.Candidate, p Params) {
	if len(toJudge) == 0 {
		return
	}
	if len(toJudge) > JudgeBatchSize {
		toJudge = toJudge[:JudgeBatchSize]
	}

	a.judge.Score(ctx, p.Question, toJudge)

	entries := make([]CacheEntry, 0, len(toJudge))
	for _, c := range toJudge {
		score, ok := c.Relevance()
		if !ok {
			continue
		}
		entries = append(entries, CacheEntry{MessageID: c.MessageID, Query: p.Question, Score: score})
		if score >= p.MinRelevanceScore {
			session.RelevantResults = append(session.RelevantResults, c)
		}
	}
	if err := a.cache.PutBatch(ctx, entries); err != nil {
		a.logger.Printf("[WARN] relevance cache write failed: %v", err)
	}
}

// finalize sorts the accumulated relevant results and applies the
// optional rerank and diversity passes.
func (a *Agent) finalize(ctx context.Context, session *SearchSession, p Params) []store.Candidate {
	results := make([]*store.Candidate, len(session.RelevantResults))
	copy(results, session.RelevantResults)

	// Relevance outranks raw similarity; similarity only breaks ties.
	sort.SliceStable(results, func(i, j int) bool {
		ri, _ := results[i].Relevance()
		rj, _ := results[j].Relevance()
		if ri != rj {
			return ri > rj
		}
		return results[i].Similarity > results[j].Similarity
	})

	if p.UseReranking && len(results) > 3 {
		head := results
		if len(head) > RerankBatchSize {
			head = head[:RerankBatchSize]
		}
		reranked := a.reranker.Rerank(ctx, p.Question, head)
		results = append(reranked, results[len(head):]...)
	}

	out := make([]store.Candidate, len(results))
	for i, c := range results {
		out[i] = *c
	}

	if p.UseDiversity {
		out = diversity.Apply(out, p.Diversity)
	}
	return out
}
