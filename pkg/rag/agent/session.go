package agent

import "chat-archivist-be/pkg/store"

// SearchSession is the mutable state of one orchestrated search. It is
// created at the start of Search, mutated through the iterations and
// returned to the caller for diagnostics. It is never persisted.
type SearchSession struct {
	OriginalQuestion string
	QueriesTried     []string
	AllCandidates    map[string]*store.Candidate // keyed by vector id
	RelevantResults  []*store.Candidate
	Iterations       int
	MaxIterations    int
}

func NewSearchSession(question string, maxIterations int) *SearchSession {
	return &SearchSession{
		OriginalQuestion: question,
		AllCandidates:    make(map[string]*store.Candidate),
		MaxIterations:    maxIterations,
	}
}

// Tried reports whether query (modulo case and spacing) was already
// issued this session.
func (s *SearchSession) Tried(query string) bool {
	norm := normalizeQuery(query)
	for _, q := range s.QueriesTried {
		if normalizeQuery(q) == norm {
			return true
		}
	}
	return false
}

func (s *SearchSession) RecordQuery(query string) {
	s.QueriesTried = append(s.QueriesTried, query)
}

// Merge adds candidates not seen before this session, first-seen wins.
// It returns the newly added candidates in arrival order.
func (s *SearchSession) Merge(candidates []store.Candidate) []*store.Candidate {
	var fresh []*store.Candidate
	for i := range candidates {
		c := candidates[i]
		if _, seen := s.AllCandidates[c.VectorID]; seen {
			continue
		}
		s.AllCandidates[c.VectorID] = &c
		fresh = append(fresh, s.AllCandidates[c.VectorID])
	}
	return fresh
}
