// FILE: internal/service/search_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"chat-archivist-be/internal/config"
	"chat-archivist-be/internal/dto"
	"chat-archivist-be/internal/pkg/logger"
	"chat-archivist-be/internal/repository/memory"
	"chat-archivist-be/pkg/rag/agent"
	"chat-archivist-be/pkg/rag/analysis"
	"chat-archivist-be/pkg/rag/diversity"
	"chat-archivist-be/pkg/rag/response"
	"chat-archivist-be/pkg/search"
	"chat-archivist-be/pkg/store"
)

type ISearchService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	AskStream(ctx context.Context, req *dto.AskRequest, onChunk func(string)) (*dto.AskResponse, error)
	DetectFlip(ctx context.Context, req *dto.FlipRequest) (*dto.FlipResponse, error)
}

type searchService struct {
	conversations *memory.ConversationRepository
	parser        *search.QuestionParser
	resolver      *search.SpeakerResolver
	agent         *agent.Agent
	synthesizer   *response.Synthesizer
	flips         *analysis.FlipDetector
	cfg           config.SearchConfig
	logger        logger.ILogger
}

func NewSearchService(
	conversations *memory.ConversationRepository,
	parser *search.QuestionParser,
	resolver *search.SpeakerResolver,
	ragAgent *agent.Agent,
	synthesizer *response.Synthesizer,
	flips *analysis.FlipDetector,
	cfg config.SearchConfig,
	log logger.ILogger,
) ISearchService {
	return &searchService{
		conversations: conversations,
		parser:        parser,
		resolver:      resolver,
		agent:         ragAgent,
		synthesizer:   synthesizer,
		flips:         flips,
		cfg:           cfg,
		logger:        log,
	}
}

// Ask answers one question in a single blocking call. An empty archive
// or an exhausted search is a normal answer with no results, not an
// error.
func (s *searchService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	results, session, err := s.retrieve(ctx, req)
	if err != nil {
		return nil, err
	}

	answer, err := s.synthesizer.Synthesize(ctx, req.Question, results, response.Options{})
	if err != nil {
		return nil, err
	}

	resp := s.buildResponse(answer, results, session)
	s.remember(req, resp, results)
	return resp, nil
}

// AskStream runs the same pipeline but delivers the answer text through
// onChunk as the model produces it.
func (s *searchService) AskStream(ctx context.Context, req *dto.AskRequest, onChunk func(string)) (*dto.AskResponse, error) {
	results, session, err := s.retrieve(ctx, req)
	if err != nil {
		return nil, err
	}

	answer, err := s.synthesizer.SynthesizeStream(ctx, req.Question, results, response.Options{}, onChunk)
	if err != nil {
		return nil, err
	}

	resp := s.buildResponse(answer, results, session)
	s.remember(req, resp, results)
	return resp, nil
}

// DetectFlip answers "did this person change their mind about X":
// the speaker name resolves through aliases the same way Ask filters do,
// then the detector runs the chronological contradiction analysis.
func (s *searchService) DetectFlip(ctx context.Context, req *dto.FlipRequest) (*dto.FlipResponse, error) {
	userId := s.resolver.Resolve(ctx, req.User)

	result, err := s.flips.Detect(ctx, userId, req.Topic, req.Limit)
	if err != nil {
		return nil, err
	}

	s.logger.Info("search", "Flip detection finished", map[string]interface{}{
		"user":     req.User,
		"topic":    req.Topic,
		"has_flip": result.HasFlip,
		"messages": len(result.Messages),
	})

	return &dto.FlipResponse{
		User:       req.User,
		Topic:      req.Topic,
		HasFlip:    result.HasFlip,
		Confidence: result.Confidence,
		Summary:    result.Summary,
		Analysis:   result.Analysis,
		Messages:   toResultDTOs(result.Messages),
	}, nil
}

func (s *searchService) retrieve(ctx context.Context, req *dto.AskRequest) ([]store.Candidate, *agent.SearchSession, error) {
	conversationContext := ""
	if req.ClientId != "" {
		if conv, ok := s.conversations.Get(req.ClientId); ok {
			conversationContext = fmt.Sprintf("Q: %s\nA: %s", conv.LastQuestion, conv.LastAnswer)
		}
	}

	parsed := s.parser.Parse(ctx, req.Question, conversationContext)
	params := s.buildParams(ctx, req, parsed)

	s.logger.Info("search", "Starting agent search", map[string]interface{}{
		"question": req.Question,
		"query":    params.InitialQuery,
		"speaker":  params.Filters.Speaker,
	})

	results, session, err := s.agent.Search(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("search", "Agent search finished", map[string]interface{}{
		"iterations": session.Iterations,
		"queries":    session.QueriesTried,
		"results":    len(results),
	})
	return results, session, nil
}

// buildParams merges the intent strategy with configured defaults and
// the request's explicit filters. Request filters win over anything the
// parser inferred.
func (s *searchService) buildParams(ctx context.Context, req *dto.AskRequest, parsed *search.ParsedQuestion) agent.Params {
	strategy := search.StrategyFor(search.DetectIntent(req.Question))

	params := agent.DefaultParams(req.Question, parsed.SearchQuery)
	params.MinRelevant = strategy.MinRelevant
	params.MinRelevanceScore = strategy.MinRelevanceScore
	params.MaxIterations = strategy.MaxIterations
	params.UseHyde = strategy.UseHyde
	params.UseReranking = strategy.UseReranking
	params.Diversity = diversity.Config{
		MaxPerUser: s.cfg.MaxPerUser,
		Lambda:     s.cfg.MmrLambda,
		TopK:       strategy.TopK,
	}

	speaker := req.Speaker
	if speaker == "" && len(parsed.MentionedUsers) > 0 {
		speaker = parsed.MentionedUsers[0]
	}
	if speaker != "" {
		params.Filters.Speaker = s.resolver.Resolve(ctx, speaker)
	}

	params.Filters.DateFrom = parsed.DateFrom
	params.Filters.DateTo = parsed.DateTo
	if from := parseRequestDate(req.DateFrom, false); from != nil {
		params.Filters.DateFrom = from
	}
	if to := parseRequestDate(req.DateTo, true); to != nil {
		params.Filters.DateTo = to
	}
	return params
}

func (s *searchService) buildResponse(answer *response.Answer, results []store.Candidate, session *agent.SearchSession) *dto.AskResponse {
	quotes := make([]dto.QuoteDTO, len(answer.Quotes))
	for i, q := range answer.Quotes {
		quotes[i] = dto.QuoteDTO{Speaker: q.Speaker, Date: q.Date, Text: q.Text}
	}

	return &dto.AskResponse{
		Answer:     answer.Text,
		Confidence: answer.Confidence,
		Language:   answer.Language,
		Quotes:     quotes,
		Results:    toResultDTOs(results),
		Session: dto.SessionDTO{
			QueriesTried: session.QueriesTried,
			Iterations:   session.Iterations,
		},
	}
}

func toResultDTOs(results []store.Candidate) []dto.SearchResultDTO {
	out := make([]dto.SearchResultDTO, len(results))
	for i, r := range results {
		item := dto.SearchResultDTO{
			VectorId:   r.VectorID,
			MessageId:  r.MessageID,
			Text:       r.Text,
			Speaker:    r.Metadata.SpeakerName(),
			Date:       r.Metadata.FormattedDate,
			Similarity: r.Similarity,
		}
		if score, ok := r.Relevance(); ok {
			item.RelevanceScore = &score
		}
		out[i] = item
	}
	return out
}

func (s *searchService) remember(req *dto.AskRequest, resp *dto.AskResponse, results []store.Candidate) {
	if req.ClientId == "" {
		return
	}
	vectorIds := make([]string, len(results))
	for i, r := range results {
		vectorIds[i] = r.VectorID
	}
	s.conversations.Save(&memory.Conversation{
		ClientID:      req.ClientId,
		LastQuestion:  req.Question,
		LastAnswer:    resp.Answer,
		LastVectorIds: vectorIds,
	})
}

func parseRequestDate(s string, endOfDay bool) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t
}
