package matcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/sanavullashaik/salesFlow/internal/domain"
)

// Embedder computes the embedding seed for a product request.
type Embedder interface {
	EmbedRequest(ctx context.Context, request *domain.ProductRequest) ([]float32, error)
}

// VectorSearcher retrieves candidates by embedding similarity.
type VectorSearcher interface {
	VectorSearch(ctx context.Context, vector []float32, size int) ([]domain.Product, error)
}

// Scorer rates the compatibility of a candidate against a product request.
type Scorer interface {
	ScoreMatch(ctx context.Context, request, product string) (float64, error)
}

// state is the single object passed through the pipeline stages.
type state struct {
	request    *domain.ProductRequest
	topK       int
	embedding  []float32
	candidates []domain.Product
	ranked     []domain.SearchResult
}

// stage is one step of the matching pipeline. Stages run in order; the first
// error aborts the whole match.
type stage struct {
	name string
	run  func(ctx context.Context, s *state) error
}

// Matcher runs the retrieval-augmented matching pipeline:
// embed the request, search by vector similarity, score each candidate with
// the hosted model, sort descending. Unlike search reranking, a scoring
// failure here aborts the match rather than degrading.
type Matcher struct {
	stages []stage
	logger *slog.Logger
}

// New creates a matcher over the given collaborators.
func New(embedder Embedder, searcher VectorSearcher, scorer Scorer, logger *slog.Logger) *Matcher {
	m := &Matcher{logger: logger}
	m.stages = []stage{
		{name: "generate_embedding", run: func(ctx context.Context, s *state) error {
			vector, err := embedder.EmbedRequest(ctx, s.request)
			if err != nil {
				return err
			}
			s.embedding = vector
			return nil
		}},
		{name: "vector_search", run: func(ctx context.Context, s *state) error {
			candidates, err := searcher.VectorSearch(ctx, s.embedding, s.topK)
			if err != nil {
				return err
			}
			s.candidates = candidates
			return nil
		}},
		{name: "score_candidates", run: func(ctx context.Context, s *state) error {
			requestStr, err := json.Marshal(s.request)
			if err != nil {
				return fmt.Errorf("marshal request: %w", err)
			}

			ranked := make([]domain.SearchResult, 0, len(s.candidates))
			for _, candidate := range s.candidates {
				productStr, err := json.Marshal(stripEmbedding(candidate))
				if err != nil {
					return fmt.Errorf("marshal candidate %s: %w", candidate.ID, err)
				}
				score, err := scorer.ScoreMatch(ctx, string(requestStr), string(productStr))
				if err != nil {
					return fmt.Errorf("score candidate %s: %w", candidate.ID, err)
				}
				ranked = append(ranked, domain.SearchResult{Product: candidate, RelevanceScore: score})
			}

			sort.SliceStable(ranked, func(i, j int) bool {
				return ranked[i].RelevanceScore > ranked[j].RelevanceScore
			})
			s.ranked = ranked
			return nil
		}},
	}
	return m
}

// Match runs the pipeline for a product request and returns candidates
// sorted by compatibility, best first.
func (m *Matcher) Match(ctx context.Context, request *domain.ProductRequest, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}

	s := &state{request: request, topK: topK}
	for _, st := range m.stages {
		if err := st.run(ctx, s); err != nil {
			return nil, fmt.Errorf("match pipeline: %s: %w", st.name, err)
		}
		m.logger.DebugContext(ctx, "match stage completed",
			slog.String("stage", st.name),
			slog.Int("candidates", len(s.candidates)),
		)
	}
	return s.ranked, nil
}

// stripEmbedding drops the vector before the candidate is serialized into a
// scoring prompt.
func stripEmbedding(p domain.Product) domain.Product {
	p.Embedding = nil
	return p
}
