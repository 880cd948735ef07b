package rerank

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sanavullashaik/salesFlow/internal/domain"
)

// Scorer rates a candidate product's relevance to a query on a 0-100 scale.
type Scorer interface {
	ScoreCandidate(ctx context.Context, query, product string) (float64, error)
}

// Result is a candidate annotated with its relevance score. Degraded marks
// candidates whose hosted-model score was substituted by the position
// heuristic after a call or parse failure.
type Result struct {
	Product  domain.Product
	Score    float64
	Degraded bool
}

var llmScoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rerank_llm_scores_total",
		Help: "LLM candidate scoring calls by outcome.",
	},
	[]string{"outcome"},
)

// Reranker reorders search candidates either by hosted-model relevance
// scores or by a position-based heuristic.
type Reranker struct {
	scorer Scorer
	logger *slog.Logger
}

// New creates a reranker. A nil scorer disables LLM mode entirely.
func New(scorer Scorer, logger *slog.Logger) *Reranker {
	return &Reranker{
		scorer: scorer,
		logger: logger,
	}
}

// HeuristicScore is the position-based fallback score: monotonically
// decreasing by input rank with a floor of 10.
func HeuristicScore(index int) float64 {
	score := 100 - 5*index
	if score < 10 {
		score = 10
	}
	return float64(score)
}

// Rerank annotates candidates with relevance scores and returns at most topK
// of them, best first. When useLLM is false (or no scorer is configured)
// candidates keep their input order under the position heuristic. In LLM
// mode each candidate is scored independently; a failed call degrades that
// single candidate to its heuristic score instead of failing the request,
// and the final list is a stable descending sort on score.
func (r *Reranker) Rerank(ctx context.Context, query string, products []domain.Product, topK int, useLLM bool) []Result {
	if len(products) == 0 {
		return []Result{}
	}
	if topK <= 0 {
		topK = 10
	}

	results := make([]Result, 0, len(products))

	if !useLLM || r.scorer == nil {
		for i, p := range products {
			results = append(results, Result{Product: p, Score: HeuristicScore(i)})
		}
		return truncate(results, topK)
	}

	for i, p := range products {
		score, err := r.scorer.ScoreCandidate(ctx, query, candidateSummary(&p))
		if err != nil {
			r.logger.WarnContext(ctx, "llm scoring failed, using heuristic score",
				slog.String("product_id", p.ID),
				slog.Int("position", i),
				slog.String("error", err.Error()),
			)
			llmScoresTotal.WithLabelValues("degraded").Inc()
			results = append(results, Result{Product: p, Score: HeuristicScore(i), Degraded: true})
			continue
		}
		llmScoresTotal.WithLabelValues("success").Inc()
		results = append(results, Result{Product: p, Score: score})
	}

	// Stable: ties keep original input order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return truncate(results, topK)
}

// candidateSummary renders the concise product string sent for scoring.
func candidateSummary(p *domain.Product) string {
	return fmt.Sprintf("Name: %s\nCategory: %s\nBrand: %s",
		orNA(p.Name), orNA(p.Category), orNA(p.Brand))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func truncate(results []Result, topK int) []Result {
	if len(results) > topK {
		return results[:topK]
	}
	return results
}
