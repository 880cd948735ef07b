package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/sanavullashaik/salesFlow/pkg/errors"

	"github.com/sanavullashaik/salesFlow/internal/domain"
	"github.com/sanavullashaik/salesFlow/internal/engine/memory"
	"github.com/sanavullashaik/salesFlow/internal/mail"
	"github.com/sanavullashaik/salesFlow/internal/rerank"
)

type fakeProductEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeProductEmbedder) EmbedProduct(context.Context, *domain.Product) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

type fakeMatcher struct {
	results []domain.SearchResult
	err     error
}

func (f *fakeMatcher) Match(context.Context, *domain.ProductRequest, int) ([]domain.SearchResult, error) {
	return f.results, f.err
}

type fakeMailChecker struct {
	result *mail.CheckResult
	err    error
}

func (f *fakeMailChecker) CheckEmails(context.Context) (*mail.CheckResult, error) {
	return f.result, f.err
}

type fakeImageExtractor struct {
	info *domain.ProductInfo
	err  error
}

func (f *fakeImageExtractor) ExtractProductInfo(context.Context, []byte, string) (*domain.ProductInfo, error) {
	return f.info, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(deps Deps) *SearchService {
	if deps.Engine == nil {
		deps.Engine = memory.New()
	}
	if deps.Reranker == nil {
		deps.Reranker = rerank.New(nil, testLogger())
	}
	return New(deps, testLogger())
}

func TestIndexProductAssignsID(t *testing.T) {
	svc := newTestService(Deps{})
	ctx := context.Background()

	product := &domain.Product{Name: "iPhone 14", Category: "phones", Price: 799.0}
	require.NoError(t, svc.IndexProduct(ctx, product))
	assert.NotEmpty(t, product.ID)
}

func TestIndexProductRequiresName(t *testing.T) {
	svc := newTestService(Deps{})

	err := svc.IndexProduct(context.Background(), &domain.Product{ID: "p1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
}

func TestIndexProductAttachesEmbedding(t *testing.T) {
	embedder := &fakeProductEmbedder{vector: []float32{0.1, 0.2}}
	svc := newTestService(Deps{Embedder: embedder})

	product := &domain.Product{Name: "iPhone 14"}
	require.NoError(t, svc.IndexProduct(context.Background(), product))
	assert.Equal(t, []float32{0.1, 0.2}, product.Embedding)
	assert.Equal(t, 1, embedder.calls)

	// A pre-attached embedding is kept.
	pre := &domain.Product{Name: "Galaxy", Embedding: []float32{1}}
	require.NoError(t, svc.IndexProduct(context.Background(), pre))
	assert.Equal(t, []float32{1}, pre.Embedding)
	assert.Equal(t, 1, embedder.calls)
}

func TestIndexProductEmbeddingFailure(t *testing.T) {
	svc := newTestService(Deps{Embedder: &fakeProductEmbedder{err: errors.New("provider down")}})

	err := svc.IndexProduct(context.Background(), &domain.Product{Name: "iPhone 14"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func TestSearchReturnsScoredResults(t *testing.T) {
	svc := newTestService(Deps{})
	ctx := context.Background()

	require.NoError(t, svc.IndexProduct(ctx, &domain.Product{ID: "p1", Name: "iPhone 14", Category: "phones", Price: 799.0}))

	results, err := svc.Search(ctx, "iphone", 10, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].ID)
	assert.Equal(t, float64(100), results[0].RelevanceScore)
}

func TestInstantSearchScoresByPosition(t *testing.T) {
	svc := newTestService(Deps{})
	ctx := context.Background()

	require.NoError(t, svc.BulkIndexProducts(ctx, []domain.Product{
		{ID: "p1", Name: "iPhone 14"},
		{ID: "p2", Name: "iPhone 14 Pro"},
	}))

	results, err := svc.InstantSearch(ctx, "iphone", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, float64(100), results[0].RelevanceScore)
	assert.Equal(t, float64(95), results[1].RelevanceScore)
}

func TestAutocompleteNeverNil(t *testing.T) {
	svc := newTestService(Deps{})

	suggestions, err := svc.Autocomplete(context.Background(), "zzz", 5)
	require.NoError(t, err)
	assert.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}

func TestMatchUnconfigured(t *testing.T) {
	svc := newTestService(Deps{})

	_, err := svc.Match(context.Background(), &domain.ProductRequest{ProductName: "Laptop"}, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrUnavailable))
}

func TestMatchRejectsEmptyRequest(t *testing.T) {
	svc := newTestService(Deps{Matcher: &fakeMatcher{}})

	_, err := svc.Match(context.Background(), &domain.ProductRequest{}, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
}

func TestMatchDelegates(t *testing.T) {
	matcher := &fakeMatcher{results: []domain.SearchResult{
		{Product: domain.Product{ID: "p1"}, RelevanceScore: 95},
	}}
	svc := newTestService(Deps{Matcher: matcher})

	matches, err := svc.Match(context.Background(), &domain.ProductRequest{ProductName: "Laptop"}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "p1", matches[0].ID)
}

func TestCheckEmailsUnconfigured(t *testing.T) {
	svc := newTestService(Deps{})

	_, err := svc.CheckEmails(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrUnavailable))
}

func TestCheckEmailsDelegates(t *testing.T) {
	checker := &fakeMailChecker{result: &mail.CheckResult{
		NewEmails: 1,
		Requests:  []domain.ProductRequest{{ProductName: "Latitude 5440"}},
	}}
	svc := newTestService(Deps{Mail: checker})

	result, err := svc.CheckEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.NewEmails)
}

func TestProcessImageFallsBackToStub(t *testing.T) {
	svc := newTestService(Deps{Images: &fakeImageExtractor{err: errors.New("vision model down")}})

	info, err := svc.ProcessImage(context.Background(), []byte{0xFF}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Unknown Product", info.ProductName)
	assert.Equal(t, "general", info.Category)
	assert.NotNil(t, info.Specifications)
}

func TestProcessImageRejectsEmpty(t *testing.T) {
	svc := newTestService(Deps{Images: &fakeImageExtractor{}})

	_, err := svc.ProcessImage(context.Background(), nil, "image/png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
}

func TestLoadSampleDataThenSearch(t *testing.T) {
	svc := newTestService(Deps{})
	ctx := context.Background()

	count, err := svc.LoadSampleData(ctx)
	require.NoError(t, err)
	assert.Greater(t, count, 0)

	results, err := svc.Search(ctx, "iphone", 10, false)
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	// Loading twice overwrites rather than duplicates.
	again, err := svc.LoadSampleData(ctx)
	require.NoError(t, err)
	assert.Equal(t, count, again)
}

func TestRecreateIndexClearsProducts(t *testing.T) {
	svc := newTestService(Deps{})
	ctx := context.Background()

	require.NoError(t, svc.IndexProduct(ctx, &domain.Product{ID: "p1", Name: "Laptop"}))
	require.NoError(t, svc.RecreateIndex(ctx))

	results, err := svc.Search(ctx, "laptop", 10, false)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDeleteProductRequiresID(t *testing.T) {
	svc := newTestService(Deps{})

	err := svc.DeleteProduct(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
}
