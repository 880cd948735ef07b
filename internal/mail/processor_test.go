package mail

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanavullashaik/salesFlow/internal/domain"
)

type fakeReader struct {
	messages []Message
	err      error
}

func (f *fakeReader) FetchUnread(context.Context) ([]Message, error) {
	return f.messages, f.err
}

type fakeExtractor struct {
	requests map[string]*domain.ProductRequest
	err      error
}

func (f *fakeExtractor) ExtractProductRequest(_ context.Context, content string) (*domain.ProductRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	if req, ok := f.requests[content]; ok {
		return req, nil
	}
	return nil, errors.New("unexpected content")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheckEmailsExtractsRequests(t *testing.T) {
	reader := &fakeReader{messages: []Message{
		{Subject: "Need laptops", From: "buyer@example.com", Content: "laptop email"},
		{Subject: "Monitors", From: "ops@example.com", Content: "monitor email"},
	}}
	extractor := &fakeExtractor{requests: map[string]*domain.ProductRequest{
		"laptop email":  {ProductName: "Latitude 5440", Quantity: 5, Priority: "high"},
		"monitor email": {ProductName: "UltraSharp 27", Quantity: 2, Priority: "low"},
	}}

	p := NewProcessor(reader, extractor, testLogger())

	result, err := p.CheckEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.NewEmails)
	require.Len(t, result.Requests, 2)
	assert.Equal(t, "Latitude 5440", result.Requests[0].ProductName)
	assert.Equal(t, "UltraSharp 27", result.Requests[1].ProductName)
}

func TestCheckEmailsEmptyMailbox(t *testing.T) {
	p := NewProcessor(&fakeReader{}, &fakeExtractor{}, testLogger())

	result, err := p.CheckEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.NewEmails)
	assert.Empty(t, result.Requests)
}

func TestCheckEmailsFetchFailure(t *testing.T) {
	p := NewProcessor(&fakeReader{err: errors.New("login failed")}, &fakeExtractor{}, testLogger())

	_, err := p.CheckEmails(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
}

func TestCheckEmailsExtractionFailureAborts(t *testing.T) {
	reader := &fakeReader{messages: []Message{
		{Subject: "Need laptops", Content: "laptop email"},
	}}
	p := NewProcessor(reader, &fakeExtractor{err: errors.New("model unavailable")}, testLogger())

	_, err := p.CheckEmails(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Need laptops")
}
