package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/alktbihd/mentalhealth/internal/utils"
)

const (
	// QuoteSourceAPI tags quotes fetched from the remote service.
	QuoteSourceAPI = "api"
	// QuoteSourceFallback tags quotes served from the local list.
	QuoteSourceFallback = "fallback"
)

// Quote is a single quotation with attribution.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// QuoteResult is a quote plus where it came from.
type QuoteResult struct {
	Quote  Quote  `json:"quote"`
	Source string `json:"source"`
}

// fallbackQuotes are served whenever the upstream service fails. The
// upstream failure itself is never surfaced to the caller.
var fallbackQuotes = []Quote{
	{Text: "Mental health is not a destination, but a process. It's about how you drive, not where you're going.", Author: "Noam Shpancer"},
	{Text: "You don't have to be positive all the time. It's perfectly okay to feel sad, angry, annoyed, frustrated, scared, or anxious.", Author: "Lori Deschene"},
	{Text: "Self-care is how you take your power back.", Author: "Lalah Delia"},
	{Text: "The greatest glory in living lies not in never falling, but in rising every time we fall.", Author: "Nelson Mandela"},
	{Text: "You are not alone in this journey. Every step you take is a step towards healing.", Author: "Unknown"},
}

// QuoteService proxies the remote quotation API with a local fallback.
type QuoteService interface {
	Fetch(ctx context.Context) *QuoteResult
}

type quoteService struct {
	client *http.Client
	apiURL string
	logger utils.Logger
}

func NewQuoteService(apiURL string, logger utils.Logger) QuoteService {
	return &quoteService{
		client: &http.Client{Timeout: 5 * time.Second},
		apiURL: apiURL,
		logger: logger,
	}
}

// upstreamQuote matches the remote API's response shape.
type upstreamQuote struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// Fetch returns a quote. It never fails: any upstream problem is logged and
// replaced with a random entry from the fallback list.
func (s *quoteService) Fetch(ctx context.Context) *QuoteResult {
	quote, err := s.fetchUpstream(ctx)
	if err != nil {
		s.logger.Warn("quote API unavailable, serving fallback", "error", err)
		return &QuoteResult{
			Quote:  fallbackQuotes[rand.IntN(len(fallbackQuotes))],
			Source: QuoteSourceFallback,
		}
	}

	return &QuoteResult{Quote: *quote, Source: QuoteSourceAPI}
}

func (s *quoteService) fetchUpstream(ctx context.Context) (*Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstreamService, resp.StatusCode)
	}

	var upstream upstreamQuote
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamService, err)
	}

	return &Quote{Text: upstream.Content, Author: upstream.Author}, nil
}
