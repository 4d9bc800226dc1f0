package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/yourusername/whisper-api/internal/domain/repository"
	apperrors "github.com/yourusername/whisper-api/internal/pkg/errors"
)

// suggestionDelimiter separates the three prompts in raw provider output.
const suggestionDelimiter = "||"

const suggestionCacheKey = "suggestions:latest"

const suggestionPrompt = "Create a list of three open-ended and engaging questions formatted " +
	"as a single string. Each question should be separated by '||'. These questions are for an " +
	"anonymous social messaging platform and should be suitable for a diverse audience. Avoid " +
	"personal or sensitive topics, focusing instead on universal themes that encourage friendly " +
	"interaction. Ensure the questions are intriguing, foster curiosity, and contribute to a " +
	"positive and welcoming conversational environment."

// staticSuggestionSets back the service when no provider is configured or the
// provider returns something unusable.
var staticSuggestionSets = [][3]string{
	{
		"What's a hobby you've recently started?",
		"If you could have dinner with any historical figure, who would it be?",
		"What's a simple thing that makes you happy?",
	},
	{
		"What's a book or movie that changed how you see the world?",
		"If you could instantly master one skill, what would it be?",
		"What's the best piece of advice you've ever received?",
	},
	{
		"What place would you love to visit at least once?",
		"What's a small act of kindness you still remember?",
		"If your life had a soundtrack, which song would open it?",
	},
}

// SuggestionProvider produces raw '||'-delimited prompt text.
type SuggestionProvider interface {
	GenerateSuggestions(ctx context.Context) (string, error)
}

// GeminiProvider calls the Google generative language REST API. The corpus
// has no Go SDK for it, so this is a thin net/http client.
type GeminiProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiProvider creates the provider; model defaults when empty.
func NewGeminiProvider(apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash-lite"
	}
	return &GeminiProvider{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (p *GeminiProvider) GenerateSuggestions(ctx context.Context) (string, error) {
	url := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent",
		p.model,
	)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: suggestionPrompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal gemini request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(payload))
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// StaticProvider rotates through the canned suggestion sets.
type StaticProvider struct{}

func (StaticProvider) GenerateSuggestions(ctx context.Context) (string, error) {
	set := staticSuggestionSets[rand.Intn(len(staticSuggestionSets))]
	return strings.Join(set[:], suggestionDelimiter), nil
}

// SuggestionService returns exactly three prompts for the public compose page,
// caching provider output for a short TTL.
type SuggestionService struct {
	provider  SuggestionProvider
	cacheRepo repository.CacheRepository
	cacheTTL  time.Duration
}

// NewSuggestionService creates the service. cacheRepo may be nil (no caching).
func NewSuggestionService(provider SuggestionProvider, cacheRepo repository.CacheRepository, cacheTTL time.Duration) (*SuggestionService, error) {
	if provider == nil {
		return nil, fmt.Errorf("SuggestionProvider is required for SuggestionService")
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &SuggestionService{
		provider:  provider,
		cacheRepo: cacheRepo,
		cacheTTL:  cacheTTL,
	}, nil
}

// SuggestMessages returns three prompts. Provider failures and malformed
// output (anything but exactly three non-empty parts) degrade to the static
// sets; the endpoint never fails on an upstream problem.
func (s *SuggestionService) SuggestMessages(ctx context.Context) ([]string, error) {
	if s.cacheRepo != nil {
		var cached []string
		if err := s.cacheRepo.GetJSON(suggestionCacheKey, &cached); err == nil && len(cached) == 3 {
			return cached, nil
		} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[SuggestionService] cache read failed: %v", err)
		}
	}

	raw, err := s.provider.GenerateSuggestions(ctx)
	if err != nil {
		log.Printf("[SuggestionService] provider failed, using static set: %v", err)
		raw, _ = StaticProvider{}.GenerateSuggestions(ctx)
	}

	suggestions, ok := parseSuggestions(raw)
	if !ok {
		log.Printf("[SuggestionService] malformed provider output, using static set")
		raw, _ = StaticProvider{}.GenerateSuggestions(ctx)
		suggestions, _ = parseSuggestions(raw)
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(suggestionCacheKey, suggestions, s.cacheTTL); err != nil {
			log.Printf("[SuggestionService] cache write failed: %v", err)
		}
	}

	return suggestions, nil
}

// parseSuggestions splits raw provider output on the delimiter and accepts
// only exactly three non-empty prompts.
func parseSuggestions(raw string) ([]string, bool) {
	parts := strings.Split(strings.TrimSpace(raw), suggestionDelimiter)
	if len(parts) != 3 {
		return nil, false
	}
	out := make([]string, 0, 3)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, false
		}
		out = append(out, p)
	}
	return out, true
}
