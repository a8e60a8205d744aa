package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	dservice "github.com/Vitek192/sola-sub000/internal/domain/service"
	"github.com/Vitek192/sola-sub000/internal/services/features"
	xhttp "github.com/Vitek192/sola-sub000/pkg/http"
	"github.com/Vitek192/sola-sub000/pkg/logger"
)

// Provider is one chat-completion endpoint the analyzer can call.
type Provider struct {
	Name   string
	URL    string
	APIKey string
	Model  string
}

// HTTPAnalyzer produces token verdicts from OpenAI-compatible completion
// APIs. Providers are tried in order; the first to answer wins.
type HTTPAnalyzer struct {
	providers []Provider
	client    *xhttp.Client
	logger    *logger.Logger
}

// NewHTTPAnalyzer builds an analyzer over the given provider chain.
func NewHTTPAnalyzer(providers []Provider, log *logger.Logger, timeout time.Duration) dservice.Analyzer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPAnalyzer{
		providers: providers,
		client:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		logger:    log,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// verdictPayload is the JSON shape the model is asked to answer with.
type verdictPayload struct {
	Verdict    string  `json:"verdict"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}

// Analyze runs the provider chain until one returns a parseable verdict.
func (a *HTTPAnalyzer) Analyze(ctx context.Context, token models.Token) (models.TokenAnalysis, error) {
	if len(a.providers) == 0 {
		return models.TokenAnalysis{}, fmt.Errorf("no analysis providers configured")
	}

	prompt := buildPrompt(&token)
	var lastErr error
	for _, p := range a.providers {
		result, err := a.ask(ctx, p, prompt)
		if err != nil {
			lastErr = err
			a.logger.Warn("analysis provider failed",
				logger.String("provider", p.Name),
				logger.Error(err))
			continue
		}
		result.Address = token.Address
		result.Provider = p.Name
		result.Timestamp = time.Now()
		return result, nil
	}
	return models.TokenAnalysis{}, fmt.Errorf("all analysis providers failed: %w", lastErr)
}

func (a *HTTPAnalyzer) ask(ctx context.Context, p Provider, prompt string) (models.TokenAnalysis, error) {
	var resp chatResponse
	err := a.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: http.MethodPost,
		URL:    p.URL,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer " + p.APIKey,
		},
		Body: chatRequest{
			Model: p.Model,
			Messages: []chatMessage{
				{Role: "system", Content: "You are a memecoin risk analyst. Answer with a single JSON object: {\"verdict\": \"BULLISH|NEUTRAL|BEARISH|SCAM\", \"confidence\": 0..1, \"summary\": \"one sentence\"}."},
				{Role: "user", Content: prompt},
			},
		},
	}, &resp)
	if err != nil {
		return models.TokenAnalysis{}, err
	}
	if len(resp.Choices) == 0 {
		return models.TokenAnalysis{}, fmt.Errorf("empty completion from %s", p.Name)
	}

	var v verdictPayload
	content := extractJSON(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return models.TokenAnalysis{}, fmt.Errorf("parse verdict from %s: %w", p.Name, err)
	}
	if v.Verdict == "" {
		return models.TokenAnalysis{}, fmt.Errorf("verdict missing from %s", p.Name)
	}
	return models.TokenAnalysis{
		Verdict:    v.Verdict,
		Confidence: v.Confidence,
		Summary:    v.Summary,
	}, nil
}

func buildPrompt(t *models.Token) string {
	latest := t.Latest()
	first := t.First()
	var b strings.Builder
	fmt.Fprintf(&b, "Token %s (%s)\n", t.Symbol, t.Address)
	fmt.Fprintf(&b, "Age: %s\n", time.Since(t.CreatedAt).Round(time.Minute))
	fmt.Fprintf(&b, "Price: %.8f (launch %.8f)\n", latest.Price, first.Price)
	fmt.Fprintf(&b, "Liquidity: %.0f  MarketCap: %.0f  Volume24h: %.0f\n", latest.Liquidity, latest.MarketCap, latest.Volume24h)
	fmt.Fprintf(&b, "PriceChange 5m/1h/24h: %.2f%% / %.2f%% / %.2f%%\n", t.PriceChange5m, t.PriceChange1h, t.PriceChange24h)
	fmt.Fprintf(&b, "TxCount: %d  NetVolume: %.0f\n", t.TxCount, t.NetVolume)
	if vol := features.SnapshotVolatility(t.History, 30); vol > 0 {
		fmt.Fprintf(&b, "Per-tick volatility (30 samples): %.4f\n", vol)
	}
	if t.ActiveRisk != nil {
		fmt.Fprintf(&b, "Active risk: %s (%s)\n", t.ActiveRisk.Message, strings.Join(t.ActiveRisk.Details, "; "))
	}
	return b.String()
}

// extractJSON strips markdown fences some models wrap around JSON answers.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			return s[i : j+1]
		}
	}
	return s
}
