package fit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"fitroom/internal/catalog"
	"fitroom/internal/models"
)

const defaultScoringModel = "gemini-2.0-flash"

// GeminiScorer delegates scoring to a generative model, mirroring the
// prompt contract of the scoring backend: a JSON object of size label to
// best-fit score between 0 and 100. Output is validated against the chart
// before it is returned; anything malformed is an error so the caller can
// degrade to "no recommendation available".
type GeminiScorer struct {
	client *genai.Client
	model  string
}

func NewGeminiScorer(ctx context.Context, apiKey, model string) (*GeminiScorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("NewGeminiScorer(): API key is required")
	}
	if model == "" {
		model = defaultScoringModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiScorer(): failed to create client: %w", err)
	}
	return &GeminiScorer{client: client, model: model}, nil
}

func (s *GeminiScorer) Score(ctx context.Context, user models.Measurements, chart catalog.SizeChart, garmentType string) (map[string]int, error) {
	resp, err := s.client.Models.GenerateContent(ctx,
		s.model,
		genai.Text(buildScoringPrompt(user, chart, garmentType)),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		log.Printf("GeminiScorer.Score(): generate failed: %v", err)
		return nil, err
	}

	var raw map[string]float64
	if err := json.Unmarshal([]byte(resp.Text()), &raw); err != nil {
		log.Printf("GeminiScorer.Score(): malformed model output: %v", err)
		return nil, err
	}

	scores := make(map[string]int, len(chart.Sizes))
	for _, size := range chart.Sizes {
		v, ok := raw[size]
		if !ok {
			return nil, fmt.Errorf("GeminiScorer.Score(): model output missing size %q", size)
		}
		scores[size] = clampScore(v)
	}
	return scores, nil
}

func buildScoringPrompt(user models.Measurements, chart catalog.SizeChart, garmentType string) string {
	var b strings.Builder
	b.WriteString("You are a fit recommendation expert. Cross-reference the user's measurements with the brand size chart and output a best-fit score for each garment size.\n\n")
	b.WriteString("User Measurements:\n")
	for key, v := range user {
		fmt.Fprintf(&b, "%s: %.1f\n", key, v)
	}
	b.WriteString("\nBrand Size Chart:\n")
	for _, size := range chart.Sizes {
		fmt.Fprintf(&b, "Size %s:\n", size)
		for key, v := range chart.Rows[size] {
			fmt.Fprintf(&b, "  %s: %.1f\n", key, v)
		}
	}
	fmt.Fprintf(&b, "\nGarment Type: %s\n\n", garmentType)
	b.WriteString("Return a JSON object of key-value pairs of size and a best-fit score between 0 and 100.\n")
	return b.String()
}
