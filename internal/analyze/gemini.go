// Package analyze sends extraction results to the Gemini API for natural-language
// analysis. It is a read-only consumer of the extraction result: it neither mutates
// the result nor retries failed requests on the caller's behalf.
package analyze

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/stevebcampbell/vsdx-extraction/internal/vsdx"
)

// defaultModel is used when Config.Model is empty.
const defaultModel = "gemini-2.0-flash-exp"

// Config carries the credential and model choice explicitly; this package holds
// no global state and does not read the environment itself.
type Config struct {
	APIKey string
	Model  string
}

// Analyzer is a Gemini-backed analyzer for extraction results.
type Analyzer struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewAnalyzer creates an Analyzer. The API key is required; the caller decides
// where it comes from (config file, environment, .env).
func NewAnalyzer(ctx context.Context, cfg Config) (*Analyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2) // low temperature for technical accuracy

	return &Analyzer{client: client, model: model}, nil
}

// Close releases the underlying client.
func (a *Analyzer) Close() error {
	return a.client.Close()
}

// AnalyzeExtraction asks Gemini for a structured analysis of the whole extraction.
// Refuses failed extractions: collaborators must not analyze when Success is false.
func (a *Analyzer) AnalyzeExtraction(ctx context.Context, result *vsdx.Result, summary vsdx.Summary) (string, error) {
	if !result.Success {
		return "", fmt.Errorf("cannot analyze a failed extraction: %s", result.Error)
	}
	return a.generate(ctx, ExtractionPrompt(result, summary))
}

// AnalyzePage asks Gemini about a single page; xmlContent is an optional raw XML
// sample (truncated before sending).
func (a *Analyzer) AnalyzePage(ctx context.Context, part vsdx.Part, xmlContent string) (string, error) {
	return a.generate(ctx, PagePrompt(part, xmlContent))
}

func (a *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}
