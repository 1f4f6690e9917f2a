package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/minsung-dev/choomup/internal/models"
	"github.com/minsung-dev/choomup/internal/shared"
)

const systemPrompt = "You are a K-pop expert. You extract the artist and song title " +
	"from dance cover video filenames, using only what is literally present in the filename."

const promptHeader = `For each of the following dance cover filenames, extract the artist and song title.

Rules:
1. Use only names literally present in the filename or its hashtags. Never infer an artist or title that is not written there.
2. If the artist or title is not clearly present, set it to null.
3. Grade your confidence as "high", "medium" or "low".

Respond with a JSON array, one object per filename, in the same order:
[{"artist": "...or null", "title": "...or null", "confidence": "high|medium|low"}]

Filenames:
`

// OpenAIExtractor implements [MetadataExtractor] against an OpenAI-compatible
// chat-completions endpoint.
type OpenAIExtractor struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIExtractor creates an extractor. A nil client falls back to
// [http.DefaultClient].
func NewOpenAIExtractor(baseURL, apiKey, model string, client *http.Client) *OpenAIExtractor {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenAIExtractor{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: client,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
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

type extractionRow struct {
	Artist     models.NullString `json:"artist"`
	Title      models.NullString `json:"title"`
	Confidence models.Confidence `json:"confidence"`
}

// ExtractBatch cleans the filenames, asks the model for artist/title/
// confidence, and pairs the verdicts back with the originals by position.
func (o *OpenAIExtractor) ExtractBatch(ctx context.Context, filenames []string) ([]Extraction, error) {
	cleaned := make([]string, len(filenames))
	var prompt strings.Builder
	prompt.WriteString(promptHeader)
	for i, f := range filenames {
		cleaned[i] = CleanFilename(f)
		fmt.Fprintf(&prompt, "%d. %s\n", i+1, cleaned[i])
	}

	content, err := o.complete(ctx, prompt.String())
	if err != nil {
		return nil, err
	}

	var rows []extractionRow
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &rows); err != nil {
		return nil, fmt.Errorf("%w: unparsable extraction response: %v", shared.ErrAPIRequest, err)
	}
	if len(rows) != len(filenames) {
		return nil, fmt.Errorf("%w: got %d extractions for %d filenames", shared.ErrAPIRequest, len(rows), len(filenames))
	}

	out := make([]Extraction, len(filenames))
	for i, row := range rows {
		out[i] = Extraction{
			OriginalFilename: filenames[i],
			CleanedFilename:  cleaned[i],
			Artist:           row.Artist,
			Title:            row.Title,
			Confidence:       row.Confidence,
		}
	}
	return out, nil
}

// complete performs one chat-completions round trip.
func (o *OpenAIExtractor) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", shared.ErrAPIRequest)
	}
	return parsed.Choices[0].Message.Content, nil
}

// stripCodeFence unwraps a ```json … ``` fenced block if the model added one.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
