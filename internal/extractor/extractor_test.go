package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/minsung-dev/choomup/internal/models"
	"github.com/minsung-dev/choomup/internal/shared"
	th "github.com/minsung-dev/choomup/internal/testing"
)

func TestCleanFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"BracketedTags", "[MIRRORED] aespa Whiplash.mp4", "aespa Whiplash"},
		{"Parentheses", "IVE Rebel Heart (dance practice).mp4", "IVE Rebel Heart"},
		{"NoiseKeywords", "NewJeans Supernatural dance cover mirrored.mp4", "NewJeans Supernatural"},
		{"SeparatorRuns", "ILLIT___Cherish--My-Love.mp4", "ILLIT Cherish My Love"},
		{"CaseInsensitiveNoise", "BLACKPINK Jump DANCE COVER.mov", "BLACKPINK Jump"},
		{"KeepsHashtags", "#kpop LE SSERAFIM Crazy.mp4", "#kpop LE SSERAFIM Crazy"},
		{"Plain", "Crazy.mp4", "Crazy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanFilename(tt.input); got != tt.want {
				t.Errorf("CleanFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractionEntry(t *testing.T) {
	t.Run("ArtistAndTitle", func(t *testing.T) {
		entry := Extraction{
			OriginalFilename: "a.mp4",
			Artist:           models.String("aespa"),
			Title:            models.String("Whiplash"),
			Confidence:       models.ConfidenceHigh,
		}.Entry()

		if entry.FinalFormat != "aespa - Whiplash" {
			t.Errorf("Expected 'aespa - Whiplash', got %q", entry.FinalFormat)
		}
		if !entry.Uploadable() {
			t.Error("High-confidence entry with title should be uploadable")
		}
	})

	t.Run("TitleOnly", func(t *testing.T) {
		entry := Extraction{
			OriginalFilename: "a.mp4",
			Title:            models.String("Whiplash"),
			Confidence:       models.ConfidenceMedium,
		}.Entry()

		if entry.FinalFormat != "Whiplash" {
			t.Errorf("Expected 'Whiplash', got %q", entry.FinalFormat)
		}
		if entry.Uploadable() {
			t.Error("Medium-confidence entry must not be uploadable")
		}
	})

	t.Run("NoTitle", func(t *testing.T) {
		entry := Extraction{OriginalFilename: "a.mp4", Confidence: models.ConfidenceLow}.Entry()
		if entry.FinalFormat != "" {
			t.Errorf("Expected empty final format, got %q", entry.FinalFormat)
		}
	})
}

func completionBody(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func TestExtractBatch(t *testing.T) {
	t.Run("PairsVerdictsByPosition", func(t *testing.T) {
		rt := &th.MockRoundTripper{
			Response: th.JSONResponse(http.StatusOK, completionBody(`[
				{"artist": "aespa", "title": "Whiplash", "confidence": "high"},
				{"artist": null, "title": "Magnetic", "confidence": "medium"}
			]`)),
		}
		ex := NewOpenAIExtractor("https://api.test", "key", "gpt-4o-mini", &http.Client{Transport: rt})

		got, err := ex.ExtractBatch(context.Background(), []string{
			"[MIRRORED] aespa Whiplash dance cover.mp4",
			"Magnetic.mp4",
		})
		if err != nil {
			t.Fatalf("ExtractBatch failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 extractions, got %d", len(got))
		}
		if got[0].OriginalFilename != "[MIRRORED] aespa Whiplash dance cover.mp4" {
			t.Errorf("Original filename must be preserved, got %q", got[0].OriginalFilename)
		}
		if got[0].CleanedFilename != "aespa Whiplash" {
			t.Errorf("Expected cleaned filename 'aespa Whiplash', got %q", got[0].CleanedFilename)
		}
		if got[0].Artist.Or("") != "aespa" || got[0].Confidence != models.ConfidenceHigh {
			t.Errorf("Unexpected first verdict: %+v", got[0])
		}
		if got[1].Artist.Valid {
			t.Error("Null artist must decode as invalid")
		}

		if len(rt.Requests) != 1 {
			t.Fatalf("Expected 1 request, got %d", len(rt.Requests))
		}
		req := rt.Requests[0]
		if req.URL.String() != "https://api.test/chat/completions" {
			t.Errorf("Unexpected URL: %s", req.URL)
		}
		if req.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("Missing bearer auth, got %q", req.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(req.Body)
		if !strings.Contains(string(body), "1. aespa Whiplash") {
			t.Errorf("Prompt should list cleaned filenames, got %s", body)
		}
	})

	t.Run("UnwrapsCodeFence", func(t *testing.T) {
		content := "```json\n[{\"artist\": \"IVE\", \"title\": \"Rebel Heart\", \"confidence\": \"high\"}]\n```"
		rt := &th.MockRoundTripper{Response: th.JSONResponse(http.StatusOK, completionBody(content))}
		ex := NewOpenAIExtractor("https://api.test", "key", "", &http.Client{Transport: rt})

		got, err := ex.ExtractBatch(context.Background(), []string{"a.mp4"})
		if err != nil {
			t.Fatalf("ExtractBatch failed: %v", err)
		}
		if got[0].Title.Or("") != "Rebel Heart" {
			t.Errorf("Unexpected verdict: %+v", got[0])
		}
	})

	t.Run("CountMismatch", func(t *testing.T) {
		rt := &th.MockRoundTripper{
			Response: th.JSONResponse(http.StatusOK, completionBody(`[{"artist": null, "title": null, "confidence": "low"}]`)),
		}
		ex := NewOpenAIExtractor("https://api.test", "key", "", &http.Client{Transport: rt})

		_, err := ex.ExtractBatch(context.Background(), []string{"a.mp4", "b.mp4"})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("Expected ErrAPIRequest for count mismatch, got %v", err)
		}
	})

	t.Run("UnparsableVerdicts", func(t *testing.T) {
		rt := &th.MockRoundTripper{Response: th.JSONResponse(http.StatusOK, completionBody("sorry, I cannot help"))}
		ex := NewOpenAIExtractor("https://api.test", "key", "", &http.Client{Transport: rt})

		if _, err := ex.ExtractBatch(context.Background(), []string{"a.mp4"}); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("Expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("HTTPError", func(t *testing.T) {
		rt := &th.MockRoundTripper{Response: th.JSONResponse(http.StatusTooManyRequests, `{"error": "rate limited"}`)}
		ex := NewOpenAIExtractor("https://api.test", "key", "", &http.Client{Transport: rt})

		if _, err := ex.ExtractBatch(context.Background(), []string{"a.mp4"}); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("Expected ErrAPIRequest for 429, got %v", err)
		}
	})

	t.Run("TransportError", func(t *testing.T) {
		rt := &th.MockRoundTripper{Err: errors.New("connection refused")}
		ex := NewOpenAIExtractor("https://api.test", "key", "", &http.Client{Transport: rt})

		if _, err := ex.ExtractBatch(context.Background(), []string{"a.mp4"}); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("Expected ErrAPIRequest for transport failure, got %v", err)
		}
	})
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Plain", `[1, 2]`, `[1, 2]`},
		{"JSONFence", "```json\n[1]\n```", "[1]"},
		{"BareFence", "```\n[1]\n```", "[1]"},
		{"Whitespace", "  [1]  ", "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.input); got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
