package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
)

type openaiGenerator struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	embedModel string
}

// NewOpenAIGenerator builds a Generator backed by the OpenAI embeddings API.
func NewOpenAIGenerator(log *logger.Logger) (Generator, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	embed := strings.TrimSpace(os.Getenv("OPENAI_EMBED_MODEL"))
	if embed == "" {
		embed = "text-embedding-3-small"
	}

	timeoutSec := 60
	if v := os.Getenv("OPENAI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &openaiGenerator{
		log:        log.With("client", "OpenAIEmbedder"),
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		embedModel: embed,
	}, nil
}

// ChunkContent splits content on sentence boundaries into embeddable spans.
func ChunkContent(content string) []string {
	parts := strings.Split(content, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		trimmed := strings.TrimSpace(content)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (g *openaiGenerator) GenerateEmbeddings(ctx context.Context, content string) ([]Chunk, error) {
	texts := ChunkContent(content)
	if len(texts) == 0 {
		return []Chunk{}, nil
	}

	vecs, err := g.embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("openai embeddings count mismatch: requested=%d returned=%d", len(texts), len(vecs))
	}

	chunks := make([]Chunk, len(texts))
	for i := range texts {
		chunks[i] = Chunk{Text: texts[i], Vector: vecs[i]}
	}
	return chunks, nil
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (g *openaiGenerator) embed(ctx context.Context, inputs []string) ([][]float32, error) {
	req := embeddingsRequest{
		Model: g.embedModel,
		Input: inputs,
	}

	var resp embeddingsResponse
	if err := g.do(ctx, "POST", "/v1/embeddings", req, &resp); err != nil {
		return nil, err
	}

	out := make([][]float32, len(inputs))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			vec[i] = float32(f)
		}
		if d.Index >= 0 && d.Index < len(out) {
			out[d.Index] = vec
		}
	}

	for i := range out {
		if out[i] == nil {
			return nil, fmt.Errorf("openai embeddings missing index %d: requested=%d returned=%d model=%s", i, len(inputs), len(resp.Data), g.embedModel)
		}
	}
	return out, nil
}

func (g *openaiGenerator) do(ctx context.Context, method, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("openai request: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		g.log.Warn("OpenAI request failed", "status", httpResp.StatusCode, "path", path)
		return fmt.Errorf("openai %s %s: status %d", method, path, httpResp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
