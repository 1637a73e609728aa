package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"alfredoptarigan/career-pilot/internal/config"
	"alfredoptarigan/career-pilot/internal/models"
)

// LLMClient is the only seam to the hosted model. A request carries either an
// output contract (structured answer) or tools (the model may ask for a call).
type LLMClient interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type GenerateRequest struct {
	SystemInstruction string
	History           []models.ConversationTurn
	Prompt            string
	Contract          *OutputContract
	Tools             []ToolDefinition
	Temperature       float32
}

type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

type ToolCall struct {
	Name string
	Args map[string]any
}

type GenerateResponse struct {
	Text      string
	ToolCalls []ToolCall
}

const (
	maxModelAttempts   = 2
	maxOutputTokens    = 4096
	maxEmbeddingLength = 40000
)

// errEmptyResponse marks a call that succeeded on the wire but produced nothing usable.
var errEmptyResponse = errors.New("no content in model response")

type GeminiClient struct {
	client     *genai.Client
	modelName  string
	embedModel string
	limiter    *rate.Limiter
	timeout    time.Duration
	log        *zap.Logger
}

func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig, log *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client:     client,
		modelName:  cfg.Model,
		embedModel: cfg.EmbedModel,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
		timeout:    cfg.Timeout,
		log:        log.Named("gemini"),
	}, nil
}

// Generate sends one request, retrying once on transient transport failures.
func (g *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	contents := buildContents(req.History, req.Prompt)
	genConfig := buildGenerateConfig(req)

	var lastErr error
	for attempt := 1; attempt <= maxModelAttempts; attempt++ {
		resp, err := g.generateOnce(ctx, contents, genConfig)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isTransient(ctx, err) {
			break
		}
		if attempt < maxModelAttempts {
			g.log.Warn("model call failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrModelCallFailed, lastErr)
}

func (g *GeminiClient) generateOnce(ctx context.Context, contents []*genai.Content, genConfig *genai.GenerateContentConfig) (*GenerateResponse, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := time.Now()
	resp, err := g.client.Models.GenerateContent(callCtx, g.modelName, contents, genConfig)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", errEmptyResponse)
	}

	out := &GenerateResponse{Text: resp.Text()}
	for _, call := range resp.FunctionCalls() {
		out.ToolCalls = append(out.ToolCalls, ToolCall{Name: call.Name, Args: call.Args})
	}

	g.log.Debug("model response received",
		zap.String("model", g.modelName),
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("tool_calls", len(out.ToolCalls)),
	)

	if out.Text == "" && len(out.ToolCalls) == 0 {
		return nil, fmt.Errorf("%w: no text or tool calls", errEmptyResponse)
	}
	return out, nil
}

// Embed implements Embedder.
func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	text = truncateUTF8(text, maxEmbeddingLength)

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelCallFailed, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.client.Models.EmbedContent(callCtx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate embedding: %v", ErrModelCallFailed, err)
	}
	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: empty embedding result", ErrModelCallFailed)
	}

	return result.Embeddings[0].Values, nil
}

func buildContents(history []models.ConversationTurn, prompt string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		if turn.Content == "" {
			continue
		}
		role := genai.Role(genai.RoleUser)
		if turn.Role == models.ConversationRoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	if prompt != "" {
		contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))
	}
	return contents
}

func buildGenerateConfig(req GenerateRequest) *genai.GenerateContentConfig {
	temperature := req.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxOutputTokens,
	}

	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	// the API rejects a JSON response type combined with function calling
	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, tool := range req.Tools {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:                 tool.Name,
				Description:          tool.Description,
				ParametersJsonSchema: tool.Parameters,
			})
		}
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	} else if req.Contract != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseJsonSchema = req.Contract.Schema
	}

	return cfg
}

// isTransient reports whether a failed call is worth repeating. Only
// transport-level failures qualify; an empty answer does not.
func isTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return true
	case errors.Is(err, io.ErrUnexpectedEOF):
		return true
	case errors.As(err, &netErr):
		return true
	default:
		return false
	}
}

// truncateUTF8 cuts text to at most limit bytes without splitting a rune.
func truncateUTF8(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
