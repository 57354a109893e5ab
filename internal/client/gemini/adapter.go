package geminiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/surenmigorskiy-ui/duo-backend/internal/llm"
	"github.com/surenmigorskiy-ui/duo-backend/pkg/helpers"
)

// Adapter serves the primary provider through the Gemini Developer API.
type Adapter struct {
	models contentGenerator
	log    *slog.Logger
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func NewAdapter(ctx context.Context, log *slog.Logger, apiKey string) (*Adapter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &Adapter{
		models: client.Models,
		log:    log,
	}, nil
}

func (a *Adapter) Generate(ctx context.Context, model string, req llm.Request) (string, error) {
	if model == "" {
		return "", fmt.Errorf("gemini model is required")
	}

	var parts []*genai.Part
	switch {
	case len(req.Image) > 0:
		parts = append(parts, genai.NewPartFromBytes(req.Image, req.MIMEType))
	case len(req.Audio) > 0:
		parts = append(parts, genai.NewPartFromBytes(req.Audio, req.MIMEType))
	}
	if req.Prompt != "" {
		parts = append(parts, genai.NewPartFromText(req.Prompt))
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("gemini generate request has no content")
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := a.models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
		Temperature: helpers.Ptr(float32(0.2)),
	})
	if err != nil {
		return "", classify(err)
	}
	if reason := blockReason(resp); reason != "" {
		return "", &llm.ProviderError{Kind: llm.KindSafety, Err: fmt.Errorf("gemini response blocked: %s", reason)}
	}
	return resp.Text(), nil
}

func blockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		return string(fb.BlockReason)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return string(genai.FinishReasonSafety)
	}
	return ""
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		kind := kindFromStatus(apiErr.Status)
		if kind == llm.KindUnknown {
			kind = llm.KindFromHTTPStatus(apiErr.Code)
		}
		if kind == llm.KindUnknown {
			kind = llm.ClassifyMessage(apiErr.Message)
		}
		return &llm.ProviderError{Kind: kind, Err: err}
	}
	return &llm.ProviderError{Kind: llm.ClassifyMessage(err.Error()), Err: err}
}

func kindFromStatus(status string) llm.ErrorKind {
	switch status {
	case "RESOURCE_EXHAUSTED":
		return llm.KindQuota
	case "PERMISSION_DENIED":
		return llm.KindPermission
	case "UNAUTHENTICATED":
		return llm.KindAuth
	case "DEADLINE_EXCEEDED":
		return llm.KindTimeout
	case "UNAVAILABLE":
		return llm.KindUnavailable
	default:
		return llm.KindUnknown
	}
}
