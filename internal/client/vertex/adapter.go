package vertexclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/surenmigorskiy-ui/duo-backend/internal/llm"
)

const temperature = 0.2

// Adapter serves the secondary provider through Vertex AI using project
// credentials.
type Adapter struct {
	client *genai.Client
	log    *slog.Logger
}

func NewAdapter(ctx context.Context, log *slog.Logger, projectID, region string) (*Adapter, error) {
	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		client: client,
		log:    log,
	}, nil
}

func (a *Adapter) Close() error {
	err := a.client.Close()
	if err != nil && a.log != nil {
		a.log.Error("vertex adapter close failed", "error", err)
	}
	return err
}

func (a *Adapter) Generate(ctx context.Context, modelName string, req llm.Request) (string, error) {
	if modelName == "" {
		return "", fmt.Errorf("vertex model is required")
	}

	model := a.client.GenerativeModel(modelName)
	model.SetTemperature(temperature)

	parts := buildParts(req)
	if len(parts) == 0 {
		return "", fmt.Errorf("vertex generate request has no content")
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", classify(err)
	}

	text, blocked := parseContentResponse(resp)
	if blocked {
		return "", &llm.ProviderError{Kind: llm.KindSafety, Err: errors.New("vertex response blocked by safety filter")}
	}
	return text, nil
}

func buildParts(req llm.Request) []genai.Part {
	var parts []genai.Part
	switch {
	case len(req.Image) > 0:
		parts = append(parts, genai.Blob{MIMEType: req.MIMEType, Data: req.Image})
	case len(req.Audio) > 0:
		parts = append(parts, genai.Blob{MIMEType: req.MIMEType, Data: req.Audio})
	}
	if req.Prompt != "" {
		parts = append(parts, genai.Text(req.Prompt))
	}
	return parts
}

// parseContentResponse joins the text parts of every candidate and reports
// whether the only candidates were stopped by the safety filter.
func parseContentResponse(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}

	var text strings.Builder
	blocked := true
	for _, candidate := range resp.Candidates {
		if candidate.FinishReason != genai.FinishReasonSafety {
			blocked = false
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if p, ok := part.(genai.Text); ok {
				text.WriteString(string(p))
			}
		}
	}

	return text.String(), blocked && text.Len() == 0
}

func classify(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &llm.ProviderError{Kind: llm.KindSafety, Err: err}
	}

	kind := kindFromCode(status.Code(err))
	if kind == llm.KindUnknown {
		kind = llm.ClassifyMessage(err.Error())
	}
	return &llm.ProviderError{Kind: kind, Err: err}
}

func kindFromCode(code codes.Code) llm.ErrorKind {
	switch code {
	case codes.ResourceExhausted:
		return llm.KindQuota
	case codes.PermissionDenied:
		return llm.KindPermission
	case codes.Unauthenticated:
		return llm.KindAuth
	case codes.DeadlineExceeded:
		return llm.KindTimeout
	case codes.Unavailable:
		return llm.KindUnavailable
	default:
		return llm.KindUnknown
	}
}
