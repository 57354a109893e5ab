// Package llm generates text from hosted models, falling back across an
// ordered list of (provider, model) candidates until one succeeds.
package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/surenmigorskiy-ui/duo-backend/internal/config"
	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
	"github.com/surenmigorskiy-ui/duo-backend/pkg/logger"
)

type ProviderID string

const (
	Primary   ProviderID = "primary"
	Secondary ProviderID = "secondary"
)

const DefaultCallTimeout = 45 * time.Second

var errEmptyResponse = errors.New("model returned an empty response")

// Request is one logical generation. At most one of Image and Audio is set;
// MIMEType describes it.
type Request struct {
	Prompt         string
	Image          []byte
	Audio          []byte
	MIMEType       string
	PreferredModel string
}

// Result carries the generated text and where it came from.
type Result struct {
	Text     string
	Provider ProviderID
	Model    string
}

// Provider issues a single generation call against one model.
type Provider interface {
	Generate(ctx context.Context, model string, req Request) (string, error)
}

// Backend binds a provider to its candidate models. A nil Client means the
// provider has no credential and is skipped.
type Backend struct {
	ID     ProviderID
	Client Provider
	Models config.ModelLists
}

type Candidate struct {
	Provider ProviderID
	Model    string
}

type Generator struct {
	backends []Backend
	timeout  time.Duration
}

// NewGenerator tries backends in the given order. A non-positive timeout
// uses DefaultCallTimeout.
func NewGenerator(timeout time.Duration, backends ...Backend) *Generator {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Generator{backends: backends, timeout: timeout}
}

// Configured reports whether any backend has a client.
func (g *Generator) Configured() bool {
	for _, b := range g.backends {
		if b.Client != nil {
			return true
		}
	}
	return false
}

// Plan returns the candidates Generate will try, in order. The preferred
// model, if any, goes first for the primary provider only.
func (g *Generator) Plan(req Request) []Candidate {
	var plan []Candidate
	for _, b := range g.backends {
		if b.Client == nil {
			continue
		}
		models := modelsFor(b.Models, req)
		if b.ID == Primary && req.PreferredModel != "" {
			models = prepend(req.PreferredModel, models)
		}
		for _, m := range models {
			plan = append(plan, Candidate{Provider: b.ID, Model: m})
		}
	}
	return plan
}

// MaxAttempts is the worst-case number of billed calls for req.
func (g *Generator) MaxAttempts(req Request) int {
	return len(g.Plan(req))
}

// Generate walks the plan sequentially and returns the first non-empty
// result. Cancellation of ctx is not propagated: once started, the chain runs
// to success or exhaustion, each call bounded by the per-call timeout.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	ctx = context.WithoutCancel(ctx)
	log := logger.FromContext(ctx)

	plan := g.Plan(req)
	if len(plan) == 0 {
		return Result{}, errs.NewProviderUnconfiguredError()
	}
	log.Debug("generation started", "max_attempts", len(plan), "modality", modality(req))

	var (
		lastErr  error
		lastKind = KindUnknown
	)
	for i, c := range plan {
		text, err := g.attempt(ctx, c, req)
		if err == nil {
			if i > 0 {
				log.Info("generation succeeded after fallback", "provider", c.Provider, "model", c.Model, "attempt", i+1)
			}
			return Result{Text: text, Provider: c.Provider, Model: c.Model}, nil
		}

		lastErr, lastKind = err, Classify(err)
		log.Warn("model attempt failed",
			"provider", c.Provider,
			"model", c.Model,
			"attempt", i+1,
			"kind", lastKind,
			"error", err)
	}

	return Result{}, errs.NewGenerationFailedError(len(plan), string(lastKind), lastErr)
}

func (g *Generator) attempt(ctx context.Context, c Candidate, req Request) (string, error) {
	client := g.client(c.Provider)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := client.Generate(callCtx, c.Model, req)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", &ProviderError{Kind: KindTimeout, Err: err}
		}
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", &ProviderError{Kind: KindUnknown, Err: errEmptyResponse}
	}
	return text, nil
}

func (g *Generator) client(id ProviderID) Provider {
	for _, b := range g.backends {
		if b.ID == id {
			return b.Client
		}
	}
	return nil
}

func modality(req Request) string {
	switch {
	case len(req.Image) > 0:
		return "image"
	case len(req.Audio) > 0:
		return "audio"
	default:
		return "text"
	}
}

func modelsFor(lists config.ModelLists, req Request) []string {
	switch modality(req) {
	case "image":
		return lists.Image
	case "audio":
		return lists.Audio
	default:
		return lists.Text
	}
}

func prepend(first string, rest []string) []string {
	out := make([]string, 0, len(rest)+1)
	out = append(out, first)
	for _, m := range rest {
		if m != first {
			out = append(out, m)
		}
	}
	return out
}
