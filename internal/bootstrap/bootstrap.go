package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"

	geminiclient "github.com/surenmigorskiy-ui/duo-backend/internal/client/gemini"
	vertexclient "github.com/surenmigorskiy-ui/duo-backend/internal/client/vertex"
	"github.com/surenmigorskiy-ui/duo-backend/internal/config"
	"github.com/surenmigorskiy-ui/duo-backend/internal/llm"
	"github.com/surenmigorskiy-ui/duo-backend/internal/secrets"
	"github.com/surenmigorskiy-ui/duo-backend/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Secrets   *secretmanager.Client
	Storage   *storage.Client
	Gemini    *geminiclient.Adapter
	Vertex    *vertexclient.Adapter
}

// Run builds the process-wide clients and resolves credentials into cfg.
// Optional integrations (AI providers, receipt archive) are created only
// when configured.
func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudLoggingHandler)
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}

	if err := bs.resolveCredentials(applicationCtx, cfg); err != nil {
		return bs, err
	}

	if cfg.ReceiptBucket != "" {
		bs.Storage, err = storage.NewClient(applicationCtx)
		if err != nil {
			return bs, err
		}
	}

	if key, ok := cfg.GeminiKey.Get(); ok {
		bs.Gemini, err = geminiclient.NewAdapter(applicationCtx, bs.Log, key)
		if err != nil {
			return bs, err
		}
	}
	if cfg.VertexProject != "" {
		bs.Vertex, err = vertexclient.NewAdapter(applicationCtx, bs.Log, cfg.VertexProject, cfg.VertexRegion)
		if err != nil {
			return bs, err
		}
	}

	bs.Log.Info("bootstrap complete",
		"gemini", cfg.GeminiKey.String(),
		"vertex_project", cfg.VertexProject,
		"receipt_bucket", cfg.ReceiptBucket)
	return bs, nil
}

func (bs *Bootstrap) resolveCredentials(ctx context.Context, cfg *config.Config) error {
	var resolver *secrets.Resolver
	if cfg.JWTSecretName != "" || cfg.GeminiAPIKeySecret != "" {
		client, err := secretmanager.NewClient(ctx)
		if err != nil {
			return err
		}
		bs.Secrets = client
		resolver = secrets.NewResolver(client, cfg.ProjectID)
	}

	jwtSecret, err := resolver.Resolve(ctx, cfg.JWTSecretValue, cfg.JWTSecretName)
	if err != nil {
		return err
	}
	if !jwtSecret.Present() {
		return errors.New("JWT_SECRET or JWT_SECRET_SECRET must be set")
	}
	cfg.JWTSecret = jwtSecret

	cfg.GeminiKey, err = resolver.Resolve(ctx, cfg.GeminiAPIKey, cfg.GeminiAPIKeySecret)
	return err
}

// Generator wires the configured providers in fallback order: the Gemini
// API first, then Vertex AI.
func (bs *Bootstrap) Generator(cfg *config.Config) *llm.Generator {
	primary := llm.Backend{ID: llm.Primary, Models: cfg.PrimaryModels}
	if bs.Gemini != nil {
		primary.Client = bs.Gemini
	}
	secondary := llm.Backend{ID: llm.Secondary, Models: cfg.SecondaryModels}
	if bs.Vertex != nil {
		secondary.Client = bs.Vertex
	}
	return llm.NewGenerator(cfg.AICallTimeout, primary, secondary)
}

func (bs *Bootstrap) Close() {
	if bs.Vertex != nil {
		bs.Vertex.Close()
	}
	if bs.Storage != nil {
		if err := bs.Storage.Close(); err != nil {
			bs.Log.Error("failed to close storage client", "error", err)
		}
	}
	if bs.Secrets != nil {
		if err := bs.Secrets.Close(); err != nil {
			bs.Log.Error("failed to close secret manager client", "error", err)
		}
	}
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Error("failed to close firestore client", "error", err)
		}
	}
}
