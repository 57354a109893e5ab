package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ModelLists holds the ordered candidate models per payload modality,
// most capable first.
type ModelLists struct {
	Image []string
	Audio []string
	Text  []string
}

type Config struct {
	ProjectID string
	Region    string
	LogLevel  string
	Port      string

	// Credentials are given directly or as a Secret Manager resource name
	// (projects/*/secrets/*/versions/*). Bootstrap resolves them into
	// JWTSecret and GeminiKey.
	JWTSecretValue     string
	JWTSecretName      string
	GeminiAPIKey       string
	GeminiAPIKeySecret string

	JWTSecret Credential
	GeminiKey Credential
	JWTTTL    time.Duration

	VertexProject string
	VertexRegion  string

	PrimaryModels   ModelLists
	SecondaryModels ModelLists
	AICallTimeout   time.Duration

	FrontendURL      string
	ReceiptBucket    string
	ResponseLanguage string
}

func New() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	aiTimeout := v.GetDuration("AI_CALL_TIMEOUT")
	if aiTimeout < time.Second {
		return nil, fmt.Errorf("AI_CALL_TIMEOUT must be a duration of at least 1s (e.g. \"45s\"), got %q", v.GetString("AI_CALL_TIMEOUT"))
	}

	return &Config{
		ProjectID: v.GetString("PROJECTID"),
		Region:    v.GetString("REGION"),
		LogLevel:  v.GetString("LOGLEVEL"),
		Port:      v.GetString("PORT"),

		JWTSecretValue:     v.GetString("JWT_SECRET"),
		JWTSecretName:      v.GetString("JWT_SECRET_SECRET"),
		GeminiAPIKey:       v.GetString("GEMINI_API_KEY"),
		GeminiAPIKeySecret: v.GetString("GEMINI_API_KEY_SECRET"),
		JWTTTL:             v.GetDuration("JWT_TTL"),

		VertexProject: v.GetString("VERTEX_PROJECT"),
		VertexRegion:  v.GetString("VERTEX_REGION"),

		PrimaryModels: ModelLists{
			Image: splitList(v.GetString("GEMINI_IMAGE_MODELS")),
			Audio: splitList(v.GetString("GEMINI_AUDIO_MODELS")),
			Text:  splitList(v.GetString("GEMINI_TEXT_MODELS")),
		},
		SecondaryModels: ModelLists{
			Image: splitList(v.GetString("VERTEX_IMAGE_MODELS")),
			Audio: splitList(v.GetString("VERTEX_AUDIO_MODELS")),
			Text:  splitList(v.GetString("VERTEX_TEXT_MODELS")),
		},
		AICallTimeout: aiTimeout,

		FrontendURL:      strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		ReceiptBucket:    v.GetString("RECEIPT_BUCKET"),
		ResponseLanguage: v.GetString("RESPONSE_LANGUAGE"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOGLEVEL", "info")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REGION", "us-central1")
	v.SetDefault("JWT_TTL", "720h")
	v.SetDefault("VERTEX_REGION", "us-central1")
	v.SetDefault("AI_CALL_TIMEOUT", "45s")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("RESPONSE_LANGUAGE", "Russian")

	v.SetDefault("GEMINI_IMAGE_MODELS", "gemini-2.5-flash-lite,gemini-2.5-flash,gemini-2.0-flash")
	v.SetDefault("GEMINI_AUDIO_MODELS", "gemini-2.5-flash,gemini-2.5-flash-lite,gemini-2.0-flash")
	v.SetDefault("GEMINI_TEXT_MODELS", "gemini-2.5-flash-lite,gemini-2.5-flash,gemini-2.0-flash-exp,gemini-1.5-flash")
	v.SetDefault("VERTEX_IMAGE_MODELS", "gemini-2.5-pro,gemini-2.5-flash,gemini-2.0-flash-001")
	v.SetDefault("VERTEX_AUDIO_MODELS", "gemini-2.5-pro,gemini-2.5-flash")
	v.SetDefault("VERTEX_TEXT_MODELS", "gemini-2.5-flash,gemini-2.0-flash-001")
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
