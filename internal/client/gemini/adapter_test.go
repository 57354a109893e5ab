package geminiclient

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/surenmigorskiy-ui/duo-backend/internal/llm"
	"github.com/surenmigorskiy-ui/duo-backend/pkg/helpers"
)

type stubModels struct {
	model    string
	contents []*genai.Content
	resp     *genai.GenerateContentResponse
	err      error
}

func (s *stubModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.model = model
	s.contents = contents
	return s.resp, s.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
}

func TestGenerateSendsImageThenPrompt(t *testing.T) {
	stub := &stubModels{resp: textResponse(`{"amount": 5}`)}
	a := &Adapter{models: stub}

	got, err := a.Generate(helpers.TestCtx(), "gemini-2.5-flash", llm.Request{
		Prompt:   "parse",
		Image:    []byte{0xff},
		MIMEType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"amount": 5}` {
		t.Fatalf("unexpected text %q", got)
	}
	if stub.model != "gemini-2.5-flash" {
		t.Fatalf("model = %q", stub.model)
	}
	parts := stub.contents[0].Parts
	if len(parts) != 2 || parts[0].InlineData == nil || parts[0].InlineData.MIMEType != "image/jpeg" || parts[1].Text != "parse" {
		t.Fatalf("unexpected parts: %#v", parts)
	}
}

func TestGenerateClassifiesAPIError(t *testing.T) {
	cases := []struct {
		err  error
		want llm.ErrorKind
	}{
		{genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota"}, llm.KindQuota},
		{genai.APIError{Code: 403, Message: "denied"}, llm.KindPermission},
		{genai.APIError{Code: 400, Status: "INVALID_ARGUMENT", Message: "API key not valid"}, llm.KindAuth},
		{errors.New("connection reset"), llm.KindUnknown},
	}

	for _, tc := range cases {
		a := &Adapter{models: &stubModels{err: tc.err}}
		_, err := a.Generate(helpers.TestCtx(), "m", llm.Request{Prompt: "x"})
		if got := llm.Classify(err); got != tc.want {
			t.Errorf("%v: kind = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestGenerateSafetyBlock(t *testing.T) {
	stub := &stubModels{resp: &genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
	}}
	a := &Adapter{models: stub}

	_, err := a.Generate(helpers.TestCtx(), "m", llm.Request{Prompt: "x"})
	if llm.Classify(err) != llm.KindSafety {
		t.Fatalf("expected safety kind, got %v", err)
	}
}

func TestGenerateRequiresContent(t *testing.T) {
	a := &Adapter{models: &stubModels{}}
	if _, err := a.Generate(helpers.TestCtx(), "m", llm.Request{}); err == nil {
		t.Fatalf("expected error for empty request")
	}
}
