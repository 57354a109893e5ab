package vertexclient

import (
	"errors"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/surenmigorskiy-ui/duo-backend/internal/llm"
)

func TestClassifyUsesStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		want llm.ErrorKind
	}{
		{status.Error(codes.ResourceExhausted, "rpc error"), llm.KindQuota},
		{status.Error(codes.PermissionDenied, "denied"), llm.KindPermission},
		{status.Error(codes.Unauthenticated, "who"), llm.KindAuth},
		{status.Error(codes.Unavailable, "down"), llm.KindUnavailable},
		{&genai.BlockedError{}, llm.KindSafety},
		{errors.New("quota exceeded"), llm.KindQuota},
		{errors.New("strange"), llm.KindUnknown},
	}

	for _, tc := range cases {
		if got := llm.Classify(classify(tc.err)); got != tc.want {
			t.Errorf("classify(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestParseContentResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(`1}`)}}},
		},
	}
	text, blocked := parseContentResponse(resp)
	if blocked || text != `{"a":1}` {
		t.Fatalf("got %q blocked=%v", text, blocked)
	}

	safety := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
	}
	if _, blocked := parseContentResponse(safety); !blocked {
		t.Fatalf("expected safety block")
	}

	if text, blocked := parseContentResponse(nil); text != "" || blocked {
		t.Fatalf("nil response should be empty and unblocked")
	}
}

func TestBuildPartsPutsPayloadFirst(t *testing.T) {
	parts := buildParts(llm.Request{Prompt: "read", Image: []byte{1, 2}, MIMEType: "image/jpeg"})
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	blob, ok := parts[0].(genai.Blob)
	if !ok || blob.MIMEType != "image/jpeg" {
		t.Fatalf("first part should be the image blob: %#v", parts[0])
	}
	if parts[1] != genai.Text("read") {
		t.Fatalf("second part should be the prompt")
	}
}
