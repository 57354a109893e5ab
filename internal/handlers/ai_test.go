package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/surenmigorskiy-ui/duo-backend/internal/dto"
	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
	"github.com/surenmigorskiy-ui/duo-backend/internal/middleware"
)

type stubAIService struct {
	familyID string
	media    dto.MediaInput
	autofill dto.AutofillRequest
	chart    dto.ChartAdviceRequest
}

func (s *stubAIService) ParseReceipt(ctx context.Context, familyID string, in dto.MediaInput) (map[string]any, error) {
	s.familyID = familyID
	s.media = in
	return map[string]any{"amount": 1.0}, nil
}

func (s *stubAIService) ParseBulkReceipt(ctx context.Context, familyID string, in dto.MediaInput) (dto.TransactionsResponse, error) {
	s.familyID = familyID
	s.media = in
	return dto.TransactionsResponse{}, nil
}

func (s *stubAIService) ParseAudio(ctx context.Context, familyID string, in dto.MediaInput) (dto.TransactionsResponse, error) {
	s.familyID = familyID
	s.media = in
	return dto.TransactionsResponse{}, nil
}

func (s *stubAIService) FinancialAdvice(ctx context.Context, req dto.FinancialAdviceRequest) (dto.AdviceResponse, error) {
	return dto.AdviceResponse{}, nil
}

func (s *stubAIService) ChartAdvice(ctx context.Context, req dto.ChartAdviceRequest) (dto.AdviceResponse, error) {
	s.chart = req
	return dto.AdviceResponse{}, nil
}

func (s *stubAIService) Autofill(ctx context.Context, familyID string, req dto.AutofillRequest) (dto.AutofillSuggestion, error) {
	s.familyID = familyID
	s.autofill = req
	return dto.AutofillSuggestion{}, nil
}

func multipartRequest(t *testing.T, target, field, contentType string, data []byte, values map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if field != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="upload"`)
		if contentType != "" {
			header.Set("Content-Type", contentType)
		}
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write(data)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req.WithContext(context.WithValue(req.Context(), middleware.FamilyIDKey, "fam-1"))
}

func TestParseReceiptReadsMultipart(t *testing.T) {
	svc := &stubAIService{}
	resp := &stubResponseHandler{}
	routes := NewAIHandlers(&Deps{ResponseHandler: resp, AISvc: svc}).AIRoutes()

	req := multipartRequest(t, "/parse-receipt", "image", "image/png", []byte("png-bytes"), map[string]string{
		"categories": `["Food","Transport"]`,
	})
	rr := httptest.NewRecorder()
	routes.ServeHTTP(rr, req)

	if resp.handleErrorCalled {
		t.Fatalf("unexpected error: %v", resp.handleError)
	}
	if svc.familyID != "fam-1" || string(svc.media.Data) != "png-bytes" || svc.media.MIMEType != "image/png" {
		t.Fatalf("unexpected media input: %+v", svc.media)
	}
	if got := dto.Names(svc.media.Categories); len(got) != 2 || got[1] != "Transport" {
		t.Fatalf("categories not parsed: %v", got)
	}
}

func TestParseAudioSniffsContentType(t *testing.T) {
	svc := &stubAIService{}
	resp := &stubResponseHandler{}
	routes := NewAIHandlers(&Deps{ResponseHandler: resp, AISvc: svc}).AIRoutes()

	req := multipartRequest(t, "/parse-audio", "audio", "application/octet-stream", []byte("OggS\x00\x02rest"), map[string]string{
		"users": "Alena, Ivan",
	})
	rr := httptest.NewRecorder()
	routes.ServeHTTP(rr, req)

	if svc.media.MIMEType != "application/ogg" {
		t.Fatalf("expected sniffed ogg type, got %q", svc.media.MIMEType)
	}
	if got := dto.Names(svc.media.Users); len(got) != 2 || got[0] != "Alena" {
		t.Fatalf("users not parsed: %v", got)
	}
}

func TestParseReceiptMissingFile(t *testing.T) {
	svc := &stubAIService{}
	resp := &stubResponseHandler{}
	routes := NewAIHandlers(&Deps{ResponseHandler: resp, AISvc: svc}).AIRoutes()

	req := multipartRequest(t, "/parse-receipt", "", "", nil, map[string]string{"categories": "Food"})
	rr := httptest.NewRecorder()
	routes.ServeHTTP(rr, req)

	var verr *errs.ValidationError
	if !errors.As(resp.handleError, &verr) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
	if svc.familyID != "" {
		t.Fatalf("service should not be called")
	}
}

func TestAutofillDecodesOptions(t *testing.T) {
	svc := &stubAIService{}
	resp := &stubResponseHandler{}
	routes := NewAIHandlers(&Deps{ResponseHandler: resp, AISvc: svc}).AIRoutes()

	body := `{"description":"taxi home","categories":["Transport"],"paymentMethods":[{"id":"pm-1","name":"Visa","owner":"Ivan"}]}`
	req := httptest.NewRequest(http.MethodPost, "/autofill", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.FamilyIDKey, "fam-1"))
	rr := httptest.NewRecorder()
	routes.ServeHTTP(rr, req)

	if svc.familyID != "fam-1" || svc.autofill.Description != "taxi home" {
		t.Fatalf("unexpected autofill call: %+v", svc.autofill)
	}
	if len(svc.autofill.PaymentMethods) != 1 || svc.autofill.PaymentMethods[0].ID != "pm-1" {
		t.Fatalf("payment methods not decoded: %+v", svc.autofill.PaymentMethods)
	}
	if resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.writeSuccessStatus)
	}
}
