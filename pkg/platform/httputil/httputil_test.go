package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "tapclaim/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDesc   string
	}{
		{
			name:       "bad request carries its description",
			err:        dErrors.New(dErrors.CodeBadRequest, "request body must be valid JSON"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
			wantDesc:   "request body must be valid JSON",
		},
		{
			name:       "validation maps to 400",
			err:        dErrors.New(dErrors.CodeValidation, "ethAddress must be a 0x-prefixed 20-byte hex string"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_error",
			wantDesc:   "ethAddress must be a 0x-prefixed 20-byte hex string",
		},
		{
			name:       "unauthorized maps to 401",
			err:        dErrors.New(dErrors.CodeUnauthorized, "signature verification failed"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthorized",
			wantDesc:   "signature verification failed",
		},
		{
			name:       "conflict maps to 409",
			err:        dErrors.New(dErrors.CodeConflict, "a registration already exists for this address pair"),
			wantStatus: http.StatusConflict,
			wantCode:   "conflict",
			wantDesc:   "a registration already exists for this address pair",
		},
		{
			name:       "internal hides its message",
			err:        dErrors.New(dErrors.CodeInternal, "pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
		{
			name:       "untyped error is treated as internal",
			err:        http.ErrBodyNotAllowed,
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body["error"] != tt.wantCode {
				t.Fatalf("expected error code %q, got %q", tt.wantCode, body["error"])
			}
			if tt.wantDesc == "" {
				if desc, ok := body["error_description"]; ok {
					t.Fatalf("expected error_description to be omitted, got %q", desc)
				}
			} else if body["error_description"] != tt.wantDesc {
				t.Fatalf("expected description %q, got %q", tt.wantDesc, body["error_description"])
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]bool{"success": true})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"success":true}` {
		t.Fatalf("unexpected body: %s", got)
	}
}

type decodeReq struct {
	Name string `json:"name"`
}

func (r *decodeReq) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("malformed JSON returns bad_request", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))

		_, ok := DecodeAndPrepare[decodeReq](w, r, nil, r.Context(), "req-1")
		if ok {
			t.Fatal("expected decode to fail")
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "bad_request" {
			t.Fatalf("expected error code bad_request, got %q", body["error"])
		}
	})

	t.Run("validation failure writes domain error", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`))

		_, ok := DecodeAndPrepare[decodeReq](w, r, nil, r.Context(), "req-2")
		if ok {
			t.Fatal("expected validation to fail")
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "validation_error" {
			t.Fatalf("expected error code validation_error, got %q", body["error"])
		}
		if body["error_description"] != "name is required" {
			t.Fatalf("unexpected description %q", body["error_description"])
		}
	})

	t.Run("valid body returns typed request", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"alpha"}`))

		req, ok := DecodeAndPrepare[decodeReq](w, r, nil, r.Context(), "req-3")
		if !ok {
			t.Fatal("expected decode to succeed")
		}
		if req.Name != "alpha" {
			t.Fatalf("expected name alpha, got %q", req.Name)
		}
	})
}
