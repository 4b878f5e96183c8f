package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func serveRequestID(t *testing.T, incoming string) (captured string, header string) {
	t.Helper()
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = chimiddleware.GetReqID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if incoming != "" {
		req.Header.Set(chimiddleware.RequestIDHeader, incoming)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return captured, rec.Header().Get(chimiddleware.RequestIDHeader)
}

func TestRequestIDGeneratesUUIDv4(t *testing.T) {
	captured, header := serveRequestID(t, "")

	if captured == "" || header != captured {
		t.Fatalf("expected matching generated ID, context=%q header=%q", captured, header)
	}
	parsed, err := uuid.Parse(captured)
	if err != nil {
		t.Fatalf("request ID %q is not a valid UUID: %v", captured, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected UUIDv4, got version %d", parsed.Version())
	}
}

func TestRequestIDValidation(t *testing.T) {
	tests := []struct {
		name    string
		inputID string
		wantNew bool
	}{
		{"alphanumeric preserved", "abc123-XYZ", false},
		{"uuid preserved", "550e8400-e29b-41d4-a716-446655440000", false},
		{"space allowed", "req 42", false},
		{"max length preserved", strings.Repeat("a", maxRequestIDLength), false},
		{"too long replaced", strings.Repeat("a", maxRequestIDLength+1), true},
		{"newline replaced", "abc\ndef", true},
		{"tab replaced", "abc\tdef", true},
		{"high byte replaced", "caf\xc3\xa9", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured, _ := serveRequestID(t, tt.inputID)
			if tt.wantNew {
				if captured == tt.inputID {
					t.Fatalf("expected %q to be replaced", tt.inputID)
				}
				if _, err := uuid.Parse(captured); err != nil {
					t.Fatalf("replacement %q is not a UUID: %v", captured, err)
				}
				return
			}
			if captured != tt.inputID {
				t.Fatalf("expected %q to be preserved, got %q", tt.inputID, captured)
			}
		})
	}
}
