package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"resto-backoffice/internal/core"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "wrapped lookup miss maps to 404",
			err:        fmt.Errorf("product %d %w", 42, core.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "doubly wrapped lookup miss maps to 404",
			err:        fmt.Errorf("adjust stock: %w", fmt.Errorf("product %d %w", 7, core.ErrNotFound)),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "validation error maps to 400",
			err:        fmt.Errorf("quantity cannot be negative"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "mentioning the words without wrapping stays 400",
			err:        fmt.Errorf("supplier named %q not found in the import file", "Metro"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/products/42", nil)

			writeServiceError(w, r, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, resp.Code)
			}
			if resp.Error != tt.err.Error() {
				t.Errorf("expected error message %q, got %q", tt.err.Error(), resp.Error)
			}
		})
	}
}
