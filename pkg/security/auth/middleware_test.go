package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware_Handle(t *testing.T) {
	tests := []struct {
		name           string
		sources        []Source
		setupRequest   func(*http.Request)
		expectedStatus int
		wantErr        error
	}{
		{
			name: "valid bearer token",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer ops-key-0123456789")
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "lowercase scheme",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "bearer ops-key-0123456789")
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "X-API-Key header",
			setupRequest: func(r *http.Request) {
				r.Header.Set("X-API-Key", "ops-key-0123456789")
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing API key",
			setupRequest:   func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
			wantErr:        ErrMissingKey,
		},
		{
			name: "invalid API key",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer wrong")
			},
			expectedStatus: http.StatusUnauthorized,
			wantErr:        ErrInvalidKey,
		},
		{
			name: "disabled API key",
			setupRequest: func(r *http.Request) {
				r.Header.Set("X-API-Key", "retired-key-0123456789")
			},
			expectedStatus: http.StatusUnauthorized,
			wantErr:        ErrKeyDisabled,
		},
		{
			name: "missing bearer scheme",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "ops-key-0123456789")
			},
			expectedStatus: http.StatusUnauthorized,
			wantErr:        ErrMissingKey,
		},
		{
			name:    "custom source",
			sources: []Source{{Header: "X-Ops-Token"}},
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer ops-key-0123456789")
				r.Header.Set("X-Ops-Token", "ops-key-0123456789")
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var denied error
			deny := func(w http.ResponseWriter, r *http.Request, err error) {
				denied = err
				w.WriteHeader(http.StatusUnauthorized)
			}
			mw := NewMiddleware(NewValidator(testKeys()), tt.sources, deny)

			handler := mw.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				info, ok := GetKeyInfo(r.Context())
				if !ok || info.Name != "ops" {
					t.Errorf("GetKeyInfo() = %+v, %v", info, ok)
				}
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/session/stats", nil)
			tt.setupRequest(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
			if !errors.Is(denied, tt.wantErr) {
				t.Errorf("deny error = %v, want %v", denied, tt.wantErr)
			}
		})
	}
}

func TestMiddleware_DefaultDeny(t *testing.T) {
	mw := NewMiddleware(NewValidator(testKeys()), nil, nil)
	handler := mw.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestGetKeyInfo_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if info, ok := GetKeyInfo(req.Context()); ok || info != nil {
		t.Errorf("GetKeyInfo() = %+v, %v, want nil, false", info, ok)
	}
}
