package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		config      CORSConfig
		method      string
		origin      string
		preflight   bool
		wantOrigin  string
		wantStatus  int
		wantMethods bool
	}{
		{
			name:       "allow all",
			config:     CORSConfig{AllowAll: true},
			method:     http.MethodGet,
			origin:     "https://ops.example.com",
			wantOrigin: "*",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "listed origin",
			config:     CORSConfig{AllowedOrigins: []string{"https://ops.example.com"}},
			method:     http.MethodGet,
			origin:     "https://ops.example.com",
			wantOrigin: "https://ops.example.com",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "unlisted origin",
			config:     CORSConfig{AllowedOrigins: []string{"https://ops.example.com"}},
			method:     http.MethodGet,
			origin:     "https://evil.example.com",
			wantOrigin: "",
			wantStatus: http.StatusTeapot,
		},
		{
			name:        "preflight short circuits",
			config:      DefaultCORSConfig(),
			method:      http.MethodOptions,
			origin:      "https://ops.example.com",
			preflight:   true,
			wantOrigin:  "*",
			wantStatus:  http.StatusNoContent,
			wantMethods: true,
		},
		{
			name:       "plain options passes through",
			config:     DefaultCORSConfig(),
			method:     http.MethodOptions,
			origin:     "https://ops.example.com",
			wantOrigin: "*",
			wantStatus: http.StatusTeapot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/session", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPut)
			}
			w := httptest.NewRecorder()

			CORS(tt.config)(okHandler()).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantMethods {
				assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
				assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
			}
		})
	}
}

func TestCORSExposesDownloadName(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/session/download", nil)
	w := httptest.NewRecorder()

	CORS(DefaultCORSConfig())(okHandler()).ServeHTTP(w, req)

	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}
