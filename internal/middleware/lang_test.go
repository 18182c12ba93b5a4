package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		name   string
		target string
		accept string
		want   string
	}{
		{name: "default arabic", target: "/", want: "ar"},
		{name: "query en", target: "/?lang=en", want: "en"},
		{name: "query ar wins over header", target: "/?lang=ar", accept: "en-US,en;q=0.9", want: "ar"},
		{name: "unknown query falls back to header", target: "/?lang=fr", accept: "en-GB", want: "en"},
		{name: "header with region", target: "/", accept: "ar-SA,ar;q=0.8", want: "ar"},
		{name: "header skips unknown tags", target: "/", accept: "fr-FR, en;q=0.5", want: "en"},
		{name: "unsupported everywhere", target: "/?lang=de", accept: "fr", want: "ar"},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var got string
			h := ResolveLanguage()(func(c echo.Context) error {
				got = c.Get(CtxLang).(string)
				return nil
			})
			if err := h(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("lang = %q, want %q", got, tt.want)
			}
		})
	}
}
