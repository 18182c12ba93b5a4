package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// CtxLang holds the resolved response language for the request.
const CtxLang = "lang"

// ResolveLanguage picks the response language from the ?lang query
// parameter, then the Accept-Language header, defaulting to Arabic.
// Only "ar" and "en" are recognised.
func ResolveLanguage() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := normalizeLang(c.QueryParam("lang"))
			if lang == "" {
				header := c.Request().Header.Get("Accept-Language")
				for _, part := range strings.Split(header, ",") {
					tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
					if l := normalizeLang(tag); l != "" {
						lang = l
						break
					}
				}
			}
			if lang == "" {
				lang = "ar"
			}
			c.Set(CtxLang, lang)
			return next(c)
		}
	}
}

func normalizeLang(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.Index(tag, "-"); i > 0 {
		tag = tag[:i]
	}
	switch tag {
	case "ar", "en":
		return tag
	}
	return ""
}
