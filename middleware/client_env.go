package middleware

import (
	"poster_app_go/services"

	"github.com/labstack/echo/v4"
)

// ClientEnvironment attaches the caller's environment to the request context
// so failures recorded in the error log carry it
func ClientEnvironment(adapter string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			env := services.ClientEnvironment{
				UserAgent:  req.UserAgent(),
				Language:   GetLocale(c),
				RemoteAddr: c.RealIP(),
				URL:        req.URL.String(),
				Adapter:    adapter,
			}
			if accept := req.Header.Get("Accept-Language"); accept != "" {
				env.Language = accept
			}

			c.SetRequest(req.WithContext(services.WithClientEnvironment(req.Context(), env)))
			return next(c)
		}
	}
}
