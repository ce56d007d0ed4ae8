package middleware

import (
	"log"
	"net/http"
	"poster_app_go/config"
	"poster_app_go/services"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "poster_session"
	// ContextKeySessionID is the context key for the browser session id
	ContextKeySessionID = "session_id"
)

// Session gives every browser a session id carried in a sealed cookie.
// A missing or unreadable cookie starts a new session.
func Session(cfg *config.Config, cipher *services.SessionCipher) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := ""
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				if plain, err := cipher.Open(cookie.Value); err == nil {
					if _, err := uuid.Parse(string(plain)); err == nil {
						sessionID = string(plain)
					}
				} else {
					log.Printf("[WARNING] Discarding unreadable session cookie from %s: %v", c.RealIP(), err)
				}
			}

			if sessionID == "" {
				sessionID = uuid.New().String()
				sealed, err := cipher.Seal([]byte(sessionID))
				if err != nil {
					return err
				}
				setSessionCookie(c, cfg, sealed)
			}

			c.Set(ContextKeySessionID, sessionID)
			return next(c)
		}
	}
}

// GetSessionID retrieves the browser session id from context
func GetSessionID(c echo.Context) string {
	sessionID, _ := c.Get(ContextKeySessionID).(string)
	return sessionID
}

func setSessionCookie(c echo.Context, cfg *config.Config, value string) {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = services.DefaultSessionTTL
	}

	cookie := new(http.Cookie)
	cookie.Name = SessionCookieName
	cookie.Value = value
	cookie.Path = "/"
	cookie.Expires = time.Now().Add(ttl)
	cookie.HttpOnly = true
	cookie.SameSite = http.SameSiteLaxMode
	if cfg.Environment == "production" {
		cookie.Secure = true
	}
	c.SetCookie(cookie)
}
