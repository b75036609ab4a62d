package handlers

import (
	"net/http"
	"time"

	"github.com/shiv060600/Tuttle-Tools/internal/config"
	"github.com/shiv060600/Tuttle-Tools/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"
	gsessions "github.com/gorilla/sessions"
)

const (
	sessionCookie     = "tuttle_session"
	sessionKeyAdmin   = "is_admin"
	sessionKeyUser    = "user_id"
	sessionKeyExpires = "expires_at"
)

// NewSessionStore returns the server-side session store. Only the session id
// travels in the cookie.
func NewSessionStore(cfg config.Config) sessions.Store {
	store := memstore.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// actor reads the caller from the session. An expired admin session is
// cleared and treated as anonymous.
func (h *Handler) actor(c *gin.Context) services.Actor {
	session := sessions.Default(c)
	isAdmin, _ := session.Get(sessionKeyAdmin).(bool)
	if !isAdmin {
		return services.Actor{}
	}

	expiresAt, _ := session.Get(sessionKeyExpires).(int64)
	if h.now().Unix() >= expiresAt {
		session.Clear()
		if err := session.Save(); err != nil {
			h.logger.Warn("Failed to clear expired session", "error", err)
		}
		return services.Actor{}
	}

	userID, _ := session.Get(sessionKeyUser).(string)
	return services.Actor{UserID: userID, IsAdmin: true}
}

// gorillaSession exposes the store session behind a gin-contrib session.
type gorillaSession interface {
	Session() *gsessions.Session
}

// promote marks the session as admin under a fresh session id. A session the
// caller already held is deleted from the store first.
func (h *Handler) promote(c *gin.Context, userID string) error {
	session := sessions.Default(c)
	if gs, ok := session.(gorillaSession); ok && gs.Session().ID != "" {
		s := gs.Session()
		opts := s.Options
		session.Options(sessions.Options{Path: "/", MaxAge: -1})
		if err := session.Save(); err != nil {
			return err
		}
		s.ID = ""
		s.Options = opts
	}
	session.Set(sessionKeyAdmin, true)
	session.Set(sessionKeyUser, userID)
	session.Set(sessionKeyExpires, h.now().Add(h.sessionTTL()).Unix())
	return session.Save()
}

func (h *Handler) demote(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

func (h *Handler) sessionTTL() time.Duration {
	if h.cfg.SessionTTL <= 0 {
		return 8 * time.Hour
	}
	return h.cfg.SessionTTL
}
