package user

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

const sessionKeyUserID = "user_id"

type SessionOptions struct {
	Lifetime     time.Duration
	IdleTimeout  time.Duration
	SecureCookie bool
}

// NewSessionManager keeps sessions in the sessions table of db.
func NewSessionManager(db *sql.DB, opts SessionOptions) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Cookie.Name = "news_session"
	sm.Cookie.Path = "/"
	sm.Cookie.Persist = false
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = opts.SecureCookie
	if opts.Lifetime > 0 {
		sm.Lifetime = opts.Lifetime
	}
	if opts.IdleTimeout > 0 {
		sm.IdleTimeout = opts.IdleTimeout
	}
	return sm
}
