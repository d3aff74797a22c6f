package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/config"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

const sessionCookie = "pancyguard_session"

// Discord OAuth2 endpoints
var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

// PanelUser is the Discord identity of a logged-in panel user.
type PanelUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
}

// Tag returns the display tag used in warning records
func (u *PanelUser) Tag() string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

type session struct {
	user      PanelUser
	token     *oauth2.Token
	expiresAt time.Time
}

// SessionStore keeps panel sessions in memory, keyed by an opaque cookie id.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	states   map[string]time.Time
	oauth    *oauth2.Config
}

var (
	sessions     *SessionStore
	sessionsOnce sync.Once
)

// Sessions returns the global session store
func Sessions() *SessionStore {
	sessionsOnce.Do(func() {
		cfg := config.Get()
		sessions = &SessionStore{
			sessions: make(map[string]*session),
			states:   make(map[string]time.Time),
			oauth: &oauth2.Config{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				RedirectURL:  cfg.RedirectURI,
				Scopes:       []string{"identify", "guilds"},
				Endpoint:     discordEndpoint,
			},
		}
	})
	return sessions
}

func randomID() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

// AuthURL creates a one-shot state token and returns the Discord consent URL
func (ss *SessionStore) AuthURL() string {
	state := randomID()
	now := time.Now()
	ss.mu.Lock()
	ss.purgeExpiredStates(now)
	ss.states[state] = now.Add(10 * time.Minute)
	ss.mu.Unlock()
	return ss.oauth.AuthCodeURL(state)
}

// consumeState validates and burns an OAuth state token
func (ss *SessionStore) consumeState(state string) bool {
	now := time.Now()
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.purgeExpiredStates(now)
	expiry, ok := ss.states[state]
	if !ok {
		return false
	}
	delete(ss.states, state)
	return now.Before(expiry)
}

// purgeExpiredStates drops state tokens from abandoned login attempts.
// Caller must hold ss.mu.
func (ss *SessionStore) purgeExpiredStates(now time.Time) {
	for state, expiry := range ss.states {
		if now.After(expiry) {
			delete(ss.states, state)
		}
	}
}

// Login exchanges the OAuth code, fetches the Discord identity and opens a
// session. Returns the cookie value to hand to the browser.
func (ss *SessionStore) Login(ctx context.Context, code string) (string, *PanelUser, error) {
	token, err := ss.oauth.Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("no se pudo canjear el código OAuth: %w", err)
	}

	httpClient := ss.oauth.Client(ctx, token)
	resp, err := httpClient.Get("https://discord.com/api/users/@me")
	if err != nil {
		return "", nil, fmt.Errorf("no se pudo obtener el usuario de Discord: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("Discord respondió %d al pedir la identidad", resp.StatusCode)
	}

	var user PanelUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", nil, err
	}

	id := randomID()
	ss.mu.Lock()
	ss.sessions[id] = &session{
		user:      user,
		token:     token,
		expiresAt: time.Now().Add(24 * time.Hour),
	}
	ss.mu.Unlock()

	return id, &user, nil
}

// UserFor returns the logged-in user for a request, or nil
func (ss *SessionStore) UserFor(c *gin.Context) *PanelUser {
	id, err := c.Cookie(sessionCookie)
	if err != nil || id == "" {
		return nil
	}

	ss.mu.RLock()
	sess, ok := ss.sessions[id]
	ss.mu.RUnlock()

	if !ok {
		return nil
	}
	if time.Now().After(sess.expiresAt) {
		ss.mu.Lock()
		delete(ss.sessions, id)
		ss.mu.Unlock()
		return nil
	}

	user := sess.user
	return &user
}

// Logout drops the session for a request
func (ss *SessionStore) Logout(c *gin.Context) {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		ss.mu.Lock()
		delete(ss.sessions, id)
		ss.mu.Unlock()
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// requireLogin redirects anonymous visitors to the login flow
func requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Sessions().UserFor(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
