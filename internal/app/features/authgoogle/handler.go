// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/patrohub/internal/app/store/audit"
	"github.com/dalemusser/patrohub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/patrohub/internal/app/store/users"
	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"github.com/dalemusser/patrohub/internal/app/system/auth"
	"github.com/dalemusser/patrohub/internal/app/system/navigation"
	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultUserInfoURL is Google's OpenID userinfo endpoint.
const DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// stateTTL bounds the time between /auth/google and the callback.
const stateTTL = 10 * time.Minute

type Handler struct {
	Log        *zap.Logger
	AuditLog   *auditlog.Logger
	SessionMgr *auth.SessionManager
	StateStore *oauthstate.Store
	Users      *userstore.Store

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://patro.example.be/auth/google/callback"

	// Endpoint and UserInfoURL default to Google's.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	audit *auditlog.Logger,
	stateStore *oauthstate.Store,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:          logger,
		AuditLog:     audit,
		SessionMgr:   sessionMgr,
		StateStore:   stateStore,
		Users:        userstore.New(db),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		Endpoint:     google.Endpoint,
		UserInfoURL:  DefaultUserInfoURL,
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: h.Endpoint,
	}
}

// IsConfigured reports whether both client credentials are set.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeLogin stores a fresh state and redirects to Google's consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		http.NotFound(w, r)
		return
	}

	state := generateState()
	returnURL := navigation.ReturnPath(r, "/")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.StateStore.Save(ctx, state, returnURL, time.Now().UTC().Add(stateTTL)); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	url := h.oauth2Config().AuthCodeURL(state)
	h.Log.Debug("initiating Google OAuth flow", zap.String("return_url", returnURL))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeCallback exchanges the code, fetches the Google profile and signs in
// the active staff account with the same email.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		redirectToLogin(w, r, "google_denied")
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		redirectToLogin(w, r, "invalid_state")
		return
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnURL, valid, err := h.StateStore.Consume(ctxTimeout, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		redirectToLogin(w, r, "internal")
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		redirectToLogin(w, r, "invalid_state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		redirectToLogin(w, r, "invalid_code")
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		redirectToLogin(w, r, "token_exchange")
		return
	}

	info, err := h.fetchUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		redirectToLogin(w, r, "user_info")
		return
	}
	email := normalize.Email(info.Email)
	if email == "" || !info.VerifiedEmail {
		h.AuditLog.LoginFailed(ctx, r, email, audit.EventLoginFailedUserNotFound, "unverified google email")
		redirectToLogin(w, r, "no_account")
		return
	}

	u, err := h.Users.GetByEmail(ctxTimeout, email)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		h.Log.Info("Google OAuth: user not found", zap.String("email", email))
		h.AuditLog.LoginFailed(ctx, r, email, audit.EventLoginFailedUserNotFound, "user not found")
		redirectToLogin(w, r, "no_account")
		return
	case err != nil:
		h.Log.Error("failed to look up user", zap.Error(err))
		redirectToLogin(w, r, "internal")
		return
	}
	if u.Status != models.UserStatusActive {
		h.AuditLog.LoginFailed(ctx, r, email, audit.EventLoginFailedUserDisabled, "user disabled")
		redirectToLogin(w, r, "account_disabled")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		redirectToLogin(w, r, "session")
		return
	}
	if err := h.Users.TouchLastLogin(ctxTimeout, u.ID); err != nil {
		h.Log.Warn("touch last login failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, models.AuthMethodGoogle, email)
	h.Log.Info("user logged in via Google OAuth", zap.String("user_id", u.ID.Hex()))

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/"), http.StatusSeeOther)
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (h *Handler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get(h.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/login?error="+code, http.StatusSeeOther)
}

// generateState returns 32 random bytes, URL-safe encoded.
func generateState() string {
	return base64.RawURLEncoding.EncodeToString(securecookie.GenerateRandomKey(32))
}
