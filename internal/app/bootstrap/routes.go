// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountsfeature "github.com/dalemusser/patrohub/internal/app/features/accounts"
	animateursfeature "github.com/dalemusser/patrohub/internal/app/features/animateurs"
	auditlogfeature "github.com/dalemusser/patrohub/internal/app/features/auditlog"
	authgooglefeature "github.com/dalemusser/patrohub/internal/app/features/authgoogle"
	campsfeature "github.com/dalemusser/patrohub/internal/app/features/camps"
	childrenfeature "github.com/dalemusser/patrohub/internal/app/features/children"
	dashboardfeature "github.com/dalemusser/patrohub/internal/app/features/dashboard"
	documentsfeature "github.com/dalemusser/patrohub/internal/app/features/documents"
	errorsfeature "github.com/dalemusser/patrohub/internal/app/features/errors"
	exportsfeature "github.com/dalemusser/patrohub/internal/app/features/exports"
	healthfeature "github.com/dalemusser/patrohub/internal/app/features/health"
	inscriptionsfeature "github.com/dalemusser/patrohub/internal/app/features/inscriptions"
	loginfeature "github.com/dalemusser/patrohub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/patrohub/internal/app/features/logout"
	profilefeature "github.com/dalemusser/patrohub/internal/app/features/profile"
	publicchildrenfeature "github.com/dalemusser/patrohub/internal/app/features/publicchildren"
	recapsfeature "github.com/dalemusser/patrohub/internal/app/features/recaps"
	settingsfeature "github.com/dalemusser/patrohub/internal/app/features/settings"
	userinfofeature "github.com/dalemusser/patrohub/internal/app/features/userinfo"
	"github.com/dalemusser/patrohub/internal/app/store/oauthstate"
	settingsstore "github.com/dalemusser/patrohub/internal/app/store/settings"
	userstore "github.com/dalemusser/patrohub/internal/app/store/users"
	"github.com/dalemusser/patrohub/internal/app/system/auth"
	"github.com/dalemusser/patrohub/internal/app/system/mailer"
	"github.com/dalemusser/patrohub/internal/app/system/metrics"
	"github.com/dalemusser/patrohub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router.
//
// Public surface: /health, /metrics, /login, /logout, /auth/google,
// /api/me, /api/inscriptions and /api/public/*. Everything else under /api
// requires a signed-in staff session; group scoping and role checks happen
// inside the handlers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	// Fresh user data on each request, so role changes and disabled
	// accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	errLog := errorsfeature.NewErrorLogger(logger)
	audit := newAuditLogger(appCfg, deps, logger)
	settings := settingsstore.New(db, appCfg.RegistrationFee)
	mail := mailer.New(mailer.Config{
		Host:     appCfg.SMTPHost,
		Port:     appCfg.SMTPPort,
		User:     appCfg.SMTPUser,
		Pass:     appCfg.SMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)

	loginLimiter := ratelimit.NewLoginLimiter(appCfg.LoginAttempts, appCfg.LoginWindow)
	formLimiter := ratelimit.New(appCfg.FormSubmissions, appCfg.FormWindow)
	onShutdown(loginLimiter.Stop)
	onShutdown(formLimiter.Stop)
	limitForms := ratelimit.Middleware(formLimiter)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if appCfg.MetricsEnabled {
		r.Use(metrics.Middleware)
	}
	r.Use(sessionMgr.LoadSessionUser)

	if appCfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))

	// Authentication
	r.Mount("/login", loginfeature.Routes(loginfeature.NewHandler(db, sessionMgr, loginLimiter, errLog, audit, logger)))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, audit, logger)))
	if appCfg.GoogleEnabled() {
		googleHandler := authgooglefeature.NewHandler(db, sessionMgr, audit, oauthstate.New(db),
			appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}
	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	// Family-facing endpoints
	inscriptionsHandler := inscriptionsfeature.NewHandler(db, settings, mail, errLog, audit, logger)
	r.Mount("/api/inscriptions", inscriptionsfeature.Routes(inscriptionsHandler, limitForms))

	campsHandler := campsfeature.NewHandler(db, settings, mail, errLog, audit, logger)
	animateursHandler := animateursfeature.NewHandler(db, errLog, audit, logger)
	settingsHandler := settingsfeature.NewHandler(settings, errLog, audit, logger)
	childrenLookup := publicchildrenfeature.NewHandler(db, errLog, logger)

	r.Route("/api/public", func(pr chi.Router) {
		pr.Mount("/children", publicchildrenfeature.Routes(childrenLookup, limitForms))
		pr.Mount("/animateurs", animateursfeature.PublicRoutes(animateursHandler))
		pr.Mount("/settings", settingsfeature.PublicRoutes(settingsHandler))
		pr.Mount("/", campsfeature.PublicRoutes(campsHandler, limitForms))
	})

	// Staff dashboard
	childrenHandler := childrenfeature.NewHandler(db, errLog, audit, logger)
	r.Group(func(sr chi.Router) {
		sr.Use(sessionMgr.RequireSignedIn)

		sr.Mount("/api/dashboard", dashboardfeature.Routes(dashboardfeature.NewHandler(db, errLog, logger)))
		sr.Mount("/api/children", childrenfeature.Routes(childrenHandler))
		sr.Mount("/api/registrations", childrenfeature.RegistrationRoutes(childrenHandler))
		sr.Mount("/api/camps", campsfeature.Routes(campsHandler))
		sr.Mount("/api/camp-registrations", campsfeature.RegistrationRoutes(campsHandler))
		sr.Mount("/api/animateurs", animateursfeature.Routes(animateursHandler))
		sr.Mount("/api/settings", settingsfeature.Routes(settingsHandler))
		sr.Mount("/api/recaps", recapsfeature.Routes(recapsfeature.NewHandler(db, errLog, logger)))
		sr.Mount("/api/documents", documentsfeature.Routes(documentsfeature.NewHandler(db, errLog, logger)))
		sr.Mount("/api/exports", exportsfeature.Routes(exportsfeature.NewHandler(db, errLog, logger)))
		sr.Mount("/api/audit", auditlogfeature.Routes(auditlogfeature.NewHandler(db, errLog, logger)))
		sr.Mount("/api/accounts", accountsfeature.Routes(accountsfeature.NewHandler(db, errLog, audit, logger)))
		sr.Mount("/api/profile", profilefeature.Routes(profilefeature.NewHandler(db, errLog, audit, logger)))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errLog.NotFound(w, "Ressource introuvable.")
	})
	return r, nil
}
