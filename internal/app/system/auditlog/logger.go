// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/patrohub/internal/app/store/audit"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/ratelimit"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"
	ModeLog = "log"
	ModeOff = "off"
)

// Config selects a destination per category.
type Config struct {
	Auth         string
	Admin        string
	Registration string
}

// Logger writes audit events to the audit store and/or zap.
// A nil *Logger is a no-op so tests can omit it.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) mode(category string) string {
	var m string
	switch category {
	case audit.CategoryAuth:
		m = l.config.Auth
	case audit.CategoryAdmin:
		m = l.config.Admin
	case audit.CategoryRegistration:
		m = l.config.Registration
	}
	if m == "" {
		return ModeAll
	}
	return m
}

// Log records event according to the category's mode.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	m := l.mode(event.Category)
	if m == ModeOff {
		return
	}
	if m == ModeAll || m == ModeLog {
		l.logToZap(event)
	}
	if m == ModeAll || m == ModeDB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.Group != "" {
		fields = append(fields, zap.String("group", event.Group))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// --- Authentication events ---

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, method, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"auth_method": method, "email": email},
	})
}

// LoginFailed logs a refused sign-in. eventType is one of the login_failed_* types.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email, eventType, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		IP:            ratelimit.ClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"email": email},
	})
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    &userID,
		IP:        ratelimit.ClientIP(r),
		Success:   true,
	})
}

// --- Staff actions ---

// Admin logs a dashboard mutation by actor on group.
func (l *Logger) Admin(ctx context.Context, r *http.Request, actor authz.Subject, group models.Group, eventType string, details map[string]string) {
	id := actor.UserID
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		Group:     string(group),
		ActorID:   &id,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	})
}

// --- Public registrations ---

// InscriptionCreated logs a yearly registration submitted by a family.
func (l *Logger) InscriptionCreated(ctx context.Context, r *http.Request, reg models.Registration) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryRegistration,
		EventType: audit.EventInscriptionCreated,
		Group:     string(reg.Group),
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"registration_id": reg.ID.Hex(),
			"child_id":        reg.ChildID.Hex(),
			"school_year":     reg.SchoolYear,
		},
	})
}

// CampRegistrationCreated logs a camp sign-up.
func (l *Logger) CampRegistrationCreated(ctx context.Context, r *http.Request, cr models.CampRegistration) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryRegistration,
		EventType: audit.EventCampRegistrationCreated,
		Group:     string(cr.Group),
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"camp_registration_id": cr.ID.Hex(),
			"camp_id":              cr.CampID.Hex(),
			"child_id":             cr.ChildID.Hex(),
			"paid_amount":          fmt.Sprintf("%.2f", cr.PaidAmount),
		},
	})
}
