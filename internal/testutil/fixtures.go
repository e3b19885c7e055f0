package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Date returns midnight UTC on the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Fixtures inserts test documents directly into collections.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateParent inserts a parent with the given canonical phone.
func (f *Fixtures) CreateParent(ctx context.Context, first, last, phone string) models.Parent {
	f.t.Helper()
	now := time.Now().UTC()
	p := models.Parent{
		ID:           primitive.NewObjectID(),
		FirstName:    first,
		LastName:     last,
		Relationship: "Mère",
		Phone:        phone,
		Email:        "parent@test.be",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "parents", p)
	return p
}

// CreateChild inserts a child linked to parent1.
func (f *Fixtures) CreateChild(ctx context.Context, first, last string, birth time.Time, group models.Group, section *models.Section, parent1 primitive.ObjectID) models.Child {
	f.t.Helper()
	now := time.Now().UTC()
	c := models.Child{
		ID:          primitive.NewObjectID(),
		FirstName:   first,
		LastName:    last,
		FirstNameCI: text.Fold(first),
		LastNameCI:  text.Fold(last),
		BirthDate:   birth,
		Group:       group,
		Section:     section,
		Address:     "Rue de la Station 1",
		City:        "Liège",
		PostalCode:  "4000",
		Parent1ID:   parent1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.insert(ctx, "children", c)
	return c
}

// CreateRegistration inserts an unpaid registration for child in year.
func (f *Fixtures) CreateRegistration(ctx context.Context, child models.Child, year string, med models.MedicalInfo) models.Registration {
	f.t.Helper()
	now := time.Now().UTC()
	reg := models.Registration{
		ID:               primitive.NewObjectID(),
		ChildID:          child.ID,
		Group:            child.Group,
		SchoolYear:       year,
		MedicalInfo:      med,
		Amount:           models.DefaultRegistrationFee,
		PaymentReference: "TEST " + child.LastName,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	f.insert(ctx, "registrations", reg)
	return reg
}

// CreateCamp inserts a public camp for group. maxParticipants of 0 means unlimited.
func (f *Fixtures) CreateCamp(ctx context.Context, name string, group models.Group, price float64, maxParticipants int) models.Camp {
	f.t.Helper()
	now := time.Now().UTC()
	c := models.Camp{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Location:    "Bastogne",
		StartDate:   now.AddDate(0, 1, 0),
		EndDate:     now.AddDate(0, 1, 7),
		Price:       price,
		IBAN:        "BE68539007547034",
		BIC:         "GKCCBEBB",
		Beneficiary: "Patro Test",
		Group:       group,
		Sections:    []models.Section{},
		IsPublic:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if maxParticipants > 0 {
		c.MaxParticipants = &maxParticipants
	}
	f.insert(ctx, "camps", c)
	return c
}

// CreateUser inserts an active password user.
func (f *Fixtures) CreateUser(ctx context.Context, email, password string, role models.Role, group *models.Group) models.User {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     "Test " + string(role),
		FullNameCI:   text.Fold("Test " + string(role)),
		Email:        email,
		PasswordHash: string(hash),
		AuthMethod:   models.AuthMethodPassword,
		Role:         role,
		Group:        group,
		Status:       models.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateAnimateur inserts a roster entry.
func (f *Fixtures) CreateAnimateur(ctx context.Context, first, last string, group models.Group, showContact bool) models.Animateur {
	f.t.Helper()
	now := time.Now().UTC()
	a := models.Animateur{
		ID:          primitive.NewObjectID(),
		FirstName:   first,
		LastName:    last,
		LastNameCI:  text.Fold(last),
		Phone:       "32477123456",
		Email:       "anim@test.be",
		Group:       group,
		Function:    "Animateur",
		ShowContact: showContact,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.insert(ctx, "animateurs", a)
	return a
}

// CreateSettings inserts settings for group with bank details.
func (f *Fixtures) CreateSettings(ctx context.Context, group models.Group, fee float64) models.GroupSettings {
	f.t.Helper()
	s := models.GroupSettings{
		ID:              primitive.NewObjectID(),
		Group:           group,
		RegistrationFee: fee,
		ContactEmail:    "contact@test.be",
		IBAN:            "BE68539007547034",
		BIC:             "GKCCBEBB",
		Beneficiary:     "Patro Test",
	}
	f.insert(ctx, "group_settings", s)
	return s
}
