package camps_test

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/patrohub/internal/app/features/camps"
	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	"github.com/dalemusser/patrohub/internal/app/store/audit"
	settingsstore "github.com/dalemusser/patrohub/internal/app/store/settings"
	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"github.com/dalemusser/patrohub/internal/app/system/indexes"
	"github.com/dalemusser/patrohub/internal/app/system/mailer"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/patrohub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

type captureMailer struct{ sent []mailer.Email }

func (m *captureMailer) Send(e mailer.Email) error {
	m.sent = append(m.sent, e)
	return nil
}

func newTestHandler(t *testing.T) (*camps.Handler, *testutil.Fixtures, *mongo.Database, *captureMailer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	logger := zap.NewNop()
	m := &captureMailer{}
	al := auditlog.New(audit.New(db), logger, auditlog.Config{})
	h := camps.NewHandler(db, settingsstore.New(db, 0), m, uierrors.NewErrorLogger(logger), al, logger)
	h.Now = func() time.Time { return fixedNow }
	return h, testutil.NewFixtures(t, db), db, m
}

func sectionPtr(s models.Section) *models.Section { return &s }

func signup(t *testing.T, h *camps.Handler, body map[string]any) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	h.ServePublicRegister(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/public/camp-registrations", body))
	return rec
}

func TestServePublicRegister_Success(t *testing.T) {
	h, fx, db, m := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateParent(ctx, "Marie", "Dupont", "32477123456")
	child := fx.CreateChild(ctx, "Lucas", "Dupont", testutil.Date(2015, 3, 10), models.GroupGarcons, sectionPtr(models.SectionChevaliers), p.ID)
	camp := fx.CreateCamp(ctx, "Camp d'été", models.GroupGarcons, 180, 0)

	rec := signup(t, h, map[string]any{"campId": camp.ID.Hex(), "childId": child.ID.Hex(), "remarks": "Arrive le lendemain"})
	rec.AssertStatus(t, http.StatusCreated)

	var got camps.SignupResponse
	rec.DecodeJSON(t, &got)
	if got.PaidAmount != 180 || got.IBAN != "BE68539007547034" || got.Beneficiary != "Patro Test" {
		t.Errorf("response = %+v", got)
	}
	if got.PaymentReference == "" {
		t.Error("payment reference is empty")
	}

	var cr models.CampRegistration
	if err := db.Collection("camp_registrations").FindOne(ctx, bson.M{"camp_id": camp.ID}).Decode(&cr); err != nil {
		t.Fatal(err)
	}
	if cr.IsPaid || cr.MedicalInfoUpdated || cr.MedicalInfo != nil || cr.Remarks != "Arrive le lendemain" {
		t.Errorf("camp registration = %+v", cr)
	}
	if len(m.sent) != 1 || m.sent[0].To != "parent@test.be" {
		t.Errorf("sent = %+v", m.sent)
	}
}

func TestServePublicRegister_Refusals(t *testing.T) {
	h, fx, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateParent(ctx, "Marie", "Dupont", "32477123456")
	boy := fx.CreateChild(ctx, "Lucas", "Dupont", testutil.Date(2015, 3, 10), models.GroupGarcons, sectionPtr(models.SectionChevaliers), p.ID)
	girl := fx.CreateChild(ctx, "Emma", "Dupont", testutil.Date(2016, 5, 2), models.GroupFilles, sectionPtr(models.SectionEtincelles), p.ID)
	unplaced := fx.CreateChild(ctx, "Noah", "Dupont", testutil.Date(2019, 8, 1), models.GroupGarcons, nil, p.ID)

	open := fx.CreateCamp(ctx, "Camp garçons", models.GroupGarcons, 100, 0)
	private := fx.CreateCamp(ctx, "Camp fermé", models.GroupGarcons, 100, 0)
	if _, err := db.Collection("camps").UpdateOne(ctx, bson.M{"_id": private.ID}, bson.M{"$set": bson.M{"is_public": false}}); err != nil {
		t.Fatal(err)
	}
	restricted := fx.CreateCamp(ctx, "Camp conquérants", models.GroupGarcons, 100, 0)
	if _, err := db.Collection("camps").UpdateOne(ctx, bson.M{"_id": restricted.ID},
		bson.M{"$set": bson.M{"sections": []models.Section{models.SectionConquerants}}}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		campID string
		child  string
		want   int
	}{
		{"unknown camp", primitive.NewObjectID().Hex(), boy.ID.Hex(), http.StatusNotFound},
		{"private camp", private.ID.Hex(), boy.ID.Hex(), http.StatusForbidden},
		{"other group", open.ID.Hex(), girl.ID.Hex(), http.StatusForbidden},
		{"section not accepted", restricted.ID.Hex(), boy.ID.Hex(), http.StatusForbidden},
		{"no section for a sectioned camp", restricted.ID.Hex(), unplaced.ID.Hex(), http.StatusForbidden},
		{"malformed id", "nope", boy.ID.Hex(), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := signup(t, h, map[string]any{"campId": tt.campID, "childId": tt.child})
			rec.AssertStatus(t, tt.want)
		})
	}
}

func TestServePublicRegister_DuplicateAndFull(t *testing.T) {
	h, fx, _, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateParent(ctx, "Marie", "Dupont", "32477123456")
	a := fx.CreateChild(ctx, "Lucas", "Dupont", testutil.Date(2015, 3, 10), models.GroupGarcons, sectionPtr(models.SectionChevaliers), p.ID)
	b := fx.CreateChild(ctx, "Hugo", "Dupont", testutil.Date(2014, 1, 20), models.GroupGarcons, sectionPtr(models.SectionChevaliers), p.ID)
	camp := fx.CreateCamp(ctx, "Mini-camp", models.GroupGarcons, 40, 1)

	signup(t, h, map[string]any{"campId": camp.ID.Hex(), "childId": a.ID.Hex()}).AssertStatus(t, http.StatusCreated)

	rec := signup(t, h, map[string]any{"campId": camp.ID.Hex(), "childId": a.ID.Hex()})
	rec.AssertStatus(t, http.StatusConflict)

	rec = signup(t, h, map[string]any{"campId": camp.ID.Hex(), "childId": b.ID.Hex()})
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, "complet")
}

func TestServePublicRegister_UpdatedMedicalInfoRequired(t *testing.T) {
	h, fx, _, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateParent(ctx, "Marie", "Dupont", "32477123456")
	child := fx.CreateChild(ctx, "Lucas", "Dupont", testutil.Date(2015, 3, 10), models.GroupGarcons, sectionPtr(models.SectionChevaliers), p.ID)
	camp := fx.CreateCamp(ctx, "Camp d'été", models.GroupGarcons, 180, 0)

	rec := signup(t, h, map[string]any{"campId": camp.ID.Hex(), "childId": child.ID.Hex(), "medicalInfoUpdated": true})
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServePublicList(t *testing.T) {
	h, fx, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateParent(ctx, "Marie", "Dupont", "32477123456")
	child := fx.CreateChild(ctx, "Lucas", "Dupont", testutil.Date(2015, 3, 10), models.GroupGarcons, nil, p.ID)
	g := fx.CreateCamp(ctx, "Camp garçons", models.GroupGarcons, 100, 10)
	fx.CreateCamp(ctx, "Camp filles", models.GroupFilles, 100, 0)
	hidden := fx.CreateCamp(ctx, "Camp caché", models.GroupGarcons, 100, 0)
	if _, err := db.Collection("camps").UpdateOne(ctx, bson.M{"_id": hidden.ID}, bson.M{"$set": bson.M{"is_public": false}}); err != nil {
		t.Fatal(err)
	}
	signup(t, h, map[string]any{"campId": g.ID.Hex(), "childId": child.ID.Hex()}).AssertStatus(t, http.StatusCreated)

	rec := testutil.NewRecorder()
	h.ServePublicList(rec, testutil.NewJSONRequest(t, http.MethodGet, "/api/public/camps?group=garcons", nil))
	rec.AssertStatus(t, http.StatusOK)

	var got struct {
		Camps []camps.CampView `json:"camps"`
	}
	rec.DecodeJSON(t, &got)
	if len(got.Camps) != 1 {
		t.Fatalf("camps = %+v", got.Camps)
	}
	c := got.Camps[0]
	if c.Name != "Camp garçons" || c.Registered != 1 || c.RemainingPlaces == nil || *c.RemainingPlaces != 9 {
		t.Errorf("camp = %+v", c)
	}

	rec = testutil.NewRecorder()
	h.ServePublicList(rec, testutil.NewJSONRequest(t, http.MethodGet, "/api/public/camps?group=SCOUTS", nil))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func campBody(group string) map[string]any {
	return map[string]any{
		"name":            "Camp d'été",
		"description":     "<p>Deux semaines <b>en forêt</b></p><script>x()</script>",
		"location":        "Bastogne",
		"startDate":       "2026-07-10",
		"endDate":         "2026-07-20",
		"startTime":       "10:00",
		"price":           180,
		"group":           group,
		"sections":        []string{"CHEVALIERS"},
		"maxParticipants": 30,
		"isPublic":        true,
	}
}

func TestServeCreate(t *testing.T) {
	h, _, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := testutil.PresidentUser(models.GroupGarcons)
	rec := testutil.NewRecorder()
	h.ServeCreate(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/api/camps", campBody("GARCONS"), user))
	rec.AssertStatus(t, http.StatusCreated)

	var got camps.CampView
	rec.DecodeJSON(t, &got)
	if got.StartDate != "2026-07-10" || got.CreatedByName != user.Name || len(got.SectionLabels) != 1 {
		t.Errorf("camp = %+v", got)
	}
	if bytes.Contains([]byte(got.Description), []byte("script")) {
		t.Errorf("description not sanitized: %q", got.Description)
	}

	n, err := db.Collection("audit_events").CountDocuments(ctx, bson.M{"event_type": audit.EventCampCreated})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("audit events = %d, want 1", n)
	}
}

func TestServeCreate_Rejections(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	wrongSection := campBody("GARCONS")
	wrongSection["sections"] = []string{"ETINCELLES"}
	backwards := campBody("GARCONS")
	backwards["endDate"] = "2026-07-01"

	tests := []struct {
		name string
		user testutil.TestUser
		body map[string]any
		want int
	}{
		{"animateur cannot create", testutil.AnimateurUser(models.GroupGarcons), campBody("GARCONS"), http.StatusForbidden},
		{"president of other group", testutil.PresidentUser(models.GroupFilles), campBody("GARCONS"), http.StatusForbidden},
		{"section of other group", testutil.AdminUser(), wrongSection, http.StatusBadRequest},
		{"end before start", testutil.AdminUser(), backwards, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.ServeCreate(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/api/camps", tt.body, tt.user))
			rec.AssertStatus(t, tt.want)
		})
	}
}

func TestServeDetailAndPayment(t *testing.T) {
	h, fx, _, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateParent(ctx, "Marie", "Dupont", "32477123456")
	child := fx.CreateChild(ctx, "Lucas", "Dupont", testutil.Date(2015, 3, 10), models.GroupGarcons, sectionPtr(models.SectionChevaliers), p.ID)
	camp := fx.CreateCamp(ctx, "Camp d'été", models.GroupGarcons, 180, 0)
	signup(t, h, map[string]any{"campId": camp.ID.Hex(), "childId": child.ID.Hex()}).AssertStatus(t, http.StatusCreated)

	user := testutil.AnimateurUser(models.GroupGarcons)
	req := testutil.NewAuthenticatedRequest(t, http.MethodGet, "/api/camps/"+camp.ID.Hex(), nil, user)
	rec := testutil.NewRecorder()
	h.ServeDetail(rec, testutil.WithChiURLParam(req, "id", camp.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)

	var detail struct {
		Registrations []camps.RegistrationView `json:"registrations"`
		UnpaidTotal   float64                  `json:"unpaidTotal"`
	}
	rec.DecodeJSON(t, &detail)
	if len(detail.Registrations) != 1 || detail.UnpaidTotal != 180 {
		t.Fatalf("detail = %+v", detail)
	}
	rv := detail.Registrations[0]
	if rv.FirstName != "Lucas" || rv.SectionLabel != "Chevaliers" || rv.ParentEmail != "parent@test.be" {
		t.Errorf("registration = %+v", rv)
	}

	// Animateurs read but do not edit.
	body := map[string]any{"isPaid": true}
	req = testutil.NewAuthenticatedRequest(t, http.MethodPatch, "/", body, user)
	rec = testutil.NewRecorder()
	h.ServeSetPayment(rec, testutil.WithChiURLParam(req, "id", rv.ID))
	rec.AssertStatus(t, http.StatusForbidden)

	req = testutil.NewAuthenticatedRequest(t, http.MethodPatch, "/", body, testutil.PresidentUser(models.GroupGarcons))
	rec = testutil.NewRecorder()
	h.ServeSetPayment(rec, testutil.WithChiURLParam(req, "id", rv.ID))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"isPaid":true`)

	// Once paid, the transfer QR code is gone.
	rec = testutil.NewRecorder()
	h.ServePublicPaymentQR(rec, testutil.WithChiURLParam(testutil.NewJSONRequest(t, http.MethodGet, "/", nil), "id", rv.ID))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeDetail_OtherGroupForbidden(t *testing.T) {
	h, fx, _, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	camp := fx.CreateCamp(ctx, "Camp filles", models.GroupFilles, 100, 0)
	req := testutil.NewAuthenticatedRequest(t, http.MethodGet, "/", nil, testutil.AnimateurUser(models.GroupGarcons))
	rec := testutil.NewRecorder()
	h.ServeDetail(rec, testutil.WithChiURLParam(req, "id", camp.ID.Hex()))
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestServeRecaps_UsesUpdatedMedicalInfo(t *testing.T) {
	h, fx, _, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateParent(ctx, "Marie", "Dupont", "32477123456")
	child := fx.CreateChild(ctx, "Lucas", "Dupont", testutil.Date(2015, 3, 10), models.GroupGarcons, sectionPtr(models.SectionChevaliers), p.ID)
	fx.CreateRegistration(ctx, child, "2025-2026", models.MedicalInfo{})
	camp := fx.CreateCamp(ctx, "Camp d'été", models.GroupGarcons, 180, 0)

	med := map[string]any{
		"photoConsent":            "none",
		"doctorName":              "Dr Maes",
		"doctorPhone":             "081 22 33 44",
		"canParticipate":          true,
		"canSwim":                 "no",
		"hasDiet":                 true,
		"dietDetails":             "Sans gluten",
		"weight":                  "33 kg",
		"emergencyMedicalConsent": true,
	}
	signup(t, h, map[string]any{
		"campId":             camp.ID.Hex(),
		"childId":            child.ID.Hex(),
		"medicalInfoUpdated": true,
		"medicalInfo":        med,
	}).AssertStatus(t, http.StatusCreated)

	req := testutil.NewAuthenticatedRequest(t, http.MethodGet, "/", nil, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeRecaps(rec, testutil.WithChiURLParam(req, "id", camp.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Sans gluten")

	req = testutil.NewAuthenticatedRequest(t, http.MethodGet, "/", nil, testutil.AdminUser())
	rec = testutil.NewRecorder()
	h.ServeRecapsPDF(rec, testutil.WithChiURLParam(req, "id", camp.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("content type = %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF")
	}
}

func fillesBody() map[string]any {
	b := campBody("FILLES")
	b["sections"] = []string{"ETINCELLES"}
	return b
}

func TestServeUpdate(t *testing.T) {
	h, fx, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	empty := fx.CreateCamp(ctx, "Camp vide", models.GroupGarcons, 100, 0)
	busy := fx.CreateCamp(ctx, "Camp plein", models.GroupGarcons, 100, 0)
	p := fx.CreateParent(ctx, "Marie", "Dupont", "32477123456")
	child := fx.CreateChild(ctx, "Lucas", "Dupont", testutil.Date(2015, 3, 10), models.GroupGarcons, sectionPtr(models.SectionChevaliers), p.ID)
	signup(t, h, map[string]any{"campId": busy.ID.Hex(), "childId": child.ID.Hex()}).AssertStatus(t, http.StatusCreated)

	tests := []struct {
		name string
		camp models.Camp
		user testutil.TestUser
		body map[string]any
		want int
	}{
		{"president edits own camp", empty, testutil.PresidentUser(models.GroupGarcons), campBody("GARCONS"), http.StatusOK},
		{"president cannot move to other group", empty, testutil.PresidentUser(models.GroupGarcons), fillesBody(), http.StatusForbidden},
		{"president of other group", empty, testutil.PresidentUser(models.GroupFilles), fillesBody(), http.StatusForbidden},
		{"animateur cannot edit", empty, testutil.AnimateurUser(models.GroupGarcons), campBody("GARCONS"), http.StatusForbidden},
		{"registered camp keeps its group", busy, testutil.AdminUser(), fillesBody(), http.StatusConflict},
		{"registered camp still editable", busy, testutil.AdminUser(), campBody("GARCONS"), http.StatusOK},
		{"unknown camp", models.Camp{ID: primitive.NewObjectID()}, testutil.AdminUser(), campBody("GARCONS"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewAuthenticatedRequest(t, http.MethodPut, "/", tt.body, tt.user)
			rec := testutil.NewRecorder()
			h.ServeUpdate(rec, testutil.WithChiURLParam(req, "id", tt.camp.ID.Hex()))
			rec.AssertStatus(t, tt.want)
		})
	}

	var stored models.Camp
	if err := db.Collection("camps").FindOne(ctx, bson.M{"_id": busy.ID}).Decode(&stored); err != nil {
		t.Fatal(err)
	}
	if stored.Group != models.GroupGarcons {
		t.Errorf("registered camp group = %q, want GARCONS", stored.Group)
	}

	// An admin moves a camp nobody signed up for yet.
	req := testutil.NewAuthenticatedRequest(t, http.MethodPut, "/", fillesBody(), testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeUpdate(rec, testutil.WithChiURLParam(req, "id", empty.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)

	var got camps.CampView
	rec.DecodeJSON(t, &got)
	if got.Group != models.GroupFilles || len(got.Sections) != 1 || got.Sections[0] != models.SectionEtincelles {
		t.Errorf("moved camp = %+v", got)
	}
}

func TestServeDelete(t *testing.T) {
	h, fx, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	camp := fx.CreateCamp(ctx, "Camp d'été", models.GroupGarcons, 180, 0)
	other := fx.CreateCamp(ctx, "Camp d'hiver", models.GroupGarcons, 90, 0)
	p := fx.CreateParent(ctx, "Marie", "Dupont", "32477123456")
	child := fx.CreateChild(ctx, "Lucas", "Dupont", testutil.Date(2015, 3, 10), models.GroupGarcons, sectionPtr(models.SectionChevaliers), p.ID)
	signup(t, h, map[string]any{"campId": camp.ID.Hex(), "childId": child.ID.Hex()}).AssertStatus(t, http.StatusCreated)
	signup(t, h, map[string]any{"campId": other.ID.Hex(), "childId": child.ID.Hex()}).AssertStatus(t, http.StatusCreated)

	del := func(user testutil.TestUser, id primitive.ObjectID) *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest(t, http.MethodDelete, "/", nil, user)
		rec := testutil.NewRecorder()
		h.ServeDelete(rec, testutil.WithChiURLParam(req, "id", id.Hex()))
		return rec
	}

	del(testutil.PresidentUser(models.GroupFilles), camp.ID).AssertStatus(t, http.StatusForbidden)
	del(testutil.AnimateurUser(models.GroupGarcons), camp.ID).AssertStatus(t, http.StatusForbidden)
	del(testutil.AdminUser(), camp.ID).AssertStatus(t, http.StatusNoContent)
	del(testutil.AdminUser(), camp.ID).AssertStatus(t, http.StatusNotFound)

	regs := db.Collection("camp_registrations")
	n, err := regs.CountDocuments(ctx, bson.M{"camp_id": camp.ID})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("registrations left for deleted camp = %d", n)
	}
	n, err = regs.CountDocuments(ctx, bson.M{"camp_id": other.ID})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("registrations for other camp = %d, want 1", n)
	}

	n, err = db.Collection("audit_events").CountDocuments(ctx, bson.M{"event_type": audit.EventCampDeleted})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("audit events = %d, want 1", n)
	}
}
