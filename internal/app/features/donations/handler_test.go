package donations_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sevahub/sevahub/internal/app/features/donations"
	donationstore "github.com/sevahub/sevahub/internal/app/store/donations"
	eventstore "github.com/sevahub/sevahub/internal/app/store/events"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/sevahub/sevahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*donations.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := donations.NewHandler(donationstore.New(db), eventstore.New(db), zap.NewNop())
	return h, testutil.NewFixtures(t, db)
}

func TestHandleDonateToEvent_RecordsCompleted(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()
	ngo, _ := fx.CreateApprovedNGO(ctx, "Green Earth", "contact@greenearth.org")
	ev := fx.CreateEvent(ctx, "Beach Cleanup", ngo.ID, 10)
	donor := fx.CreateVolunteer(ctx, "Asha Rao", "asha@example.com")

	body := `{"amount":500}`
	req := testutil.NewJSONRequest("POST", "/api/donate/event/"+ev.ID.Hex(), body)
	req = testutil.WithUser(req, testutil.AsUser(donor.ID, donor.Role))
	req = testutil.WithChiURLParam(req, "eventId", ev.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleDonateToEvent(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusCreated, rec.Code, rec.Body.String())
	}
	env := testutil.DecodeEnvelope(t, rec)
	if env.Message != "Donation successful" {
		t.Errorf("unexpected message %q", env.Message)
	}
	if !strings.Contains(string(env.Data), `"paymentStatus":"completed"`) {
		t.Errorf("direct donations must land completed, got %s", env.Data)
	}
}

func TestHandleDonateToEvent_MissingEvent_Returns404(t *testing.T) {
	h, fx := newTestHandler(t)
	donor := fx.CreateVolunteer(context.Background(), "Asha Rao", "asha@example.com")
	id := primitive.NewObjectID()

	body := `{"amount":500}`
	req := testutil.NewJSONRequest("POST", "/api/donate/event/"+id.Hex(), body)
	req = testutil.WithUser(req, testutil.AsUser(donor.ID, donor.Role))
	req = testutil.WithChiURLParam(req, "eventId", id.Hex())
	rec := httptest.NewRecorder()

	h.HandleDonateToEvent(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHandleDonateToEvent_BadAmounts_Return400(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()
	ngo, _ := fx.CreateApprovedNGO(ctx, "Green Earth", "contact@greenearth.org")
	ev := fx.CreateEvent(ctx, "Beach Cleanup", ngo.ID, 10)
	donor := fx.CreateVolunteer(ctx, "Asha Rao", "asha@example.com")

	for _, body := range []string{`{"amount":0}`, `{"amount":-5}`, `{"amount":1000001}`} {
		req := testutil.NewJSONRequest("POST", "/api/donate/event/"+ev.ID.Hex(), body)
		req = testutil.WithUser(req, testutil.AsUser(donor.ID, donor.Role))
		req = testutil.WithChiURLParam(req, "eventId", ev.ID.Hex())
		rec := httptest.NewRecorder()

		h.HandleDonateToEvent(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected status %d, got %d", body, http.StatusBadRequest, rec.Code)
		}
	}
}

func TestServeList_DonorSeesOwnOnly(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()
	ngo, _ := fx.CreateApprovedNGO(ctx, "Green Earth", "contact@greenearth.org")
	mine := fx.CreateVolunteer(ctx, "Asha Rao", "asha@example.com")
	other := fx.CreateVolunteer(ctx, "Vikram Shah", "vikram@example.com")
	fx.CreateDonation(ctx, mine.ID, ngo.ID, 500, models.PaymentCompleted)
	fx.CreateDonation(ctx, other.ID, ngo.ID, 300, models.PaymentCompleted)

	req := httptest.NewRequest("GET", "/api/donate", nil)
	req = testutil.WithUser(req, testutil.AsUser(mine.ID, mine.Role))
	rec := httptest.NewRecorder()

	h.ServeList(rec, req)

	env := testutil.DecodeEnvelope(t, rec)
	if env.Count == nil || *env.Count != 1 {
		t.Errorf("expected count 1, got %v", env.Count)
	}
}

func TestServeList_AdminSeesAll(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()
	ngo, _ := fx.CreateApprovedNGO(ctx, "Green Earth", "contact@greenearth.org")
	a := fx.CreateVolunteer(ctx, "Asha Rao", "asha@example.com")
	b := fx.CreateVolunteer(ctx, "Vikram Shah", "vikram@example.com")
	fx.CreateDonation(ctx, a.ID, ngo.ID, 500, models.PaymentCompleted)
	fx.CreateDonation(ctx, b.ID, ngo.ID, 300, models.PaymentPending)

	req := httptest.NewRequest("GET", "/api/donate", nil)
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := httptest.NewRecorder()

	h.ServeList(rec, req)

	env := testutil.DecodeEnvelope(t, rec)
	if env.Count == nil || *env.Count != 2 {
		t.Errorf("expected count 2, got %v", env.Count)
	}
}

func TestServeDetail_DonorAndAdmin(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()
	ngo, _ := fx.CreateApprovedNGO(ctx, "Green Earth", "contact@greenearth.org")
	donor := fx.CreateVolunteer(ctx, "Asha Rao", "asha@example.com")
	d := fx.CreateDonation(ctx, donor.ID, ngo.ID, 500, models.PaymentCompleted)

	req := httptest.NewRequest("GET", "/api/donate/"+d.ID.Hex(), nil)
	req = testutil.WithUser(req, testutil.AsUser(donor.ID, donor.Role))
	req = testutil.WithChiURLParam(req, "donationId", d.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeDetail(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("donor view: expected status %d, got %d", http.StatusOK, rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/donate/"+d.ID.Hex(), nil)
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "donationId", d.ID.Hex())
	rec = httptest.NewRecorder()
	h.ServeDetail(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin view: expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestServeDetail_OtherDonor_Returns403(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()
	ngo, _ := fx.CreateApprovedNGO(ctx, "Green Earth", "contact@greenearth.org")
	donor := fx.CreateVolunteer(ctx, "Asha Rao", "asha@example.com")
	d := fx.CreateDonation(ctx, donor.ID, ngo.ID, 500, models.PaymentCompleted)

	req := httptest.NewRequest("GET", "/api/donate/"+d.ID.Hex(), nil)
	req = testutil.WithUser(req, testutil.VolunteerUser())
	req = testutil.WithChiURLParam(req, "donationId", d.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeDetail(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestServeDetail_Missing_Returns404(t *testing.T) {
	h, _ := newTestHandler(t)
	id := primitive.NewObjectID()

	req := httptest.NewRequest("GET", "/api/donate/"+id.Hex(), nil)
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "donationId", id.Hex())
	rec := httptest.NewRecorder()

	h.ServeDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
	env := testutil.DecodeEnvelope(t, rec)
	if env.Message != "Donation not found" {
		t.Errorf("unexpected message %q", env.Message)
	}
}
