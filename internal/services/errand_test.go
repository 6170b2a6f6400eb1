package services

import (
	"context"
	"testing"

	"github.com/baratonrides/gobackend/internal/models"
	"github.com/baratonrides/gobackend/internal/store"
)

func TestRequestErrand(t *testing.T) {
	svc := NewErrandService(store.NewMemory())

	errand, err := svc.RequestErrand(context.Background(), "u1", RequestErrandParams{
		ErrandType:     "shopping",
		UserLocation:   "Hostel B",
		ErrandLocation: "Campus Shop",
		Description:    "Buy stationery",
		Urgency:        models.UrgencyASAP,
		Fee:            150,
		PaymentMethod:  models.PaymentMethodMpesa,
	})
	if err != nil {
		t.Fatalf("request errand: %v", err)
	}
	if errand.Status != models.StatusPending || errand.PaymentStatus != models.PaymentPending {
		t.Errorf("new errand not pending: status=%q payment=%q", errand.Status, errand.PaymentStatus)
	}
	if errand.ScheduledTime != "" {
		t.Errorf("asap errand carries a scheduled time %q", errand.ScheduledTime)
	}
}

func TestRequestErrandScheduledNeedsTime(t *testing.T) {
	svc := NewErrandService(store.NewMemory())
	ctx := context.Background()

	params := RequestErrandParams{
		ErrandType:     "pickup",
		UserLocation:   "Hostel B",
		ErrandLocation: "Gate",
		Description:    "Collect parcel",
		Urgency:        models.UrgencyScheduled,
		Fee:            100,
		PaymentMethod:  models.PaymentMethodCash,
	}
	if _, err := svc.RequestErrand(ctx, "u1", params); err == nil {
		t.Fatal("expected a scheduled errand without a time to be rejected")
	}

	params.ScheduledTime = "2025-03-02T14:00:00Z"
	errand, err := svc.RequestErrand(ctx, "u1", params)
	if err != nil {
		t.Fatalf("request errand: %v", err)
	}
	if errand.ScheduledTime != params.ScheduledTime {
		t.Errorf("scheduled time = %q", errand.ScheduledTime)
	}
}

func TestRequestErrandRejectsBadUrgency(t *testing.T) {
	svc := NewErrandService(store.NewMemory())
	_, err := svc.RequestErrand(context.Background(), "u1", RequestErrandParams{
		ErrandType:     "shopping",
		UserLocation:   "Hostel B",
		ErrandLocation: "Campus Shop",
		Description:    "Buy stationery",
		Urgency:        "whenever",
		Fee:            150,
		PaymentMethod:  models.PaymentMethodMpesa,
	})
	if err == nil {
		t.Fatal("expected invalid urgency to be rejected")
	}
}
