package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/baratonrides/gobackend/internal/models"
	"github.com/baratonrides/gobackend/internal/store"
)

const ridesCollection = "rides"

type RideService struct {
	store store.Store
}

func NewRideService(st store.Store) *RideService {
	return &RideService{store: st}
}

type BookRideParams struct {
	PickupLocation string               `json:"pickup_location"`
	Destination    string               `json:"destination"`
	RideType       models.RideType      `json:"ride_type"`
	Fare           float64              `json:"fare"`
	PaymentMethod  models.PaymentMethod `json:"payment_method"`
}

// BookRide creates the ride pending on both workflow and payment; payment is
// attempted afterwards against the returned ride id.
func (s *RideService) BookRide(ctx context.Context, userID string, p BookRideParams) (*models.Ride, error) {
	if strings.TrimSpace(p.PickupLocation) == "" || strings.TrimSpace(p.Destination) == "" {
		return nil, errors.New("pickup and destination are required")
	}
	if p.RideType != models.RideTypeCar && p.RideType != models.RideTypeBike {
		return nil, fmt.Errorf("invalid ride type %q", p.RideType)
	}
	if p.Fare <= 0 {
		return nil, errors.New("fare must be positive")
	}
	if !p.PaymentMethod.Valid() {
		return nil, fmt.Errorf("invalid payment method %q", p.PaymentMethod)
	}

	now := time.Now()
	ride := models.Ride{
		ID:             uuid.NewString(),
		UserID:         userID,
		BookingCode:    bookingCode("BR"),
		PickupLocation: strings.TrimSpace(p.PickupLocation),
		Destination:    strings.TrimSpace(p.Destination),
		RideType:       p.RideType,
		Fare:           p.Fare,
		TotalAmount:    p.Fare,
		PaymentMethod:  p.PaymentMethod,
		Status:         models.StatusPending,
		PaymentStatus:  models.PaymentPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Insert(ctx, ridesCollection, ride); err != nil {
		return nil, fmt.Errorf("failed to save ride: %w", err)
	}
	return &ride, nil
}

func (s *RideService) GetRide(ctx context.Context, userID, rideID string) (*models.Ride, error) {
	var ride models.Ride
	err := s.store.FindOne(ctx, ridesCollection, bson.M{"_id": rideID, "user_id": userID}, &ride)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.New("ride not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ride: %w", err)
	}
	return &ride, nil
}

func (s *RideService) ListRides(ctx context.Context, userID string) ([]models.Ride, error) {
	var rides []models.Ride
	err := s.store.Find(ctx, ridesCollection, bson.M{"user_id": userID}, bson.D{{Key: "created_at", Value: -1}}, &rides)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rides: %w", err)
	}
	return rides, nil
}

// CancelRide cancels a ride that is still waiting for a driver. The update
// is conditional on the pending status so an accepted ride cannot be
// cancelled out from under its driver.
func (s *RideService) CancelRide(ctx context.Context, userID, rideID string) error {
	matched, err := s.store.UpdateOne(ctx, ridesCollection, bson.M{
		"_id":     rideID,
		"user_id": userID,
		"status":  models.StatusPending,
	}, bson.M{
		"status":     models.StatusCancelled,
		"updated_at": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to cancel ride: %w", err)
	}
	if matched == 0 {
		return errors.New("ride not found or no longer pending")
	}
	return nil
}

// bookingCode derives a short human-readable reference like BR-9F3A21C4.
func bookingCode(prefix string) string {
	id := uuid.NewString()
	return prefix + "-" + strings.ToUpper(id[:8])
}
