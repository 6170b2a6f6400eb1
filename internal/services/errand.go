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

const errandsCollection = "errands"

type ErrandService struct {
	store store.Store
}

func NewErrandService(st store.Store) *ErrandService {
	return &ErrandService{store: st}
}

type RequestErrandParams struct {
	ErrandType      string               `json:"errand_type"`
	UserLocation    string               `json:"user_location"`
	ErrandLocation  string               `json:"errand_location"`
	Description     string               `json:"description"`
	AdditionalNotes string               `json:"additional_notes"`
	Urgency         models.ErrandUrgency `json:"urgency"`
	ScheduledTime   string               `json:"scheduled_time"`
	Fee             float64              `json:"fee"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
}

func (s *ErrandService) RequestErrand(ctx context.Context, userID string, p RequestErrandParams) (*models.Errand, error) {
	if strings.TrimSpace(p.ErrandType) == "" {
		return nil, errors.New("errand type is required")
	}
	if strings.TrimSpace(p.UserLocation) == "" || strings.TrimSpace(p.ErrandLocation) == "" {
		return nil, errors.New("user and errand locations are required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return nil, errors.New("description is required")
	}
	if p.Urgency != models.UrgencyASAP && p.Urgency != models.UrgencyScheduled {
		return nil, fmt.Errorf("invalid urgency %q", p.Urgency)
	}
	if p.Urgency == models.UrgencyScheduled && strings.TrimSpace(p.ScheduledTime) == "" {
		return nil, errors.New("scheduled time is required for a scheduled errand")
	}
	if p.Fee <= 0 {
		return nil, errors.New("fee must be positive")
	}
	if !p.PaymentMethod.Valid() {
		return nil, fmt.Errorf("invalid payment method %q", p.PaymentMethod)
	}

	scheduledTime := ""
	if p.Urgency == models.UrgencyScheduled {
		scheduledTime = p.ScheduledTime
	}

	now := time.Now()
	errand := models.Errand{
		ID:              uuid.NewString(),
		UserID:          userID,
		ErrandType:      strings.TrimSpace(p.ErrandType),
		UserLocation:    strings.TrimSpace(p.UserLocation),
		ErrandLocation:  strings.TrimSpace(p.ErrandLocation),
		Description:     strings.TrimSpace(p.Description),
		AdditionalNotes: p.AdditionalNotes,
		Urgency:         p.Urgency,
		ScheduledTime:   scheduledTime,
		Fee:             p.Fee,
		PaymentMethod:   p.PaymentMethod,
		Status:          models.StatusPending,
		PaymentStatus:   models.PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Insert(ctx, errandsCollection, errand); err != nil {
		return nil, fmt.Errorf("failed to save errand: %w", err)
	}
	return &errand, nil
}

func (s *ErrandService) GetErrand(ctx context.Context, userID, errandID string) (*models.Errand, error) {
	var errand models.Errand
	err := s.store.FindOne(ctx, errandsCollection, bson.M{"_id": errandID, "user_id": userID}, &errand)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.New("errand not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch errand: %w", err)
	}
	return &errand, nil
}

func (s *ErrandService) ListErrands(ctx context.Context, userID string) ([]models.Errand, error) {
	var errands []models.Errand
	err := s.store.Find(ctx, errandsCollection, bson.M{"user_id": userID}, bson.D{{Key: "created_at", Value: -1}}, &errands)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch errands: %w", err)
	}
	return errands, nil
}
