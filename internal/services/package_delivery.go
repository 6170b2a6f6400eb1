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

const packageDeliveriesCollection = "package_deliveries"

type PackageDeliveryService struct {
	store store.Store
}

func NewPackageDeliveryService(st store.Store) *PackageDeliveryService {
	return &PackageDeliveryService{store: st}
}

type SendPackageParams struct {
	PickupLocation   string               `json:"pickup_location"`
	DeliveryLocation string               `json:"delivery_location"`
	PackageName      string               `json:"package_name"`
	PackageSize      string               `json:"package_size"`
	RecipientName    string               `json:"recipient_name"`
	RecipientPhone   string               `json:"recipient_phone"`
	DeliveryNotes    string               `json:"delivery_notes"`
	DeliveryTime     string               `json:"delivery_time"`
	Fee              float64              `json:"fee"`
	PaymentMethod    models.PaymentMethod `json:"payment_method"`
}

func (s *PackageDeliveryService) SendPackage(ctx context.Context, userID string, p SendPackageParams) (*models.PackageDelivery, error) {
	if strings.TrimSpace(p.PickupLocation) == "" || strings.TrimSpace(p.DeliveryLocation) == "" {
		return nil, errors.New("pickup and delivery locations are required")
	}
	if strings.TrimSpace(p.PackageName) == "" {
		return nil, errors.New("package name is required")
	}
	if strings.TrimSpace(p.RecipientName) == "" || strings.TrimSpace(p.RecipientPhone) == "" {
		return nil, errors.New("recipient name and phone are required")
	}
	if p.Fee <= 0 {
		return nil, errors.New("fee must be positive")
	}
	if !p.PaymentMethod.Valid() {
		return nil, fmt.Errorf("invalid payment method %q", p.PaymentMethod)
	}

	now := time.Now()
	delivery := models.PackageDelivery{
		ID:               uuid.NewString(),
		UserID:           userID,
		PickupLocation:   strings.TrimSpace(p.PickupLocation),
		DeliveryLocation: strings.TrimSpace(p.DeliveryLocation),
		PackageName:      strings.TrimSpace(p.PackageName),
		PackageSize:      p.PackageSize,
		RecipientName:    strings.TrimSpace(p.RecipientName),
		RecipientPhone:   strings.TrimSpace(p.RecipientPhone),
		DeliveryNotes:    p.DeliveryNotes,
		DeliveryTime:     p.DeliveryTime,
		Fee:              p.Fee,
		TotalAmount:      p.Fee,
		PaymentMethod:    p.PaymentMethod,
		Status:           models.StatusPending,
		PaymentStatus:    models.PaymentPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.Insert(ctx, packageDeliveriesCollection, delivery); err != nil {
		return nil, fmt.Errorf("failed to save package delivery: %w", err)
	}
	return &delivery, nil
}

func (s *PackageDeliveryService) GetDelivery(ctx context.Context, userID, deliveryID string) (*models.PackageDelivery, error) {
	var delivery models.PackageDelivery
	err := s.store.FindOne(ctx, packageDeliveriesCollection, bson.M{"_id": deliveryID, "user_id": userID}, &delivery)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.New("package delivery not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch package delivery: %w", err)
	}
	return &delivery, nil
}

func (s *PackageDeliveryService) ListDeliveries(ctx context.Context, userID string) ([]models.PackageDelivery, error) {
	var deliveries []models.PackageDelivery
	err := s.store.Find(ctx, packageDeliveriesCollection, bson.M{"user_id": userID}, bson.D{{Key: "created_at", Value: -1}}, &deliveries)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch package deliveries: %w", err)
	}
	return deliveries, nil
}
