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

const foodOrdersCollection = "food_orders"

// Flat delivery fee in KES added once per order.
const foodDeliveryFee = 100

type FoodOrderService struct {
	store store.Store
}

func NewFoodOrderService(st store.Store) *FoodOrderService {
	return &FoodOrderService{store: st}
}

type PlaceOrderParams struct {
	RestaurantID    string               `json:"restaurant_id"`
	Items           []models.OrderItem   `json:"items"`
	DeliveryAddress string               `json:"delivery_address"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
}

func (s *FoodOrderService) PlaceOrder(ctx context.Context, userID string, p PlaceOrderParams) (*models.FoodOrder, error) {
	if strings.TrimSpace(p.RestaurantID) == "" {
		return nil, errors.New("restaurant is required")
	}
	if len(p.Items) == 0 {
		return nil, errors.New("order has no items")
	}
	if strings.TrimSpace(p.DeliveryAddress) == "" {
		return nil, errors.New("delivery address is required")
	}
	if !p.PaymentMethod.Valid() {
		return nil, fmt.Errorf("invalid payment method %q", p.PaymentMethod)
	}

	var itemsTotal float64
	for _, item := range p.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity for item %q", item.Name)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("invalid price for item %q", item.Name)
		}
		itemsTotal += item.Price * float64(item.Quantity)
	}

	// Orders paid electronically start as processing; cash settles on
	// delivery and stays pending until then.
	paymentStatus := models.PaymentPending
	if p.PaymentMethod != models.PaymentMethodCash {
		paymentStatus = models.PaymentProcessing
	}

	now := time.Now()
	order := models.FoodOrder{
		ID:              uuid.NewString(),
		UserID:          userID,
		RestaurantID:    p.RestaurantID,
		Items:           p.Items,
		DeliveryAddress: strings.TrimSpace(p.DeliveryAddress),
		DeliveryFee:     foodDeliveryFee,
		TotalAmount:     itemsTotal + foodDeliveryFee,
		PaymentMethod:   p.PaymentMethod,
		Status:          models.StatusPending,
		PaymentStatus:   paymentStatus,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Insert(ctx, foodOrdersCollection, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	return &order, nil
}

func (s *FoodOrderService) GetOrder(ctx context.Context, userID, orderID string) (*models.FoodOrder, error) {
	var order models.FoodOrder
	err := s.store.FindOne(ctx, foodOrdersCollection, bson.M{"_id": orderID, "user_id": userID}, &order)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.New("order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	return &order, nil
}

func (s *FoodOrderService) ListOrders(ctx context.Context, userID string) ([]models.FoodOrder, error) {
	var orders []models.FoodOrder
	err := s.store.Find(ctx, foodOrdersCollection, bson.M{"user_id": userID}, bson.D{{Key: "created_at", Value: -1}}, &orders)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}
