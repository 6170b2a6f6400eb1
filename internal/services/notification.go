package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/baratonrides/gobackend/internal/models"
	"github.com/baratonrides/gobackend/internal/store"
)

const (
	notificationsCollection     = "notifications"
	notificationReadsCollection = "notification_reads"
)

type NotificationService struct {
	store store.Store
}

func NewNotificationService(st store.Store) *NotificationService {
	return &NotificationService{store: st}
}

// Create records a notification. An empty targetUserID broadcasts to all
// users. Admin enforcement happens at the handler.
func (s *NotificationService) Create(ctx context.Context, createdBy, title, body, targetUserID string) (*models.Notification, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
		return nil, errors.New("title and body are required")
	}

	notification := models.Notification{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(title),
		Body:         strings.TrimSpace(body),
		TargetUserID: targetUserID,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Insert(ctx, notificationsCollection, notification); err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}
	return &notification, nil
}

// ListForUser returns broadcasts plus notifications targeted at the user,
// newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var broadcast, targeted []models.Notification
	if err := s.store.Find(ctx, notificationsCollection, bson.M{"target_user_id": ""}, nil, &broadcast); err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	if err := s.store.Find(ctx, notificationsCollection, bson.M{"target_user_id": userID}, nil, &targeted); err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	all := append(broadcast, targeted...)
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

// MarkRead records that the user has seen a notification. Re-marking is a
// no-op.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	already, err := s.store.Count(ctx, notificationReadsCollection, bson.M{
		"user_id":         userID,
		"notification_id": notificationID,
	})
	if err != nil {
		return fmt.Errorf("failed to check read state: %w", err)
	}
	if already > 0 {
		return nil
	}

	read := models.NotificationRead{
		ID:             uuid.NewString(),
		UserID:         userID,
		NotificationID: notificationID,
		ReadAt:         time.Now(),
	}
	if err := s.store.Insert(ctx, notificationReadsCollection, read); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	notifications, err := s.ListForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	var reads []models.NotificationRead
	if err := s.store.Find(ctx, notificationReadsCollection, bson.M{"user_id": userID}, nil, &reads); err != nil {
		return 0, fmt.Errorf("failed to fetch read state: %w", err)
	}

	readIDs := make(map[string]bool, len(reads))
	for _, r := range reads {
		readIDs[r.NotificationID] = true
	}

	unread := 0
	for _, n := range notifications {
		if !readIDs[n.ID] {
			unread++
		}
	}
	return unread, nil
}
