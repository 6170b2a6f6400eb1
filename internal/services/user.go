package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/baratonrides/gobackend/internal/models"
	"github.com/baratonrides/gobackend/internal/store"
)

const usersCollection = "users"

type UserService struct {
	store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

func (s *UserService) Register(ctx context.Context, fullName, email, phone, password string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, errors.New("fullname and email are required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	existing, err := s.store.Count(ctx, usersCollection, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return nil, errors.New("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.NewString(),
		FullName:  fullName,
		Email:     email,
		Phone:     strings.TrimSpace(phone),
		HPassword: string(hashed),
		CreatedAt: time.Now(),
	}
	if err := s.store.Insert(ctx, usersCollection, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return &user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.store.FindOne(ctx, usersCollection, bson.M{"email": email}, &user)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.New("invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HPassword), []byte(password)); err != nil {
		return nil, errors.New("invalid email or password")
	}
	return &user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.store.FindOne(ctx, usersCollection, bson.M{"_id": userID}, &user)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.New("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// UpdateProfile changes the profile fields the app lets a user edit. The
// saved phone number is what prefills the M-Pesa payment sheet.
func (s *UserService) UpdateProfile(ctx context.Context, userID, fullName, phone string) (*models.User, error) {
	set := bson.M{}
	if strings.TrimSpace(fullName) != "" {
		set["fullname"] = strings.TrimSpace(fullName)
	}
	if strings.TrimSpace(phone) != "" {
		set["phone"] = strings.TrimSpace(phone)
	}
	if len(set) == 0 {
		return s.GetUser(ctx, userID)
	}

	matched, err := s.store.UpdateOne(ctx, usersCollection, bson.M{"_id": userID}, set)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if matched == 0 {
		return nil, errors.New("user not found")
	}
	return s.GetUser(ctx, userID)
}
