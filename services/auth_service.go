package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"bonded_server/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService is the auth collaborator: account records in the key-value
// store, bcrypt password hashes, HS256 bearer tokens carrying the user id
// as subject.
type AuthService struct {
	Store       KVStore
	TokenSecret string
	TokenTTL    time.Duration
}

// Signup creates an account and issues a token so onboarding can proceed
// immediately.
func (s *AuthService) Signup(ctx context.Context, email, password, name, school string) (*models.Account, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	existing, err := s.Store.Get(ctx, models.AccountEmailKey(email))
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", fmt.Errorf("%w: email %s is already registered", ErrConflict, email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		School:       school,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	value, err := json.Marshal(account)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal account: %w", err)
	}
	if err := s.Store.Set(ctx, models.AccountKey(account.ID), value); err != nil {
		return nil, "", err
	}
	if err := s.Store.Set(ctx, models.AccountEmailKey(email), value); err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(account.ID)
	if err != nil {
		return nil, "", err
	}

	log.Printf("✅ Account created: %s (%s)", account.ID, email)
	return &account, token, nil
}

// Login authenticates an email/password pair and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Account, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	value, err := s.Store.Get(ctx, models.AccountEmailKey(email))
	if err != nil {
		return nil, "", err
	}
	if value == nil {
		return nil, "", fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	var account models.Account
	if err := json.Unmarshal(value, &account); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal account for %s: %w", email, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, "", fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	token, err := s.IssueToken(account.ID)
	if err != nil {
		return nil, "", err
	}
	return &account, token, nil
}

// Account fetches an account record by user id.
func (s *AuthService) Account(ctx context.Context, userID string) (*models.Account, error) {
	value, err := s.Store.Get(ctx, models.AccountKey(userID))
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, fmt.Errorf("%w: account %s", ErrNotFound, userID)
	}

	var account models.Account
	if err := json.Unmarshal(value, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account %s: %w", userID, err)
	}
	return &account, nil
}

// IssueToken signs a bearer token for the user.
func (s *AuthService) IssueToken(userID string) (string, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString([]byte(s.TokenSecret))
}

// ResolveToken validates a bearer token and returns the user id it was
// issued for.
func (s *AuthService) ResolveToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.TokenSecret), nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}
	return claims.Subject, nil
}
