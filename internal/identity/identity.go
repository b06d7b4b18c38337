// Package identity maps opaque login identifiers (school email or phone) to
// stable user records.
package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campuscheers/cheerd/internal/models"
	"github.com/campuscheers/cheerd/internal/store"
)

type Service struct {
	store store.PollStore
}

func NewService(s store.PollStore) *Service {
	return &Service{store: s}
}

// CreateOrGet resolves an identifier to a user, creating one on first login.
// Idempotent by identifier: repeated calls always yield the same user.
func (s *Service) CreateOrGet(identifier string) (*models.User, error) {
	email, err := normalizeIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	fresh := &models.User{
		UserID:      uuid.NewString(),
		SchoolEmail: email,
		CreatedAt:   time.Now().UTC().Unix(),
	}
	if err := fresh.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if err := s.store.CreateUser(fresh); err != nil {
		return nil, err
	}

	// Re-read so a concurrent first login with the same identifier still
	// resolves to the one record that won the insert.
	user, err = s.store.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s vanished after create", email)
	}
	return user, nil
}

// normalizeIdentifier applies the login screen's validation policy: emails
// must contain "@", phone numbers must be at least 10 characters. Phone
// logins are mapped onto a synthetic school address.
func normalizeIdentifier(identifier string) (string, error) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return "", fmt.Errorf("%w: empty identifier", models.ErrValidation)
	}

	if strings.Contains(id, "@") {
		return strings.ToLower(id), nil
	}

	if len(id) < 10 {
		return "", fmt.Errorf("%w: phone number too short", models.ErrValidation)
	}
	return fmt.Sprintf("%s@school.com", id), nil
}
