package service

import (
	"errors"
	"strings"

	"memora/models"
	"memora/storage"
	"memora/utils"
)

// AuthService verifies account passwords and provisions new accounts.
type AuthService struct {
	store *storage.Store
}

// NewAuthService creates a new auth service.
func NewAuthService(store *storage.Store) *AuthService {
	return &AuthService{store: store}
}

// Signup creates the user together with the two permanent special
// folders. The folders are written in a single storage transaction so a
// user can never exist with only one of them.
func (s *AuthService) Signup(email, password, displayName string) (*models.User, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if email == "" || password == "" || displayName == "" {
		return nil, utils.ValidationError("error_fields_required", nil)
	}

	user := &models.User{
		Email:       email,
		DisplayName: displayName,
	}
	if err := s.store.CreateUser(user, password); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, utils.ValidationError("error_email_taken", err)
		}
		return nil, utils.InternalServerError("error_internal", err)
	}

	specials := []*models.Folder{
		{
			ID:        models.AllNotesID(user.ID),
			UserID:    user.ID,
			Name:      models.AllNotesName,
			IsSpecial: true,
		},
		{
			ID:        models.RecentlyDeletedID(user.ID),
			UserID:    user.ID,
			Name:      models.RecentlyDeletedName,
			IsSpecial: true,
		},
	}
	if err := s.store.CreateFolders(specials...); err != nil {
		return nil, utils.InternalServerError("error_internal", err)
	}

	return user, nil
}

// Login verifies the credentials. The same error covers an unknown
// email and a wrong password.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, utils.ValidationError("error_fields_required", nil)
	}

	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, utils.AuthenticationError("error_invalid_credentials", err)
		}
		return nil, utils.InternalServerError("error_internal", err)
	}

	if err := s.store.VerifyPassword(user, password); err != nil {
		return nil, utils.AuthenticationError("error_invalid_credentials", err)
	}

	return user, nil
}

// User loads an account by ID; used by the /auth/me endpoint.
func (s *AuthService) User(id string) (*models.User, error) {
	user, err := s.store.GetUser(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, utils.NotFoundError("error_not_found", err)
		}
		return nil, utils.InternalServerError("error_internal", err)
	}
	return user, nil
}
