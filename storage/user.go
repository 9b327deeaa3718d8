package storage

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
	"golang.org/x/crypto/bcrypt"

	"memora/models"
)

// storedUser is the persisted form of a user. The API model excludes
// the password hash from JSON so it can never reach clients; this
// wrapper puts it back for the record written to bbolt.
type storedUser struct {
	*models.User
	PasswordHash string `json:"passwordHash"`
}

func marshalUser(user *models.User) ([]byte, error) {
	return json.Marshal(storedUser{User: user, PasswordHash: user.PasswordHash})
}

func unmarshalUser(data []byte, user *models.User) error {
	su := storedUser{User: user}
	if err := json.Unmarshal(data, &su); err != nil {
		return err
	}
	user.PasswordHash = su.PasswordHash
	return nil
}

// CreateUser hashes the password and stores the user. The email index
// is written in the same transaction, so duplicate emails fail without
// leaving a half-created record.
func (s *Store) CreateUser(user *models.User, password string) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashed)

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	return s.db.Update(func(tx *bbolt.Tx) error {
		emails := tx.Bucket([]byte(userEmailsBucket))
		if emails.Get([]byte(user.Email)) != nil {
			return ErrEmailTaken
		}

		data, err := marshalUser(user)
		if err != nil {
			return err
		}
		if err := tx.Bucket([]byte(usersBucket)).Put([]byte(user.ID), data); err != nil {
			return err
		}
		return emails.Put([]byte(user.Email), []byte(user.ID))
	})
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(id string) (*models.User, error) {
	var user models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(usersBucket)).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return unmarshalUser(data, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user through the email index.
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket([]byte(userEmailsBucket)).Get([]byte(email))
		if id == nil {
			return ErrNotFound
		}
		data := tx.Bucket([]byte(usersBucket)).Get(id)
		if data == nil {
			return ErrNotFound
		}
		return unmarshalUser(data, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyPassword checks a candidate password against the stored hash.
func (s *Store) VerifyPassword(user *models.User, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
}
