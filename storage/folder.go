package storage

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"memora/models"
)

func putFolder(tx *bbolt.Tx, folder *models.Folder) error {
	data, err := json.Marshal(folder)
	if err != nil {
		return err
	}
	return tx.Bucket([]byte(foldersBucket)).Put([]byte(folder.ID), data)
}

// CreateFolder stores a single folder, assigning an ID and timestamps
// if unset.
func (s *Store) CreateFolder(folder *models.Folder) error {
	return s.CreateFolders(folder)
}

// CreateFolders stores the given folders in one transaction. Signup
// relies on this to create both special folders atomically.
func (s *Store) CreateFolders(folders ...*models.Folder) error {
	now := time.Now()
	for _, folder := range folders {
		if folder.ID == "" {
			folder.ID = uuid.New().String()
		}
		folder.CreatedAt = now
		folder.UpdatedAt = now
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, folder := range folders {
			if err := putFolder(tx, folder); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetFolder retrieves a folder by ID. Ownership is the caller's check.
func (s *Store) GetFolder(id string) (*models.Folder, error) {
	var folder models.Folder
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(foldersBucket)).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &folder)
	})
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// UpdateFolder rewrites a folder record and bumps its update timestamp.
func (s *Store) UpdateFolder(folder *models.Folder) error {
	folder.UpdatedAt = time.Now()
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(foldersBucket)).Get([]byte(folder.ID)) == nil {
			return ErrNotFound
		}
		return putFolder(tx, folder)
	})
}

// DeleteFolder removes a folder record.
func (s *Store) DeleteFolder(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(foldersBucket))
		if b.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}

// FoldersByUser retrieves all folders owned by a user, unordered.
func (s *Store) FoldersByUser(userID string) ([]models.Folder, error) {
	var folders []models.Folder
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(foldersBucket)).ForEach(func(k, v []byte) error {
			var folder models.Folder
			if err := json.Unmarshal(v, &folder); err != nil {
				return err
			}
			if folder.UserID == userID {
				folders = append(folders, folder)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return folders, nil
}
