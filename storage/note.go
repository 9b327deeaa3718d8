package storage

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"memora/models"
)

func putNote(tx *bbolt.Tx, note *models.Note) error {
	data, err := json.Marshal(note)
	if err != nil {
		return err
	}
	return tx.Bucket([]byte(notesBucket)).Put([]byte(note.ID), data)
}

// CreateNote stores a new note, assigning an ID and timestamps.
func (s *Store) CreateNote(note *models.Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	now := time.Now()
	note.CreatedAt = now
	note.ModifiedAt = now

	return s.db.Update(func(tx *bbolt.Tx) error {
		return putNote(tx, note)
	})
}

// GetNote retrieves a note by ID. Ownership is the caller's check.
func (s *Store) GetNote(id string) (*models.Note, error) {
	var note models.Note
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(notesBucket)).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &note)
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote rewrites a note record. The caller decides which fields
// changed and whether ModifiedAt moves; CreatedAt is never touched here.
func (s *Store) UpdateNote(note *models.Note) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(notesBucket)).Get([]byte(note.ID)) == nil {
			return ErrNotFound
		}
		return putNote(tx, note)
	})
}

// DeleteNote removes a note record permanently.
func (s *Store) DeleteNote(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(notesBucket))
		if b.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}

// NotesByUser retrieves all notes owned by a user, unordered.
func (s *Store) NotesByUser(userID string) ([]models.Note, error) {
	return s.scanNotes(func(n *models.Note) bool { return n.UserID == userID })
}

// NotesByFolder retrieves the notes sitting in one folder.
func (s *Store) NotesByFolder(folderID string) ([]models.Note, error) {
	return s.scanNotes(func(n *models.Note) bool { return n.FolderID == folderID })
}

func (s *Store) scanNotes(match func(*models.Note) bool) ([]models.Note, error) {
	var notes []models.Note
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(notesBucket)).ForEach(func(k, v []byte) error {
			var note models.Note
			if err := json.Unmarshal(v, &note); err != nil {
				return err
			}
			if match(&note) {
				notes = append(notes, note)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// ReassignFolder moves every note in fromFolderID to toFolderID in one
// transaction. Folder deletion uses this before removing the folder
// record. ModifiedAt is left alone; reassignment is not an edit.
func (s *Store) ReassignFolder(fromFolderID, toFolderID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(notesBucket))
		var moved []*models.Note
		err := b.ForEach(func(k, v []byte) error {
			var note models.Note
			if err := json.Unmarshal(v, &note); err != nil {
				return err
			}
			if note.FolderID == fromFolderID {
				note.FolderID = toFolderID
				moved = append(moved, &note)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, note := range moved {
			if err := putNote(tx, note); err != nil {
				return err
			}
		}
		return nil
	})
}
