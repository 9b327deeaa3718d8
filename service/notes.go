package service

import (
	"errors"
	"sort"
	"strings"

	"memora/models"
	"memora/storage"
	"memora/utils"
)

// SortOption selects the ordering of a folder view.
type SortOption string

const (
	SortModifiedAt SortOption = "modifiedAt" // newest edit first (default)
	SortCreatedAt  SortOption = "createdAt"  // newest note first
	SortTitle      SortOption = "title"      // derived title, case-insensitive
)

// ParseSortOption maps a query parameter to a sort option, falling back
// to the modifiedAt default.
func ParseSortOption(s string) SortOption {
	switch SortOption(s) {
	case SortCreatedAt, SortTitle:
		return SortOption(s)
	default:
		return SortModifiedAt
	}
}

// DefaultRecentLimit bounds the recent-notes summary view.
const DefaultRecentLimit = 10

// NotesService applies the folder/note lifecycle rules. Every operation
// takes the verified acting user and re-checks ownership of each record
// it touches, destination folders included.
type NotesService struct {
	store *storage.Store
}

// NewNotesService creates a new notes service.
func NewNotesService(store *storage.Store) *NotesService {
	return &NotesService{store: store}
}

// resolveFolder loads a folder and verifies ownership. A foreign folder
// and a missing folder produce the same error.
func (s *NotesService) resolveFolder(owner, folderID string) (*models.Folder, error) {
	folder, err := s.store.GetFolder(folderID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, utils.NotFoundError("error_folder_not_found", err)
		}
		return nil, utils.InternalServerError("error_internal", err)
	}
	if folder.UserID != owner {
		return nil, utils.NotFoundError("error_folder_not_found", nil)
	}
	return folder, nil
}

func (s *NotesService) resolveNote(owner, noteID string) (*models.Note, error) {
	note, err := s.store.GetNote(noteID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, utils.NotFoundError("error_note_not_found", err)
		}
		return nil, utils.InternalServerError("error_internal", err)
	}
	if note.UserID != owner {
		return nil, utils.NotFoundError("error_note_not_found", nil)
	}
	return note, nil
}

// Folders lists the owner's folders, oldest first.
func (s *NotesService) Folders(owner string) ([]models.Folder, error) {
	folders, err := s.store.FoldersByUser(owner)
	if err != nil {
		return nil, utils.InternalServerError("error_internal", err)
	}
	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].CreatedAt.Before(folders[j].CreatedAt)
	})
	return folders, nil
}

// CreateFolder creates a regular folder. The parent reference is stored
// as given; it is not validated against the owner's folder set.
func (s *NotesService) CreateFolder(owner, name, parentID string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.ValidationError("error_folder_name_required", nil)
	}

	folder := &models.Folder{
		UserID:   owner,
		Name:     name,
		ParentID: parentID,
	}
	if err := s.store.CreateFolder(folder); err != nil {
		return nil, utils.InternalServerError("error_internal", err)
	}
	return folder, nil
}

// RenameFolder renames a regular folder. Special folders are immutable.
func (s *NotesService) RenameFolder(owner, folderID, newName string) (*models.Folder, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, utils.ValidationError("error_folder_name_required", nil)
	}

	folder, err := s.resolveFolder(owner, folderID)
	if err != nil {
		return nil, err
	}
	if folder.IsSpecial {
		return nil, utils.InvalidOperationError("error_special_folder_modify", nil)
	}

	folder.Name = newName
	if err := s.store.UpdateFolder(folder); err != nil {
		return nil, utils.InternalServerError("error_internal", err)
	}
	return folder, nil
}

// DeleteFolder deletes a regular folder. Its notes are first reassigned
// to the owner's Recently Deleted folder; the folder record is removed
// afterwards. When the trash folder cannot be found the reassignment is
// skipped and the delete proceeds anyway, stranding the notes on a
// folder ID that no longer resolves.
func (s *NotesService) DeleteFolder(owner, folderID string) error {
	folder, err := s.resolveFolder(owner, folderID)
	if err != nil {
		return err
	}
	if folder.IsSpecial {
		return utils.InvalidOperationError("error_special_folder_delete", nil)
	}

	// No ownership check here: the trash ID embeds the owner, so the
	// lookup can only ever resolve to the owner's own folder.
	trash, err := s.store.GetFolder(models.RecentlyDeletedID(owner))
	if err == nil {
		if err := s.store.ReassignFolder(folder.ID, trash.ID); err != nil {
			return utils.InternalServerError("error_internal", err)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return utils.InternalServerError("error_internal", err)
	}

	if err := s.store.DeleteFolder(folder.ID); err != nil {
		return utils.InternalServerError("error_internal", err)
	}
	return nil
}

// CreateNote creates a note in the given folder. Content defaults to an
// empty blob and is sanitized before storage.
func (s *NotesService) CreateNote(owner, folderID, content string) (*models.Note, error) {
	if folderID == "" {
		return nil, utils.ValidationError("error_folder_id_required", nil)
	}
	if _, err := s.resolveFolder(owner, folderID); err != nil {
		return nil, err
	}

	note := &models.Note{
		UserID:   owner,
		FolderID: folderID,
		Content:  utils.SanitizeContent(content),
	}
	if err := s.store.CreateNote(note); err != nil {
		return nil, utils.InternalServerError("error_internal", err)
	}
	return note, nil
}

// UpdateNoteContent replaces a note's content and bumps its modified
// timestamp. Folder membership and creation time are untouched. Two
// racing autosaves resolve last-arrival-wins.
func (s *NotesService) UpdateNoteContent(owner, noteID, content string) (*models.Note, error) {
	note, err := s.resolveNote(owner, noteID)
	if err != nil {
		return nil, err
	}

	note.Content = utils.SanitizeContent(content)
	note.ModifiedAt = timeNow()
	if err := s.store.UpdateNote(note); err != nil {
		return nil, utils.InternalServerError("error_internal", err)
	}
	return note, nil
}

// MoveNote reassigns a note to another folder owned by the same user.
// This one operation is the user-facing move, soft delete (target =
// Recently Deleted) and restore (target = anywhere else).
func (s *NotesService) MoveNote(owner, noteID, targetFolderID string) (*models.Note, error) {
	note, err := s.resolveNote(owner, noteID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveFolder(owner, targetFolderID); err != nil {
		return nil, err
	}

	note.FolderID = targetFolderID
	note.ModifiedAt = timeNow()
	if err := s.store.UpdateNote(note); err != nil {
		return nil, utils.InternalServerError("error_internal", err)
	}
	return note, nil
}

// PermanentlyDeleteNote removes the note record. Callers are expected
// to invoke this only from the Recently Deleted view, but that is not
// enforced here; a second call reports not found.
func (s *NotesService) PermanentlyDeleteNote(owner, noteID string) error {
	note, err := s.resolveNote(owner, noteID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteNote(note.ID); err != nil {
		return utils.InternalServerError("error_internal", err)
	}
	return nil
}

// Notes lists every note the owner has, newest edit first.
func (s *NotesService) Notes(owner string) ([]models.Note, error) {
	notes, err := s.store.NotesByUser(owner)
	if err != nil {
		return nil, utils.InternalServerError("error_internal", err)
	}
	if notes == nil {
		notes = []models.Note{}
	}
	sortNotes(notes, SortModifiedAt)
	return notes, nil
}

// FolderNotes is the folder view. The All Notes special folder shows
// everything except the trash; the trash shows exactly its own notes;
// a regular folder shows an exact membership match.
func (s *NotesService) FolderNotes(owner, folderID string, sortOpt SortOption) ([]models.Note, error) {
	folder, err := s.resolveFolder(owner, folderID)
	if err != nil {
		return nil, err
	}

	notes := []models.Note{}
	if folder.ID == models.AllNotesID(owner) {
		trashID := models.RecentlyDeletedID(owner)
		all, err := s.store.NotesByUser(owner)
		if err != nil {
			return nil, utils.InternalServerError("error_internal", err)
		}
		for _, note := range all {
			if note.FolderID != trashID {
				notes = append(notes, note)
			}
		}
	} else {
		notes, err = s.store.NotesByFolder(folder.ID)
		if err != nil {
			return nil, utils.InternalServerError("error_internal", err)
		}
	}

	if notes == nil {
		notes = []models.Note{}
	}
	sortNotes(notes, sortOpt)
	return notes, nil
}

// SearchNotes matches the query case-insensitively against the plain
// text of each note, excluding the trash. A blank query matches nothing.
func (s *NotesService) SearchNotes(owner, query string) ([]models.Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Note{}, nil
	}

	all, err := s.store.NotesByUser(owner)
	if err != nil {
		return nil, utils.InternalServerError("error_internal", err)
	}

	trashID := models.RecentlyDeletedID(owner)
	needle := strings.ToLower(query)
	matches := []models.Note{}
	for _, note := range all {
		if note.FolderID == trashID {
			continue
		}
		if strings.Contains(strings.ToLower(utils.StripHTML(note.Content)), needle) {
			matches = append(matches, note)
		}
	}

	sortNotes(matches, SortModifiedAt)
	return matches, nil
}

// RecentNotes is the summary view: the most recently modified notes
// outside the trash, projected to derived title and preview.
func (s *NotesService) RecentNotes(owner string, limit int) ([]models.NoteSummary, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	all, err := s.store.NotesByUser(owner)
	if err != nil {
		return nil, utils.InternalServerError("error_internal", err)
	}

	trashID := models.RecentlyDeletedID(owner)
	var notes []models.Note
	for _, note := range all {
		if note.FolderID != trashID {
			notes = append(notes, note)
		}
	}
	sortNotes(notes, SortModifiedAt)
	if len(notes) > limit {
		notes = notes[:limit]
	}

	summaries := make([]models.NoteSummary, 0, len(notes))
	for _, note := range notes {
		summaries = append(summaries, models.NoteSummary{
			ID:         note.ID,
			FolderID:   note.FolderID,
			Title:      ExtractTitle(note.Content),
			Preview:    ExtractPreview(note.Content),
			CreatedAt:  note.CreatedAt,
			ModifiedAt: note.ModifiedAt,
		})
	}
	return summaries, nil
}

func sortNotes(notes []models.Note, opt SortOption) {
	switch opt {
	case SortCreatedAt:
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		})
	case SortTitle:
		sort.SliceStable(notes, func(i, j int) bool {
			return titleSortKey(notes[i].Content) < titleSortKey(notes[j].Content)
		})
	default:
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].ModifiedAt.After(notes[j].ModifiedAt)
		})
	}
}
