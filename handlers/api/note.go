package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"memora/service"
	"memora/utils"
	"memora/ws"
)

// NoteHandler handles note lifecycle requests.
type NoteHandler struct {
	svc *service.NotesService
	hub *ws.Hub
}

// NewNoteHandler creates a new note handler.
func NewNoteHandler(svc *service.NotesService, hub *ws.Hub) *NoteHandler {
	return &NoteHandler{svc: svc, hub: hub}
}

// CreateNoteRequest is the note creation request body.
type CreateNoteRequest struct {
	FolderID string `json:"folderId"`
	Content  string `json:"content"`
}

// UpdateNoteRequest is the content update request body.
type UpdateNoteRequest struct {
	Content string `json:"content"`
}

// MoveNoteRequest is the move request body. Moving into the Recently
// Deleted folder is the soft delete; moving out of it is the restore.
type MoveNoteRequest struct {
	FolderID string `json:"folderId"`
}

// List returns every note the user owns, newest edit first.
func (h *NoteHandler) List(c *fiber.Ctx) error {
	notes, err := h.svc.Notes(currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"notes": notes})
}

// Recent returns the summary view of the most recently edited notes.
func (h *NoteHandler) Recent(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	notes, err := h.svc.RecentNotes(currentUserID(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"notes": notes})
}

// Create creates a note in the requested folder.
func (h *NoteHandler) Create(c *fiber.Ctx) error {
	var req CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("error_invalid_request", err)
	}

	userID := currentUserID(c)
	note, err := h.svc.CreateNote(userID, req.FolderID, req.Content)
	if err != nil {
		return err
	}

	h.hub.Publish(userID, ws.NoteCreated, note)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"note": note})
}

// Update replaces a note's content; the autosaving editor calls this.
func (h *NoteHandler) Update(c *fiber.Ctx) error {
	var req UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("error_invalid_request", err)
	}

	userID := currentUserID(c)
	note, err := h.svc.UpdateNoteContent(userID, c.Params("id"), req.Content)
	if err != nil {
		return err
	}

	h.hub.Publish(userID, ws.NoteUpdated, note)
	return c.JSON(fiber.Map{"note": note})
}

// Move reassigns a note to another folder.
func (h *NoteHandler) Move(c *fiber.Ctx) error {
	var req MoveNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("error_invalid_request", err)
	}

	userID := currentUserID(c)
	note, err := h.svc.MoveNote(userID, c.Params("id"), req.FolderID)
	if err != nil {
		return err
	}

	h.hub.Publish(userID, ws.NoteUpdated, note)
	return c.JSON(fiber.Map{"note": note})
}

// Delete permanently removes a note record.
func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	userID := currentUserID(c)
	noteID := c.Params("id")

	if err := h.svc.PermanentlyDeleteNote(userID, noteID); err != nil {
		return err
	}

	h.hub.Publish(userID, ws.NoteDeleted, fiber.Map{"id": noteID})
	return message(c, "note_deleted")
}
