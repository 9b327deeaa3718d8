package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"memora/models"
	"memora/service"
	"memora/utils"
	"memora/ws"
)

const folderCacheTTL = 1 * time.Minute

// FolderHandler handles folder management requests. The folder list is
// served through a short-lived read cache that every mutation
// invalidates.
type FolderHandler struct {
	svc   *service.NotesService
	cache *utils.MemoryCache
	hub   *ws.Hub
}

// NewFolderHandler creates a new folder handler.
func NewFolderHandler(svc *service.NotesService, cache *utils.MemoryCache, hub *ws.Hub) *FolderHandler {
	return &FolderHandler{svc: svc, cache: cache, hub: hub}
}

// CreateFolderRequest is the folder creation request body.
type CreateFolderRequest struct {
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
}

// RenameFolderRequest is the folder rename request body.
type RenameFolderRequest struct {
	Name string `json:"name"`
}

func folderCacheKey(userID string) string {
	return "folders:" + userID
}

// List returns the user's folders, oldest first.
func (h *FolderHandler) List(c *fiber.Ctx) error {
	userID := currentUserID(c)

	if cached, ok := h.cache.Get(folderCacheKey(userID)); ok {
		if folders, ok := cached.([]models.Folder); ok {
			return c.JSON(fiber.Map{"folders": folders})
		}
	}

	folders, err := h.svc.Folders(userID)
	if err != nil {
		return err
	}

	h.cache.Set(folderCacheKey(userID), folders, folderCacheTTL)
	return c.JSON(fiber.Map{"folders": folders})
}

// Create creates a regular folder.
func (h *FolderHandler) Create(c *fiber.Ctx) error {
	var req CreateFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("error_invalid_request", err)
	}

	userID := currentUserID(c)
	folder, err := h.svc.CreateFolder(userID, req.Name, req.ParentID)
	if err != nil {
		return err
	}

	h.cache.Delete(folderCacheKey(userID))
	h.hub.Publish(userID, ws.FolderCreated, folder)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"folder": folder})
}

// Rename renames a regular folder.
func (h *FolderHandler) Rename(c *fiber.Ctx) error {
	var req RenameFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("error_invalid_request", err)
	}

	userID := currentUserID(c)
	folder, err := h.svc.RenameFolder(userID, c.Params("id"), req.Name)
	if err != nil {
		return err
	}

	h.cache.Delete(folderCacheKey(userID))
	h.hub.Publish(userID, ws.FolderUpdated, folder)
	return c.JSON(fiber.Map{"folder": folder})
}

// Delete deletes a regular folder; its notes land in Recently Deleted.
func (h *FolderHandler) Delete(c *fiber.Ctx) error {
	userID := currentUserID(c)
	folderID := c.Params("id")

	if err := h.svc.DeleteFolder(userID, folderID); err != nil {
		return err
	}

	h.cache.Delete(folderCacheKey(userID))
	h.hub.Publish(userID, ws.FolderDeleted, fiber.Map{"id": folderID})
	return message(c, "folder_deleted")
}

// Notes returns the folder view: the notes visible in this folder under
// the requested sort order.
func (h *FolderHandler) Notes(c *fiber.Ctx) error {
	sortOpt := service.ParseSortOption(c.Query("sort"))
	notes, err := h.svc.FolderNotes(currentUserID(c), c.Params("id"), sortOpt)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"notes": notes})
}
