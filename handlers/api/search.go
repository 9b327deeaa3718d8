package api

import (
	"github.com/gofiber/fiber/v2"

	"memora/service"
	"memora/utils"
)

// SearchHandler handles note search requests.
type SearchHandler struct {
	svc *service.NotesService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(svc *service.NotesService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// SearchRequest is the search request body.
type SearchRequest struct {
	Query string `json:"query"`
}

// HandleSearch runs a case-insensitive substring search over the plain
// text of the user's notes, trash excluded.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("error_invalid_request", err)
	}

	results, err := h.svc.SearchNotes(currentUserID(c), req.Query)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"results": results,
		"query":   req.Query,
	})
}
