package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memora/config"
	"memora/middleware"
	"memora/models"
	"memora/service"
	"memora/storage"
	"memora/utils"
	"memora/ws"
)

// newTestApp wires the API the same way main does, over a temporary
// store, and returns the app ready for in-process requests.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	require.NoError(t, utils.InitI18n())

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLHours = 1

	store, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	hub := ws.NewHub()
	go hub.Run()

	cache := utils.NewMemoryCache()
	authService := service.NewAuthService(store)
	notesService := service.NewNotesService(store)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(middleware.LocaleMiddleware())

	authHandler := NewAuthHandler(cfg, authService)
	folderHandler := NewFolderHandler(notesService, cache, hub)
	noteHandler := NewNoteHandler(notesService, hub)
	searchHandler := NewSearchHandler(notesService)

	app.Post("/api/auth/signup", authHandler.Signup)
	app.Post("/api/auth/login", authHandler.Login)

	protected := app.Group("/api", AuthMiddleware(cfg))
	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/folders", folderHandler.List)
	protected.Post("/folders", folderHandler.Create)
	protected.Put("/folders/:id", folderHandler.Rename)
	protected.Delete("/folders/:id", folderHandler.Delete)
	protected.Get("/folders/:id/notes", folderHandler.Notes)
	protected.Get("/notes", noteHandler.List)
	protected.Get("/notes/recent", noteHandler.Recent)
	protected.Post("/notes", noteHandler.Create)
	protected.Put("/notes/:id", noteHandler.Update)
	protected.Patch("/notes/:id", noteHandler.Move)
	protected.Delete("/notes/:id", noteHandler.Delete)
	protected.Post("/search", searchHandler.HandleSearch)

	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundError("error_not_found", nil)
	})

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &fields), "body: %s", raw)
	}
	return resp.StatusCode, fields
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NotNil(t, raw)
	require.NoError(t, json.Unmarshal(raw, v))
}

func decodeString(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var s string
	decode(t, raw, &s)
	return s
}

// signup registers a user and returns the user ID and bearer token.
func signup(t *testing.T, app *fiber.App, email string) (string, string) {
	t.Helper()

	status, fields := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email":       email,
		"password":    "hunter2-strong",
		"displayName": "Tester",
	})
	require.Equal(t, http.StatusCreated, status)

	var user models.User
	decode(t, fields["user"], &user)
	token := decodeString(t, fields["token"])
	require.NotEmpty(t, user.ID)
	require.NotEmpty(t, token)
	return user.ID, token
}

func TestSignupAndLogin(t *testing.T) {
	app := newTestApp(t)

	_, _ = signup(t, app, "ana@example.com")

	status, fields := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email":       "ana@example.com",
		"password":    "other-pass",
		"displayName": "Impostor",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, utils.KindValidation, decodeString(t, fields["code"]))

	status, fields = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "ana@example.com",
		"password": "hunter2-strong",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, fields["token"])

	status, fields = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "ana@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, utils.KindAuthentication, decodeString(t, fields["code"]))
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)

	status, fields := doJSON(t, app, http.MethodGet, "/api/folders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, utils.KindAuthentication, decodeString(t, fields["code"]))

	status, _ = doJSON(t, app, http.MethodGet, "/api/folders", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMe(t *testing.T) {
	app := newTestApp(t)
	userID, token := signup(t, app, "ana@example.com")

	status, fields := doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	var user models.User
	decode(t, fields["user"], &user)
	assert.Equal(t, userID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestNewAccountHasSpecialFolders(t *testing.T) {
	app := newTestApp(t)
	userID, token := signup(t, app, "ana@example.com")

	status, fields := doJSON(t, app, http.MethodGet, "/api/folders", token, nil)
	require.Equal(t, http.StatusOK, status)

	var folders []models.Folder
	decode(t, fields["folders"], &folders)
	require.Len(t, folders, 2)
	assert.Equal(t, models.AllNotesID(userID), folders[0].ID)
	assert.Equal(t, models.RecentlyDeletedID(userID), folders[1].ID)
}

func TestSpecialFolderProtectionOverHTTP(t *testing.T) {
	app := newTestApp(t)
	userID, token := signup(t, app, "ana@example.com")
	trashID := models.RecentlyDeletedID(userID)

	status, fields := doJSON(t, app, http.MethodPut, "/api/folders/"+trashID, token, fiber.Map{"name": "Bin"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, utils.KindInvalidOperation, decodeString(t, fields["code"]))

	status, fields = doJSON(t, app, http.MethodDelete, "/api/folders/"+trashID, token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, utils.KindInvalidOperation, decodeString(t, fields["code"]))
}

func TestNoteLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	userID, token := signup(t, app, "ana@example.com")
	allID := models.AllNotesID(userID)
	trashID := models.RecentlyDeletedID(userID)

	status, fields := doJSON(t, app, http.MethodPost, "/api/folders", token, fiber.Map{"name": "Work"})
	require.Equal(t, http.StatusCreated, status)
	var work models.Folder
	decode(t, fields["folder"], &work)

	status, fields = doJSON(t, app, http.MethodPost, "/api/notes", token, fiber.Map{
		"folderId": work.ID,
		"content":  "Report\nline two\nline three",
	})
	require.Equal(t, http.StatusCreated, status)
	var note models.Note
	decode(t, fields["note"], &note)

	// The summary view derives title and preview.
	status, fields = doJSON(t, app, http.MethodGet, "/api/notes/recent", token, nil)
	require.Equal(t, http.StatusOK, status)
	var summaries []models.NoteSummary
	decode(t, fields["notes"], &summaries)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Report", summaries[0].Title)
	assert.Equal(t, "line two line three", summaries[0].Preview)

	// Searchable while live.
	status, fields = doJSON(t, app, http.MethodPost, "/api/search", token, fiber.Map{"query": "report"})
	require.Equal(t, http.StatusOK, status)
	var results []models.Note
	decode(t, fields["results"], &results)
	require.Len(t, results, 1)

	// Soft delete: move into Recently Deleted.
	status, _ = doJSON(t, app, http.MethodPatch, "/api/notes/"+note.ID, token, fiber.Map{"folderId": trashID})
	require.Equal(t, http.StatusOK, status)

	status, fields = doJSON(t, app, http.MethodGet, "/api/folders/"+allID+"/notes", token, nil)
	require.Equal(t, http.StatusOK, status)
	var visible []models.Note
	decode(t, fields["notes"], &visible)
	assert.Empty(t, visible)

	status, fields = doJSON(t, app, http.MethodPost, "/api/search", token, fiber.Map{"query": "report"})
	require.Equal(t, http.StatusOK, status)
	decode(t, fields["results"], &results)
	assert.Empty(t, results)

	// Restore, then delete the folder: the note lands back in the trash.
	status, _ = doJSON(t, app, http.MethodPatch, "/api/notes/"+note.ID, token, fiber.Map{"folderId": work.ID})
	require.Equal(t, http.StatusOK, status)

	status, fields = doJSON(t, app, http.MethodDelete, "/api/folders/"+work.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, decodeString(t, fields["message"]))

	status, fields = doJSON(t, app, http.MethodGet, "/api/folders/"+trashID+"/notes", token, nil)
	require.Equal(t, http.StatusOK, status)
	var trashed []models.Note
	decode(t, fields["notes"], &trashed)
	require.Len(t, trashed, 1)
	assert.Equal(t, note.ID, trashed[0].ID)

	// Permanent delete, idempotent only in the sense that the second
	// call reports absence.
	status, _ = doJSON(t, app, http.MethodDelete, "/api/notes/"+note.ID, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, fields = doJSON(t, app, http.MethodDelete, "/api/notes/"+note.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, utils.KindNotFound, decodeString(t, fields["code"]))
}

func TestCrossUserIsolationOverHTTP(t *testing.T) {
	app := newTestApp(t)
	_, anaToken := signup(t, app, "ana@example.com")
	_, bobToken := signup(t, app, "bob@example.com")

	status, fields := doJSON(t, app, http.MethodPost, "/api/folders", anaToken, fiber.Map{"name": "Private"})
	require.Equal(t, http.StatusCreated, status)
	var folder models.Folder
	decode(t, fields["folder"], &folder)

	status, fields = doJSON(t, app, http.MethodGet, "/api/folders/"+folder.ID+"/notes", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, utils.KindNotFound, decodeString(t, fields["code"]))

	status, _ = doJSON(t, app, http.MethodDelete, "/api/folders/"+folder.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLocalizedErrors(t *testing.T) {
	app := newTestApp(t)

	_, en := doJSON(t, app, http.MethodGet, "/api/folders", "", nil)
	_, ko := doJSON(t, app, http.MethodGet, "/api/folders?lang=ko", "", nil)

	enMsg := decodeString(t, en["error"])
	koMsg := decodeString(t, ko["error"])
	assert.NotEmpty(t, enMsg)
	assert.NotEmpty(t, koMsg)
	assert.NotEqual(t, enMsg, koMsg)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	app := newTestApp(t)

	status, fields := doJSON(t, app, http.MethodGet, "/bogus", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, utils.KindNotFound, decodeString(t, fields["code"]))
}
