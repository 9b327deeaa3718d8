package models

import "time"

// Names of the two permanent folders every user owns from signup onward.
const (
	AllNotesName        = "All Notes"
	RecentlyDeletedName = "Recently Deleted"
)

// Special folder IDs are deterministic per user so lifecycle rules can
// resolve them without a name lookup (display names are localized).
func AllNotesID(userID string) string { return "all-notes-" + userID }

func RecentlyDeletedID(userID string) string { return "recently-deleted-" + userID }

// Folder groups notes. A note belongs to exactly one folder; membership
// in the Recently Deleted folder is what "deleted" means for a note.
type Folder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parentId,omitempty"`
	IsSpecial bool      `json:"isSpecial"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
