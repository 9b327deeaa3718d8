package models

import "time"

// Note is an HTML content blob owned by one user and sitting in exactly
// one folder. There is no title column: the title is derived from the
// first line of the stripped content.
type Note struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	FolderID   string    `json:"folderId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// NoteSummary is the listing/search projection of a note: derived title
// and preview instead of the full content blob.
type NoteSummary struct {
	ID         string    `json:"id"`
	FolderID   string    `json:"folderId"`
	Title      string    `json:"title"`
	Preview    string    `json:"preview"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}
