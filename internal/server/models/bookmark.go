package models

import "time"

// Owned is implemented by resources that belong to exactly one user.
type Owned interface {
	OwnerID() string
}

type Bookmark struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (b *Bookmark) OwnerID() string { return b.UserID }

// BookmarkDraft holds the caller-supplied fields of a new bookmark.
type BookmarkDraft struct {
	Title       string
	Description *string
	Link        string
}

// BookmarkUpdate is a sparse change set; the owner is not part of it.
type BookmarkUpdate struct {
	Title       *string
	Description *string
	Link        *string
}

func (u BookmarkUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Link == nil
}
