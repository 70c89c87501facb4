// Package entities содержит доменные сущности сервиса заметок.
package entities

import (
	"errors"
	"time"
)

// Ограничения полей заметки.
const (
	MaxTitleLength = 100
	MaxSlugLength  = 100
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrSlugTaken    = errors.New("slug already taken")
)

// Note заметка пользователя. Slug уникален среди всех заметок, автор не меняется после создания.
type Note struct {
	ID        string
	Title     string
	Text      string
	Slug      string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNote создает заметку для автора.
func NewNote(authorID, title, text, slug string) *Note {
	now := time.Now().UTC()
	return &Note{
		AuthorID:  authorID,
		Title:     title,
		Text:      text,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsOwnedBy сообщает, является ли пользователь автором заметки.
func (n *Note) IsOwnedBy(userID string) bool {
	return userID != "" && n.AuthorID == userID
}
