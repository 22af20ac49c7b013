package domain

import (
	"strings"
	"time"
)

// Comment stores an immutable note appended to a card.
type Comment struct {
	ID        string
	Text      string
	Author    string
	CreatedAt time.Time
}

// NewComment constructs a normalized comment.
func NewComment(id, text, author string, now time.Time) (Comment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Comment{}, ErrInvalidID
	}
	text, err := NormalizeText(text)
	if err != nil {
		return Comment{}, err
	}
	return Comment{
		ID:        id,
		Text:      text,
		Author:    strings.TrimSpace(author),
		CreatedAt: now.UTC(),
	}, nil
}
