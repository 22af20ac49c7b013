package domain

import "strings"

// Card represents a single task item owned by exactly one column.
type Card struct {
	ID          int
	Title       string
	Description string
	Comments    []Comment
}

// NewCard constructs a card with no description and no comments.
func NewCard(id int, title string) (Card, error) {
	if id <= 0 {
		return Card{}, ErrInvalidID
	}
	title, err := NormalizeTitle(title)
	if err != nil {
		return Card{}, err
	}
	return Card{
		ID:       id,
		Title:    title,
		Comments: []Comment{},
	}, nil
}

// Clone copies the card including its comment list.
func (c Card) Clone() Card {
	out := c
	out.Comments = append([]Comment{}, c.Comments...)
	return out
}

// NormalizeTitle trims a column, card or board title and rejects empty values.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrInvalidTitle
	}
	return title, nil
}

// NormalizeText trims free-form text such as comment bodies and rejects empty values.
func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrInvalidText
	}
	return text, nil
}
