package domain

// Column represents an ordered, named group of cards.
type Column struct {
	ID    int
	Title string
	Items []Card
}

// NewColumn constructs an empty column with a normalized title.
func NewColumn(id int, title string) (Column, error) {
	if id <= 0 {
		return Column{}, ErrInvalidID
	}
	title, err := NormalizeTitle(title)
	if err != nil {
		return Column{}, err
	}
	return Column{
		ID:    id,
		Title: title,
		Items: []Card{},
	}, nil
}

// CardIDs returns the card ids in display order.
func (c Column) CardIDs() []int {
	out := make([]int, 0, len(c.Items))
	for _, card := range c.Items {
		out = append(out, card.ID)
	}
	return out
}

// CardIndex returns the position of a card within the column, or -1.
func (c Column) CardIndex(cardID int) int {
	for idx, card := range c.Items {
		if card.ID == cardID {
			return idx
		}
	}
	return -1
}

// Clone deep-copies the column and its cards.
func (c Column) Clone() Column {
	out := c
	out.Items = make([]Card, 0, len(c.Items))
	for _, card := range c.Items {
		out.Items = append(out.Items, card.Clone())
	}
	return out
}
