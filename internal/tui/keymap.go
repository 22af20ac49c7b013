package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// KeyConfig holds user overrides for rebindable actions. Blank fields keep the defaults.
type KeyConfig struct {
	NewCard   string
	NewColumn string
	Details   string
}

// keyMap represents key map data used by this package.
type keyMap struct {
	quit            key.Binding
	reload          key.Binding
	toggleHelp      key.Binding
	cancel          key.Binding
	moveLeft        key.Binding
	moveRight       key.Binding
	moveUp          key.Binding
	moveDown        key.Binding
	newCard         key.Binding
	newColumn       key.Binding
	renameCard      key.Binding
	renameColumn    key.Binding
	editDescription key.Binding
	addComment      key.Binding
	renameBoard     key.Binding
	deleteColumn    key.Binding
	details         key.Binding
	moveCardLeft    key.Binding
	moveCardRight   key.Binding
	moveCardUp      key.Binding
	moveCardDown    key.Binding
	moveColumnLeft  key.Binding
	moveColumnRight key.Binding
	copyTitle       key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:          key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		cancel:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		moveLeft:        key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:       key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "card up")),
		moveDown:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "card down")),
		newCard:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new card")),
		newColumn:       key.NewBinding(key.WithKeys("N", "shift+n"), key.WithHelp("N", "new column")),
		renameCard:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename card")),
		renameColumn:    key.NewBinding(key.WithKeys("E", "shift+e"), key.WithHelp("E", "rename column")),
		editDescription: key.NewBinding(key.WithKeys("D", "shift+d"), key.WithHelp("D", "edit description")),
		addComment:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
		renameBoard:     key.NewBinding(key.WithKeys("T", "shift+t"), key.WithHelp("T", "board title")),
		deleteColumn:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete column")),
		details:         key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "card details")),
		moveCardLeft:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move card left")),
		moveCardRight:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move card right")),
		moveCardUp:      key.NewBinding(key.WithKeys("K", "shift+k"), key.WithHelp("K", "card earlier")),
		moveCardDown:    key.NewBinding(key.WithKeys("J", "shift+j"), key.WithHelp("J", "card later")),
		moveColumnLeft:  key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "column earlier")),
		moveColumnRight: key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "column later")),
		copyTitle:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy title")),
	}
}

// applyConfig rebinds the configurable actions.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.newCard, cfg.NewCard, "n", "new card")
	configureBinding(&k.newColumn, cfg.NewColumn, "N", "new column")
	configureBinding(&k.details, cfg.Details, "i", "card details")
	// enter always opens details as well.
	k.details.SetKeys(append(k.details.Keys(), "enter")...)
	k.details.SetHelp(k.details.Help().Key+"/enter", "card details")
}

// configureBinding replaces binding keys with the parsed override and keeps help text in sync.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// parseBindingKeys converts one configured key into matcher keys plus its help label.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	if raw == "space" || raw == " " {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		if unicode.IsUpper(r) {
			return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw
		}
		return []string{raw}, raw
	}
	return []string{strings.ToLower(raw)}, raw
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.newCard, k.newColumn, k.details, k.renameCard, k.moveCardLeft, k.moveCardRight, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.newCard, k.newColumn, k.renameCard, k.renameColumn, k.editDescription, k.addComment, k.renameBoard, k.deleteColumn, k.details, k.copyTitle},
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown, k.moveCardLeft, k.moveCardRight, k.moveCardUp, k.moveCardDown, k.moveColumnLeft, k.moveColumnRight},
		{k.cancel, k.reload, k.toggleHelp, k.quit},
	}
}
