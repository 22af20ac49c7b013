package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"github.com/evanschultz/dndboard/internal/app"
	"github.com/evanschultz/dndboard/internal/dnd"
	"github.com/evanschultz/dndboard/internal/domain"
)

// Store represents the board store capabilities used by the TUI.
type Store interface {
	app.BoardStore
	Hydrated() bool
	Rehydrate(context.Context)
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeAddCard
	modeAddColumn
	modeRenameCard
	modeRenameColumn
	modeEditDescription
	modeAddComment
	modeRenameBoard
	modeConfirmDeleteColumn
	modeDetails
)

// Model represents model data used by this package.
type Model struct {
	store    Store
	feed     *boardFeed
	board    domain.Board
	hydrated bool

	ready  bool
	width  int
	height int
	status string

	help help.Model
	keys keyMap

	mode           inputMode
	input          textinput.Model
	targetColumnID int
	targetCardID   int

	selectedColumn int
	selectedCard   int
	pendingFocus   focusTarget

	tracker      *dnd.Tracker
	descriptions *descriptionRenderer

	author   string
	copyText func(string) error
}

// focusTarget names the entity to select once the next board arrives.
type focusTarget struct {
	columnID int
	cardID   int
	lastCard bool
}

// hydratedMsg reports that the store finished loading the persisted board.
type hydratedMsg struct{}

// actionMsg carries message data through update handling.
type actionMsg struct {
	err    error
	status string
	focus  focusTarget
}

// copiedMsg reports the result of a clipboard write.
type copiedMsg struct {
	title string
	err   error
}

// NewModel constructs a new value for this package.
func NewModel(store Store, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		store:        store,
		feed:         newBoardFeed(store),
		board:        store.Snapshot(),
		hydrated:     store.Hydrated(),
		status:       "loading...",
		help:         h,
		keys:         newKeyMap(),
		tracker:      dnd.NewTracker(),
		descriptions: &descriptionRenderer{},
		copyText:     clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	if m.hydrated {
		return m.feed.wait
	}
	return tea.Batch(m.feed.wait, m.rehydrate)
}

// rehydrate loads the persisted board through the store.
func (m Model) rehydrate() tea.Msg {
	m.store.Rehydrate(context.Background())
	return hydratedMsg{}
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardChangedMsg:
		m.applyBoard(msg.board)
		return m, m.feed.wait

	case hydratedMsg:
		m.applyBoard(m.store.Snapshot())
		if m.status == "" || m.status == "loading..." || m.status == "reloading..." {
			m.status = "ready"
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			return m, nil
		}
		m.pendingFocus = msg.focus
		m.applyBoard(m.store.Snapshot())
		if msg.status != "" {
			m.status = msg.status
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "copied " + truncate(msg.title, 32)
		return m, nil

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)
	}
	return m, nil
}

// applyBoard swaps in a store board and re-anchors selection and any live drag.
func (m *Model) applyBoard(board domain.Board) {
	m.board = board
	m.hydrated = m.store.Hydrated()
	if m.tracker.Active() && !m.dragTargetExists() {
		m.tracker.Cancel()
		m.status = "drag cancelled: item removed"
	}
	if focus := m.pendingFocus; focus != (focusTarget{}) {
		m.pendingFocus = focusTarget{}
		switch {
		case focus.cardID != 0:
			m.focusCard(focus.cardID)
		case focus.columnID != 0:
			m.focusColumn(focus.columnID)
			if focus.lastCard {
				m.selectedCard = len(m.currentColumn().Items) - 1
			}
		}
	}
	m.clampSelections()
}

// dragTargetExists reports whether the dragged entity is still on the board.
func (m Model) dragTargetExists() bool {
	session := m.tracker.Session()
	switch session.Kind {
	case dnd.KindCard:
		_, ok := m.board.Card(session.DraggedID)
		return ok
	case dnd.KindColumn:
		return m.board.ColumnIndex(session.DraggedID) >= 0
	default:
		return false
	}
}

// handleNormalModeKey handles normal mode key.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll {
		switch {
		case key.Matches(msg, m.keys.quit):
			m.feed.close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.toggleHelp), key.Matches(msg, m.keys.cancel):
			m.help.ShowAll = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.feed.close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.cancel):
		if m.tracker.Active() {
			m.tracker.Cancel()
			m.status = "drag cancelled"
		}
		return m, nil
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = true
		return m, nil
	}

	if !m.hydrated {
		return m, nil
	}
	if m.tracker.Active() {
		m.status = "finish or cancel the drag first"
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.rehydrate
	case key.Matches(msg, m.keys.moveLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
		}
		m.clampSelections()
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		if m.selectedColumn < len(m.board.Columns)-1 {
			m.selectedColumn++
		}
		m.clampSelections()
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.selectedCard > 0 {
			m.selectedCard--
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		if m.selectedCard < len(m.currentColumn().Items)-1 {
			m.selectedCard++
		}
		return m, nil
	case key.Matches(msg, m.keys.newColumn):
		return m, m.startInput(modeAddColumn, "column: ", "column title", "")
	case key.Matches(msg, m.keys.renameBoard):
		return m, m.startInput(modeRenameBoard, "board: ", "board title", m.board.Title)
	}

	column, hasColumn := m.selectedColumnValue()
	if !hasColumn {
		if key.Matches(msg, m.keys.newCard, m.keys.renameColumn, m.keys.deleteColumn, m.keys.moveColumnLeft, m.keys.moveColumnRight) {
			m.status = "add a column first"
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.newCard):
		m.targetColumnID = column.ID
		return m, m.startInput(modeAddCard, "card: ", "card title", "")
	case key.Matches(msg, m.keys.renameColumn):
		m.targetColumnID = column.ID
		return m, m.startInput(modeRenameColumn, "column: ", "column title", column.Title)
	case key.Matches(msg, m.keys.deleteColumn):
		m.targetColumnID = column.ID
		m.mode = modeConfirmDeleteColumn
		m.status = "confirm delete"
		return m, nil
	case key.Matches(msg, m.keys.moveColumnLeft):
		return m.reorderSelectedColumn(-1)
	case key.Matches(msg, m.keys.moveColumnRight):
		return m.reorderSelectedColumn(1)
	}

	card, hasCard := m.selectedCardValue()
	if !hasCard {
		if key.Matches(msg, m.keys.renameCard, m.keys.editDescription, m.keys.addComment, m.keys.details, m.keys.moveCardLeft, m.keys.moveCardRight, m.keys.moveCardUp, m.keys.moveCardDown, m.keys.copyTitle) {
			m.status = "no card selected"
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.renameCard):
		m.targetCardID = card.ID
		return m, m.startInput(modeRenameCard, "title: ", "card title", card.Title)
	case key.Matches(msg, m.keys.editDescription):
		m.targetCardID = card.ID
		return m, m.startInput(modeEditDescription, "description: ", "markdown description (empty clears)", card.Description)
	case key.Matches(msg, m.keys.addComment):
		m.targetCardID = card.ID
		return m, m.startInput(modeAddComment, "comment: ", "comment text", "")
	case key.Matches(msg, m.keys.details):
		m.targetCardID = card.ID
		m.mode = modeDetails
		m.status = "card details"
		return m, nil
	case key.Matches(msg, m.keys.moveCardLeft):
		return m.moveSelectedCard(-1)
	case key.Matches(msg, m.keys.moveCardRight):
		return m.moveSelectedCard(1)
	case key.Matches(msg, m.keys.moveCardUp):
		return m.reorderSelectedCard(-1)
	case key.Matches(msg, m.keys.moveCardDown):
		return m.reorderSelectedCard(1)
	case key.Matches(msg, m.keys.copyTitle):
		write := m.copyText
		title := card.Title
		return m, func() tea.Msg {
			return copiedMsg{title: title, err: write(title)}
		}
	}
	return m, nil
}

// handleInputModeKey handles input mode key.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeDetails:
		if msg.String() == "esc" || msg.String() == "q" || key.Matches(msg, m.keys.details) {
			m.mode = modeNone
			m.targetCardID = 0
			m.status = "ready"
		}
		return m, nil

	case modeConfirmDeleteColumn:
		switch msg.String() {
		case "y", "enter":
			columnID := m.targetColumnID
			m.mode = modeNone
			m.targetColumnID = 0
			return m, m.dispatch(app.DeleteColumn{ColumnID: columnID}, "column deleted", focusTarget{})
		case "n", "esc":
			m.mode = modeNone
			m.targetColumnID = 0
			m.status = "delete cancelled"
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.closeInput()
		m.status = "cancelled"
		return m, nil
	case "enter":
		return m.submitInputMode()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startInput opens a single-line prompt for mode.
func (m *Model) startInput(mode inputMode, prompt, placeholder, value string) tea.Cmd {
	m.mode = mode
	m.input = newModalInput(prompt, placeholder, value, 240)
	m.status = m.modeLabel()
	return m.input.Focus()
}

// closeInput leaves any prompt mode.
func (m *Model) closeInput() {
	m.mode = modeNone
	m.input.Blur()
	m.targetColumnID = 0
	m.targetCardID = 0
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// submitInputMode submits input mode.
func (m Model) submitInputMode() (tea.Model, tea.Cmd) {
	raw := m.input.Value()
	columnID, cardID := m.targetColumnID, m.targetCardID

	// Descriptions may be cleared; every other prompt needs non-blank text.
	if m.mode == modeEditDescription {
		m.closeInput()
		return m, m.dispatch(app.UpdateCardDescription{CardID: cardID, Description: strings.TrimSpace(raw)}, "description saved", focusTarget{cardID: cardID})
	}
	if m.mode == modeAddComment {
		text, err := domain.NormalizeText(raw)
		if err != nil {
			m.status = "comment text required"
			return m, nil
		}
		m.closeInput()
		return m, m.dispatch(app.AddComment{CardID: cardID, Text: text, Author: m.author}, "comment added", focusTarget{cardID: cardID})
	}

	title, err := domain.NormalizeTitle(raw)
	if err != nil {
		m.status = "title required"
		return m, nil
	}
	mode := m.mode
	m.closeInput()
	switch mode {
	case modeAddCard:
		return m, m.dispatch(app.AddCard{ColumnID: columnID, Title: title}, "card added", focusTarget{columnID: columnID, lastCard: true})
	case modeAddColumn:
		return m, m.dispatch(app.AddColumn{Title: title}, "column added", focusTarget{columnID: -1})
	case modeRenameCard:
		return m, m.dispatch(app.UpdateCardTitle{CardID: cardID, Title: title}, "card renamed", focusTarget{cardID: cardID})
	case modeRenameColumn:
		return m, m.dispatch(app.UpdateColumnTitle{ColumnID: columnID, Title: title}, "column renamed", focusTarget{columnID: columnID})
	case modeRenameBoard:
		return m, m.dispatch(app.UpdateBoardTitle{Title: title}, "board renamed", focusTarget{})
	}
	return m, nil
}

// dispatch runs one store action off the update loop.
func (m Model) dispatch(action app.Action, status string, focus focusTarget) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if err := store.Dispatch(context.Background(), action); err != nil {
			return actionMsg{err: fmt.Errorf("%s: %w", action.Name(), err)}
		}
		return actionMsg{status: status, focus: focus}
	}
}

// moveSelectedCard moves the selected card to the adjacent column, appending it there.
func (m Model) moveSelectedCard(delta int) (tea.Model, tea.Cmd) {
	from := m.currentColumn()
	card, ok := m.selectedCardValue()
	if !ok {
		return m, nil
	}
	targetIdx := m.selectedColumn + delta
	if targetIdx < 0 || targetIdx >= len(m.board.Columns) {
		m.status = "no column in that direction"
		return m, nil
	}
	to := m.board.Columns[targetIdx]
	action := app.MoveCard{CardID: card.ID, FromColumnID: from.ID, ToColumnID: to.ID, Index: len(to.Items)}
	return m, m.dispatch(action, "moved to "+to.Title, focusTarget{cardID: card.ID})
}

// reorderSelectedCard shifts the selected card one slot within its column.
func (m Model) reorderSelectedCard(delta int) (tea.Model, tea.Cmd) {
	column := m.currentColumn()
	card, ok := m.selectedCardValue()
	if !ok {
		return m, nil
	}
	target := m.selectedCard + delta
	if target < 0 || target >= len(column.Items) {
		return m, nil
	}
	ids := app.MoveIndex(column.CardIDs(), m.selectedCard, target)
	return m, m.dispatch(app.ReorderCardsInColumn{ColumnID: column.ID, CardIDs: ids}, "card reordered", focusTarget{cardID: card.ID})
}

// reorderSelectedColumn shifts the selected column one slot on the board.
func (m Model) reorderSelectedColumn(delta int) (tea.Model, tea.Cmd) {
	target := m.selectedColumn + delta
	if target < 0 || target >= len(m.board.Columns) {
		return m, nil
	}
	columnID := m.board.Columns[m.selectedColumn].ID
	ids := app.MoveIndex(m.board.ColumnIDs(), m.selectedColumn, target)
	return m, m.dispatch(app.ReorderColumns{ColumnIDs: ids}, "column reordered", focusTarget{columnID: columnID})
}

// handleMouseClick starts a drag when the left button goes down on a card or column header.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll || m.mode != modeNone || !m.hydrated || msg.Button != tea.MouseLeft {
		return m, nil
	}
	h := m.layout().hitAt(msg.X, msg.Y)
	if h.kind == hitNone {
		return m, nil
	}
	if m.tracker.Active() {
		m.tracker.Cancel()
	}
	m.focusColumn(h.columnID)

	var err error
	switch h.kind {
	case hitCard:
		m.focusCard(h.cardID)
		err = m.tracker.StartCard(m.board, h.cardID)
	case hitHeader:
		err = m.tracker.StartColumn(m.board, h.columnID)
	default:
		return m, nil
	}
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.tracker.Over(m.board, h.target())
	m.status = "dragging " + m.dragLabel()
	return m, nil
}

// handleMouseMotion updates the drop preview for the hovered cell.
func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if !m.tracker.Active() {
		return m, nil
	}
	m.tracker.Over(m.board, m.layout().hitAt(msg.X, msg.Y).target())
	return m, nil
}

// handleMouseRelease ends the drag and applies the resolved commit.
func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if !m.tracker.Active() {
		return m, nil
	}
	m.tracker.Over(m.board, m.layout().hitAt(msg.X, msg.Y).target())
	session := m.tracker.Session()
	commit := m.tracker.End(m.board)
	if commit.IsNone() {
		m.status = "ready"
		return m, nil
	}
	store := m.store
	focus := focusTarget{cardID: session.DraggedID}
	if session.Kind == dnd.KindColumn {
		focus = focusTarget{columnID: session.DraggedID}
	}
	status := commitStatus(commit)
	return m, func() tea.Msg {
		if err := dnd.Apply(context.Background(), store, commit); err != nil {
			return actionMsg{err: fmt.Errorf("drop: %w", err)}
		}
		return actionMsg{status: status, focus: focus}
	}
}

// commitStatus describes a commit for the status line.
func commitStatus(c dnd.Commit) string {
	switch c.Kind {
	case dnd.CommitMoveCard:
		return fmt.Sprintf("moved card %d", c.CardID)
	case dnd.CommitReorderCards:
		return fmt.Sprintf("reordered column %d", c.ColumnID)
	case dnd.CommitReorderColumns:
		return "reordered columns"
	default:
		return ""
	}
}

// handleMouseWheel handles mouse wheel.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll || m.mode != modeNone || m.tracker.Active() {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		if m.selectedCard > 0 {
			m.selectedCard--
		}
	case tea.MouseWheelDown:
		if m.selectedCard < len(m.currentColumn().Items)-1 {
			m.selectedCard++
		}
	}
	return m, nil
}

// dragLabel names the dragged entity.
func (m Model) dragLabel() string {
	session := m.tracker.Session()
	switch session.Kind {
	case dnd.KindCard:
		if card, ok := m.board.Card(session.DraggedID); ok {
			return "card " + truncate(card.Title, 32)
		}
	case dnd.KindColumn:
		if column, ok := m.board.Column(session.DraggedID); ok {
			return "column " + truncate(column.Title, 32)
		}
	}
	return "item"
}

// clampSelections clamps selections.
func (m *Model) clampSelections() {
	if len(m.board.Columns) == 0 {
		m.selectedColumn = 0
		m.selectedCard = 0
		return
	}
	m.selectedColumn = clamp(m.selectedColumn, 0, len(m.board.Columns)-1)
	m.selectedCard = clamp(m.selectedCard, 0, max(0, len(m.board.Columns[m.selectedColumn].Items)-1))
}

// focusCard selects the card with cardID when it exists.
func (m *Model) focusCard(cardID int) {
	if columnIdx, cardIdx, ok := m.board.FindCard(cardID); ok {
		m.selectedColumn = columnIdx
		m.selectedCard = cardIdx
	}
}

// focusColumn selects a column by id; a negative id selects the last column.
func (m *Model) focusColumn(columnID int) {
	if columnID < 0 {
		m.selectedColumn = len(m.board.Columns) - 1
		m.selectedCard = 0
		return
	}
	if idx := m.board.ColumnIndex(columnID); idx >= 0 && idx != m.selectedColumn {
		m.selectedColumn = idx
		m.selectedCard = 0
	}
}

// currentColumn returns the selected column or a zero column.
func (m Model) currentColumn() domain.Column {
	column, _ := m.selectedColumnValue()
	return column
}

// selectedColumnValue returns the selected column.
func (m Model) selectedColumnValue() (domain.Column, bool) {
	if len(m.board.Columns) == 0 {
		return domain.Column{}, false
	}
	return m.board.Columns[clamp(m.selectedColumn, 0, len(m.board.Columns)-1)], true
}

// selectedCardValue returns the selected card.
func (m Model) selectedCardValue() (domain.Card, bool) {
	column, ok := m.selectedColumnValue()
	if !ok || len(column.Items) == 0 {
		return domain.Card{}, false
	}
	return column.Items[clamp(m.selectedCard, 0, len(column.Items)-1)], true
}

// View renders the current model state.
func (m Model) View() tea.View {
	return newBoardView(m.render())
}

// render draws the full screen as a string.
func (m Model) render() string {
	if !m.ready || !m.hydrated {
		return "loading..."
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("dndboard") + "  " + truncate(m.board.Title, max(8, m.width-32))
	header += statusStyle.Render("  [" + m.modeLabel() + "]")

	var body string
	if len(m.board.Columns) == 0 {
		body = strings.Join([]string{
			"No columns yet.",
			fmt.Sprintf("Press %s to add one.", m.keys.newColumn.Help().Key),
		}, "\n")
	} else {
		body = m.renderColumns(accent, muted, dim)
	}

	sections := []string{header, "", body}
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	} else {
		sections = append(sections, "")
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	fullContent := content + "\n" + helpLine

	overlay := m.renderModeOverlay(accent, muted, m.width-8)
	if m.help.ShowAll {
		overlay = m.renderHelpOverlay(accent, muted, dim, m.width-8)
	}
	if overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}
	return fullContent
}

// newBoardView wraps content in a mouse-enabled alt-screen view.
func newBoardView(content string) tea.View {
	v := tea.NewView(content)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// columnStyle returns the bordered box style every column is drawn with.
func columnStyle(border color.Color, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		MarginRight(columnMargin).
		Width(width)
}

// renderColumns draws every column side by side, including the live drag preview.
func (m Model) renderColumns(accent, muted, dim color.Color) string {
	width := m.columnWidth()
	innerHeight := max(1, m.columnHeight()-2)
	textWidth := max(4, width-4)

	highlight := lipgloss.Color("212")
	colTitle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	ruleStyle := lipgloss.NewStyle().Foreground(dim)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	selectedStyle := lipgloss.NewStyle().Foreground(highlight).Bold(true)
	draggedStyle := lipgloss.NewStyle().Foreground(muted).Italic(true)
	indicatorStyle := lipgloss.NewStyle().Foreground(highlight).Bold(true)

	session := m.tracker.Session()
	dragging := m.tracker.Active()

	views := make([]string, 0, len(m.board.Columns))
	for colIdx, column := range m.board.Columns {
		indicator := -1
		if dragging && session.Kind == dnd.KindCard && session.HasPreview && session.Preview.ColumnID == column.ID {
			indicator = session.Preview.Index
		}

		lines := []string{
			colTitle.Render(truncate(fmt.Sprintf("%s (%d)", column.Title, len(column.Items)), textWidth)),
			ruleStyle.Render(strings.Repeat("─", textWidth)),
		}
		for idx := 0; idx <= len(column.Items); idx++ {
			switch {
			case idx == indicator:
				lines = append(lines, indicatorStyle.Render(truncate("▸ drop here", textWidth)))
			case idx == 0 && len(column.Items) == 0:
				lines = append(lines, emptyStyle.Render("(empty)"))
			default:
				lines = append(lines, "")
			}
			if idx == len(column.Items) {
				break
			}
			card := column.Items[idx]
			selected := colIdx == m.selectedColumn && idx == m.selectedCard
			prefix := "  "
			if selected {
				prefix = "│ "
			}
			if len(card.Comments) > 0 {
				prefix += fmt.Sprintf("[%d] ", len(card.Comments))
			}
			line := prefix + truncate(card.Title, max(1, textWidth-len([]rune(prefix))))
			switch {
			case dragging && session.Kind == dnd.KindCard && session.DraggedID == card.ID:
				line = draggedStyle.Render(line)
			case selected:
				line = selectedStyle.Render(line)
			}
			lines = append(lines, line)
		}

		border := dim
		switch {
		case dragging && session.Kind == dnd.KindColumn && session.HasPreview && session.Preview.ColumnID == column.ID:
			border = highlight
		case dragging && session.Kind == dnd.KindColumn && session.DraggedID == column.ID:
			border = muted
		case colIdx == m.selectedColumn:
			border = accent
		}
		views = append(views, columnStyle(border, width).Render(fitLines(strings.Join(lines, "\n"), innerHeight)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

// renderModeOverlay renders the prompt, confirmation or details box for the active mode.
func (m Model) renderModeOverlay(accent, muted color.Color, maxWidth int) string {
	if m.mode == modeNone {
		return ""
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	width := clamp(maxWidth, 36, 80)
	if maxWidth > 0 {
		style = style.Width(width)
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle := lipgloss.NewStyle().Foreground(muted)

	switch m.mode {
	case modeDetails:
		card, ok := m.board.Card(m.targetCardID)
		if !ok {
			return ""
		}
		columnTitle := "-"
		if columnIdx, _, found := m.board.FindCard(card.ID); found {
			columnTitle = m.board.Columns[columnIdx].Title
		}
		lines := []string{
			titleStyle.Render("Card Details"),
			card.Title,
			hintStyle.Render(fmt.Sprintf("id: %d • column: %s", card.ID, columnTitle)),
			"",
		}
		if description := m.descriptions.render(card.Description, width-4); description != "" {
			lines = append(lines, description)
		} else {
			lines = append(lines, hintStyle.Render("(no description)"))
		}
		lines = append(lines, "", titleStyle.Render(fmt.Sprintf("Comments (%d)", len(card.Comments))))
		for _, comment := range card.Comments {
			who := comment.Author
			if who == "" {
				who = "anonymous"
			}
			lines = append(lines, hintStyle.Render(who+" • "+comment.CreatedAt.Local().Format("2006-01-02 15:04")))
			lines = append(lines, "  "+comment.Text)
		}
		lines = append(lines, "", hintStyle.Render("esc close"))
		return style.Render(strings.Join(lines, "\n"))

	case modeConfirmDeleteColumn:
		column, ok := m.board.Column(m.targetColumnID)
		if !ok {
			return ""
		}
		lines := []string{
			titleStyle.Render("Delete Column"),
			fmt.Sprintf("Delete %q and its %d cards?", column.Title, len(column.Items)),
			hintStyle.Render("y confirm • n cancel"),
		}
		return style.Render(strings.Join(lines, "\n"))

	default:
		lines := []string{
			titleStyle.Render(m.modeTitle()),
			m.input.View(),
			hintStyle.Render("enter save • esc cancel"),
		}
		return style.Render(strings.Join(lines, "\n"))
	}
}

// renderHelpOverlay renders the full key reference.
func (m Model) renderHelpOverlay(accent, muted, dim color.Color, maxWidth int) string {
	width := clamp(maxWidth, 56, 100)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("dndboard Help")
	workflow := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Drag and drop"),
		"1. press on a card and drag it onto another card or a column to move it",
		"2. press on a column header and drag it sideways to reorder columns",
		"3. esc while dragging cancels without changing the board",
		"4. [ ] move a card across columns  •  K/J and < > reorder from the keyboard",
	}
	lines := []string{
		title,
		"",
		hb.View(m.keys),
		"",
		lipgloss.NewStyle().Foreground(muted).Render(strings.Join(workflow, "\n")),
		lipgloss.NewStyle().Foreground(muted).Render("press ? or esc to close"),
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1)
	if maxWidth > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// modeLabel returns the short header label for the current mode.
func (m Model) modeLabel() string {
	if m.tracker.Active() {
		return m.tracker.State().String()
	}
	switch m.mode {
	case modeAddCard:
		return "add card"
	case modeAddColumn:
		return "add column"
	case modeRenameCard:
		return "rename card"
	case modeRenameColumn:
		return "rename column"
	case modeEditDescription:
		return "edit description"
	case modeAddComment:
		return "comment"
	case modeRenameBoard:
		return "board title"
	case modeConfirmDeleteColumn:
		return "confirm"
	case modeDetails:
		return "details"
	default:
		return "normal"
	}
}

// modeTitle returns the prompt box title for the current mode.
func (m Model) modeTitle() string {
	switch m.mode {
	case modeAddCard:
		if column, ok := m.board.Column(m.targetColumnID); ok {
			return "New Card in " + column.Title
		}
		return "New Card"
	case modeAddColumn:
		return "New Column"
	case modeRenameCard:
		return "Rename Card"
	case modeRenameColumn:
		return "Rename Column"
	case modeEditDescription:
		return "Edit Description"
	case modeAddComment:
		return "Add Comment"
	case modeRenameBoard:
		return "Board Title"
	default:
		return ""
	}
}

// columnWidth returns column width.
func (m Model) columnWidth() int {
	return m.columnWidthFor(m.width)
}

// columnWidthFor returns column width for.
func (m Model) columnWidthFor(boardWidth int) int {
	if len(m.board.Columns) == 0 {
		return 24
	}
	w := 28
	if boardWidth > 0 {
		// Per-column overhead: left/right border (2), horizontal padding (2), margin-right (1)
		const colOverhead = 5
		usable := boardWidth - len(m.board.Columns)*colOverhead
		candidate := usable / len(m.board.Columns)
		if candidate > 0 {
			w = candidate
		}
	}
	return clamp(w, 20, 40)
}

// columnHeight returns column height.
func (m Model) columnHeight() int {
	// header + spacer above, status + bordered help line below
	const chromeLines = boardTop + 3
	return max(8, m.height-chromeLines)
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
