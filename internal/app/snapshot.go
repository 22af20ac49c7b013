package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/evanschultz/dndboard/internal/domain"
)

// CurrentSnapshotVersion is the envelope version written by EncodeSnapshot.
const CurrentSnapshotVersion = 3

// PersistedState is the versioned envelope stored under the board key.
type PersistedState struct {
	State   SnapshotBoard `json:"state" yaml:"state"`
	Version int           `json:"version" yaml:"version"`
}

// SnapshotBoard represents the persisted board payload.
type SnapshotBoard struct {
	BoardTitle string           `json:"boardTitle" yaml:"boardTitle"`
	Columns    []SnapshotColumn `json:"columns" yaml:"columns"`
	NextID     int              `json:"nextId" yaml:"nextId"`
}

// SnapshotColumn represents one persisted column.
type SnapshotColumn struct {
	ID    int            `json:"id" yaml:"id"`
	Title string         `json:"title" yaml:"title"`
	Items []SnapshotCard `json:"items" yaml:"items"`
}

// SnapshotCard represents one persisted card.
type SnapshotCard struct {
	ID          int               `json:"id" yaml:"id"`
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Comments    []SnapshotComment `json:"comments" yaml:"comments"`
}

// SnapshotComment represents one persisted card comment.
type SnapshotComment struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Author    string    `json:"author,omitempty" yaml:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// migration upgrades a generic state document to version to.
type migration struct {
	to    int
	apply func(map[string]any)
}

// migrations run in ascending order; each step must be a no-op on already-migrated data.
var migrations = []migration{
	{to: 1, apply: normalizeComments},
	{to: 2, apply: ensureBoardTitle},
	{to: 3, apply: ensureNextID},
}

// NewPersistedState wraps a board in a current-version envelope.
func NewPersistedState(board domain.Board) PersistedState {
	out := PersistedState{
		Version: CurrentSnapshotVersion,
		State: SnapshotBoard{
			BoardTitle: board.Title,
			Columns:    make([]SnapshotColumn, 0, len(board.Columns)),
		},
	}
	for _, column := range board.Columns {
		out.State.Columns = append(out.State.Columns, snapshotColumnFromDomain(column))
	}
	out.State.NextID = maxBoardID(board) + 1
	return out
}

// WithNextID raises the stored id counter to next. It never drops below the ids already in use.
func (p PersistedState) WithNextID(next int) PersistedState {
	p.State.NextID = max(p.State.NextID, next)
	return p
}

// Board converts the envelope payload to domain form.
func (p PersistedState) Board() domain.Board {
	out := domain.Board{
		Title:   p.State.BoardTitle,
		Columns: make([]domain.Column, 0, len(p.State.Columns)),
	}
	for _, column := range p.State.Columns {
		out.Columns = append(out.Columns, column.toDomain())
	}
	return out
}

// EncodeSnapshot serializes a board as a current-version JSON envelope.
func EncodeSnapshot(board domain.Board) ([]byte, error) {
	return encodeState(NewPersistedState(board))
}

// encodeState serializes one envelope as JSON.
func encodeState(state PersistedState) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return raw, nil
}

// EncodeSnapshotYAML serializes a board as a current-version YAML envelope.
func EncodeSnapshotYAML(board domain.Board) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewPersistedState(board)); err != nil {
		return nil, fmt.Errorf("encode snapshot yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode snapshot yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot parses a JSON envelope of any known version and migrates it to the current version.
func DecodeSnapshot(raw []byte) (PersistedState, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return PersistedState{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return decodeDocument(doc)
}

// DecodeSnapshotYAML parses a YAML envelope and runs it through the same migration path as DecodeSnapshot.
func DecodeSnapshotYAML(raw []byte) (PersistedState, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return PersistedState{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return decodeDocument(doc)
}

// decodeDocument migrates a generic envelope and converts it to typed form.
func decodeDocument(doc map[string]any) (PersistedState, error) {
	if doc == nil {
		return PersistedState{}, fmt.Errorf("%w: empty document", ErrMalformedSnapshot)
	}
	version, err := documentVersion(doc["version"])
	if err != nil {
		return PersistedState{}, err
	}
	state, ok := doc["state"].(map[string]any)
	if !ok {
		return PersistedState{}, fmt.Errorf("%w: state must be an object", ErrMalformedSnapshot)
	}
	if err := checkShape(state); err != nil {
		return PersistedState{}, err
	}
	state = MigrateState(state, version)

	encoded, err := json.Marshal(state)
	if err != nil {
		return PersistedState{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	var board SnapshotBoard
	if err := json.Unmarshal(encoded, &board); err != nil {
		return PersistedState{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	out := PersistedState{State: board, Version: max(version, CurrentSnapshotVersion)}
	decoded := out.Board()
	if err := validateStructure(decoded); err != nil {
		return PersistedState{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	out.State.NextID = max(out.State.NextID, maxBoardID(decoded)+1)
	return out, nil
}

// MigrateState applies every migration newer than from, in order, and returns the document.
func MigrateState(state map[string]any, from int) map[string]any {
	for _, step := range migrations {
		if from >= step.to {
			continue
		}
		step.apply(state)
	}
	return state
}

// normalizeComments replaces any non-array card comments value with an empty list.
func normalizeComments(state map[string]any) {
	for _, column := range objects(state["columns"]) {
		for _, card := range objects(column["items"]) {
			if _, ok := card["comments"].([]any); !ok {
				card["comments"] = []any{}
			}
		}
	}
}

// ensureBoardTitle fills in the default board title when none was stored.
func ensureBoardTitle(state map[string]any) {
	if title, ok := state["boardTitle"]; ok && title != nil {
		return
	}
	state["boardTitle"] = domain.DefaultBoardTitle
}

// ensureNextID stores an id counter one past the largest column or card id when none was stored.
func ensureNextID(state map[string]any) {
	if _, ok := intValue(state["nextId"]); ok {
		return
	}
	highest := 0
	for _, column := range objects(state["columns"]) {
		if id, ok := intValue(column["id"]); ok {
			highest = max(highest, id)
		}
		for _, card := range objects(column["items"]) {
			if id, ok := intValue(card["id"]); ok {
				highest = max(highest, id)
			}
		}
	}
	state["nextId"] = highest + 1
}

// intValue reads an integer from a decoded JSON or YAML number.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Int64()
		return int(parsed), err == nil
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	default:
		return 0, false
	}
}

// checkShape rejects documents whose column or item lists cannot be migrated.
func checkShape(state map[string]any) error {
	columns, ok := state["columns"].([]any)
	if !ok {
		return fmt.Errorf("%w: columns must be an array", ErrMalformedSnapshot)
	}
	for i, rawColumn := range columns {
		column, ok := rawColumn.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: columns[%d] must be an object", ErrMalformedSnapshot, i)
		}
		items, ok := column["items"].([]any)
		if !ok {
			if column["items"] == nil {
				column["items"] = []any{}
				continue
			}
			return fmt.Errorf("%w: columns[%d].items must be an array", ErrMalformedSnapshot, i)
		}
		for j, rawCard := range items {
			if _, ok := rawCard.(map[string]any); !ok {
				return fmt.Errorf("%w: columns[%d].items[%d] must be an object", ErrMalformedSnapshot, i, j)
			}
		}
	}
	return nil
}

// objects returns the object elements of a generic array value.
func objects(v any) []map[string]any {
	list, _ := v.([]any)
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// documentVersion reads the envelope version; a missing version means 0.
func documentVersion(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: version %q is not an integer", ErrMalformedSnapshot, n.String())
		}
		return int(parsed), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%w: version %v is not an integer", ErrMalformedSnapshot, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: version has type %T", ErrMalformedSnapshot, v)
	}
}

// ValidateBoard checks an imported or replacement board: structure plus non-blank titles.
func ValidateBoard(board domain.Board) error {
	if err := validateStructure(board); err != nil {
		return err
	}
	for i, column := range board.Columns {
		if strings.TrimSpace(column.Title) == "" {
			return fmt.Errorf("%w: columns[%d].title is required", ErrInvalidBoard, i)
		}
		for j, card := range column.Items {
			if strings.TrimSpace(card.Title) == "" {
				return fmt.Errorf("%w: columns[%d].items[%d].title is required", ErrInvalidBoard, i, j)
			}
		}
	}
	return nil
}

// validateStructure checks the id rules every stored board satisfies.
// Titles are not checked here: the store persists whatever titles it was given.
func validateStructure(board domain.Board) error {
	columnIDs := map[int]struct{}{}
	cardIDs := map[int]struct{}{}
	for i, column := range board.Columns {
		if column.ID <= 0 {
			return fmt.Errorf("%w: columns[%d].id must be positive", ErrInvalidBoard, i)
		}
		if _, exists := columnIDs[column.ID]; exists {
			return fmt.Errorf("%w: duplicate column id %d", ErrInvalidBoard, column.ID)
		}
		columnIDs[column.ID] = struct{}{}
		for j, card := range column.Items {
			if card.ID <= 0 {
				return fmt.Errorf("%w: columns[%d].items[%d].id must be positive", ErrInvalidBoard, i, j)
			}
			if _, exists := cardIDs[card.ID]; exists {
				return fmt.Errorf("%w: duplicate card id %d", ErrInvalidBoard, card.ID)
			}
			cardIDs[card.ID] = struct{}{}
		}
	}
	return nil
}

// maxBoardID returns the largest column or card id on board.
func maxBoardID(board domain.Board) int {
	highest := 0
	for _, column := range board.Columns {
		highest = max(highest, column.ID)
		for _, card := range column.Items {
			highest = max(highest, card.ID)
		}
	}
	return highest
}

// snapshotColumnFromDomain converts one column to snapshot form.
func snapshotColumnFromDomain(c domain.Column) SnapshotColumn {
	out := SnapshotColumn{
		ID:    c.ID,
		Title: c.Title,
		Items: make([]SnapshotCard, 0, len(c.Items)),
	}
	for _, card := range c.Items {
		out.Items = append(out.Items, snapshotCardFromDomain(card))
	}
	return out
}

// snapshotCardFromDomain converts one card to snapshot form.
func snapshotCardFromDomain(c domain.Card) SnapshotCard {
	out := SnapshotCard{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Comments:    make([]SnapshotComment, 0, len(c.Comments)),
	}
	for _, comment := range c.Comments {
		out.Comments = append(out.Comments, SnapshotComment{
			ID:        comment.ID,
			Text:      comment.Text,
			Author:    comment.Author,
			CreatedAt: comment.CreatedAt.UTC(),
		})
	}
	return out
}

// toDomain converts a snapshot column.
func (c SnapshotColumn) toDomain() domain.Column {
	out := domain.Column{ID: c.ID, Title: c.Title, Items: make([]domain.Card, 0, len(c.Items))}
	for _, card := range c.Items {
		out.Items = append(out.Items, card.toDomain())
	}
	return out
}

// toDomain converts a snapshot card.
func (c SnapshotCard) toDomain() domain.Card {
	out := domain.Card{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Comments:    make([]domain.Comment, 0, len(c.Comments)),
	}
	for _, comment := range c.Comments {
		out.Comments = append(out.Comments, domain.Comment{
			ID:        comment.ID,
			Text:      comment.Text,
			Author:    comment.Author,
			CreatedAt: comment.CreatedAt.UTC(),
		})
	}
	return out
}
