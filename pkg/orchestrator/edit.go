package orchestrator

import (
	"fmt"

	"autodoxy/pkg/ast"
)

// EditKind identifies an edit instruction.
type EditKind int

const (
	EditDelete EditKind = iota
	EditInsert
	EditMoveCaret
)

var editKindNames = map[EditKind]string{
	EditDelete:    "delete",
	EditInsert:    "insert",
	EditMoveCaret: "move_caret",
}

func (k EditKind) String() string {
	if name, ok := editKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EditKind(%d)", int(k))
}

// MarshalText renders the kind by name in JSON output.
func (k EditKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name.
func (k *EditKind) UnmarshalText(text []byte) error {
	for kind, name := range editKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown edit kind %q", text)
}

// Edit is one text edit for the host to apply. Edits of one event are applied
// in order, each against the buffer as left by the previous one.
//
//   - Delete removes the text between Start and End.
//   - Insert inserts Text at Start; the caret ends up after it.
//   - MoveCaret places the caret at Start.
type Edit struct {
	Kind  EditKind     `json:"kind"`
	Start ast.Position `json:"start"`
	End   ast.Position `json:"end"`
	Text  string       `json:"text,omitempty"`
}

// Delete returns an edit removing the text between start and end.
func Delete(start, end ast.Position) Edit {
	return Edit{Kind: EditDelete, Start: start, End: end}
}

// Insert returns an edit inserting text at the position.
func Insert(at ast.Position, text string) Edit {
	return Edit{Kind: EditInsert, Start: at, Text: text}
}

// MoveCaret returns an edit moving the caret.
func MoveCaret(to ast.Position) Edit {
	return Edit{Kind: EditMoveCaret, Start: to}
}
