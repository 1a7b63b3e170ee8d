package orchestrator

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"autodoxy/pkg/ast"
)

// Key is the kind of key event delivered by the host.
type Key int

const (
	KeyChar Key = iota
	KeyReturn
	KeyTab
	KeyBackspace
	KeyDelete
)

// Decision tells the host what to do with its completion session. The session
// itself is host state; only the decision is made here.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionStartCompletion
	DecisionRefilter
	DecisionDismiss
	DecisionCommit
)

func (d Decision) String() string {
	switch d {
	case DecisionStartCompletion:
		return "start_completion"
	case DecisionRefilter:
		return "refilter"
	case DecisionDismiss:
		return "dismiss"
	case DecisionCommit:
		return "commit"
	default:
		return "none"
	}
}

// Completion is the host's completion session state at the time of an event.
type Completion struct {
	Active   bool // A session is open
	Selected bool // An entry is fully selected
}

// Event is one key press. Caret is the position before the key takes effect.
type Event struct {
	Key        Key
	Char       rune // Typed character for KeyChar
	Caret      ast.Position
	Completion Completion
}

// Result is the outcome of an event.
type Result struct {
	// Handled means the event was consumed and the host must skip its default
	// handling of the key.
	Handled    bool
	Edits      []Edit
	Completion Decision
}

// Handle dispatches a key event. A comment trigger wins over everything else.
// An active completion session gets the next chance to consume space, Return
// and Tab; otherwise Return and Tab drive comment continuation and alignment.
// Completion decisions for typed characters are reported without consuming
// the key, except for refiltering which replaces the default handling.
func (o *Orchestrator) Handle(buf Buffer, event Event) Result {
	line := buf.LineText(event.Caret.Line)

	if event.Key == KeyChar && IsCommentTrigger(linePrefix(line, event.Caret.Column), event.Char) {
		return Result{Handled: true, Edits: o.TriggerTyped(buf, event.Caret)}
	}

	active := event.Completion.Active
	if active {
		decision, handled := endCompletion(event)
		if decision == DecisionDismiss {
			active = false
		}
		if decision != DecisionNone {
			o.logger.Debug("completion session ended", zap.Stringer("decision", decision))
		}
		if handled {
			return Result{Handled: true, Completion: decision}
		}
		if decision != DecisionNone {
			return Result{Completion: decision}
		}
	} else {
		switch event.Key {
		case KeyReturn:
			if edits := o.NewlineInComment(buf, event.Caret); edits != nil {
				return Result{Handled: true, Edits: edits}
			}
		case KeyTab:
			if edits, ok := o.TabPressed(buf, event.Caret, false); ok {
				return Result{Handled: true, Edits: edits}
			}
		}
	}

	tagChar := o.settings.Current().TagChar()
	switch {
	case !active && event.Key == KeyChar && (event.Char == tagChar || event.Char == '['):
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "*") {
			return Result{Completion: DecisionStartCompletion}
		}
	case active && (event.Key == KeyBackspace || event.Key == KeyDelete || (event.Key == KeyChar && unicode.IsLetter(event.Char))):
		return Result{Handled: true, Completion: DecisionRefilter}
	}

	return Result{}
}

// endCompletion decides whether a key ends the active session. Space
// dismisses without consuming the key. Return and Tab commit a fully selected
// entry and consume the key; without a selection they dismiss.
func endCompletion(event Event) (Decision, bool) {
	switch {
	case event.Key == KeyChar && event.Char == ' ':
		return DecisionDismiss, false
	case event.Key == KeyReturn || event.Key == KeyTab:
		if event.Completion.Selected {
			return DecisionCommit, true
		}
		return DecisionDismiss, false
	}
	return DecisionNone, false
}
