package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/buffer"
	"autodoxy/pkg/config"
	"autodoxy/pkg/orchestrator"
)

var keyNames = map[string]orchestrator.Key{
	"char":      orchestrator.KeyChar,
	"return":    orchestrator.KeyReturn,
	"tab":       orchestrator.KeyTab,
	"backspace": orchestrator.KeyBackspace,
	"delete":    orchestrator.KeyDelete,
}

// sessionEvent is one key event read from the input stream.
type sessionEvent struct {
	Key        string `json:"key"`
	Char       string `json:"char,omitempty"`
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Completion struct {
		Active   bool `json:"active"`
		Selected bool `json:"selected"`
	} `json:"completion"`
}

// sessionReply is written for every event.
type sessionReply struct {
	Handled    bool                `json:"handled"`
	Completion string              `json:"completion"`
	Edits      []orchestrator.Edit `json:"edits"`
	Caret      ast.Position        `json:"caret"`
	Error      string              `json:"error,omitempty"`
}

var sessionCmd = &cobra.Command{
	Use:   "session FILE",
	Short: "Replay editor key events from stdin",
	Long: `Open FILE and read one JSON key event per line from stdin, for example

  {"key":"char","char":"/","line":3,"column":3}
  {"key":"return"}

Each event is dispatched like a key press in an editor and one JSON reply with
the edits and the completion decision is written per event. Keys nobody
handles get the editor's default behaviour. Without line and column the
event uses the current caret. With --watch the settings file is reloaded when
it changes during the session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := buffer.NewFromFile(args[0])
		if err != nil {
			return err
		}

		if watch, _ := cmd.Flags().GetBool("watch"); watch && state.configPath != "" {
			if err := state.store.Watch(state.configPath); err != nil {
				return fmt.Errorf("failed to watch %s: %w", state.configPath, err)
			}
			unsubscribe := state.store.Subscribe(func(cfg *config.Configuration) {
				state.logger.Debug("session settings updated", zap.String("tag_style", string(cfg.TagStyle)))
			})
			defer unsubscribe()
		}

		if err := state.runSession(cmd, buf); err != nil {
			return err
		}

		if write, _ := cmd.Flags().GetBool(writeFlagName); write && buf.IsModified() {
			return buf.Save()
		}
		return nil
	},
}

func init() {
	sessionCmd.Flags().BoolP(writeFlagName, "w", false, "Write the edited text back at the end of input")
	sessionCmd.Flags().Bool("watch", false, "Reload the settings file when it changes")
}

func (a *app) runSession(cmd *cobra.Command, buf *buffer.Buffer) error {
	o := a.orchestrator()
	encoder := json.NewEncoder(cmd.OutOrStdout())

	input := bufio.NewScanner(cmd.InOrStdin())
	input.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for input.Scan() {
		line := strings.TrimSpace(input.Text())
		if line == "" {
			continue
		}

		reply, err := a.dispatch(o, buf, line)
		if err != nil {
			reply = sessionReply{Error: err.Error(), Edits: []orchestrator.Edit{}}
			a.logger.Warn("event rejected", zap.Error(err))
		}
		reply.Caret = buf.Caret()
		if err := encoder.Encode(reply); err != nil {
			return err
		}
	}
	return input.Err()
}

// dispatch handles one encoded event and applies its edits to buf.
func (a *app) dispatch(o *orchestrator.Orchestrator, buf *buffer.Buffer, line string) (sessionReply, error) {
	var raw sessionEvent
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return sessionReply{}, fmt.Errorf("invalid event: %w", err)
	}

	key, ok := keyNames[raw.Key]
	if !ok {
		return sessionReply{}, fmt.Errorf("unknown key %q", raw.Key)
	}
	event := orchestrator.Event{
		Key:   key,
		Caret: buf.Caret(),
		Completion: orchestrator.Completion{
			Active:   raw.Completion.Active,
			Selected: raw.Completion.Selected,
		},
	}
	if key == orchestrator.KeyChar {
		char, size := utf8.DecodeRuneInString(raw.Char)
		if size == 0 || size != len(raw.Char) {
			return sessionReply{}, fmt.Errorf("char event needs exactly one character, got %q", raw.Char)
		}
		event.Char = char
	}
	if raw.Line > 0 {
		event.Caret = ast.Position{Line: raw.Line, Column: raw.Column}
		if err := buf.SetCaret(event.Caret); err != nil {
			return sessionReply{}, err
		}
	}

	result := o.Handle(buf, event)
	edits := result.Edits
	if !result.Handled {
		edits = append(edits, defaultEdits(buf, event.Key, event.Char, event.Caret)...)
	}
	if edits == nil {
		edits = []orchestrator.Edit{}
	}
	if err := buf.Apply(edits); err != nil {
		return sessionReply{}, err
	}

	return sessionReply{
		Handled:    result.Handled,
		Completion: result.Completion.String(),
		Edits:      edits,
	}, nil
}
