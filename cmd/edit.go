package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/buffer"
	"autodoxy/pkg/orchestrator"
)

const (
	editsFlagName = "edits"
	writeFlagName = "write"
)

var generateCmd = &cobra.Command{
	Use:   "generate FILE LINE COL",
	Short: "Generate a comment block at a /// or /*! trigger",
	Long: `Generate a Doxygen comment as if the last character of "///" or "/*!" had
just been typed. LINE and COL locate the caret right after the first two
trigger characters. On line 1 a file comment is generated.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, caret, err := openAt(args)
		if err != nil {
			return err
		}

		prefix := linePrefix(buf.LineText(caret.Line), caret.Column)
		if !orchestrator.IsCommentTrigger(prefix, '/') && !orchestrator.IsCommentTrigger(prefix, '!') {
			return fmt.Errorf("no comment trigger before %d:%d", caret.Line, caret.Column)
		}

		return emit(cmd, buf, state.orchestrator().TriggerTyped(buf, caret))
	},
}

var newlineCmd = &cobra.Command{
	Use:   "newline FILE LINE COL",
	Short: "Press Enter at a position",
	Long: `Press Enter at LINE:COL. Inside a /*! block the new line continues the
comment; elsewhere a plain line break is inserted.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, caret, err := openAt(args)
		if err != nil {
			return err
		}

		edits := state.orchestrator().NewlineInComment(buf, caret)
		if edits == nil {
			state.logger.Info("caret not inside a comment block", zap.Int("line", caret.Line))
			edits = defaultEdits(buf, orchestrator.KeyReturn, 0, caret)
		}
		return emit(cmd, buf, edits)
	},
}

var indentCmd = &cobra.Command{
	Use:   "indent FILE LINE COL",
	Short: "Press Tab at a position",
	Long: `Press Tab at LINE:COL. On a comment line the caret is aligned with the words
of the previous comment line; otherwise a tab character is inserted. At the
end of a line only the caret moves, so the printed text is unchanged.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, caret, err := openAt(args)
		if err != nil {
			return err
		}

		edits, ok := state.orchestrator().TabPressed(buf, caret, false)
		if !ok {
			state.logger.Info("no alignment stop", zap.Int("line", caret.Line))
			edits = defaultEdits(buf, orchestrator.KeyTab, 0, caret)
		}
		return emit(cmd, buf, edits)
	},
}

func init() {
	addEditFlags(generateCmd)
	addEditFlags(newlineCmd)
	addEditFlags(indentCmd)
}

func addEditFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(editsFlagName, false, "Print the edit list as JSON instead of the edited text")
	cmd.Flags().BoolP(writeFlagName, "w", false, "Write the edited text back to the file")
}

// openAt loads FILE and places the caret at LINE COL.
func openAt(args []string) (*buffer.Buffer, ast.Position, error) {
	line, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, ast.Position{}, fmt.Errorf("invalid line %q: %w", args[1], err)
	}
	column, err := strconv.Atoi(args[2])
	if err != nil {
		return nil, ast.Position{}, fmt.Errorf("invalid column %q: %w", args[2], err)
	}

	buf, err := buffer.NewFromFile(args[0])
	if err != nil {
		return nil, ast.Position{}, err
	}

	caret := ast.Position{Line: line, Column: column}
	if err := buf.SetCaret(caret); err != nil {
		return nil, ast.Position{}, err
	}
	return buf, caret, nil
}

// linePrefix returns the part of line before the 1-based column.
func linePrefix(line string, column int) string {
	return line[:min(max(column-1, 0), len(line))]
}

// defaultEdits is what an editor does with a key nobody handled.
func defaultEdits(buf orchestrator.Buffer, key orchestrator.Key, char rune, caret ast.Position) []orchestrator.Edit {
	switch key {
	case orchestrator.KeyChar:
		return []orchestrator.Edit{orchestrator.Insert(caret, string(char))}
	case orchestrator.KeyReturn:
		return []orchestrator.Edit{orchestrator.Insert(caret, "\n")}
	case orchestrator.KeyTab:
		return []orchestrator.Edit{orchestrator.Insert(caret, "\t")}
	case orchestrator.KeyBackspace:
		switch {
		case caret.Column > 1:
			return []orchestrator.Edit{orchestrator.Delete(ast.Position{Line: caret.Line, Column: caret.Column - 1}, caret)}
		case caret.Line > 1:
			end := ast.Position{Line: caret.Line - 1, Column: len(buf.LineText(caret.Line-1)) + 1}
			return []orchestrator.Edit{orchestrator.Delete(end, caret)}
		}
	case orchestrator.KeyDelete:
		switch {
		case caret.Column <= len(buf.LineText(caret.Line)):
			return []orchestrator.Edit{orchestrator.Delete(caret, ast.Position{Line: caret.Line, Column: caret.Column + 1})}
		case caret.Line < buf.LineCount():
			return []orchestrator.Edit{orchestrator.Delete(caret, ast.Position{Line: caret.Line + 1, Column: 1})}
		}
	}
	return nil
}

// emit prints the edits as JSON or applies them and prints or saves the result.
func emit(cmd *cobra.Command, buf *buffer.Buffer, edits []orchestrator.Edit) error {
	if asEdits, _ := cmd.Flags().GetBool(editsFlagName); asEdits {
		if edits == nil {
			edits = []orchestrator.Edit{}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"file":  buf.FileName(),
			"edits": edits,
		})
	}

	if err := buf.Apply(edits); err != nil {
		return err
	}

	if write, _ := cmd.Flags().GetBool(writeFlagName); write {
		if err := buf.Save(); err != nil {
			return err
		}
		state.logger.Info("file updated",
			zap.String("file", buf.FileName()),
			zap.Int("caret_line", buf.Caret().Line),
			zap.Int("caret_column", buf.Caret().Column))
		return nil
	}

	_, err := fmt.Fprint(cmd.OutOrStdout(), buf.Content())
	return err
}
