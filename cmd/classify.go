package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/buffer"
	"autodoxy/pkg/classifier"
	"autodoxy/pkg/scanner"
)

// lineReport is the classification of one line, taken at its end.
type lineReport struct {
	Line           int    `json:"line"`
	Classification string `json:"classification"`
	Inside         bool   `json:"inside"`
	IndentColumn   int    `json:"indentColumn,omitempty"`
	InTagSection   bool   `json:"inTagSection,omitempty"`
	Text           string `json:"text"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify FILE",
	Short: "Show the comment context at the end of every line",
	Long: `Classify every line of FILE: whether its end lies inside a /*! block on its
own, whether an earlier line decides, and the resolved comment context.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := buffer.NewFromFile(args[0])
		if err != nil {
			return err
		}

		reports := classifyLines(buf, scanner.New(state.store.Current().TagChar()))

		format, _ := cmd.Flags().GetString("format")
		out := cmd.OutOrStdout()
		if format == "json" {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(map[string]interface{}{
				"filename": buf.FileName(),
				"lines":    reports,
			})
		}

		for _, report := range reports {
			detail := "-"
			if report.Inside {
				detail = fmt.Sprintf("indent=%d", report.IndentColumn)
				if report.InTagSection {
					detail += " tags"
				}
			}
			fmt.Fprintf(out, "%4d %-12s %-16s %s\n", report.Line, report.Classification, detail, report.Text)
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringP("format", "f", "human", "Output format (human, json)")
}

func classifyLines(buf *buffer.Buffer, s *scanner.Scanner) []lineReport {
	reports := make([]lineReport, 0, buf.LineCount())
	for line := 1; line <= buf.LineCount(); line++ {
		text := buf.LineText(line)
		end := ast.Position{Line: line, Column: len(text) + 1}
		found := s.Scan(buf, end)

		reports = append(reports, lineReport{
			Line:           line,
			Classification: classifier.Classify(text).String(),
			Inside:         found.Inside,
			IndentColumn:   found.IndentColumn,
			InTagSection:   found.InTagSection,
			Text:           text,
		})
	}
	return reports
}
