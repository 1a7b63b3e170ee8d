package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/buffer"
	"autodoxy/pkg/generator"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "List the functions the code model finds",
	Long: `Parse a C or C++ file with the code model and list every function with its
owner, parameters, accessor kind and line range. With --preview the comment
that would be generated for each function is shown as well.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := buffer.NewFromFile(args[0])
		if err != nil {
			return err
		}

		functions, err := state.resolver.Functions(buf)
		if err != nil {
			return fmt.Errorf("failed to parse file %s: %w", args[0], err)
		}

		cfg := state.store.Current()
		report := parseReport{
			filename:      buf.FileName(),
			functions:     functions,
			abbreviations: cfg.Abbreviations,
			width:         cfg.LineWidth,
		}
		if preview, _ := cmd.Flags().GetBool("preview"); preview {
			for i := range functions {
				report.previews = append(report.previews, generator.Generate("", &functions[i], cfg))
			}
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			return outputJSON(cmd.OutOrStdout(), report)
		default:
			return outputHuman(cmd.OutOrStdout(), report)
		}
	},
}

func init() {
	parseCmd.Flags().StringP("format", "f", "human", "Output format (human, json)")
	parseCmd.Flags().BoolP("preview", "p", false, "Show the generated comment for each function")
}

// parseReport is what the parse command prints.
type parseReport struct {
	filename      string
	functions     []ast.Signature
	previews      []generator.Comment
	abbreviations map[string]string
	width         int
}

func outputJSON(out io.Writer, report parseReport) error {
	// Create a simplified structure for JSON output
	type JSONParameter struct {
		Name    string `json:"name,omitempty"`
		Type    string `json:"type"`
		IsInput bool   `json:"isInput"`
	}
	type JSONTag struct {
		Tag  string `json:"tag"`
		Name string `json:"name,omitempty"`
		Text string `json:"text,omitempty"`
	}
	type JSONFunction struct {
		Name       string          `json:"name"`
		FullName   string          `json:"fullName"`
		Phrase     string          `json:"phrase"`
		Owner      string          `json:"owner,omitempty"`
		ReturnType string          `json:"returnType,omitempty"`
		Kind       string          `json:"kind"`
		Special    bool            `json:"special,omitempty"`
		Parameters []JSONParameter `json:"parameters"`
		StartLine  int             `json:"startLine"`
		EndLine    int             `json:"endLine"`
		Comment    string          `json:"comment,omitempty"`
		Brief      string          `json:"brief,omitempty"`
		Tags       []JSONTag       `json:"tags,omitempty"`
	}

	jsonFunctions := make([]JSONFunction, 0, len(report.functions))
	for i, fn := range report.functions {
		jf := JSONFunction{
			Name:       fn.Name,
			FullName:   fn.QualifiedName(),
			Phrase:     generator.Unabbreviate(fn.Name, report.abbreviations),
			Owner:      fn.Owner,
			ReturnType: fn.ReturnType,
			Kind:       fn.Kind.String(),
			Special:    fn.IsSpecialMember(),
			Parameters: make([]JSONParameter, 0, len(fn.Params)),
			StartLine:  fn.Range.Start.Line,
			EndLine:    fn.Range.End.Line,
		}
		for _, param := range fn.Params {
			jf.Parameters = append(jf.Parameters, JSONParameter{
				Name:    param.Name,
				Type:    param.Type,
				IsInput: param.IsInput(),
			})
		}
		if i < len(report.previews) {
			comment := report.previews[i]
			jf.Comment = comment.Render(report.width)
			jf.Brief = comment.Brief()
			for _, tag := range comment.Tags() {
				jf.Tags = append(jf.Tags, JSONTag{Tag: tag.Tag, Name: tag.Name, Text: tag.Text})
			}
		}
		jsonFunctions = append(jsonFunctions, jf)
	}

	output := map[string]interface{}{
		"filename":  report.filename,
		"functions": jsonFunctions,
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputHuman(out io.Writer, report parseReport) error {
	functions := report.functions
	fmt.Fprintf(out, "Parsed file: %s\n", report.filename)
	fmt.Fprintf(out, "=====================================\n\n")

	for i := range functions {
		printFunction(out, &functions[i])
		fmt.Fprintf(out, "  Phrase: %s\n", generator.Unabbreviate(functions[i].Name, report.abbreviations))
		if i < len(report.previews) {
			for _, line := range strings.Split(report.previews[i].Render(report.width), "\n") {
				fmt.Fprintf(out, "  | %s\n", line)
			}
		}
		fmt.Fprintln(out)
	}

	// Summary
	fmt.Fprintf(out, "Summary:\n")
	fmt.Fprintf(out, "--------\n")
	fmt.Fprintf(out, "Total functions: %d\n", len(functions))

	kindCounts := make(map[string]int)
	for _, fn := range functions {
		kindCounts[fn.Kind.String()]++
	}
	kinds := make([]string, 0, len(kindCounts))
	for kind := range kindCounts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(out, "%s: %d\n", kind, kindCounts[kind])
	}

	return nil
}

func printFunction(out io.Writer, fn *ast.Signature) {
	fmt.Fprintf(out, "%s: %s", fn.Kind.String(), fn.QualifiedName())
	if fn.IsSpecialMember() {
		fmt.Fprintf(out, " [special]")
	}

	params := make([]string, 0, len(fn.Params))
	for _, param := range fn.Params {
		params = append(params, strings.TrimSpace(param.Type+" "+param.Name))
	}
	fmt.Fprintf(out, "\n  Signature: %s(%s)\n", strings.TrimSpace(fn.ReturnType+" "+fn.Name), strings.Join(params, ", "))
	fmt.Fprintf(out, "  Location: Lines %d-%d\n", fn.Range.Start.Line, fn.Range.End.Line)
}
