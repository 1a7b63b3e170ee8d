package cmd

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"autodoxy/pkg/buffer"
)

// ErrUndocumented is returned by annotate --check when a function lacks a
// comment.
var ErrUndocumented = errors.New("undocumented functions found")

// annotation is the outcome for one file.
type annotation struct {
	buf       *buffer.Buffer
	functions []string
}

var annotateCmd = &cobra.Command{
	Use:   "annotate FILE...",
	Short: "Insert comments above undocumented functions",
	Long: `Generate a comment for every function that has none. Files are processed in
parallel. Without --write the annotated text is printed; with --check nothing
is changed and the command fails when a function is undocumented.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		write, _ := cmd.Flags().GetBool(writeFlagName)
		check, _ := cmd.Flags().GetBool("check")
		jobs, _ := cmd.Flags().GetInt("jobs")

		results, err := state.annotateFiles(cmd.Context(), args, jobs, write && !check)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		missing := 0
		for _, result := range results {
			missing += len(result.functions)
			switch {
			case check:
				for _, name := range result.functions {
					fmt.Fprintf(out, "%s: %s\n", result.buf.FileName(), name)
				}
			case write:
				fmt.Fprintf(out, "%s: %d comments added\n", result.buf.FileName(), len(result.functions))
			default:
				fmt.Fprint(out, result.buf.Content())
			}
		}

		if check && missing > 0 {
			return fmt.Errorf("%w: %d", ErrUndocumented, missing)
		}
		return nil
	},
}

func init() {
	annotateCmd.Flags().BoolP(writeFlagName, "w", false, "Write the annotated files back")
	annotateCmd.Flags().Bool("check", false, "Only report undocumented functions")
	annotateCmd.Flags().IntP("jobs", "j", runtime.NumCPU(), "Files processed in parallel")
}

// annotateFiles annotates each file concurrently. Results keep the order of
// filenames.
func (a *app) annotateFiles(ctx context.Context, filenames []string, jobs int, save bool) ([]annotation, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs < 1 {
		jobs = 1
	}

	o := a.orchestrator()
	results := make([]annotation, len(filenames))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)
	for i, filename := range filenames {
		i, filename := i, filename
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			buf, err := buffer.NewFromFile(filename)
			if err != nil {
				return err
			}

			edits, functions, err := o.Annotate(buf)
			if err != nil {
				return fmt.Errorf("%s: %w", filename, err)
			}
			if err := buf.Apply(edits); err != nil {
				return fmt.Errorf("%s: %w", filename, err)
			}

			names := make([]string, 0, len(functions))
			for j := len(functions) - 1; j >= 0; j-- {
				names = append(names, functions[j].QualifiedName())
			}
			results[i] = annotation{buf: buf, functions: names}

			if save && buf.IsModified() {
				if err := buf.Save(); err != nil {
					return err
				}
			}
			a.logger.Debug("file annotated",
				zap.String("file", buf.FileName()),
				zap.Int("comments", len(names)))
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
