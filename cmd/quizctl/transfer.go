package main

import (
	"fmt"
	"io"
	"os"

	"quizforge/internal/domain"
	"quizforge/internal/quizfile"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import quizzes from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		quizzes, err := quizfile.Decode(f)
		if err != nil {
			return err
		}
		ids, err := container.Quizzes.ImportQuizzes(cmd.Context(), quizzes)
		if err != nil {
			return err
		}
		for i, id := range ids {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", id, quizzes[i].Title)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [quiz-id...]",
	Short: "Export quizzes as YAML (all recent quizzes when no id is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ids := args
		if len(ids) == 0 {
			list, err := container.Quizzes.ListQuizzes(ctx)
			if err != nil {
				return err
			}
			for _, q := range list.Quizzes {
				ids = append(ids, q.ID)
			}
		}

		quizzes := make([]*domain.Quiz, 0, len(ids))
		for _, id := range ids {
			q, err := container.Quizzes.LoadQuiz(ctx, id)
			if err != nil {
				return err
			}
			quizzes = append(quizzes, q)
		}

		var w io.Writer = cmd.OutOrStdout()
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return quizfile.Encode(w, quizzes)
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
}
