package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"quizforge/internal/dto"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a quiz from a topic or a notes file",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		file, _ := cmd.Flags().GetString("file")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		count, _ := cmd.Flags().GetInt("count")
		guest, _ := cmd.Flags().GetBool("guest")

		req := &dto.GenerateQuizRequest{Mode: dto.ModeTopic, Topic: topic, Difficulty: difficulty, Count: count}
		if file != "" {
			text, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read notes: %w", err)
			}
			req.Mode, req.Topic, req.Text = dto.ModeText, "", string(text)
		}
		if guest {
			save := false
			req.Save = &save
		}
		if errs := container.Validator.ValidateGenerateQuizRequest(req); len(errs) > 0 {
			return errs
		}

		quiz, err := container.Quizzes.GenerateQuiz(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%d questions)\n", quiz.ID, quiz.Title, len(quiz.Questions))
		if !quiz.Saved {
			fmt.Fprintln(cmd.OutOrStdout(), "Not saved. Play it with: quizctl play custom")
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := container.Quizzes.ListQuizzes(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tTOPIC\tDIFFICULTY\tQUESTIONS\tCREATED")
		for _, q := range list.Quizzes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", q.ID, q.Title, q.Topic, q.Difficulty, q.QuestionCount, q.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var showCmd = &cobra.Command{
	Use:   "show <quiz-id>",
	Short: "Print a quiz with its answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if errs := container.Validator.ValidateQuizID(args[0]); len(errs) > 0 {
			return errs
		}
		quiz, err := container.Quizzes.GetQuiz(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s [%s, %s]\n\n", quiz.Title, quiz.Topic, quiz.Difficulty)
		for _, q := range quiz.Questions {
			fmt.Fprintf(out, "%d. %s\n", q.ID, q.Question)
			for i, opt := range q.Options {
				mark := " "
				if opt == q.Answer {
					mark = "*"
				}
				fmt.Fprintf(out, "   %s %d) %s\n", mark, i+1, opt)
			}
			if q.Explanation != "" {
				fmt.Fprintf(out, "   %s\n", q.Explanation)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <quiz-id>",
	Short: "Delete a stored quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if errs := container.Validator.ValidateStoredQuizID(args[0]); len(errs) > 0 {
			return errs
		}
		if err := container.Quizzes.DeleteQuiz(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	generateCmd.Flags().String("topic", "", "Quiz topic")
	generateCmd.Flags().String("file", "", "Generate from the notes in this file instead of a topic")
	generateCmd.Flags().String("difficulty", "medium", "easy, medium, hard or extreme")
	generateCmd.Flags().Int("count", 10, "Number of questions for a topic quiz")
	generateCmd.Flags().Bool("guest", false, "Keep the quiz in the scratch slot instead of saving it")
}
