package main

import (
	"fmt"

	"quizforge/internal/dto"
	"quizforge/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <quiz-id|custom>",
	Short: "Play a quiz in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		interactive, _ := cmd.Flags().GetBool("interactive")
		limit, _ := cmd.Flags().GetDuration("time-limit")
		saveCards, _ := cmd.Flags().GetBool("save-cards")

		req := &dto.StartSessionRequest{QuizID: args[0], Interactive: interactive, TimeLimitSeconds: int(limit.Seconds())}
		if errs := container.Validator.ValidateStartSessionRequest(req); len(errs) > 0 {
			return errs
		}
		state, err := container.Sessions.StartSession(ctx, req)
		if err != nil {
			return err
		}

		player := tui.NewPlayer(ctx, container.Sessions, state, tui.PlayerOptions{Analyzer: container.Analysis})
		final, err := tea.NewProgram(player, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if err != nil {
			return fmt.Errorf("run player: %w", err)
		}

		report := final.(tui.Player).Report()
		if report == nil {
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Score %d / %d\n%s\n", report.Result.Score, report.Result.TotalQuestions, report.Feedback)
		if !saveCards || len(report.Flashcards) == 0 {
			return nil
		}
		set, err := container.Study.SaveFlashcards(ctx, &dto.SaveFlashcardsRequest{Topic: report.Topic, Cards: report.Flashcards})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved %d flashcards to %s\n", len(set.Cards), set.Topic)
		return nil
	},
}

func init() {
	playCmd.Flags().BoolP("interactive", "i", false, "Judge each answer immediately")
	playCmd.Flags().Duration("time-limit", 0, "Countdown for the session (default from config)")
	playCmd.Flags().Bool("save-cards", false, "Save the proposed flashcards after analysis")
}
