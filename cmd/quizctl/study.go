package main

import (
	"fmt"
	"text/tabwriter"

	"quizforge/internal/domain"
	"quizforge/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var weakAreasCmd = &cobra.Command{
	Use:   "weak-areas",
	Short: "Show topics below the mastery threshold",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := container.Study.WeakAreas(cmd.Context())
		if err != nil {
			return err
		}
		if len(resp.WeakAreas) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No weak areas. Keep it up!")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TOPIC\tACCURACY\tMISTAKES\tLAST MISTAKE\tLAST QUIZ")
		for _, a := range resp.WeakAreas {
			fmt.Fprintf(w, "%s\t%d%%\t%d\t%s\t%s\n", a.Topic, a.Accuracy, a.MistakeCount, a.LastMistake, a.LastQuizID)
		}
		return w.Flush()
	},
}

var flashcardsCmd = &cobra.Command{
	Use:   "flashcards",
	Short: "Review saved flashcards",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		resp, err := container.Study.ListFlashcardSets(cmd.Context(), topic)
		if err != nil {
			return err
		}
		var cards []domain.Flashcard
		for _, set := range resp.Sets {
			cards = append(cards, set.Cards...)
		}
		title := "All flashcards"
		if topic != "" {
			title = topic
		}
		final, err := tea.NewProgram(tui.NewReview(title, cards), tea.WithContext(cmd.Context())).Run()
		if err != nil {
			return fmt.Errorf("run review: %w", err)
		}
		left := final.(tui.Review).Remaining()
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d cards still to learn\n", len(left), len(cards))
		return nil
	},
}

func init() {
	flashcardsCmd.Flags().String("topic", "", "Only review sets with this topic")
}
