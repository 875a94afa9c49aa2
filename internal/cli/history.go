package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"flashquiz/internal/app"
	"flashquiz/internal/config"
)

// NewHistoryCmd builds the subcommand listing past attempts.
func NewHistoryCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent quiz attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			recorder, err := newRecorder(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer recorder.Close()

			service := app.NewQuizService(newQuestionSource(cfg), recorder)
			attempts, err := service.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(attempts) == 0 {
				fmt.Println("no attempts recorded yet")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tCATEGORY\tDIFFICULTY\tSCORE\tDURATION")
			for _, a := range attempts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d (%d%%)\t%ds\n",
					a.Timestamp.Format("2006-01-02 15:04:05"),
					a.Category, a.Difficulty,
					a.Score, a.TotalQuestions, a.Percent(),
					a.DurationSeconds)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", app.DefaultHistoryLimit, "maximum number of attempts to list")
	return cmd
}
