package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"flashquiz/internal/app"
	"flashquiz/internal/config"
	"flashquiz/internal/domain"
)

// NewPlayCmd builds the interactive terminal quiz subcommand.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		category   string
		difficulty string
		count      int
		seconds    int
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, app.StartOptions{
				Category:           category,
				Difficulty:         difficulty,
				Count:              count,
				SecondsPerQuestion: seconds,
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", domain.AnyFilter, "question category")
	cmd.Flags().StringVar(&difficulty, "difficulty", domain.AnyFilter, "easy, medium, hard, or Any")
	cmd.Flags().IntVar(&count, "count", 0, "number of questions (default from config)")
	cmd.Flags().IntVar(&seconds, "seconds", 0, "seconds per question (default from config)")
	return cmd
}

func runPlay(ctx context.Context, configPath string, opts app.StartOptions) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if opts.Count <= 0 {
		opts.Count = cfg.QuizCount()
	}
	if opts.SecondsPerQuestion <= 0 {
		opts.SecondsPerQuestion = cfg.QuizSeconds()
	}

	recorder, err := newRecorder(ctx, cfg)
	if err != nil {
		return err
	}
	defer recorder.Close()

	service := app.NewQuizService(newQuestionSource(cfg), recorder)
	session, _, err := service.StartQuiz(ctx, opts)
	if err != nil {
		return err
	}

	lines := readLines(os.Stdin)
	for {
		view, remaining, err := session.CurrentView()
		if err != nil {
			break
		}

		fmt.Printf("\nQ%d/%d: %s   (%ds)\n", view.Index+1, view.Total, view.Prompt, int(remaining.Seconds()))
		for i, opt := range view.Options {
			fmt.Printf("  %d) %s\n", i+1, opt)
		}
		fmt.Print("> ")

		done, answered := askOne(session, lines, remaining)
		if !answered {
			fmt.Println("\nTime's up!")
		}
		fmt.Printf("Score: %d/%d\n", session.Score(), session.Total())
		if done {
			break
		}
	}

	summary, err := session.Summary()
	if err != nil {
		return err
	}
	fmt.Printf("\nQuiz complete! Score: %d/%d (%d%%) in %ds\n",
		summary.Score, summary.TotalQuestions, summary.Percent(), summary.DurationSeconds)

	if err := service.SaveAttempt(ctx, summary); err != nil {
		// The result above is still valid; only history misses this entry.
		fmt.Fprintf(os.Stderr, "warning: could not save attempt: %v\n", err)
	}
	return nil
}

// askOne waits for one answer or the deadline, whichever comes first, and
// reports whether the session completed and whether an answer landed in time.
func askOne(session *app.Session, lines <-chan string, remaining time.Duration) (done, answered bool) {
	timer := time.NewTimer(remaining)
	defer timer.Stop()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				done, _ = session.Timeout()
				return done, false
			}
			selected, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil {
				fmt.Print("enter an option number > ")
				continue
			}
			correct, finished, err := session.Answer(selected - 1)
			if errors.Is(err, domain.ErrDeadlinePassed) {
				finished, _ = session.Timeout()
				return finished, false
			}
			if err != nil {
				fmt.Print("try again > ")
				continue
			}
			if correct {
				fmt.Println("Correct!")
			} else {
				fmt.Println("Wrong.")
			}
			return finished, true
		case <-timer.C:
			done, _ = session.Timeout()
			return done, false
		}
	}
}

// readLines feeds stdin lines into a channel so answers can race the deadline.
func readLines(f *os.File) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}
