// Package main provides the CLI entrypoint for the quizzine core engine.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JYunth/quizzine-mobile-mastery/internal/bank"
	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/question"
	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/session"
	"github.com/JYunth/quizzine-mobile-mastery/internal/infrastructure/config"
	"github.com/JYunth/quizzine-mobile-mastery/internal/service"
	"github.com/JYunth/quizzine-mobile-mastery/internal/store"
)

var (
	quizMode   string
	quizWeek   int
	quizCustom string

	customName      string
	customQuestions string

	settingsCourse   string
	settingsHardMode string
	settingsReminder string
)

type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.SQLiteStore
	service *service.Service
}

func newApp() (*app, error) {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	st, err := store.NewSQLite(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	repo := bank.New(cfg.BankURL, cfg.FetchTimeout, logger)
	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		service: service.New(st, repo, logger),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close store", "error", err)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quizzine",
		Short:         "Quiz session engine and local progress tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runQuizCmd,
	}

	rootCmd.Flags().StringVar(&quizMode, "mode", "weekly", "quiz mode: weekly, full, bookmark, smart, custom")
	rootCmd.Flags().IntVar(&quizWeek, "week", 0, "week number (weekly mode)")
	rootCmd.Flags().StringVar(&quizCustom, "quiz", "", "custom quiz id (custom mode)")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newBookmarksCmd())
	rootCmd.AddCommand(newCustomCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newResetCmd())
	return rootCmd
}

func runQuizCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.service.TouchStreak()

	sess := a.service.StartSession(context.Background(), service.SessionRequest{
		Mode:         question.QuizMode(quizMode),
		Week:         quizWeek,
		CustomQuizID: quizCustom,
	})
	if sess.State() == session.StateEmpty {
		fmt.Println("No questions available for this quiz.")
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	for sess.State() == session.StateInProgress {
		view, ok := sess.Current()
		if !ok {
			break
		}
		fmt.Printf("\n[%d/%d] %s\n", sess.Index()+1, sess.Len(), view.Question.Prompt)
		for i, opt := range view.Options() {
			fmt.Printf("  %d) %s\n", i+1, opt)
		}

		selected, quit := readSelection(scanner, len(view.Options()))
		if quit {
			fmt.Println("Quiz abandoned; progress discarded.")
			return nil
		}
		ans, err := a.service.SubmitAnswer(sess, selected)
		if err != nil {
			return err
		}
		if ans.Correct {
			fmt.Println("Correct!")
		} else {
			fmt.Printf("Incorrect. The answer was: %s\n", view.OptionText(view.CorrectIndex()))
		}
	}

	return a.runResults(sess, scanner)
}

func (a *app) runResults(sess *session.Session, scanner *bufio.Scanner) error {
	for {
		attempt, ok := sess.Attempt()
		if !ok {
			return nil
		}
		fmt.Printf("\nScore: %d/%d\n", attempt.Score, attempt.TotalQuestions)
		fmt.Print("(r)eview, re(t)ry incorrect, (q)uit: ")
		if !scanner.Scan() {
			return nil
		}
		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "r":
			if err := sess.Review(); err != nil {
				return err
			}
			a.runReview(sess, scanner)
		case "t":
			if err := sess.RetryIncorrect(); err != nil {
				fmt.Println("Nothing to retry.")
				continue
			}
			for sess.State() == session.StateInProgress {
				view, _ := sess.Current()
				fmt.Printf("\n[%d/%d] %s\n", sess.Index()+1, sess.Len(), view.Question.Prompt)
				for i, opt := range view.Options() {
					fmt.Printf("  %d) %s\n", i+1, opt)
				}
				selected, quit := readSelection(scanner, len(view.Options()))
				if quit {
					return nil
				}
				if _, err := a.service.SubmitAnswer(sess, selected); err != nil {
					return err
				}
			}
		default:
			return sess.Finish()
		}
	}
}

func (a *app) runReview(sess *session.Session, scanner *bufio.Scanner) {
	for sess.State() == session.StateReviewing {
		view, _ := sess.Current()
		fmt.Printf("\n[%d/%d] %s\n", sess.Index()+1, sess.Len(), view.Question.Prompt)
		if ans, ok := sess.AnswerFor(sess.Index()); ok {
			verdict := "incorrect"
			if ans.Correct {
				verdict = "correct"
			}
			fmt.Printf("  your answer: %s (%s)\n", ans.SelectedOptionText, verdict)
		}
		fmt.Printf("  correct answer: %s\n", view.OptionText(view.CorrectIndex()))
		fmt.Print("(n)ext, (p)rev, (b)ack: ")
		if !scanner.Scan() {
			_ = sess.BackToResults()
			return
		}
		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "n":
			_ = sess.ReviewNext()
		case "p":
			_ = sess.ReviewPrev()
		default:
			_ = sess.BackToResults()
		}
	}
}

// readSelection reads a 1-based option number from stdin. Returns quit on
// EOF or "q".
func readSelection(scanner *bufio.Scanner, optionCount int) (int, bool) {
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return 0, true
		}
		text := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(text, "q") {
			return 0, true
		}
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 || n > optionCount {
			fmt.Printf("Enter a number between 1 and %d, or q to quit.\n", optionCount)
			continue
		}
		return n - 1, false
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show attempt history and streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			st := a.service.TouchStreak()
			fmt.Printf("Current streak: %d day(s) (last activity %s)\n", st.CurrentStreak, st.LastActivityDate)

			attempts := a.service.Attempts()
			if len(attempts) == 0 {
				fmt.Println("No attempts recorded yet.")
				return nil
			}
			for _, at := range attempts {
				fmt.Printf("%s  %-8s  %d/%d\n",
					at.Timestamp.Local().Format("2006-01-02 15:04"), at.Mode, at.Score, at.TotalQuestions)
			}
			return nil
		},
	}
}

func newBookmarksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "List bookmarked questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			questions := a.service.BookmarkedQuestions(context.Background())
			if len(questions) == 0 {
				fmt.Println("No bookmarks.")
				return nil
			}
			for _, q := range questions {
				fmt.Printf("%s  [week %d] %s\n", q.ID, q.Week, q.Prompt)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <question-id>",
		Short: "Toggle a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if a.service.ToggleBookmark(args[0]) {
				fmt.Println("Bookmarked.")
			} else {
				fmt.Println("Bookmark removed.")
			}
			return nil
		},
	})
	return cmd
}

func newCustomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Manage custom quizzes",
	}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a custom quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ids := strings.Split(customQuestions, ",")
			for i := range ids {
				ids[i] = strings.TrimSpace(ids[i])
			}
			quiz := a.service.SaveCustomQuiz(customName, ids, a.service.Settings().CurrentCourseID)
			fmt.Printf("Created custom quiz %s (%d questions)\n", quiz.ID, len(quiz.QuestionIDs))
			return nil
		},
	}
	create.Flags().StringVar(&customName, "name", "", "quiz name")
	create.Flags().StringVar(&customQuestions, "questions", "", "comma-separated question ids")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("questions")

	cmd.AddCommand(create)
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List custom quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			quizzes := a.service.CustomQuizzes()
			if len(quizzes) == 0 {
				fmt.Println("No custom quizzes.")
				return nil
			}
			for _, quiz := range quizzes {
				fmt.Printf("%s  %s (%d questions)\n", quiz.ID, quiz.Name, len(quiz.QuestionIDs))
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <quiz-id>",
		Short: "Delete a custom quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.service.DeleteCustomQuiz(args[0]); err != nil {
				return fmt.Errorf("delete custom quiz: %w", err)
			}
			fmt.Println("Deleted.")
			return nil
		},
	})
	return cmd
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			changed := false
			a.service.UpdateSettings(func(s *store.Settings) {
				if settingsCourse != "" {
					s.CurrentCourseID = settingsCourse
					changed = true
				}
				if settingsHardMode != "" {
					s.HardMode = settingsHardMode == "on"
					changed = true
				}
				if settingsReminder != "" {
					s.Reminders = settingsReminder == "on"
					changed = true
				}
			})

			s := a.service.Settings()
			if changed {
				fmt.Println("Settings updated.")
			}
			fmt.Printf("course: %s\nhard mode: %v\nreminders: %v\n", s.CurrentCourseID, s.HardMode, s.Reminders)
			return nil
		},
	}
	cmd.Flags().StringVar(&settingsCourse, "course", "", "set the current course id")
	cmd.Flags().StringVar(&settingsHardMode, "hard-mode", "", "on or off: shuffle options per session")
	cmd.Flags().StringVar(&settingsReminder, "reminders", "", "on or off")
	return cmd
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export all local data as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			blob, err := a.store.Export()
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			path := fmt.Sprintf("quizzine-backup-%s.json", time.Now().Format("2006-01-02"))
			if len(args) == 1 {
				path = args[0]
			}
			if err := os.WriteFile(path, blob, 0o644); err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", path)
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all local data from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			blob, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if !a.store.Import(blob) {
				return fmt.Errorf("import failed: %s is not valid JSON", args[0])
			}
			fmt.Println("Imported.")
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset all local data to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.Reset(); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			fmt.Println("All local data reset.")
			return nil
		},
	}
}
