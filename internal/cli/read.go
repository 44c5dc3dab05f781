package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pacereader/internal/ingest"
	"pacereader/internal/pace"
	"pacereader/internal/player"
	"pacereader/internal/quiz"
	"pacereader/internal/render"
	"pacereader/internal/workspace"
)

var (
	readWPM      int
	readGamma    float64
	readProvider string
	readModel    string
	readQuizFile string
	readMaxWords int
)

var readCmd = &cobra.Command{
	Use:   "read [file]",
	Short: "Read a document in the terminal",
	Long: `Read a document one word at a time. With a scoring provider configured,
pacing adapts to the text: surprising passages get more screen time.

Keys: space pauses, left/right seek, up/down change speed, [ and ] change
the slowdown intensity, 1-9 answer a quiz prompt, q quits.

Examples:
  pacereader read book.txt
  pacereader read paper.pdf --provider llama --wpm 400
  pacereader read chapter.md --quiz questions.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().IntVar(&readWPM, "wpm", 0, "target words per minute (50-1000)")
	readCmd.Flags().Float64Var(&readGamma, "gamma", -1, "slowdown intensity (0.0-2.0)")
	readCmd.Flags().StringVar(&readProvider, "provider", "", "scoring provider: off, openai or llama")
	readCmd.Flags().StringVar(&readModel, "model", "", "model name for the scoring provider")
	readCmd.Flags().StringVar(&readQuizFile, "quiz", "", "JSON file with comprehension questions")
	readCmd.Flags().IntVar(&readMaxWords, "max-words", 0, "stop after this many words (0 = whole text)")
}

func runRead(cmd *cobra.Command, args []string) error {
	base, err := workspace.EnsureDefault()
	if err != nil {
		return fmt.Errorf("workspace: %w", err)
	}
	settings := workspace.LoadSettings(base)
	params, provider, model := applyFlags(cmd, settings)
	if err := params.Validate(); err != nil {
		return err
	}

	doc, err := ingest.ParseFile(args[0])
	if err != nil {
		return err
	}

	var quizItems []quiz.Item
	if readQuizFile != "" {
		quizItems, err = quiz.Load(readQuizFile)
		if err != nil {
			return err
		}
	}

	scoreFn, err := scorerFor(provider, model)
	if err != nil {
		return err
	}
	store := openCache(base)
	if store != nil {
		defer store.Close()
	}

	sched, err := computeWithCache(context.Background(), doc.Text, scoreFn, params, store, func(i, n int) {
		fmt.Fprintf(os.Stderr, "\rscoring %d/%d chunks", i, n)
		if i == n {
			fmt.Fprintln(os.Stderr)
		}
	})
	if err != nil {
		return err
	}
	if len(sched.Items) == 0 {
		return fmt.Errorf("%s contains no readable words", args[0])
	}
	if err := quiz.Validate(quizItems, len(sched.Items)); err != nil {
		return err
	}

	backend, err := render.NewTcellBackend()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer backend.Fini()

	session, err := render.NewSession(backend, player.Config{
		Items:     sched.Items,
		Durations: sched.Durations,
		Params:    params,
		Quiz:      quizItems,
		MaxItems:  readMaxWords,
	})
	if err != nil {
		return err
	}
	session.OnParamsChanged = func(wpm int, gamma float64) {
		settings.TargetWPM = wpm
		settings.Gamma = gamma
		if err := workspace.SaveSettings(base, settings); err != nil {
			trace("save settings: %v", err)
		}
	}

	result, err := session.Run()
	backend.Fini()
	if err != nil {
		return err
	}
	if result != nil {
		fmt.Printf("quiz score: %d/%d in %s\n", result.Score, result.Total, result.Elapsed.Round(time.Second))
	}
	return nil
}

// applyFlags layers explicit flags over persisted settings.
func applyFlags(cmd *cobra.Command, settings workspace.Settings) (pace.Params, string, string) {
	params := pace.Default()
	params.TargetWPM = settings.TargetWPM
	params.Gamma = settings.Gamma

	if cmd.Flags().Changed("wpm") {
		params.TargetWPM = readWPM
	}
	if cmd.Flags().Changed("gamma") {
		params.Gamma = readGamma
	}
	provider := settings.Provider
	if cmd.Flags().Changed("provider") {
		provider = readProvider
	}
	model := settings.Model
	if cmd.Flags().Changed("model") {
		model = readModel
	}
	return params, provider, model
}
