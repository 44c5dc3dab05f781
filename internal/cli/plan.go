package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"pacereader/internal/ingest"
	"pacereader/internal/pace"
	"pacereader/internal/pipeline"
	"pacereader/internal/workspace"
)

var (
	planWPM      int
	planGamma    float64
	planProvider string
	planModel    string
	planExport   string
)

var planCmd = &cobra.Command{
	Use:   "plan [file]",
	Short: "Compute and inspect a pacing schedule without reading",
	Long: `Compute the duration schedule for a document and print a summary:
estimated reading time, duration spread, and the words the pacer dwells on
longest. Useful for tuning gamma and wpm before a session.

Examples:
  pacereader plan book.txt --provider llama
  pacereader plan book.txt --export schedule.json`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().IntVar(&planWPM, "wpm", 0, "target words per minute (50-1000)")
	planCmd.Flags().Float64Var(&planGamma, "gamma", -1, "slowdown intensity (0.0-2.0)")
	planCmd.Flags().StringVar(&planProvider, "provider", "", "scoring provider: off, openai or llama")
	planCmd.Flags().StringVar(&planModel, "model", "", "model name for the scoring provider")
	planCmd.Flags().StringVar(&planExport, "export", "", "write the full schedule to a JSON file")
}

func runPlan(cmd *cobra.Command, args []string) error {
	base, err := workspace.EnsureDefault()
	if err != nil {
		return fmt.Errorf("workspace: %w", err)
	}
	settings := workspace.LoadSettings(base)

	params := pace.Default()
	params.TargetWPM = settings.TargetWPM
	params.Gamma = settings.Gamma
	provider, model := settings.Provider, settings.Model
	if cmd.Flags().Changed("wpm") {
		params.TargetWPM = planWPM
	}
	if cmd.Flags().Changed("gamma") {
		params.Gamma = planGamma
	}
	if cmd.Flags().Changed("provider") {
		provider = planProvider
	}
	if cmd.Flags().Changed("model") {
		model = planModel
	}
	if err := params.Validate(); err != nil {
		return err
	}

	doc, err := ingest.ParseFile(args[0])
	if err != nil {
		return err
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

	if planExport != "" {
		return exportSchedule(sched, planExport)
	}
	printSummary(doc.Title, sched, params)
	return nil
}

type exportedItem struct {
	Word       string  `json:"word"`
	DurationMs int     `json:"duration_ms"`
	Surprisal  float64 `json:"surprisal,omitempty"`
}

func exportSchedule(sched *pipeline.Schedule, path string) error {
	items := make([]exportedItem, len(sched.Items))
	for i, it := range sched.Items {
		items[i] = exportedItem{Word: it.Text, DurationMs: sched.Durations[i]}
		if sched.Surprisal != nil {
			items[i].Surprisal = sched.Surprisal[i]
		}
	}
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}
	fmt.Printf("✓ Exported %d items to %s\n", len(items), path)
	return nil
}

func printSummary(title string, sched *pipeline.Schedule, params pace.Params) {
	var (
		headerColor = lipgloss.Color("#F780FF")
		labelColor  = lipgloss.Color("#BD93F9")
		valueColor  = lipgloss.Color("#E9E9F4")
		dwellColor  = lipgloss.Color("#8BE9FD")
	)
	headerStyle := lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(labelColor).Width(18)
	valueStyle := lipgloss.NewStyle().Foreground(valueColor)
	dwellStyle := lipgloss.NewStyle().Foreground(dwellColor)

	total := 0
	minD, maxD := sched.Durations[0], sched.Durations[0]
	for _, d := range sched.Durations {
		total += d
		if d < minD {
			minD = d
		}
		if d > maxD {
			maxD = d
		}
	}

	fmt.Println(headerStyle.Render(title))
	row := func(label, value string) {
		fmt.Println(labelStyle.Render(label) + valueStyle.Render(value))
	}
	row("words", fmt.Sprintf("%d", len(sched.Items)))
	row("reading time", (time.Duration(total) * time.Millisecond).Round(time.Second).String())
	row("target pace", fmt.Sprintf("%d wpm, gamma %.1f", params.TargetWPM, params.Gamma))
	row("duration range", fmt.Sprintf("%d-%d ms", minD, maxD))
	if sched.Surprisal == nil {
		row("scoring", "off (punctuation-only pacing)")
		return
	}

	fmt.Println(headerStyle.Render("longest dwells"))
	idx := make([]int, len(sched.Durations))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return sched.Durations[idx[a]] > sched.Durations[idx[b]] })
	n := 5
	if n > len(idx) {
		n = len(idx)
	}
	for _, i := range idx[:n] {
		fmt.Println(dwellStyle.Render(fmt.Sprintf("  %5dms  %s", sched.Durations[i], contextSnippet(sched, i))))
	}
}

// contextSnippet shows a dwell word inside a few neighbors.
func contextSnippet(sched *pipeline.Schedule, i int) string {
	lo := i - 2
	if lo < 0 {
		lo = 0
	}
	hi := i + 3
	if hi > len(sched.Items) {
		hi = len(sched.Items)
	}
	words := make([]string, 0, hi-lo)
	for j := lo; j < hi; j++ {
		w := sched.Items[j].Text
		if j == i {
			w = "[" + w + "]"
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}
