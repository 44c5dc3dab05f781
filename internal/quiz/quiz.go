// Package quiz models pre-computed comprehension prompts placed at item
// positions in the text. The reader pauses at each position, asks, and
// scores the answer; generating questions is someone else's job.
package quiz

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

type Question struct {
	Prompt       string   `json:"prompt"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correct_index"`
}

// Item is one quiz prompt anchored to an item index in the text.
type Item struct {
	WordIndex int      `json:"word_index"`
	Question  Question `json:"question"`
}

// Load reads quiz items from a JSON file and sorts them by position.
func Load(path string) ([]Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz file: %w", err)
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse quiz file: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].WordIndex < items[j].WordIndex })
	return items, nil
}

// Validate checks every quiz item against the text length n.
func Validate(items []Item, n int) error {
	for i, it := range items {
		if it.WordIndex < 0 || it.WordIndex >= n {
			return fmt.Errorf("quiz item %d: word index %d out of range [0, %d)", i, it.WordIndex, n)
		}
		if len(it.Question.Choices) == 0 {
			return fmt.Errorf("quiz item %d: no choices", i)
		}
		if it.Question.CorrectIndex < 0 || it.Question.CorrectIndex >= len(it.Question.Choices) {
			return fmt.Errorf("quiz item %d: correct index %d out of range [0, %d)", i, it.Question.CorrectIndex, len(it.Question.Choices))
		}
	}
	return nil
}
