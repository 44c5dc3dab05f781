// Package workspace owns the reader's home-directory state: the cache
// database location and the persisted settings. The pacing engine itself
// never touches the filesystem; the CLI loads settings once at startup and
// saves them when the player reports a parameter change.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pacereader/internal/pace"
)

const BaseDirName = "PaceReader"

// Settings are the user-tunable parameters persisted between sessions.
type Settings struct {
	TargetWPM int     `json:"target_wpm"`
	Gamma     float64 `json:"gamma"`
	Provider  string  `json:"provider"`
	Model     string  `json:"model"`
}

func defaultSettings() Settings {
	p := pace.Default()
	return Settings{
		TargetWPM: p.TargetWPM,
		Gamma:     p.Gamma,
		Provider:  "off",
	}
}

// EnsureDefault creates the workspace under the home directory.
func EnsureDefault() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return EnsureAt(filepath.Join(home, BaseDirName))
}

// EnsureAt creates the workspace tree under base and seeds default
// settings on first run.
func EnsureAt(base string) (string, error) {
	for _, p := range []string{
		filepath.Join(base, "configs"),
		filepath.Join(base, "cache"),
	} {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", p, err)
		}
	}

	settingsPath := SettingsPath(base)
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := SaveSettings(base, defaultSettings()); err != nil {
			return "", err
		}
	}
	return base, nil
}

func SettingsPath(base string) string {
	return filepath.Join(base, "configs", "settings.json")
}

// CachePath is the location of the pacing-result database.
func CachePath(base string) string {
	return filepath.Join(base, "cache", "pacing.db")
}

// LoadSettings reads persisted settings, falling back to defaults for a
// missing or unreadable file.
func LoadSettings(base string) Settings {
	raw, err := os.ReadFile(SettingsPath(base))
	if err != nil {
		return defaultSettings()
	}
	s := defaultSettings()
	if err := json.Unmarshal(raw, &s); err != nil {
		return defaultSettings()
	}
	if s.TargetWPM < pace.MinWPM || s.TargetWPM > pace.MaxWPM {
		s.TargetWPM = pace.Default().TargetWPM
	}
	s.Gamma = pace.ClampGamma(s.Gamma)
	return s
}

func SaveSettings(base string, s Settings) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(SettingsPath(base), raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
