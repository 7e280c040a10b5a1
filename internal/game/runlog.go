package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunLog records the outcome of one play session.
type RunLog struct {
	Level           string    `json:"level"`
	Outcome         string    `json:"outcome"`
	FloorReached    int       `json:"floor_reached"` // 1-indexed, highest visited
	Steps           int       `json:"steps"`
	EnemiesDefeated int       `json:"enemies_defeated"`
	DamageTaken     int       `json:"damage_taken"`
	Life            int       `json:"life"`
	Power           int       `json:"power"`
	Defense         int       `json:"defense"`
	Experience      int       `json:"experience"`
	FinishedAt      time.Time `json:"finished_at"`
}

// SaveRunLog appends run as a single JSON line to runs.jsonl in the data
// directory.
func SaveRunLog(run RunLog) error {
	dir, err := runLogDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating run log dir: %w", err)
	}
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, "runs.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("writing run log: %w", err)
	}
	return f.Close()
}

// runLogDir returns the directory where run logs are stored:
// $XDG_DATA_HOME/open-tower, defaulting to ~/.local/share/open-tower.
func runLogDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "open-tower"), nil
}
