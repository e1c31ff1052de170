package config

import (
	"errors"
	"fmt"
	"time"
)

// BlockArchetype describes one kind of falling block.
type BlockArchetype struct {
	Name   string
	Color  Color
	Speed  float64 // multiplier on the base fall speed
	Size   float64 // multiplier on the base block extent
	Points int
}

// ArchetypeCount is the number of block kinds in a table.
const ArchetypeCount = 3

// Settings are the rules of a round.
type Settings struct {
	ScoreThreshold int
	MaxSeconds     float64
	BlockInterval  time.Duration
	PlayerColor    Color
	BGColor        Color
	Blocks         [ArchetypeCount]BlockArchetype
	MasterVolume   float64
}

// Environment variables read by FromEnv.
const (
	EnvMode           = "BLOCKCATCH_MODE"
	EnvScoreThreshold = "BLOCKCATCH_SCORE_THRESHOLD"
	EnvMaxSeconds     = "BLOCKCATCH_MAX_SECONDS"
	EnvBlockInterval  = "BLOCKCATCH_BLOCK_INTERVAL"
	EnvPlayerColor    = "BLOCKCATCH_PLAYER_COLOR"
	EnvBGColor        = "BLOCKCATCH_BG_COLOR"
	EnvMasterVolume   = "BLOCKCATCH_MASTER_VOLUME"
)

// DefaultBlocks is the shipped archetype table. Bigger, slower blocks are
// worth less than small fast ones.
var DefaultBlocks = [ArchetypeCount]BlockArchetype{
	{Name: "pink", Color: RGB(1, 0, 0.5), Speed: 1, Size: 2.5, Points: 1},
	{Name: "purple", Color: RGB(0.6, 0.2, 0.8), Speed: 2, Size: 1.5, Points: 5},
	{Name: "cyan", Color: RGB(0, 1, 1), Speed: 3, Size: 1, Points: 25},
}

// Default returns the production rules.
func Default() Settings {
	return Settings{
		ScoreThreshold: 500,
		MaxSeconds:     60,
		BlockInterval:  time.Second,
		PlayerColor:    RGB(1, 1, 1),
		BGColor:        RGB(0, 0, 0),
		Blocks:         DefaultBlocks,
		MasterVolume:   0.6,
	}
}

// Dev returns shorter rules for trying things out.
func Dev() Settings {
	s := Default()
	s.ScoreThreshold = 25
	s.MaxSeconds = 30
	return s
}

// FromEnv applies BLOCKCATCH_* overrides on top of base. When
// BLOCKCATCH_MODE is "dev", Dev() replaces base first.
func FromEnv(base Settings) (Settings, error) {
	s := base
	if GetEnv(EnvMode, "") == "dev" {
		s = Dev()
	}

	var err error
	if s.ScoreThreshold, err = GetEnvInt(EnvScoreThreshold, s.ScoreThreshold); err != nil {
		return base, err
	}
	if s.MaxSeconds, err = GetEnvFloat(EnvMaxSeconds, s.MaxSeconds); err != nil {
		return base, err
	}
	if s.BlockInterval, err = GetEnvDuration(EnvBlockInterval, s.BlockInterval); err != nil {
		return base, err
	}
	if s.MasterVolume, err = GetEnvFloat(EnvMasterVolume, s.MasterVolume); err != nil {
		return base, err
	}
	if v := GetEnv(EnvPlayerColor, ""); v != "" {
		if s.PlayerColor, err = ParseColor(v); err != nil {
			return base, fmt.Errorf("%s: %w", EnvPlayerColor, err)
		}
	}
	if v := GetEnv(EnvBGColor, ""); v != "" {
		if s.BGColor, err = ParseColor(v); err != nil {
			return base, fmt.Errorf("%s: %w", EnvBGColor, err)
		}
	}
	if err := s.Validate(); err != nil {
		return base, err
	}
	return s, nil
}

// Validate reports the first rule that cannot produce a playable round.
func (s Settings) Validate() error {
	if s.ScoreThreshold <= 0 {
		return fmt.Errorf("score threshold must be positive, got %d", s.ScoreThreshold)
	}
	if s.MaxSeconds <= 0 {
		return fmt.Errorf("round length must be positive, got %v", s.MaxSeconds)
	}
	if s.BlockInterval <= 0 {
		return fmt.Errorf("block interval must be positive, got %v", s.BlockInterval)
	}
	if s.MasterVolume < 0 || s.MasterVolume > 1 {
		return fmt.Errorf("master volume must be within [0,1], got %v", s.MasterVolume)
	}
	for i, b := range s.Blocks {
		if b.Speed <= 0 || b.Size <= 0 || b.Points <= 0 {
			return fmt.Errorf("block %d (%s): %w", i, b.Name, errInvalidArchetype)
		}
	}
	return nil
}

var errInvalidArchetype = errors.New("speed, size and points must be positive")

// BlockIntervalMs is the spawn cadence in milliseconds.
func (s Settings) BlockIntervalMs() float64 {
	return float64(s.BlockInterval) / float64(time.Millisecond)
}
