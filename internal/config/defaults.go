package config

import (
	"errors"
	"fmt"

	"github.com/ceylinesp/quizlet/internal/dataset"
	"github.com/ceylinesp/quizlet/internal/logger"
	"github.com/ceylinesp/quizlet/internal/model"
)

// DefaultConfig returns built-in settings.
func DefaultConfig() model.Config {
	return model.Config{
		DatasetPath: DefaultDatasetPath(),
		Delimiter:   ",",
		Size:        10,
		Direction:   model.TermToTranslation.String(),
		Modality:    model.ModeMixed.String(),
		Threshold:   2,
		LogLevel:    "info",
	}
}

// Validate reports every invalid setting at once.
func Validate(cfg model.Config) error {
	var errs []error
	if cfg.DatasetPath == "" {
		errs = append(errs, fmt.Errorf("--dataset must not be empty"))
	}
	if _, err := dataset.ParseDelimiter(cfg.Delimiter); err != nil {
		errs = append(errs, fmt.Errorf("--delimiter: %w", err))
	}
	if cfg.Size <= 0 {
		errs = append(errs, fmt.Errorf("--size must be > 0"))
	}
	if _, err := model.ParseDirection(cfg.Direction); err != nil {
		errs = append(errs, fmt.Errorf("--direction: %w", err))
	}
	if _, err := model.ParseModalityMode(cfg.Modality); err != nil {
		errs = append(errs, fmt.Errorf("--modality: %w", err))
	}
	if cfg.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("--threshold must be > 0"))
	}
	if _, ok := logger.ParseLevel(cfg.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("--log-level: unknown level %q", cfg.LogLevel))
	}
	return errors.Join(errs...)
}
