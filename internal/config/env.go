package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadEnv.
const (
	EnvDataset   = "QUIZLET_DATASET"
	EnvDelimiter = "QUIZLET_DELIMITER"
	EnvSize      = "QUIZLET_SIZE"
	EnvDirection = "QUIZLET_DIRECTION"
	EnvModality  = "QUIZLET_MODALITY"
	EnvThreshold = "QUIZLET_THRESHOLD"
	EnvLogLevel  = "QUIZLET_LOG_LEVEL"
)

// LoadEnv loads the given .env files when present and returns the QUIZLET_*
// overrides found in the environment. Variables already set are not
// replaced by file values.
func LoadEnv(files ...string) (FileConfig, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return FileConfig{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	var cfg FileConfig
	var errs []error
	cfg.Drill.Dataset = envString(EnvDataset)
	cfg.Drill.Delimiter = envString(EnvDelimiter)
	cfg.Drill.Direction = envString(EnvDirection)
	cfg.Drill.Modality = envString(EnvModality)
	cfg.Log.Level = envString(EnvLogLevel)

	var err error
	if cfg.Drill.Size, err = envInt(EnvSize); err != nil {
		errs = append(errs, err)
	}
	if cfg.Drill.Threshold, err = envInt(EnvThreshold); err != nil {
		errs = append(errs, err)
	}
	return cfg, errors.Join(errs...)
}

func envString(key string) *string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	return &v
}

func envInt(key string) (*int, error) {
	v := envString(key)
	if v == nil {
		return nil, nil
	}
	i, err := strconv.Atoi(*v)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s=%q", key, *v)
	}
	return &i, nil
}
