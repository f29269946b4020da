package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"FinLens/internal/model"
	"FinLens/internal/table"
)

const (
	DefaultBucket = "as-findata-tech-challenge"
	DefaultRegion = "us-west-2"
)

// Config holds all application configuration.
type Config struct {
	Storage struct {
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		SkipFetch bool   `yaml:"skip_fetch"`
	} `yaml:"storage"`
	WorkDir  string `yaml:"work_dir"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Questions []model.Question `yaml:"questions"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("FINLENS_BUCKET"); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Storage.Region = v
	}
	if v := os.Getenv("FINLENS_WORK_DIR"); v != "" {
		cfg.WorkDir = v
	}
	if v := os.Getenv("FINLENS_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("FINLENS_SKIP_FETCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Storage.SkipFetch = b
		}
	}

	// Defaults
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = DefaultBucket
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = DefaultRegion
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = defaultWorkDir()
	}
	if len(cfg.Questions) == 0 {
		cfg.Questions = DefaultQuestions()
	}

	return cfg, nil
}

// defaultWorkDir is the user's download folder, or ./downloads without a home.
func defaultWorkDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "downloads"
	}
	return filepath.Join(home, "Downloads")
}

var statementFiles = []string{
	"MNZIRS0108.csv",
	"Y1HZ7B0146.csv",
	"U07N2S0124.csv",
	"CT4OAR0154.csv",
	"Y8S4N80139.csv",
}

// DefaultQuestions returns the built-in question set for the challenge bucket.
func DefaultQuestions() []model.Question {
	all := func() []string { return append([]string(nil), statementFiles...) }
	return []model.Question{
		{Kind: model.KindLookupCell, Files: []string{"MNZIRS0108.csv"}, RowID: "MO_BS_INV", Column: "2014-10-01"},
		{Kind: model.KindRowMean, Files: []string{"Y1HZ7B0146.csv"}, RowID: "MO_BS_AP"},
		{Kind: model.KindBoundedLookup, Files: []string{"U07N2S0124.csv"}, RowID: "MO_BS_Intangibles", Date: "2015-09-30"},
		{Kind: model.KindMultiAverage, Files: all(), RowID: "MO_BS_AR"},
		{Kind: model.KindMultiAverage, Files: all(), RowID: "MO_BS_NCI"},
		{Kind: model.KindThresholdFilter, Files: all(), RowID: "MO_BS_Goodwill", Threshold: 20000000000, Skip: true},
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Storage.Bucket == "" && !c.Storage.SkipFetch {
		return fmt.Errorf("storage.bucket is required")
	}
	if c.WorkDir == "" {
		return fmt.Errorf("work_dir is required")
	}
	if c.Schedule.Cron != "" {
		if _, err := cron.NewParser(CronFields).Parse(c.Schedule.Cron); err != nil {
			return fmt.Errorf("schedule.cron: %w", err)
		}
	}
	for i, q := range c.Questions {
		if err := validateQuestion(q); err != nil {
			return fmt.Errorf("questions[%d]: %w", i, err)
		}
	}
	return nil
}

// CronFields is the cron spec layout: seconds first, descriptors allowed.
const CronFields = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

func validateQuestion(q model.Question) error {
	if !q.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", q.Kind)
	}
	if q.RowID == "" {
		return fmt.Errorf("row_id is required")
	}
	if len(q.Files) == 0 {
		return fmt.Errorf("files is required")
	}
	if !q.Kind.MultiFile() && len(q.Files) != 1 {
		return fmt.Errorf("%s takes exactly one file, got %d", q.Kind, len(q.Files))
	}
	switch q.Kind {
	case model.KindLookupCell:
		if q.Column == "" {
			return fmt.Errorf("column is required for %s", q.Kind)
		}
	case model.KindBoundedLookup:
		if _, err := table.ParseDate(q.Date); err != nil {
			return fmt.Errorf("date %q: %w", q.Date, err)
		}
	}
	return nil
}
