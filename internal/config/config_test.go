package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinLens/internal/model"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FINLENS_BUCKET", "AWS_REGION", "FINLENS_WORK_DIR", "FINLENS_SCHEDULE", "FINLENS_SKIP_FETCH"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBucket, cfg.Storage.Bucket)
	assert.Equal(t, DefaultRegion, cfg.Storage.Region)
	assert.NotEmpty(t, cfg.WorkDir)
	assert.Equal(t, DefaultQuestions(), cfg.Questions)
	require.NoError(t, cfg.Validate())
}

func TestDefaultQuestions(t *testing.T) {
	qs := DefaultQuestions()
	require.Len(t, qs, 6)
	assert.Equal(t, model.KindLookupCell, qs[0].Kind)
	assert.Equal(t, "MO_BS_INV", qs[0].RowID)
	assert.Equal(t, "2014-10-01", qs[0].Column)
	assert.Equal(t, model.KindBoundedLookup, qs[2].Kind)
	assert.Len(t, qs[3].Files, 5)
	assert.True(t, qs[5].Skip)

	// each question owns its file list
	qs[3].Files[0] = "changed.csv"
	assert.Equal(t, "MNZIRS0108.csv", qs[4].Files[0])
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  bucket: from-file
  region: eu-west-1
work_dir: /data/statements
schedule:
  cron: "0 0 6 * * *"
questions:
  - kind: threshold_filter
    files: [a.csv, b.csv]
    row_id: MO_BS_Goodwill
    threshold: 20000000000
`), 0644))
	t.Setenv("FINLENS_BUCKET", "from-env")
	t.Setenv("FINLENS_SKIP_FETCH", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Storage.Bucket)
	assert.Equal(t, "eu-west-1", cfg.Storage.Region)
	assert.True(t, cfg.Storage.SkipFetch)
	assert.Equal(t, "/data/statements", cfg.WorkDir)
	assert.Equal(t, "0 0 6 * * *", cfg.Schedule.Cron)
	require.Len(t, cfg.Questions, 1)
	assert.Equal(t, 2e10, cfg.Questions[0].Threshold)
	require.NoError(t, cfg.Validate())
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{WorkDir: "/tmp/work", Questions: DefaultQuestions()}
		cfg.Storage.Bucket = "bucket"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing bucket", func(c *Config) { c.Storage.Bucket = "" }},
		{"missing work dir", func(c *Config) { c.WorkDir = "" }},
		{"bad cron", func(c *Config) { c.Schedule.Cron = "every day" }},
		{"unknown kind", func(c *Config) { c.Questions[0].Kind = "median" }},
		{"missing row", func(c *Config) { c.Questions[1].RowID = "" }},
		{"missing files", func(c *Config) { c.Questions[3].Files = nil }},
		{"single-file query with many files", func(c *Config) { c.Questions[1].Files = []string{"a.csv", "b.csv"} }},
		{"lookup without column", func(c *Config) { c.Questions[0].Column = "" }},
		{"bounded lookup with bad date", func(c *Config) { c.Questions[2].Date = "someday" }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
