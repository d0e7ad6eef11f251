package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultFileID, c.FileID)
	assert.Empty(t, c.DatasetName)
	assert.Equal(t, 60, c.HTTPTimeoutSec)
	assert.Equal(t, 10, c.ReportTop)
	assert.Equal(t, filepath.Join(home, ".filmtally", "data", "raw"), c.RawDir)
	assert.Equal(t, filepath.Join(home, ".filmtally", "data", "processed"), c.ProcessedDir)
	assert.Equal(t, filepath.Join(home, ".filmtally", "history.db"), c.HistoryDB)
	assert.False(t, c.S3Enabled)
	assert.Equal(t, "us-east-1", c.S3Region)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	c.FileID = "custom-id"
	c.DatasetName = "movies.csv"
	c.ReportTop = 5
	c.ColorPatterns = []string{`^tint$`}
	c.S3Enabled = true
	c.S3Bucket = "datasets"
	require.NoError(t, Save(c, ""))

	again, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "custom-id", again.FileID)
	assert.Equal(t, "movies.csv", again.DatasetName)
	assert.Equal(t, 5, again.ReportTop)
	assert.Equal(t, []string{`^tint$`}, again.ColorPatterns)
	assert.True(t, again.S3Enabled)
	assert.Equal(t, "datasets", again.S3Bucket)
}

func TestSaveLoad_ExplicitPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")

	c, err := Load(cfgFile)
	require.NoError(t, err)
	c.FileID = "pinned"
	require.NoError(t, Save(c, cfgFile))

	again, err := Load(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "pinned", again.FileID)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FILMTALLY_FILE_ID", "env-file-id")
	t.Setenv("FILMTALLY_DATASET_NAME", "pinned.csv")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-file-id", c.FileID)
	assert.Equal(t, "pinned.csv", c.DatasetName)
}

func TestEnsureDirs(t *testing.T) {
	base := t.TempDir()
	c := &Global{
		RawDir:       filepath.Join(base, "data", "raw"),
		ProcessedDir: filepath.Join(base, "data", "processed"),
	}
	require.NoError(t, EnsureDirs(c))
	for _, dir := range []string{c.RawDir, c.ProcessedDir} {
		fi, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, fi.IsDir())
	}
}
