package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 22050, c.Song.SampleRate)
	assert.Equal(t, 1024, c.Song.WindowSize)
	assert.Equal(t, 256, c.Song.HopLength)
	assert.Equal(t, 25, c.Song.SampleLength)
	assert.Equal(t, 0.45, c.Mask.Cutoff)
	assert.Equal(t, 1.0, c.Labels.Threshold)
	assert.Equal(t, "console", c.Logging.Type)
	assert.True(t, c.Model.SaveHistory)
	assert.Equal(t, 513, c.Bins())
	assert.NoError(t, c.Validate())
}

func TestLoadWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "window_size: 1024")
	assert.Contains(t, string(data), "cutoff: 0.45")

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("song:\n  window_size: 2048\n  sample_length: 9\nmask:\n  cutoff: 0.6\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2048, c.Song.WindowSize)
	assert.Equal(t, 9, c.Song.SampleLength)
	assert.Equal(t, 0.6, c.Mask.Cutoff)
	assert.Equal(t, 256, c.Song.HopLength)
	assert.Equal(t, 1025, c.Bins())
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GOSEP_SONG_HOP_LENGTH", "128")
	c, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 128, c.Song.HopLength)
}

func TestLoadInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"hop":     "song:\n  hop_length: 900\n",
		"cutoff":  "mask:\n  cutoff: 2\n",
		"length":  "song:\n  sample_length: 0\n",
		"logtype": "logging:\n  type: syslog\n",
		"level":   "logging:\n  level: loud\n",
		"yaml":    "song: [",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestNewLoggerConsole(t *testing.T) {
	log, closer, err := NewLogger(Logging{Level: "debug", Type: "console"})
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	log, closer, err := NewLogger(Logging{File: path, Level: "critical", Type: "file"})
	require.NoError(t, err)
	assert.Equal(t, logrus.ErrorLevel, log.GetLevel())

	log.Error("boom")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "boom")
}

func TestNewLoggerBadLevel(t *testing.T) {
	_, _, err := NewLogger(Logging{Level: "loud"})
	assert.Error(t, err)
}
