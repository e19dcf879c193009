package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriBoard/internal/confirm"
	"github.com/Rorical/RoriBoard/internal/pager"
)

func TestLoadCreatesDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".roriboard", "config.yaml")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, DefaultProfile, cfg.ActiveProfile)
	assert.True(t, cfg.IsValid())

	p := cfg.Current()
	assert.Equal(t, DefaultBaseURL, p.BaseURL)
	assert.Equal(t, pager.DefaultPageSize, p.PageSize)
	assert.Equal(t, pager.TerminalBounds(), p.Pager)
	assert.Equal(t, 120*time.Millisecond, p.Confirm.Delay)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "sessions", "default.db"), cfg.SessionPath())
}

func TestLoadNormalizesProfile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `active_profile: staging
profiles:
  staging:
    base_url: https://board.example
    page_size: -3
    request_timeout: 2s
    pager:
      min_buttons: 0
      max_buttons: 20
    confirm:
      p: 4
      max: 0
      delay: 50ms
      step_timeout: 30s
      policy: reject
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	p := cfg.Current()
	assert.Equal(t, "https://board.example", p.BaseURL)
	assert.Equal(t, pager.DefaultPageSize, p.PageSize)
	assert.Equal(t, 2*time.Second, p.RequestTimeout)
	assert.Equal(t, pager.DefaultMinButtons, p.Pager.MinButtons)
	assert.Equal(t, 20, p.Pager.MaxButtons)

	seq := p.Confirm.Sequence()
	assert.Equal(t, 0.9, seq.P)
	assert.Equal(t, 6, seq.Max)
	assert.Equal(t, 50*time.Millisecond, seq.Delay)
	assert.Equal(t, 30*time.Second, seq.StepTimeout)
	assert.Equal(t, confirm.DefaultToken, seq.Token)
	assert.Equal(t, confirm.PolicyReject, confirm.ParsePolicy(p.Confirm.Policy))

	del := p.Confirm.DeleteSequence()
	assert.Equal(t, 0.5, del.P)
	assert.Equal(t, 9, del.Max)
}

func TestMissingActiveProfileFallsBack(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "active_profile: gone\nprofiles:\n  zeta:\n    base_url: http://z\n  alpha:\n    base_url: http://a\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "alpha", cfg.ActiveProfile)
	assert.Equal(t, "http://a", cfg.GetBaseURL())
	assert.Equal(t, []string{"alpha", "zeta"}, cfg.ProfileNames())

	require.NoError(t, cfg.Use("zeta"))
	assert.Equal(t, "http://z", cfg.GetBaseURL())
	assert.Error(t, cfg.Use("nope"))
}

func TestSaveRoundTripsDurations(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := Load(path)
	require.NoError(t, err)

	p := NewProfile()
	p.BaseURL = "http://other"
	p.Confirm.StepTimeout = 45 * time.Second
	cfg.Profiles["other"] = p
	cfg.ActiveProfile = "other"
	require.NoError(t, cfg.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "other", reloaded.ActiveProfile)
	assert.Equal(t, 45*time.Second, reloaded.Current().Confirm.StepTimeout)
}

func TestEmptyProfilesFail(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("active_profile: x\nprofiles: {}\n"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}
