package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"API_ADDR", "WISHLIST_NAUGHTY_RATE", "WISHLIST_SATURATION", "REDIS_URL", "WISHLIST_LLM_PROVIDER"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	assert.Equal(t, ":8787", cfg.Addr)
	assert.Equal(t, 0.3, cfg.NaughtyRate)
	assert.Equal(t, 10, cfg.Saturation)
	assert.Equal(t, "", cfg.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WISHLIST_NAUGHTY_RATE", "0.5")
	t.Setenv("WISHLIST_SATURATION", "20")
	t.Setenv("WISHLIST_LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("WISHLIST_LLM_TIMEOUT_SECONDS", "5")
	cfg := Load()

	assert.Equal(t, 0.5, cfg.NaughtyRate)
	assert.Equal(t, 20, cfg.Saturation)
	assert.Equal(t, "g-key", cfg.LLMAPIKey())
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("WISHLIST_NAUGHTY_RATE", "lots")
	t.Setenv("WISHLIST_SATURATION", "ten")
	cfg := Load()

	assert.Equal(t, 0.3, cfg.NaughtyRate)
	assert.Equal(t, 10, cfg.Saturation)
}

func TestLoadTiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`tiers:
  - id: classic
    name: Classic
    unlock_at: 0
  - id: candy
    name: Candy Cane
    unlock_at: 40
`), 0o644))

	tiers, err := LoadTiers(path)
	require.NoError(t, err)
	assert.Equal(t, []Tier{
		{ID: "classic", Name: "Classic", UnlockAt: 0},
		{ID: "candy", Name: "Candy Cane", UnlockAt: 40},
	}, tiers)
}

func TestLoadTiersErrors(t *testing.T) {
	tiers, err := LoadTiers("")
	require.NoError(t, err)
	assert.Nil(t, tiers)

	_, err = LoadTiers(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("tiers: []\n"), 0o644))
	_, err = LoadTiers(empty)
	assert.Error(t, err)

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("tiers: [\n"), 0o644))
	_, err = LoadTiers(broken)
	assert.Error(t, err)
}

func TestLoadNormalizesProvider(t *testing.T) {
	t.Setenv("WISHLIST_LLM_PROVIDER", " Gemini ")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("OPENAI_API_KEY", "o-key")
	cfg := Load()

	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "g-key", cfg.LLMAPIKey())
	assert.Equal(t, "gemini-2.0-flash", cfg.LLMModel())
}
