package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wishlist/api/internal/config"
)

func TestTiersCommandDefaults(t *testing.T) {
	t.Setenv("WISHLIST_TIERS_FILE", "")
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"tiers"})

	require.NoError(t, root.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "UNLOCK AT")
	assert.Contains(t, lines[1], "classic")
	assert.Contains(t, lines[4], "gingerbread")
	assert.Contains(t, lines[4], "100%")
}

func TestTiersCommandFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tiers:\n  - id: base\n    unlock_at: 0\n  - id: gold\n    name: Gold\n    unlock_at: 50\n"), 0o644))
	t.Setenv("WISHLIST_TIERS_FILE", path)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"tiers"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "gold")
	assert.Contains(t, out.String(), "50%")
}

func TestLoadTierPolicyRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	// No tier unlocks at zero.
	require.NoError(t, os.WriteFile(path, []byte("tiers:\n  - id: gold\n    unlock_at: 50\n"), 0o644))

	_, err := loadTierPolicy(config.Config{TiersFile: path})
	assert.Error(t, err)
}
