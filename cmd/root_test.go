package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdtranslate "github.com/jonesrussell/cardfeed/cmd/translate"
	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/store"
)

func setup(t *testing.T) (string, *store.FileStore) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\n  output_paths: [stderr]\nstorage:\n  dir: "+dir+"\n"), 0o600))

	fs := store.NewFileStore(dir, nil)
	require.NoError(t, fs.Save(domain.CollectionInbox, []domain.Card{
		{ID: "popup-1", Type: domain.TypePopup, Title: "Seongsu pop-up", Sources: []domain.Source{{URL: "https://ex.com/1"}}},
		{ID: "tip-2", Type: domain.TypeTip, Title: "T-money tip", Sources: []domain.Source{{URL: "https://ex.com/2"}}},
	}))
	return cfgPath, fs
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInboxReviewFlow(t *testing.T) {
	cfgPath, fs := setup(t)

	out, err := run(t, "--config", cfgPath, "inbox", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "popup-1")
	assert.Contains(t, out, "tip-2")

	out, err = run(t, "--config", cfgPath, "inbox", "approve", "popup-1", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "Approved 1 card(s)")
	assert.Contains(t, out, "not found: nope")

	published := fs.Load(domain.CollectionPublished)
	require.Len(t, published, 1)
	assert.Equal(t, "popup-1", published[0].ID)

	_, err = run(t, "--config", cfgPath, "inbox", "reject", "tip-2")
	require.NoError(t, err)
	assert.Empty(t, fs.Load(domain.CollectionInbox))

	out, err = run(t, "--config", cfgPath, "cards", "remove", "popup-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 card(s)")
	assert.Empty(t, fs.Load(domain.CollectionPublished))
}

func TestCardsList_RejectsUnknownType(t *testing.T) {
	cfgPath, _ := setup(t)

	_, err := run(t, "--config", cfgPath, "cards", "list", "--type", "gossip")
	require.Error(t, err)
}

func TestTranslate_NoEngines(t *testing.T) {
	cfgPath, _ := setup(t)

	_, err := run(t, "--config", cfgPath, "translate", "hello")
	require.ErrorIs(t, err, cmdtranslate.ErrNoEngines)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "cardfeed version dev\n", out)
}
