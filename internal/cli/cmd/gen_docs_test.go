package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayseik/cinefill/internal/infrastructure/control"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGenerateMarkdown_WritesReferencePages(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	dir := filepath.Join(root, "docs")

	var out bytes.Buffer
	require.NoError(t, generateMarkdown(&out, dir))

	assert.FileExists(t, filepath.Join(dir, "cinefill.md"))
	assert.FileExists(t, filepath.Join(dir, "cinefill_site_set.md"))

	api := readFile(t, filepath.Join(dir, "cinefill-control.md"))
	assert.Contains(t, api, "# cinefill-control(7)")
	assert.Contains(t, api, "| POST | `/v1/tabs/{tabID}/message` | send a command to the engine of one tab |")
	assert.Contains(t, api, "| `setZoom` | `zoom`, a number or numeric string in [1, 3] | `success` |")

	cfg := readFile(t, filepath.Join(dir, "cinefill-config.md"))
	assert.Contains(t, cfg, "| `control.listen` | 127.0.0.1:7733 | `CINEFILL_CONTROL_LISTEN` |")
	assert.Contains(t, cfg, "| `logging.level` | info | `CINEFILL_LOG_LEVEL` |")
	assert.Contains(t, cfg, "| `chrome.cdp_url` | (empty) | `CINEFILL_CHROME_CDP_URL` |")
	assert.Contains(t, cfg, "| `siteSettings` | per-domain overrides of enabled and zoom |")
	assert.Contains(t, cfg, filepath.Join(root, "config", "cinefill", "config.toml"))

	assert.Contains(t, out.String(), filepath.Join(dir, "cinefill-config.md"))
}

func TestGenerateManPages_RendersReferencePages(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	dir := filepath.Join(root, "man")

	var out bytes.Buffer
	require.NoError(t, generateManPages(&out, dir, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)))

	assert.FileExists(t, filepath.Join(dir, "cinefill.1"))
	assert.FileExists(t, filepath.Join(dir, "cinefill-gen-docs.1"))

	page := readFile(t, filepath.Join(dir, "cinefill-config.5"))
	assert.Contains(t, page, ".TH CINEFILL-CONFIG 5")
	assert.Contains(t, page, ".SH KEYS")
	assert.Contains(t, page, "CINEFILL_CONTROL_LISTEN")

	page = readFile(t, filepath.Join(dir, "cinefill-control.7"))
	assert.Contains(t, page, ".TH CINEFILL-CONTROL 7")
	assert.Contains(t, page, ".SH STATUS CODES")
}

func TestRoutePurposeCoversEveryRoute(t *testing.T) {
	routes, err := control.Routes()
	require.NoError(t, err)
	require.NotEmpty(t, routes)
	for _, r := range routes {
		assert.NotEmpty(t, routePurpose[r.Pattern], r.Pattern)
	}
}
