package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/jayseik/cinefill/internal/domain/entity"
	"github.com/jayseik/cinefill/internal/infrastructure/config"
	"github.com/jayseik/cinefill/internal/infrastructure/control"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var (
	genDocsOutputDir string
	genDocsFormat    string
)

var genDocsCmd = &cobra.Command{
	Use:   "gen-docs",
	Short: "Generate man pages or markdown for the CLI, control API and config",
	Long: `Generate reference documentation.

Besides one page per command, gen-docs writes two reference pages that are
built from the running code rather than from flags:

  cinefill-control(7)  endpoints and messages of the daemon's control API
  cinefill-config(5)   config keys with their defaults and environment
                       variables, plus the keys of the settings store

Man pages go to ~/.local/share/man, commands under man1 and the references
under man5 and man7. Run 'mandb' if 'man cinefill' is not found afterwards.
With --output every page lands in that one directory.

Examples:
  cinefill gen-docs
  cinefill gen-docs --format markdown --output ./docs
  cinefill gen-docs --output ./man`,
	Args: cobra.NoArgs,
	RunE: runGenDocs,
}

func init() {
	rootCmd.AddCommand(genDocsCmd)
	genDocsCmd.Flags().StringVarP(&genDocsOutputDir, "output", "o", "", "output directory (default: XDG man dirs, or ./docs for markdown)")
	genDocsCmd.Flags().StringVarP(&genDocsFormat, "format", "f", "man", "output format: man, markdown")
}

// refPage is a reference page assembled from live definitions.
type refPage struct {
	name    string
	section string
	summary string
	body    func(w io.Writer) error
}

var refPages = []refPage{
	{name: "cinefill-control", section: "7", summary: "local HTTP API of cinefill run", body: writeControlReference},
	{name: "cinefill-config", section: "5", summary: "configuration and settings store of cinefill", body: writeConfigReference},
}

// markdown renders the page. Man output needs the title line md2man turns
// into .TH.
func (p refPage) markdown(man bool, version string, date time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if man {
		fmt.Fprintf(&buf, "# %s %s \"%s\" \"cinefill %s\" \"cinefill Manual\"\n\n",
			strings.ToUpper(p.name), p.section, date.Format("Jan 2006"), version)
		fmt.Fprintf(&buf, "## NAME\n\n%s - %s\n\n", p.name, p.summary)
	} else {
		fmt.Fprintf(&buf, "# %s(%s)\n\n%s\n\n", p.name, p.section, p.summary)
	}
	if err := p.body(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", p.name, err)
	}
	return buf.Bytes(), nil
}

func runGenDocs(cmd *cobra.Command, _ []string) error {
	// No timestamp footer, so regenerated pages diff cleanly.
	rootCmd.DisableAutoGenTag = true

	switch genDocsFormat {
	case "man":
		return generateManPages(cmd.OutOrStdout(), genDocsOutputDir, time.Now())
	case "markdown":
		dir := genDocsOutputDir
		if dir == "" {
			dir = "./docs"
		}
		return generateMarkdown(cmd.OutOrStdout(), dir)
	default:
		return fmt.Errorf("unsupported format %q (use: man, markdown)", genDocsFormat)
	}
}

// manDir returns the directory for pages of section.
func manDir(output, section string) (string, error) {
	dir := output
	if dir == "" {
		dirs, err := config.GetXDGDirs()
		if err != nil {
			return "", fmt.Errorf("resolve man directory: %w", err)
		}
		dir = filepath.Join(filepath.Dir(dirs.DataHome), "man", "man"+section)
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return dir, nil
}

func generateManPages(out io.Writer, output string, date time.Time) error {
	dir, err := manDir(output, "1")
	if err != nil {
		return err
	}
	header := &doc.GenManHeader{
		Title:   "CINEFILL",
		Section: "1",
		Source:  "cinefill " + buildInfo.Version,
		Manual:  "cinefill Manual",
		Date:    &date,
	}
	if err := doc.GenManTree(rootCmd, header, dir); err != nil {
		return fmt.Errorf("generate man pages: %w", err)
	}
	fmt.Fprintf(out, "Command pages: %s\n", dir)

	for _, p := range refPages {
		dir, err := manDir(output, p.section)
		if err != nil {
			return err
		}
		md, err := p.markdown(true, buildInfo.Version, date)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, p.name+"."+p.section)
		if err := os.WriteFile(path, md2man.Render(md), filePerm); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(out, "  - %s\n", path)
	}
	return nil
}

func generateMarkdown(out io.Writer, dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := doc.GenMarkdownTree(rootCmd, dir); err != nil {
		return fmt.Errorf("generate markdown docs: %w", err)
	}
	fmt.Fprintf(out, "Command pages: %s\n", dir)

	for _, p := range refPages {
		md, err := p.markdown(false, buildInfo.Version, time.Time{})
		if err != nil {
			return err
		}
		path := filepath.Join(dir, p.name+".md")
		if err := os.WriteFile(path, md, filePerm); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(out, "  - %s\n", path)
	}
	return nil
}

var routePurpose = map[string]string{
	"/health":                  "daemon status, version and number of attached tabs",
	"/v1/message":              "send a command to the engine of the active tab",
	"/v1/tabs":                 "list attached tabs with their engine state",
	"/v1/tabs/{tabID}/message": "send a command to the engine of one tab",
}

func writeControlReference(w io.Writer) error {
	routes, err := control.Routes()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "## DESCRIPTION\n\n`cinefill run` listens on %s unless `control.listen` says otherwise. "+
		"Request and reply bodies are JSON. The active tab is the one that last gained focus.\n\n", control.DefaultListen)

	fmt.Fprint(w, "## ENDPOINTS\n\n| Method | Path | Purpose |\n|---|---|---|\n")
	for _, r := range routes {
		fmt.Fprintf(w, "| %s | `%s` | %s |\n", r.Method, r.Pattern, routePurpose[r.Pattern])
	}

	fmt.Fprintf(w, "\n## MESSAGES\n\nA message is an object with an `action` field.\n\n"+
		"| Action | Fields | Reply |\n|---|---|---|\n"+
		"| `%s` | `enabled` | `success` |\n"+
		"| `%s` | `zoom`, a number or numeric string in [%g, %g] | `success` |\n"+
		"| `%s` | | `success`, `enabled`, `zoom` |\n"+
		"| `%s` | | `success`, `enabled`, `zoom`, `domain` |\n\n",
		entity.ActionToggle, entity.ActionSetZoom, entity.ZoomMin, entity.ZoomMax,
		entity.ActionGetState, entity.ActionGetSiteState)
	fmt.Fprint(w, "A command the engine rejects replies with `success: false` and an `error` string.\n\n")

	fmt.Fprint(w, "## STATUS CODES\n\n"+
		"| Code | Meaning |\n|---|---|\n"+
		"| 200 | the engine replied |\n"+
		"| 400 | the body is not a valid message |\n"+
		"| 404 | the tab is unknown or has no engine (no web page loaded) |\n"+
		"| 502 | the engine context failed while handling the message |\n\n")

	fmt.Fprint(w, "## SEE ALSO\n\ncinefill(1), cinefill-config(5)\n")
	return nil
}

var storeKeys = []struct{ key, meaning string }{
	{entity.KeyEnabled, "global enabled flag"},
	{entity.KeyZoom, "global zoom factor"},
	{entity.KeyDarkMode, "popup theme, unset follows the terminal"},
	{entity.KeySiteSettings, "per-domain overrides of enabled and zoom"},
}

func writeConfigReference(w io.Writer) error {
	file, err := config.GetConfigFile()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "## DESCRIPTION\n\nThe configuration file is TOML, read from %s or the file given with `--config`. "+
		"It is created with the defaults below on first run and reloaded by the daemon when it changes. "+
		"`cinefill config schema` prints its JSON schema.\n\n", file)

	fmt.Fprint(w, "## KEYS\n\n| Key | Default | Environment |\n|---|---|---|\n")
	for _, k := range config.Keys(config.DefaultConfig()) {
		value := k.Value
		if value == "" {
			value = "(empty)"
		}
		fmt.Fprintf(w, "| `%s` | %s | `%s` |\n", k.Name, value, k.Env)
	}

	fmt.Fprint(w, "\n## SETTINGS STORE\n\nUser settings live in a SQLite database shared by the daemon and the CLI "+
		"(`database.path`). The `defaults` table only seeds it.\n\n| Key | Holds |\n|---|---|\n")
	for _, k := range storeKeys {
		fmt.Fprintf(w, "| `%s` | %s |\n", k.key, k.meaning)
	}

	fmt.Fprint(w, "\n## SEE ALSO\n\ncinefill(1), cinefill-control(7)\n")
	return nil
}
