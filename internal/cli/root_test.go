package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate points config and session data at a temp dir and clears DECK_* overrides.
func isolate(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	for _, k := range []string{"DECK_CONFIG", "DECK_THEME", "DECK_LOG_LEVEL", "DECK_FORMAT", "DECK_REMOTE_ADDR"} {
		t.Setenv(k, "")
	}
	t.Setenv("DECK_DATA_DIR", filepath.Join(dir, "data"))
	return dir, filepath.Join(dir, "deck.yml")
}

func writeDeck(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "talk.md")
	md := "# Hello\n\n---\n\n<!-- id: intro -->\n# Second\n\n---\n\n# Third\n"
	if err := os.WriteFile(p, []byte(md), 0o644); err != nil {
		t.Fatalf("write deck: %v", err)
	}
	return p
}

func TestSlidesCommand_JSON(t *testing.T) {
	dir, cfgPath := isolate(t)
	deckPath := writeDeck(t, dir)

	stdout, stderr, err := runCLI(t, []string{"--config", cfgPath, "slides", deckPath})
	if err != nil {
		t.Fatalf("slides failed: %v\nstderr:\n%s", err, stderr)
	}
	var out slidesOut
	if err := json.Unmarshal(stdout, &out); err != nil {
		t.Fatalf("unmarshal: %v\nstdout:\n%s", err, stdout)
	}
	if out.Total != 3 || len(out.Slides) != 3 {
		t.Fatalf("expected 3 slides; got %+v", out)
	}
	if out.Slides[0].ID != "slide-1" || out.Slides[1].ID != "intro" || out.Slides[2].Hash != "#3" {
		t.Fatalf("unexpected ids/hashes: %+v", out.Slides)
	}
	if out.Slides[0].HTML != "" {
		t.Fatalf("expected html omitted without --html")
	}

	stdout, _, err = runCLI(t, []string{"--config", cfgPath, "slides", deckPath, "--html"})
	if err != nil {
		t.Fatalf("slides --html failed: %v", err)
	}
	out = slidesOut{}
	if err := json.Unmarshal(stdout, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.Contains(out.Slides[0].HTML, "<h1") {
		t.Fatalf("expected rendered html; got %q", out.Slides[0].HTML)
	}
}

func TestSlidesCommand_YAML(t *testing.T) {
	dir, cfgPath := isolate(t)
	deckPath := writeDeck(t, dir)

	stdout, _, err := runCLI(t, []string{"--config", cfgPath, "--format", "yaml", "slides", deckPath})
	if err != nil {
		t.Fatalf("slides failed: %v", err)
	}
	if !strings.Contains(string(stdout), "total: 3") || !strings.Contains(string(stdout), "id: intro") {
		t.Fatalf("unexpected yaml:\n%s", stdout)
	}
}

func TestThemesCommand(t *testing.T) {
	_, cfgPath := isolate(t)

	stdout, _, err := runCLI(t, []string{"--config", cfgPath, "--theme", "dracula", "themes"})
	if err != nil {
		t.Fatalf("themes failed: %v", err)
	}
	var out []themeOut
	if err := json.Unmarshal(stdout, &out); err != nil {
		t.Fatalf("unmarshal: %v\nstdout:\n%s", err, stdout)
	}
	current := ""
	names := map[string]bool{}
	for _, th := range out {
		names[th.Name] = true
		if th.Current {
			current = th.Name
		}
	}
	if !names["dark"] || !names["light"] || current != "dracula" {
		t.Fatalf("unexpected themes %+v", out)
	}
}

func TestConfigInitShowAndForce(t *testing.T) {
	_, cfgPath := isolate(t)

	if _, stderr, err := runCLI(t, []string{"--config", cfgPath, "config", "init"}); err != nil {
		t.Fatalf("init failed: %v\n%s", err, stderr)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("expected config file: %v", err)
	}

	_, _, err := runCLI(t, []string{"--config", cfgPath, "config", "init"})
	var exists configExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("expected configExistsError; got %v", err)
	}
	if _, _, err := runCLI(t, []string{"--config", cfgPath, "config", "init", "--force"}); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"--config", cfgPath, "--theme", "light", "config", "show"})
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(string(stdout), "theme: light") || !strings.Contains(string(stdout), "duration_ms: 500") {
		t.Fatalf("unexpected effective config:\n%s", stdout)
	}
}

func TestInvalidConfigIsReported(t *testing.T) {
	dir, cfgPath := isolate(t)
	if err := os.WriteFile(cfgPath, []byte("transition:\n  type: spin\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := runCLI(t, []string{"--config", cfgPath, "slides", writeDeck(t, dir)})
	var invalid invalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected invalidConfigError; got %v", err)
	}
}

func TestPresentWithoutDeck(t *testing.T) {
	_, cfgPath := isolate(t)
	_, stderr, err := runCLI(t, []string{"--config", cfgPath})
	if _, ok := err.(noDeckError); !ok {
		t.Fatalf("expected noDeckError; got %v", err)
	}
	if !strings.Contains(string(stderr), "no deck given") {
		t.Fatalf("expected message on stderr; got %q", stderr)
	}
}

func TestVersionCommand(t *testing.T) {
	_, cfgPath := isolate(t)
	stdout, _, err := runCLI(t, []string{"--config", cfgPath, "version"})
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	var out map[string]string
	if err := json.Unmarshal(stdout, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["version"] != Version || out["go"] == "" {
		t.Fatalf("unexpected version output %v", out)
	}
}

func TestStartPresentation_WiresEngineSessionAndPlugins(t *testing.T) {
	dir, cfgPath := isolate(t)
	deckPath := writeDeck(t, dir)

	app := &App{ConfigPath: cfgPath}
	p, err := startPresentation(context.Background(), app, deckPath)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer p.Close()

	if p.engine.TotalSlides() != 3 || p.engine.CurrentSlide() != 0 {
		t.Fatalf("expected 3 slides at 0; got %d at %d", p.engine.TotalSlides(), p.engine.CurrentSlide())
	}
	if p.loc.Hash() != "#1" {
		t.Fatalf("expected hash #1; got %q", p.loc.Hash())
	}
	if got := p.engine.Container().ByClass("deck-counter"); len(got) != 1 || got[0].Text() != "1 / 3" {
		t.Fatalf("expected the default counter plugin")
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "sessions.json")); err != nil {
		t.Fatalf("expected the session file to be written: %v", err)
	}
}

func TestStartPresentation_ResumesLastSlide(t *testing.T) {
	dir, cfgPath := isolate(t)
	deckPath := writeDeck(t, dir)
	app := &App{ConfigPath: cfgPath}

	p, err := startPresentation(context.Background(), app, deckPath)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	p.engine.GoToSlide(2)
	p.Close()

	p, err = startPresentation(context.Background(), app, deckPath)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer p.Close()
	if p.engine.CurrentSlide() != 2 {
		t.Fatalf("expected to resume at 2; got %d", p.engine.CurrentSlide())
	}
}

func TestSplitHash(t *testing.T) {
	cases := []struct{ in, path, hash string }{
		{"talk.md", "talk.md", ""},
		{"talk.md#3", "talk.md", "#3"},
		{"talk.md#slide-2", "talk.md", "#slide-2"},
		{"notes#draft.md", "notes#draft.md", ""},
		{"#3", "#3", ""},
	}
	for _, tc := range cases {
		path, hash := splitHash(tc.in)
		if path != tc.path || hash != tc.hash {
			t.Fatalf("%q: expected %q %q; got %q %q", tc.in, tc.path, tc.hash, path, hash)
		}
	}
}

func TestStartPresentation_HashSuffixWinsOverSession(t *testing.T) {
	dir, cfgPath := isolate(t)
	deckPath := writeDeck(t, dir)
	app := &App{ConfigPath: cfgPath}

	p, err := startPresentation(context.Background(), app, deckPath+"#2")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer p.Close()
	if p.engine.CurrentSlide() != 1 {
		t.Fatalf("expected to start at 1; got %d", p.engine.CurrentSlide())
	}
}
