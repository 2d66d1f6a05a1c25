// Package content turns deck sources into slide records.
package content

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"deck-cli/internal/model"

	"github.com/bmatcuk/doublestar/v4"
)

// Separator joins files loaded together so each file starts a new slide.
const Separator = "\n\n---\n\n"

const maxRemoteBytes = 8 << 20

// Loader reads deck sources: a file, a directory of markdown files, a glob, or an http(s) URL.
type Loader struct {
	Client *http.Client
}

func (l Loader) Load(ctx context.Context, src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", fmt.Errorf("content: empty source")
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return l.fetch(ctx, src)
	}
	if hasGlobMeta(src) {
		return loadGlob(src)
	}
	st, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	if st.IsDir() {
		return loadGlob(filepath.Join(src, "*.md"))
	}
	b, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (l Loader) fetch(ctx context.Context, url string) (string, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errFetch(url, resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBytes))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func loadGlob(pattern string) (string, error) {
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return "", fmt.Errorf("content: invalid pattern %q", pattern)
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", errNoMatches(pattern)
	}
	sort.Strings(matches)
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		b, err := os.ReadFile(m)
		if err != nil {
			return "", err
		}
		if s := strings.TrimSpace(string(b)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, Separator), nil
}

var (
	separatorLine = regexp.MustCompile(`^-{3,}\s*$`)
	fenceLine     = regexp.MustCompile("^\\s*(```|~~~)")
	idComment     = regexp.MustCompile(`<!--\s*id:\s*([A-Za-z0-9_.:-]+)\s*-->`)
)

// Parse splits raw markdown on "---" lines outside fenced code blocks.
// Each slide gets the id from an "<!-- id: x -->" comment, or "slide-n".
func Parse(raw string) []model.Slide {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var chunks []string
	var cur strings.Builder
	var fence string

	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if m := fenceLine.FindStringSubmatch(line); m != nil {
			switch {
			case fence == "":
				fence = m[1]
			case fence == m[1]:
				fence = ""
			}
		}
		if fence == "" && separatorLine.MatchString(line) {
			chunks = append(chunks, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	chunks = append(chunks, cur.String())

	var out []model.Slide
	for _, c := range chunks {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		id := fmt.Sprintf("slide-%d", len(out)+1)
		if m := idComment.FindStringSubmatch(c); m != nil {
			id = m[1]
			c = strings.TrimSpace(idComment.ReplaceAllString(c, ""))
		}
		out = append(out, model.Slide{ID: id, Content: c, HTML: RenderHTML(c)})
	}
	return out
}
