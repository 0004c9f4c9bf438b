// Command minify builds the production asset bundle: every template, style
// sheet and script under templates/ and static/ is minified into dist/,
// which the server prefers when running in release mode.
package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

func main() {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("application/javascript", js.Minify)

	jobs := []struct {
		root      string
		suffix    string
		mediaType string
	}{
		{"templates", ".html", "text/html"},
		{"static", ".css", "text/css"},
		{"static", ".js", "application/javascript"},
	}

	for _, job := range jobs {
		err := filepath.WalkDir(job.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, job.suffix) {
				return nil
			}
			return minifyFile(m, path, filepath.Join("dist", path), job.mediaType)
		})
		if err != nil {
			log.Fatalf("Error minifying %s files under %s: %v", job.suffix, job.root, err)
		}
	}

	fmt.Println("Minification complete, output in dist/")
}

func minifyFile(m *minify.M, srcPath, dstPath, mediaType string) error {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	minified, err := m.Bytes(mediaType, src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(dstPath, minified, 0644); err != nil {
		return err
	}

	ratio := float64(len(src)-len(minified)) / float64(len(src)) * 100
	fmt.Printf("%s: %d bytes -> %d bytes (%.1f%% reduction)\n", srcPath, len(src), len(minified), ratio)
	return nil
}
