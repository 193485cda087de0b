package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/gobwas/glob"
	"github.com/mdindex/mdindex"
	"github.com/mdindex/mdindex/internal/pipeline"
)

const (
	maxFiles      = 1000
	maxWorkers    = 4
	fileExtension = ".md"
)

// FileResult is the outcome for one document. A failed document carries its
// error here instead of aborting the batch; the remaining documents are
// processed independently.
type FileResult struct {
	Path   string
	Report *pipeline.Report
	Err    error
}

type Processor struct {
	pipeline *pipeline.Pipeline
	pattern  glob.Glob
}

// NewProcessor builds a processor running the given pipeline options over
// every matching file. pattern filters relative paths ("**/orm/*.md");
// empty means all markdown files.
func NewProcessor(opts pipeline.Options, pattern string) (*Processor, error) {
	p := &Processor{
		pipeline: pipeline.New(opts),
	}

	if pattern != "" {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		p.pattern = g
	}

	return p, nil
}

// ProcessPath runs the pipeline over a file, or over every markdown file
// under a directory.
func (p *Processor) ProcessPath(path string) ([]FileResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing path: %w", err)
	}

	if info.IsDir() {
		return p.processDirectory(path)
	}

	return []FileResult{p.processFile(path)}, nil
}

// findFiles walks the directory tree starting at root and returns a list of
// markdown files.
//
// If a .git directory is found, it will be used to load .gitignore patterns.
func (p *Processor) findFiles(root string) ([]string, error) {
	var files []string
	var patterns []gitignore.Pattern

	// If .git exists, set up gitignore patterns
	if _, err := os.Stat(filepath.Join(root, ".git")); err == nil {
		// Add .git directory pattern
		patterns = append(patterns, gitignore.ParsePattern(".git/", nil))

		// Load .gitignore if it exists
		if data, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
			for _, line := range strings.Split(string(data), "\n") {
				if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, "#") {
					patterns = append(patterns, gitignore.ParsePattern(line, nil))
				}
			}
		}
	}

	matcher := gitignore.NewMatcher(patterns)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		pathComponents := strings.Split(relPath, string(os.PathSeparator))

		if len(patterns) > 0 {
			if matcher.Match(pathComponents, info.IsDir()) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if info.IsDir() || !strings.HasSuffix(path, fileExtension) {
			return nil
		}

		if p.pattern != nil && !p.pattern.Match(filepath.ToSlash(relPath)) {
			return nil
		}

		if len(files) >= maxFiles {
			return fmt.Errorf("max files limit reached (%d)", maxFiles)
		}
		files = append(files, path)

		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found", fileExtension)
	}

	return files, nil
}

func (p *Processor) processDirectory(root string) ([]FileResult, error) {
	startTime := time.Now()
	slog.Debug("starting directory processing", "path", root)
	files, err := p.findFiles(root)
	if err != nil {
		return nil, err
	}

	slog.Debug("found files to process", "count", len(files), "duration", time.Since(startTime))

	jobs := make(chan string, len(files))
	results := make(chan FileResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- p.processFile(path)
			}
		}()
	}

	for _, file := range files {
		jobs <- file
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	byPath := make(map[string]FileResult, len(files))

	for result := range results {
		if result.Err != nil {
			slog.Debug("failed to process file", "path", result.Path, "error", result.Err)
		} else {
			slog.Debug("file processed", "path", result.Path, "warnings", len(result.Report.Warnings))
		}
		byPath[result.Path] = result
	}

	// Workers finish out of order; reporting stays in walk order
	ordered := make([]FileResult, 0, len(files))
	for _, file := range files {
		ordered = append(ordered, byPath[file])
	}

	slog.Debug("directory processing completed", "duration", time.Since(startTime), "processed", len(ordered))
	return ordered, nil
}

func (p *Processor) processFile(path string) FileResult {
	startTime := time.Now()
	result := FileResult{Path: path}

	slog.Debug("processing file", "path", path)

	content, err := os.ReadFile(path)
	if err != nil {
		result.Err = fmt.Errorf("error reading file: %w", err)
		return result
	}

	src := pipeline.MarkdownSource{
		Content: bytes.NewReader(content),
		Metadata: mdindex.MetaData{
			Source: path,
		},
	}

	report, err := p.pipeline.Run(src)
	if err != nil {
		result.Err = err
		return result
	}

	result.Report = report
	slog.Debug("file processed",
		"path", path,
		"duration", time.Since(startTime))

	return result
}
