package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mdindex/mdindex"
)

type Options struct {
	// If true, Run rewrites the source file's <!-- toc --> region with a
	// freshly rendered table of contents
	WriteTOC bool
	// If true, no backup is created before a file is rewritten
	NoBackup bool
}

func (o *Options) Pretty() string {
	return fmt.Sprintf("write_toc=%s backup=%s",
		boolToText(o.WriteTOC), boolToText(!o.NoBackup))
}

func boolToText(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// MarkdownSource is one document to run, read from Content with positions
// and findings attributed to Metadata.AbsSource.
type MarkdownSource struct {
	Content  io.Reader
	Metadata mdindex.MetaData
}

// Report is the outcome of running one document: the parsed structure, its
// heading index, every non-fatal finding, and the rendered table of
// contents.
type Report struct {
	Doc      *mdindex.Document
	Index    *mdindex.Index
	Warnings []mdindex.Warning
	TOC      string
	// True when Run updated the source file in place
	Updated bool
}

// Pipeline runs the parse -> index -> validate pass over single documents.
type Pipeline struct {
	parser *mdindex.Parser
	backup *mdindex.BackupManager

	opts Options
}

func New(opts Options) *Pipeline {
	return &Pipeline{
		parser: mdindex.NewParser(),
		backup: mdindex.NewBackupManager(),
		opts:   opts,
	}
}

// Run processes a single document. A ParseError is terminal for this
// document only; callers batching documents continue with the rest.
func (p *Pipeline) Run(input MarkdownSource) (*Report, error) {
	slog.Debug("running document", "path", input.Metadata.Source)
	if input.Metadata.Source == "" {
		return nil, fmt.Errorf("source metadata is required")
	}

	doc, err := p.parser.ParseMarkdownDoc(input.Content, input.Metadata)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	idx, warnings := mdindex.BuildIndex(doc)
	warnings = append(warnings, mdindex.Validate(doc)...)

	report := &Report{
		Doc:      doc,
		Index:    idx,
		Warnings: warnings,
		TOC:      mdindex.RenderTOC(idx),
	}

	if p.opts.WriteTOC {
		updated, err := p.writeTOC(input.Metadata.Source, report.TOC)
		if err != nil {
			return nil, err
		}
		report.Updated = updated
	}

	return report, nil
}

func (p *Pipeline) writeTOC(path, toc string) (bool, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading source for toc update: %w", err)
	}

	updated, found := mdindex.UpdateTOC(source, toc)
	if !found {
		slog.Debug("no toc markers found, skipping update", "path", path)
		return false, nil
	}

	if !p.opts.NoBackup {
		bkPath, err := p.backup.CreateBackupOf(path)
		if err != nil {
			return false, fmt.Errorf("backup error: %w", err)
		}
		if bkPath != "" {
			slog.Info("created backup before toc update", "backup", bkPath, "original", path)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat source file: %w", err)
	}

	if err := os.WriteFile(path, updated, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing updated source: %w", err)
	}

	return true, nil
}
