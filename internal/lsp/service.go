package lsp

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/mdindex/mdindex"
	"github.com/mdindex/mdindex/internal/pipeline"
	"github.com/sourcegraph/go-lsp"
)

// DocumentService tracks the open markdown documents and their latest parse
// results. Every open/change reruns the pipeline over the full text (the
// server negotiates full sync) and yields the diagnostics to publish.
type DocumentService struct {
	mu       sync.RWMutex
	reports  map[lsp.DocumentURI]*pipeline.Report
	pipeline *pipeline.Pipeline
}

func NewDocumentService() *DocumentService {
	return &DocumentService{
		reports: make(map[lsp.DocumentURI]*pipeline.Report),
		// The LSP never touches files on disk, so no TOC writing here
		pipeline: pipeline.New(pipeline.Options{}),
	}
}

// UpdateDocument reparses the document text and returns the diagnostics to
// publish for it. A ParseError becomes an error-severity diagnostic and
// clears the stored report; it is never returned as a Go error.
func (s *DocumentService) UpdateDocument(uri lsp.DocumentURI, text string) ([]lsp.Diagnostic, error) {
	path, err := URIToPath(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid document URI: %w", err)
	}

	report, err := s.pipeline.Run(pipeline.MarkdownSource{
		Content:  strings.NewReader(text),
		Metadata: mdindex.MetaData{Source: path},
	})
	if err != nil {
		var perr *mdindex.ParseError
		if !errors.As(err, &perr) {
			return nil, err
		}

		slog.Debug("document failed to parse", "uri", uri, "error", perr)

		s.mu.Lock()
		delete(s.reports, uri)
		s.mu.Unlock()

		return []lsp.Diagnostic{parseErrorDiagnostic(perr)}, nil
	}

	s.mu.Lock()
	s.reports[uri] = report
	s.mu.Unlock()

	return warningDiagnostics(report), nil
}

// CloseDocument drops the stored report for a closed document.
func (s *DocumentService) CloseDocument(uri lsp.DocumentURI) {
	s.mu.Lock()
	delete(s.reports, uri)
	s.mu.Unlock()
}

// Report returns the latest successful parse report for an open document.
func (s *DocumentService) Report(uri lsp.DocumentURI) (*pipeline.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[uri]
	return report, ok
}

// URIToPath converts an LSP URI to a filesystem path
func URIToPath(uri lsp.DocumentURI) (string, error) {
	u, err := url.Parse(string(uri))
	if err != nil {
		return "", err
	}
	return u.Path, nil
}

// PathToURI converts a filesystem path to an LSP URI
func PathToURI(path string) lsp.DocumentURI {
	return lsp.DocumentURI("file://" + path)
}
