package lsp

import (
	"github.com/mdindex/mdindex"
	"github.com/mdindex/mdindex/internal/pipeline"
	"github.com/sourcegraph/go-lsp"
)

const diagnosticSource = "mdindex"

// warningDiagnostics converts a report's warnings into LSP diagnostics. The
// result is never nil: publishing an empty slice is how stale diagnostics
// get cleared after a fix.
func warningDiagnostics(report *pipeline.Report) []lsp.Diagnostic {
	diags := make([]lsp.Diagnostic, 0, len(report.Warnings))

	for _, w := range report.Warnings {
		diags = append(diags, lsp.Diagnostic{
			Range:    lineRange(w.Line),
			Severity: lsp.Warning,
			Code:     string(w.Code),
			Source:   diagnosticSource,
			Message:  w.Message,
		})
	}

	return diags
}

func parseErrorDiagnostic(perr *mdindex.ParseError) lsp.Diagnostic {
	return lsp.Diagnostic{
		Range:    lineRange(perr.Line),
		Severity: lsp.Error,
		Code:     "unterminated-fence",
		Source:   diagnosticSource,
		Message:  perr.Reason,
	}
}

// lineRange converts a 1-indexed source line into a zero-length LSP range
// at the start of that line (LSP positions are 0-indexed).
func lineRange(line int) lsp.Range {
	if line < 1 {
		line = 1
	}

	pos := lsp.Position{Line: line - 1, Character: 0}
	return lsp.Range{Start: pos, End: pos}
}
