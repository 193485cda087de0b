package lsp

import (
	"fmt"

	"github.com/mdindex/mdindex"
	"github.com/sourcegraph/go-lsp"
)

// DocumentSymbols flattens a document into the symbol list editors render
// as the outline: one symbol per titled section, one per code block nested
// under its section via ContainerName.
func DocumentSymbols(doc *mdindex.Document, uri lsp.DocumentURI) []lsp.SymbolInformation {
	symbols := make([]lsp.SymbolInformation, 0, len(doc.Sections))

	for _, s := range doc.Sections {
		if s.Title != "" {
			symbols = append(symbols, lsp.SymbolInformation{
				Name: s.Title,
				Kind: lsp.SKString,
				Location: lsp.Location{
					URI:   uri,
					Range: spanRange(s.Position),
				},
			})
		}

		for i, b := range s.Blocks {
			name := b.Lang
			if name == "" {
				name = "code"
			}

			symbols = append(symbols, lsp.SymbolInformation{
				Name: fmt.Sprintf("%s #%d", name, i+1),
				Kind: lsp.SKObject,
				Location: lsp.Location{
					URI:   uri,
					Range: spanRange(b.Position),
				},
				ContainerName: s.Title,
			})
		}
	}

	return symbols
}

func spanRange(p mdindex.Position) lsp.Range {
	start := p.StartLine
	if start < 1 {
		start = 1
	}
	end := p.EndLine
	if end < start {
		end = start
	}

	return lsp.Range{
		Start: lsp.Position{Line: start - 1, Character: 0},
		End:   lsp.Position{Line: end - 1, Character: 0},
	}
}
