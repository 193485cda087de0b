package lsp

import (
	"testing"

	"github.com/mdindex/mdindex"
	"github.com/sourcegraph/go-lsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentSymbols(t *testing.T) {
	doc := &mdindex.Document{
		Metadata: mdindex.MetaData{Source: "/notes/orm.md"},
		Sections: []mdindex.Section{
			{
				// untitled preamble yields no section symbol
				Position: mdindex.Position{StartLine: 1, EndLine: 2},
			},
			{
				Title:    "Migrations",
				Level:    2,
				Position: mdindex.Position{StartLine: 3, EndLine: 10},
				Blocks: []mdindex.CodeBlock{
					{Lang: "bash", Position: mdindex.Position{StartLine: 5, EndLine: 7}},
					{Position: mdindex.Position{StartLine: 8, EndLine: 10}},
				},
			},
		},
	}

	symbols := DocumentSymbols(doc, uri)
	require.Len(t, symbols, 3)

	assert.Equal(t, "Migrations", symbols[0].Name)
	assert.Equal(t, lsp.SKString, symbols[0].Kind)
	assert.Equal(t, 2, symbols[0].Location.Range.Start.Line)
	assert.Equal(t, 9, symbols[0].Location.Range.End.Line)
	assert.Equal(t, uri, symbols[0].Location.URI)

	assert.Equal(t, "bash #1", symbols[1].Name)
	assert.Equal(t, lsp.SKObject, symbols[1].Kind)
	assert.Equal(t, "Migrations", symbols[1].ContainerName)

	// A block without a language tag still gets a stable name
	assert.Equal(t, "code #2", symbols[2].Name)
}

func TestDocumentSymbolsEmptyDocument(t *testing.T) {
	symbols := DocumentSymbols(&mdindex.Document{}, uri)
	require.NotNil(t, symbols)
	require.Empty(t, symbols)
}
