package mdindex

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanParseMarkdownDoc(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		srcFile  string
		document Document
	}{
		{
			name:    "front matter, nested headings and three fenced blocks",
			srcFile: "testdata/parser/basic_valid.md",
			document: Document{
				Metadata: MetaData{
					Source: "testdata/parser/basic_valid.md",
				},
				FrontMatter: FrontMatter{
					Title: "EF Core Notes",
					Tags:  []string{"orm", "notes"},
				},
				Sections: []Section{
					{
						Position: Position{StartLine: 1, EndLine: 7},
					},
					{
						Title:    "Entity Framework Core",
						Level:    1,
						Position: Position{StartLine: 8, EndLine: 11},
					},
					{
						Title:    "Table Mapping",
						Level:    2,
						Position: Position{StartLine: 12, EndLine: 19},
						Blocks: []CodeBlock{
							{
								Lang:     "csharp",
								Meta:     Meta{"file": "Program.cs"},
								Code:     "var x = 1;\n",
								Position: Position{StartLine: 14, EndLine: 16},
							},
						},
					},
					{
						Title:    "Querying",
						Level:    2,
						Position: Position{StartLine: 20, EndLine: 28},
						Blocks: []CodeBlock{
							{
								Lang:     "sql",
								Code:     "SELECT 1;\n",
								Position: Position{StartLine: 22, EndLine: 24},
							},
							{
								Code:     "plain block\n",
								Position: Position{StartLine: 26, EndLine: 28},
							},
						},
					},
				},
			},
		},
		{
			name:    "no headings yields a single preamble section",
			srcFile: "testdata/parser/no_headings.md",
			document: Document{
				Metadata: MetaData{
					Source: "testdata/parser/no_headings.md",
				},
				Sections: []Section{
					{
						Position: Position{StartLine: 1, EndLine: 5},
						Blocks: []CodeBlock{
							{
								Lang:     "sh",
								Code:     "echo hi\n",
								Position: Position{StartLine: 3, EndLine: 5},
							},
						},
					},
				},
			},
		},
		{
			name:    "tilde fence may contain backtick lines",
			srcFile: "testdata/parser/fences.md",
			document: Document{
				Metadata: MetaData{
					Source: "testdata/parser/fences.md",
				},
				Sections: []Section{
					{
						Title:    "Mixed",
						Level:    1,
						Position: Position{StartLine: 1, EndLine: 5},
						Blocks: []CodeBlock{
							{
								Lang:     "text",
								Code:     "``` not a fence\n",
								Position: Position{StartLine: 3, EndLine: 5},
							},
						},
					},
				},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := os.Open(tc.srcFile)
			require.NoError(t, err)
			defer f.Close()

			d, err := parser.ParseMarkdownDoc(f, MetaData{
				Source: tc.srcFile,
			})
			require.NoError(t, err)

			require.Equal(t, &tc.document, d)
		})
	}
}

func TestUnterminatedFenceIsAParseError(t *testing.T) {
	parser := NewParser()

	f, err := os.Open("testdata/parser/unterminated.md")
	require.NoError(t, err)
	defer f.Close()

	_, err = parser.ParseMarkdownDoc(f, MetaData{
		Source: "testdata/parser/unterminated.md",
	})
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "testdata/parser/unterminated.md", perr.Path)
	require.Equal(t, 3, perr.Line)
}

func TestParseIsIdempotent(t *testing.T) {
	content, err := os.ReadFile("testdata/parser/basic_valid.md")
	require.NoError(t, err)

	parser := NewParser()
	md := MetaData{Source: "testdata/parser/basic_valid.md"}

	first, err := parser.ParseMarkdownDoc(bytes.NewReader(content), md)
	require.NoError(t, err)

	second, err := parser.ParseMarkdownDoc(bytes.NewReader(content), md)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestBlockCountMatchesFencePairs(t *testing.T) {
	// basic_valid.md has exactly three matched fence pairs
	f, err := os.Open("testdata/parser/basic_valid.md")
	require.NoError(t, err)
	defer f.Close()

	parser := NewParser()
	d, err := parser.ParseMarkdownDoc(f, MetaData{Source: "testdata/parser/basic_valid.md"})
	require.NoError(t, err)

	require.Len(t, d.Blocks(), 3)

	// ...split over the two ## sections
	var sum int
	for _, s := range d.Sections {
		if s.Level == 2 {
			sum += len(s.Blocks)
		}
	}
	require.Equal(t, 3, sum)
}

func TestEmptyUntaggedFenceKeepsItsBlock(t *testing.T) {
	// An empty fence without an info string has no content lines for the
	// renderer to position it by, but it is still a matched pair
	const content = "# H\n\n```go\nx := 1\n```\n\n```\n```\n"

	parser := NewParser()
	d, err := parser.ParseMarkdownDoc(strings.NewReader(content), MetaData{Source: "notes.md"})
	require.NoError(t, err)

	blocks := d.Blocks()
	require.Len(t, blocks, 2)
	require.Equal(t, Position{StartLine: 3, EndLine: 5}, blocks[0].Position)
	require.Equal(t, Position{StartLine: 7, EndLine: 8}, blocks[1].Position)
	require.Empty(t, blocks[1].Lang)

	// Both land in the single section
	require.Len(t, d.Sections, 1)
	require.Len(t, d.Sections[0].Blocks, 2)
}

func TestIndentedFenceMarkersAreNotFences(t *testing.T) {
	parser := NewParser()

	t.Run("indented code block does not open a fence", func(t *testing.T) {
		const content = "# H\n\n    ```\n    code sample\n"

		d, err := parser.ParseMarkdownDoc(strings.NewReader(content), MetaData{Source: "notes.md"})
		require.NoError(t, err)
		require.Empty(t, d.Blocks())
	})

	t.Run("indented marker inside a fence is content", func(t *testing.T) {
		const content = "```text\n    ```\n```\n"

		d, err := parser.ParseMarkdownDoc(strings.NewReader(content), MetaData{Source: "notes.md"})
		require.NoError(t, err)

		blocks := d.Blocks()
		require.Len(t, blocks, 1)
		require.Equal(t, "    ```\n", blocks[0].Code)
	})
}

func TestDocumentTitle(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{
			name: "front matter title wins",
			doc: Document{
				FrontMatter: FrontMatter{Title: "Notes"},
				Sections:    []Section{{Title: "Heading", Level: 1}},
			},
			want: "Notes",
		},
		{
			name: "falls back to first titled section",
			doc: Document{
				Sections: []Section{{}, {Title: "Heading", Level: 1}},
			},
			want: "Heading",
		},
		{
			name: "empty document has no title",
			doc:  Document{},
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.doc.Title())
		})
	}
}
