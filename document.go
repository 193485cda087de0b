package mdindex

// Document represents a parsed markdown document: its source metadata,
// optional front matter, and the ordered sections produced by a single
// parse pass. Documents are immutable once parsed.
type Document struct {
	// Metadata about the source file
	Metadata MetaData
	// Optional YAML front matter found at the top of the file
	FrontMatter FrontMatter
	// The sections of the document, in source order. Sections partition
	// the document without gaps; content before the first heading lives
	// in an untitled level-0 preamble section.
	Sections []Section
}

type MetaData struct {
	// The source file path
	Source string
}

// FrontMatter holds the document-level metadata notes in this corpus carry
// at the top of the file.
type FrontMatter struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
}

// Section is a heading and its body span. A section's body runs from its
// heading to the line before the next heading of any level, so the section
// sequence covers every line of the document exactly once.
type Section struct {
	// Heading text, empty for the preamble section
	Title string
	// Heading level 1-6, 0 for the preamble section
	Level int
	// Position of the section within the source document
	Position Position
	// Fenced code blocks contained in this section, in source order
	Blocks []CodeBlock
}

// CodeBlock is a fenced snippet belonging to exactly one section.
type CodeBlock struct {
	// The declared language tag, empty when the fence has none
	Lang string
	// Metadata parsed from the rest of the fence info string
	Meta Meta
	// The body of the block
	Code string
	// Position of the block within the source document
	Position Position
}

// Position is a 1-indexed, inclusive line span within the source document.
type Position struct {
	StartLine int
	EndLine   int
}

// Blocks returns every code block of the document in source order.
func (d *Document) Blocks() []CodeBlock {
	var blocks []CodeBlock
	for _, s := range d.Sections {
		blocks = append(blocks, s.Blocks...)
	}
	return blocks
}

// Title returns the front matter title when present, otherwise the title of
// the first titled section, otherwise the empty string.
func (d *Document) Title() string {
	if d.FrontMatter.Title != "" {
		return d.FrontMatter.Title
	}
	for _, s := range d.Sections {
		if s.Title != "" {
			return s.Title
		}
	}
	return ""
}
