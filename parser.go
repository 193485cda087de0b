package mdindex

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ParseError is the single fatal parse failure: a fenced code block opened
// but never closed before end of input. It is terminal for the offending
// document only; batch callers continue with their remaining documents.
type ParseError struct {
	// The source file path
	Path string
	// 1-indexed line of the offending fence opener
	Line int
	// Human readable reason
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

type Parser struct {
	gm goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		gm: goldmark.New(),
	}
}

// ParseMarkdownDoc parses a markdown document into its sections and fenced
// code blocks, in source order.
//
// Content before the first heading (the front matter included) becomes an
// untitled preamble section, so the returned sections cover every line of
// the document exactly once.
func (p *Parser) ParseMarkdownDoc(r io.Reader, md MetaData) (*Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Metadata: md,
	}

	rest, err := frontmatter.Parse(bytes.NewReader(content), &doc.FrontMatter)
	if err != nil {
		// Malformed front matter is not fatal, the file is still markdown
		slog.Debug("ignoring malformed front matter", "source", md.Source, "error", err)
		doc.FrontMatter = FrontMatter{}
		rest = content
	}

	// Lines the front matter occupied, so positions stay relative to the
	// original file rather than the stripped remainder
	offset := countLines(content) - countLines(rest)

	spans, err := scanFences(rest, md.Source, offset)
	if err != nil {
		return nil, err
	}

	root := p.gm.Parser().Parse(text.NewReader(rest))

	var (
		headings []Section
		blocks   []CodeBlock
		lastEnd  int
	)

	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			headings = append(headings, p.extractHeading(node, rest, offset))
		case *ast.FencedCodeBlock:
			block, berr := p.extractCodeBlock(node, rest, offset)
			if berr != nil {
				return ast.WalkStop, berr
			}
			if block.Position.StartLine == 0 {
				// A matched but empty fence with no info string has neither
				// lines nor an info segment; fall back to the scanned fence
				// span so the block keeps its place in the document
				block.Position = nextFenceSpan(spans, lastEnd)
			}
			lastEnd = block.Position.EndLine
			blocks = append(blocks, block)
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	doc.Sections = partition(headings, blocks, countLines(content))

	slog.Debug("parsed document",
		"source", md.Source,
		"sections", len(doc.Sections),
		"blocks", len(blocks))

	return doc, nil
}

func (p *Parser) extractHeading(h *ast.Heading, content []byte, offset int) Section {
	var buf bytes.Buffer
	l := h.Lines().Len()
	for i := 0; i < l; i++ {
		line := h.Lines().At(i)
		buf.Write(line.Value(content))
	}

	line := offset + 1
	if l > 0 {
		line = offset + getLineNumber(content, h.Lines().At(0).Start)
	}

	return Section{
		Title:    strings.TrimSpace(buf.String()),
		Level:    h.Level,
		Position: Position{StartLine: line, EndLine: line},
	}
}

func (p *Parser) extractCodeBlock(cb *ast.FencedCodeBlock, content []byte, offset int) (CodeBlock, error) {
	block := CodeBlock{
		Lang: string(cb.Language(content)),
	}

	if cb.Info != nil {
		_, meta, err := parseInfo(cb.Info.Segment.Value(content))
		if err != nil {
			return CodeBlock{}, fmt.Errorf("parsing info string: %w", err)
		}
		block.Meta = meta
	}

	var buf bytes.Buffer
	l := cb.Lines().Len()
	for i := 0; i < l; i++ {
		line := cb.Lines().At(i)
		buf.Write(line.Value(content))
	}
	block.Code = buf.String()

	// Positions span the fences themselves, not just the body
	switch {
	case l > 0:
		first := offset + getLineNumber(content, cb.Lines().At(0).Start)
		last := offset + getLineNumber(content, cb.Lines().At(l-1).Stop-1)
		block.Position = Position{StartLine: first - 1, EndLine: last + 1}
	case cb.Info != nil:
		line := offset + getLineNumber(content, cb.Info.Segment.Start)
		block.Position = Position{StartLine: line, EndLine: line + 1}
	}

	return block, nil
}

// partition assigns every code block to exactly one section and stretches
// each section to the line before the next heading, so the section sequence
// covers the document without gaps.
func partition(headings []Section, blocks []CodeBlock, totalLines int) []Section {
	var sections []Section

	needPreamble := len(headings) == 0 && (len(blocks) > 0 || totalLines > 0)
	if len(headings) > 0 && headings[0].Position.StartLine > 1 {
		needPreamble = true
	}

	if needPreamble {
		end := totalLines
		if len(headings) > 0 {
			end = headings[0].Position.StartLine - 1
		}
		sections = append(sections, Section{
			Position: Position{StartLine: 1, EndLine: end},
		})
	}

	for i, h := range headings {
		end := totalLines
		if i+1 < len(headings) {
			end = headings[i+1].Position.StartLine - 1
		}
		h.Position.EndLine = end
		sections = append(sections, h)
	}

	for _, b := range blocks {
		for i := range sections {
			s := &sections[i]
			if b.Position.StartLine >= s.Position.StartLine && b.Position.StartLine <= s.Position.EndLine {
				s.Blocks = append(s.Blocks, b)
				break
			}
		}
	}

	return sections
}

// scanFences walks the raw source line by line, records every matched fence
// pair's line span, and fails when a fence is opened but never closed before
// end of input. goldmark silently swallows the dangling block, so this has
// to happen on the raw text.
func scanFences(content []byte, source string, offset int) ([]Position, error) {
	var (
		spans     []Position
		inFence   bool
		fenceChar byte
		fenceLen  int
		openLine  int
	)

	line := 0
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line++
		raw := scanner.Text()
		trimmed := strings.TrimLeft(raw, " ")

		// A fence may be indented at most three spaces; four or more is an
		// indented code block (or fence content) and never opens or closes
		if len(raw)-len(trimmed) > 3 {
			continue
		}

		if !inFence {
			if ch, n, ok := fenceOpener(trimmed); ok {
				inFence = true
				fenceChar = ch
				fenceLen = n
				openLine = line
			}
			continue
		}

		if fenceCloser(trimmed, fenceChar, fenceLen) {
			inFence = false
			spans = append(spans, Position{
				StartLine: offset + openLine,
				EndLine:   offset + line,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", source, err)
	}

	if inFence {
		return nil, &ParseError{
			Path:   source,
			Line:   offset + openLine,
			Reason: "fenced code block opened but never closed",
		}
	}

	return spans, nil
}

// nextFenceSpan returns the first scanned fence span past the last line any
// earlier block already covered.
func nextFenceSpan(spans []Position, after int) Position {
	for _, span := range spans {
		if span.StartLine > after {
			return span
		}
	}
	return Position{}
}

func fenceOpener(line string) (byte, int, bool) {
	if len(line) == 0 || (line[0] != '`' && line[0] != '~') {
		return 0, 0, false
	}

	ch := line[0]
	n := 0
	for n < len(line) && line[n] == ch {
		n++
	}
	if n < 3 {
		return 0, 0, false
	}

	// A backtick info string may not contain backticks
	if ch == '`' && strings.ContainsRune(line[n:], '`') {
		return 0, 0, false
	}

	return ch, n, true
}

func fenceCloser(line string, ch byte, minLen int) bool {
	n := 0
	for n < len(line) && line[n] == ch {
		n++
	}

	return n >= minLen && strings.TrimSpace(line[n:]) == ""
}

func getLineNumber(content []byte, byteOffset int) int {
	return bytes.Count(content[:byteOffset], []byte("\n")) + 1
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}

	n := bytes.Count(content, []byte("\n"))
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}
