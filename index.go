package mdindex

import (
	"fmt"
	"strings"
	"unicode"
)

// Entry is one row of a document's table of contents.
type Entry struct {
	// Normalized anchor for the section, unique within the document
	Slug string
	// The section the entry points at
	Section Section
}

// Index is a searchable table of contents for a single document: every
// titled section keyed by its normalized heading title, in source order.
type Index struct {
	doc     *Document
	entries []Entry
	bySlug  map[string]int
}

// BuildIndex builds the heading index for a parsed document. Duplicate
// titles are reported as warnings, never as failures; later duplicates get
// a -1/-2... suffixed slug so every section stays addressable.
func BuildIndex(doc *Document) (*Index, []Warning) {
	idx := &Index{
		doc:    doc,
		bySlug: make(map[string]int),
	}

	var warnings []Warning

	for _, s := range doc.Sections {
		if s.Title == "" {
			continue
		}

		slug := Slugify(s.Title)

		if _, dup := idx.bySlug[slug]; dup {
			warnings = append(warnings, Warning{
				Path:    doc.Metadata.Source,
				Line:    s.Position.StartLine,
				Code:    WarnDuplicateHeading,
				Message: fmt.Sprintf("duplicate heading %q", s.Title),
			})

			// A literal title may already slugify to a suffixed form, so
			// keep counting until the slug is actually free
			for n := 1; ; n++ {
				candidate := fmt.Sprintf("%s-%d", slug, n)
				if _, taken := idx.bySlug[candidate]; !taken {
					slug = candidate
					break
				}
			}
		}

		idx.bySlug[slug] = len(idx.entries)
		idx.entries = append(idx.entries, Entry{Slug: slug, Section: s})
	}

	return idx, warnings
}

// Lookup returns the section for a normalized title or raw heading text.
func (idx *Index) Lookup(title string) (Section, bool) {
	i, ok := idx.bySlug[Slugify(title)]
	if !ok {
		return Section{}, false
	}
	return idx.entries[i].Section, true
}

// Entries returns the table of contents in source order.
func (idx *Index) Entries() []Entry {
	return idx.entries
}

// Document returns the document the index was built from.
func (idx *Index) Document() *Document {
	return idx.doc
}

// Slugify normalizes a heading title into a github-style anchor: lowercase,
// spaces collapsed to hyphens, punctuation other than hyphens and
// underscores dropped.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}

	return b.String()
}
