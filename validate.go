package mdindex

import "fmt"

// WarnCode identifies a class of non-fatal validation finding.
type WarnCode string

const (
	WarnDuplicateHeading WarnCode = "duplicate-heading"
	WarnMissingLang      WarnCode = "missing-lang"
	WarnHeadingJump      WarnCode = "heading-jump"
)

// Warning is a non-fatal finding against a document. Warnings never stop
// processing; only a ParseError does that.
type Warning struct {
	Path    string
	Line    int
	Code    WarnCode
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:%d: %s: %s", w.Path, w.Line, w.Code, w.Message)
}

// Validate runs the lint checks over a parsed document: fenced blocks with
// no language tag and heading levels that skip ahead by more than one.
// Duplicate heading titles are reported by [BuildIndex].
func Validate(doc *Document) []Warning {
	var warnings []Warning

	for _, s := range doc.Sections {
		for _, b := range s.Blocks {
			if b.Lang == "" {
				warnings = append(warnings, Warning{
					Path:    doc.Metadata.Source,
					Line:    b.Position.StartLine,
					Code:    WarnMissingLang,
					Message: "fenced code block has no language tag",
				})
			}
		}
	}

	prev := 0
	for _, s := range doc.Sections {
		if s.Level == 0 {
			continue
		}

		if prev > 0 && s.Level > prev+1 {
			warnings = append(warnings, Warning{
				Path:    doc.Metadata.Source,
				Line:    s.Position.StartLine,
				Code:    WarnHeadingJump,
				Message: fmt.Sprintf("heading level jumps from %d to %d", prev, s.Level),
			})
		}
		prev = s.Level
	}

	return warnings
}
