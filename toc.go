package mdindex

import (
	"fmt"
	"regexp"
	"strings"
)

// RenderTOC renders the index as a nested markdown list. Nesting depth is
// relative to the shallowest heading level present, so a document whose top
// level is ## still starts at the left margin.
func RenderTOC(idx *Index) string {
	entries := idx.Entries()
	if len(entries) == 0 {
		return ""
	}

	minLevel := entries[0].Section.Level
	for _, e := range entries {
		if e.Section.Level < minLevel {
			minLevel = e.Section.Level
		}
	}

	var b strings.Builder
	for _, e := range entries {
		indent := strings.Repeat("  ", e.Section.Level-minLevel)
		fmt.Fprintf(&b, "%s- [%s](#%s)\n", indent, e.Section.Title, e.Slug)
	}

	return b.String()
}

const (
	tocBegin = "<!-- toc -->"
	tocEnd   = "<!-- /toc -->"
)

var reTOCRegion = regexp.MustCompile(
	`(?m)^[[:blank:]]*<!--[[:blank:]]*toc[[:blank:]]*-->[[:blank:]]*\r?\n` +
		`(?s:.*?)` +
		`^[[:blank:]]*<!--[[:blank:]]*/toc[[:blank:]]*-->`)

// UpdateTOC substitutes the content between the <!-- toc --> and
// <!-- /toc --> markers with a freshly rendered table of contents and
// returns the updated source. The bool return indicates whether the marker
// pair was found.
func UpdateTOC(source []byte, toc string) ([]byte, bool) {
	loc := reTOCRegion.FindIndex(source)
	if loc == nil {
		return nil, false
	}

	value := []byte(tocBegin + "\n" + toc + tocEnd)

	res := make([]byte, 0, len(source)-(loc[1]-loc[0])+len(value))
	res = append(res, source[:loc[0]]...)
	res = append(res, value...)
	res = append(res, source[loc[1]:]...)

	return res, true
}
