package cli

import (
	"fmt"
	"io"

	"github.com/rodaine/table"
)

// RenderInventory writes the section/code-block inventory of the processed
// documents as a table. Failed documents are listed after the table.
func RenderInventory(w io.Writer, results []FileResult) {
	tbl := table.New("FILE", "SECTION", "LEVEL", "LINES", "BLOCKS").WithWriter(w)

	for _, res := range results {
		if res.Err != nil {
			continue
		}

		for _, s := range res.Report.Doc.Sections {
			title := s.Title
			if title == "" {
				title = "(preamble)"
			}

			tbl.AddRow(
				res.Path,
				title,
				s.Level,
				fmt.Sprintf("%d-%d", s.Position.StartLine, s.Position.EndLine),
				len(s.Blocks),
			)
		}
	}

	tbl.Print()

	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(w, "FAIL %s: %v\n", res.Path, res.Err)
		}
	}
}

// RenderFindings writes every warning and failure, one per line, and
// returns the number of failed documents.
func RenderFindings(w io.Writer, results []FileResult) int {
	var failed int

	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", res.Path, res.Err)
			continue
		}

		for _, warning := range res.Report.Warnings {
			fmt.Fprintln(w, warning.String())
		}
	}

	return failed
}
