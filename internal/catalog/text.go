package catalog

import (
	"bufio"
	"fmt"
	"io"
)

// TextRenderer writes a Markdown flavoured plain text catalog.
type TextRenderer struct{}

func (TextRenderer) Extension() string { return "txt" }

func (TextRenderer) Render(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n\n", doc.Title)
	fmt.Fprintf(bw, "Generated: %s\n", doc.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(bw, "Varieties: %d\n", len(doc.Entries))

	for i := range doc.Entries {
		e := &doc.Entries[i]
		fmt.Fprintf(bw, "\n## %d. %s\n", i+1, e.CommonName)
		if e.ScientificName != "" {
			fmt.Fprintf(bw, "*%s*\n", e.ScientificName)
		}
		if e.Description != "" {
			fmt.Fprintf(bw, "\n%s\n", e.Description)
		}
		fmt.Fprintln(bw)
		for _, f := range e.fields() {
			fmt.Fprintf(bw, "- %s: %s\n", f.label, f.value)
		}
		if e.History != "" {
			fmt.Fprintf(bw, "\n### History\n%s\n", e.History)
		}
		if e.ImagePath != "" {
			fmt.Fprintf(bw, "\n![%s](%s)\n", e.CommonName, e.ImagePath)
		}
	}

	return bw.Flush()
}
