package crossref

import (
	"fmt"
	"io"
	"strings"
)

// Report writes a human-readable summary of a work record to w. It is
// the output of the lookup command; every section tolerates missing data.
func Report(w io.Writer, work *Work) {
	fmt.Fprintln(w, "Paper Information")
	fmt.Fprintln(w, strings.Repeat("=", 50))

	fmt.Fprintf(w, "DOI:   %s\n", orNA(work.DOI))
	if work.DOI != "" {
		fmt.Fprintf(w, "URL:   https://doi.org/%s\n", work.DOI)
	}
	fmt.Fprintf(w, "Title: %s\n", orNA(work.PrimaryTitle()))

	fmt.Fprintln(w, "\nAuthors:")
	if len(work.Author) == 0 {
		fmt.Fprintln(w, "  none listed")
	}
	for i, a := range work.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		fmt.Fprintf(w, "  %d. %s", i+1, orNA(name))
		if a.Sequence != "" {
			fmt.Fprintf(w, " (%s)", a.Sequence)
		}
		fmt.Fprintln(w)
		if a.ORCID != "" {
			fmt.Fprintf(w, "     ORCID: %s\n", a.ORCID)
		}
		for _, aff := range a.Affiliation {
			if aff.Name != "" {
				fmt.Fprintf(w, "     - %s\n", aff.Name)
			}
		}
	}

	fmt.Fprintln(w, "\nPublication:")
	fmt.Fprintf(w, "  Journal:   %s\n", orNA(work.Journal()))
	fmt.Fprintf(w, "  ISSN:      %s\n", orNA(strings.Join(work.ISSN, ", ")))
	fmt.Fprintf(w, "  Type:      %s\n", orNA(work.Type))
	fmt.Fprintf(w, "  Date:      %s\n", orNA(work.Issued()))
	fmt.Fprintf(w, "  Citations: %d\n", work.IsReferencedByCount)

	if len(work.Subject) > 0 {
		fmt.Fprintln(w, "\nSubject areas:")
		for _, s := range work.Subject {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}

	if work.Abstract != "" {
		fmt.Fprintln(w, "\nAbstract:")
		fmt.Fprintf(w, "  %s\n", work.Abstract)
	}

	if len(work.Funder) > 0 {
		fmt.Fprintln(w, "\nFunding:")
		for _, f := range work.Funder {
			fmt.Fprintf(w, "  %s", orNA(f.Name))
			if len(f.Award) > 0 {
				fmt.Fprintf(w, " (%s)", strings.Join(f.Award, ", "))
			}
			fmt.Fprintln(w)
		}
	}

	refs := work.ReferenceDOIs()
	fmt.Fprintf(w, "\nReferences with DOIs: %d\n", len(refs))
	for i, ref := range refs {
		if i == 5 {
			fmt.Fprintf(w, "  ... and %d more\n", len(refs)-5)
			break
		}
		fmt.Fprintf(w, "  - %s\n", ref)
	}
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
