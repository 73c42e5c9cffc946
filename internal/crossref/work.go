// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// response is the CrossRef API envelope around a work record.
type response struct {
	Status  string `json:"status"`
	Message Work   `json:"message"`
}

// Work mirrors the fields of a CrossRef work record that the pipeline
// reads. Raw responses carry many more fields; those pass through the
// raw store untouched.
type Work struct {
	DOI                 string      `json:"DOI"`
	Title               []string    `json:"title"`
	Abstract            string      `json:"abstract"`
	Author              []Author    `json:"author"`
	ContainerTitle      []string    `json:"container-title"`
	ISSN                []string    `json:"ISSN"`
	Type                string      `json:"type"`
	PublishedPrint      *Date       `json:"published-print"`
	PublishedOnline     *Date       `json:"published-online"`
	IsReferencedByCount int         `json:"is-referenced-by-count"`
	Subject             []string    `json:"subject"`
	Reference           []Reference `json:"reference"`
	Funder              []Funder    `json:"funder"`
}

// Author is one entry of a work's author list.
type Author struct {
	Given       string        `json:"given"`
	Family      string        `json:"family"`
	Sequence    string        `json:"sequence"`
	ORCID       string        `json:"ORCID"`
	Affiliation []Affiliation `json:"affiliation"`
}

// Affiliation names one institution an author lists.
type Affiliation struct {
	Name string `json:"name"`
}

// Reference is one entry of a work's reference list.
type Reference struct {
	DOI string `json:"DOI"`
}

// Funder records a funding body and its award identifiers.
type Funder struct {
	Name  string   `json:"name"`
	Award []string `json:"award"`
}

// Date holds a CrossRef date-parts structure. The inner slice carries
// year, optionally month, optionally day.
type Date struct {
	DateParts [][]int `json:"date-parts"`
}

// Format renders the date as YYYY, YYYY-MM, or YYYY-MM-DD depending on
// how many parts the record carries. Absent or empty dates render as "".
func (d *Date) Format() string {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return ""
	}
	p := d.DateParts[0]
	switch {
	case len(p) >= 3:
		return fmt.Sprintf("%04d-%02d-%02d", p[0], p[1], p[2])
	case len(p) == 2:
		return fmt.Sprintf("%04d-%02d", p[0], p[1])
	default:
		return strconv.Itoa(p[0])
	}
}

// ParseWork decodes a stored raw API response and returns the work record
// inside the message envelope.
func ParseWork(raw []byte) (*Work, error) {
	var r response
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parsing CrossRef record: %w", err)
	}
	return &r.Message, nil
}

// PrimaryTitle returns the first title, or "" when the record has none.
func (w *Work) PrimaryTitle() string {
	if len(w.Title) > 0 {
		return w.Title[0]
	}
	return ""
}

// Journal returns the first container title, or "" when the record has none.
func (w *Work) Journal() string {
	if len(w.ContainerTitle) > 0 {
		return w.ContainerTitle[0]
	}
	return ""
}

// AuthorNames flattens the author list into "Given Family" display names,
// in record order. Authors with neither name are dropped.
func (w *Work) AuthorNames() []string {
	var names []string
	for _, a := range w.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Issued returns the formatted publication date, preferring the print
// date and falling back to the online date.
func (w *Work) Issued() string {
	if s := w.PublishedPrint.Format(); s != "" {
		return s
	}
	return w.PublishedOnline.Format()
}

// ReferenceDOIs returns the DOIs of the work's references, skipping
// references without one.
func (w *Work) ReferenceDOIs() []string {
	var dois []string
	for _, ref := range w.Reference {
		if ref.DOI != "" {
			dois = append(dois, ref.DOI)
		}
	}
	return dois
}
