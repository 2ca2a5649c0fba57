// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed parses arXiv Atom responses into normalized entries.
package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-crawler/pkg/types"
)

// Templates for the links derived from an entry identifier.
const (
	absURLTemplate = "https://arxiv.org/abs/%s"
	pdfURLTemplate = "https://arxiv.org/pdf/%s"
)

// ErrMalformedFeed reports a body that is not a well-formed Atom feed.
var ErrMalformedFeed = errors.New("malformed feed")

// Stats counts what happened to the entries of one response.
type Stats struct {
	Entries  int // <entry> elements seen
	Parsed   int // entries that produced a RawEntry
	Untitled int // entries dropped for lacking a <title>
	Skipped  int // entries that failed to decode
}

// arXiv Atom entry structure. Title is a pointer so a missing element can
// be told apart from an empty one.
type atomEntry struct {
	ID         string         `xml:"id"`
	Title      *string        `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// Parse extracts one RawEntry per <entry> element of body. The document is
// scanned with raw tokens to find the <feed> root and entry boundaries, so
// mismatched tags inside one entry never desynchronize the scan. Each entry
// is then decoded strictly on its own; a broken entry is logged and skipped
// without affecting its siblings. A body with no <feed> root, or one that
// ends inside an element, returns ErrMalformedFeed.
func Parse(body []byte, log *zap.Logger) ([]types.RawEntry, Stats, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var stats Stats
	d := xml.NewDecoder(bytes.NewReader(body))
	d.Strict = false

	var (
		entries    []types.RawEntry
		sawRoot    bool
		depth      int
		inEntry    bool
		entryStart int64
	)

	for {
		offset := d.InputOffset()
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if inEntry {
				continue
			}
			depth++
			switch {
			case depth == 1:
				if t.Name.Local != "feed" {
					return nil, stats, fmt.Errorf("%w: root element is <%s>, want <feed>", ErrMalformedFeed, t.Name.Local)
				}
				sawRoot = true
			case depth == 2 && t.Name.Local == "entry":
				inEntry = true
				entryStart = offset
			}
		case xml.EndElement:
			if !inEntry {
				depth--
				continue
			}
			// Tags inside an entry are not balanced here; only its own
			// closing tag ends it.
			if t.Name.Local != "entry" {
				continue
			}
			inEntry = false
			depth = 1
			stats.Entries++

			entry, ok, err := decodeEntry(body[entryStart:d.InputOffset()])
			switch {
			case err != nil:
				stats.Skipped++
				log.Warn("skipping malformed entry",
					zap.Int("entry", stats.Entries),
					zap.Error(err))
			case !ok:
				stats.Untitled++
				log.Debug("skipping entry without title", zap.Int("entry", stats.Entries))
			default:
				stats.Parsed++
				entries = append(entries, entry)
			}
		}
	}

	if !sawRoot {
		return nil, stats, fmt.Errorf("%w: no <feed> root element", ErrMalformedFeed)
	}
	if inEntry || depth > 0 {
		return nil, stats, fmt.Errorf("%w: unexpected end of document", ErrMalformedFeed)
	}
	return entries, stats, nil
}

// decodeEntry strictly decodes the bytes of a single <entry> element. ok is
// false when the entry has no <title> element.
func decodeEntry(raw []byte) (types.RawEntry, bool, error) {
	var e atomEntry
	d := xml.NewDecoder(bytes.NewReader(raw))
	if err := d.Decode(&e); err != nil {
		return types.RawEntry{}, false, fmt.Errorf("decoding entry: %w", err)
	}
	if e.Title == nil {
		return types.RawEntry{}, false, nil
	}

	id := ExtractID(e.ID)
	r := types.RawEntry{
		Title:      CleanWhitespace(*e.Title),
		Summary:    CleanWhitespace(e.Summary),
		Published:  strings.TrimSpace(e.Published),
		Authors:    []string{},
		Categories: []string{},
		ArxivID:    id,
	}
	r.Link, r.PDFLink = Links(id)

	for _, a := range e.Authors {
		if name := CleanWhitespace(a.Name); name != "" {
			r.Authors = append(r.Authors, name)
		}
	}
	for _, c := range e.Categories {
		if term := strings.TrimSpace(c.Term); term != "" {
			r.Categories = append(r.Categories, term)
		}
	}
	return r, true, nil
}

// ExtractID returns the final path segment of an entry's canonical id URL
// (e.g. "http://arxiv.org/abs/2405.01234v1" → "2405.01234v1"). It returns
// "" when no segment can be extracted.
func ExtractID(idURL string) string {
	u, err := url.Parse(strings.TrimSpace(idURL))
	if err != nil || u.Host == "" {
		return ""
	}
	p := strings.TrimRight(u.Path, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// Links returns the abstract and PDF URLs for id, or two empty strings when
// id is empty.
func Links(id string) (abs, pdf string) {
	if id == "" {
		return "", ""
	}
	return fmt.Sprintf(absURLTemplate, id), fmt.Sprintf(pdfURLTemplate, id)
}

// CleanWhitespace trims s and collapses internal runs of whitespace, which
// arXiv uses for hard line wrapping.
func CleanWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
