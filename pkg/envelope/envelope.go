// Package envelope builds and parses the XML envelopes exchanged with a Tally server.
// It does no I/O.
package envelope

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"golang.org/x/net/html/charset"
)

// Request kinds understood by Tally.
const (
	ExportData = "Export Data"
	ImportData = "Import Data"
)

const requestTemplate = `
<ENVELOPE>
  <HEADER>
    <TALLYREQUEST>%s</TALLYREQUEST>
  </HEADER>
  <BODY>
    %s
  </BODY>
</ENVELOPE>
`

// BuildRequest wraps bodyFragment in the two-section request envelope.
// requestKind is escaped; bodyFragment must already be well-formed XML and is inserted verbatim.
func BuildRequest(requestKind, bodyFragment string) string {
	return strings.TrimSpace(fmt.Sprintf(requestTemplate, escape(requestKind), bodyFragment))
}

// Parse decodes xmlText into a node tree rooted at a document node.
// Malformed input yields an error wrapping apperrors.ErrMalformedResponse; it never panics.
func Parse(xmlText string) (*Node, error) {
	doc, err := parse(xmlText)
	if err != nil {
		slog.Warn("Failed to parse Tally XML", slog.String("error", err.Error()), slog.Int("length", len(xmlText)))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}
	return doc, nil
}

func parse(xmlText string) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(xmlText))
	dec.CharsetReader = charset.NewReaderLabel

	doc := &Node{Name: DocumentName}
	stack := []*Node{doc}
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		parent := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 1 {
				if sawRoot {
					return nil, errors.New("multiple root elements")
				}
				sawRoot = true
			}
			el := &Node{Name: t.Name.Local, Space: t.Name.Space, Attrs: append([]xml.Attr(nil), t.Attr...)}
			parent.Children = append(parent.Children, el)
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 1 {
				// whitespace around the root element
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, errors.New("character data outside root element")
				}
				continue
			}
			parent.Children = append(parent.Children, &Node{data: string(t)})
		}
	}

	if !sawRoot {
		return nil, errors.New("no root element")
	}
	if len(stack) != 1 {
		return nil, errors.New("unexpected end of document")
	}
	return doc, nil
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
