package question

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

const DefaultMaxOptions = 20

type Parser struct {
	// MaxOptions limits the number of caller supplied options. Zero means DefaultMaxOptions.
	MaxOptions int
}

type xmlQuestion struct {
	XMLName xml.Name

	Type string `xml:"type,attr"`

	Titles   []xmlText    `xml:"title"`
	Contents []xmlText    `xml:"content"`
	Options  []xmlOptions `xml:"options"`
}

type xmlText struct {
	Text string `xml:",chardata"`
}

type xmlOptions struct {
	Items []xmlOption `xml:"option"`
}

type xmlOption struct {
	Value string `xml:"value,attr"`
	Label string `xml:",chardata"`
}

// Parse parses raw with the default limits.
func Parse(raw string) (*Question, error) {
	var p Parser
	return p.Parse(raw)
}

func (p *Parser) Parse(raw string) (*Question, error) {
	var doc xmlQuestion

	if err := decodeSingle(raw, &doc); err != nil {
		return nil, err
	}

	if doc.XMLName.Local != "question" {
		return nil, malformed("root element must be <question>, got <" + doc.XMLName.Local + ">")
	}

	kind := Kind(strings.TrimSpace(doc.Type))

	switch kind {
	case "":
		return nil, missing("type")
	case FreeText, SingleChoice:
	default:
		return nil, &ParseError{Err: ErrInvalidType, Detail: strconv.Quote(doc.Type)}
	}

	title, err := single("title", doc.Titles)

	if err != nil {
		return nil, err
	}

	if title == "" {
		return nil, missing("title")
	}

	body, err := single("content", doc.Contents)

	if err != nil {
		return nil, err
	}

	q := &Question{
		Kind: kind,

		Title: title,
		Body:  body,
	}

	if kind == FreeText {
		return q, nil
	}

	options, err := p.parseOptions(doc.Options)

	if err != nil {
		return nil, err
	}

	q.Options = WithOther(options)

	return q, nil
}

func (p *Parser) parseOptions(elems []xmlOptions) ([]Option, error) {
	switch len(elems) {
	case 0:
		return nil, missing("options")
	case 1:
	default:
		return nil, malformed("more than one <options> element")
	}

	items := elems[0].Items

	if len(items) == 0 {
		return nil, &ParseError{Err: ErrEmptyOptions}
	}

	limit := p.MaxOptions

	if limit <= 0 {
		limit = DefaultMaxOptions
	}

	if len(items) > limit {
		return nil, &ParseError{Err: ErrTooManyOptions, Detail: strconv.Itoa(len(items)) + " > " + strconv.Itoa(limit)}
	}

	seen := map[string]bool{
		OtherValue: true,
	}

	var result []Option

	for _, item := range items {
		value := strings.TrimSpace(item.Value)

		if value == "" {
			return nil, missing("option value")
		}

		if seen[value] {
			return nil, &ParseError{Err: ErrDuplicateOptionValue, Detail: strconv.Quote(value)}
		}

		seen[value] = true

		label := strings.TrimSpace(item.Label)

		if label == "" {
			label = value
		}

		result = append(result, Option{
			Value: value,
			Label: label,
		})
	}

	return result, nil
}

func single(name string, elems []xmlText) (string, error) {
	switch len(elems) {
	case 0:
		return "", missing(name)
	case 1:
		return strings.TrimSpace(elems[0].Text), nil
	default:
		return "", malformed("more than one <" + name + "> element")
	}
}

// decodeSingle decodes the root element and rejects anything but whitespace,
// comments and processing instructions after it.
func decodeSingle(raw string, v any) error {
	d := xml.NewDecoder(strings.NewReader(raw))

	if err := d.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return malformed("empty document")
		}

		return malformed(err.Error())
	}

	for {
		tok, err := d.Token()

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return malformed(err.Error())
		}

		switch t := tok.(type) {
		case xml.StartElement:
			return malformed("more than one root element")
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return malformed("text after root element")
			}
		}
	}
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))

	return b.String()
}
