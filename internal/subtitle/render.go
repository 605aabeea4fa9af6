package subtitle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupportedConversion reports an operation a format cannot express,
// such as serializing a non-caption block as SubRip or parsing a format
// with no parser.
var ErrUnsupportedConversion = errors.New("unsupported conversion")

// Render serializes the document into canonical text for its format.
func (d *Document) Render() (string, error) {
	switch d.Format {
	case FormatWebVTT:
		return renderWebVTT(d), nil
	case FormatSubRip:
		return renderSubRip(d)
	default:
		return "", fmt.Errorf("%w: unknown format %d", ErrUnsupportedConversion, d.Format)
	}
}

// Bytes serializes the document as UTF-8 bytes.
func (d *Document) Bytes() ([]byte, error) {
	text, err := d.Render()
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// ParseSubRip is not implemented; ripsub only consumes WebVTT sources.
func ParseSubRip(string) (*Document, error) {
	return nil, fmt.Errorf("%w: SubRip parsing is not supported", ErrUnsupportedConversion)
}

func renderWebVTT(d *Document) string {
	var b strings.Builder
	b.WriteString(webvttHeader)
	b.WriteString("\n\n")
	for i, block := range d.Blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(renderWebVTTBlock(block))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderWebVTTBlock(block Block) string {
	switch block := block.(type) {
	case *Caption:
		var b strings.Builder
		if block.Identifier != "" {
			b.WriteString(block.Identifier)
			b.WriteByte('\n')
		}
		b.WriteString(block.Timing.Render(FormatWebVTT))
		if block.Settings != "" {
			b.WriteByte(' ')
			b.WriteString(block.Settings)
		}
		b.WriteByte('\n')
		b.WriteString(block.Payload)
		return b.String()
	case *Comment:
		if block.Inline {
			return commentHeader + " " + block.Payload
		}
		if block.Payload == "" {
			return commentHeader
		}
		return commentHeader + "\n" + block.Payload
	case *Style:
		return styleHeader + " " + block.Payload
	case *Region:
		return regionHeader + " " + block.Payload
	default:
		return ""
	}
}

func renderSubRip(d *Document) (string, error) {
	var b strings.Builder
	index := 0
	for _, block := range d.Blocks {
		caption, ok := block.(*Caption)
		if !ok {
			return "", fmt.Errorf("%w: SubRip cannot represent %T blocks", ErrUnsupportedConversion, block)
		}
		if index > 0 {
			b.WriteString("\n\n")
		}
		index++
		b.WriteString(strconv.Itoa(index))
		b.WriteByte('\n')
		b.WriteString(caption.Timing.Render(FormatSubRip))
		b.WriteByte('\n')
		b.WriteString(caption.Payload)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
