package subtitle

// Document is an ordered sequence of blocks plus track metadata. Block order
// is presentation order and must survive every transformation.
//
// A document is owned by exactly one pipeline invocation; nothing in this
// package shares documents across goroutines.
type Document struct {
	Format   Format
	Language string
	Special  SpecialType
	Blocks   []Block
}

// NewDocument returns an empty document for the given format and language.
func NewDocument(format Format, language string) *Document {
	return &Document{Format: format, Language: language}
}

// Append adds blocks to the end of the document.
func (d *Document) Append(blocks ...Block) {
	d.Blocks = append(d.Blocks, blocks...)
}

// Merge appends copies of another document's blocks, preserving their order.
// The other document's metadata is ignored.
func (d *Document) Merge(other *Document) {
	if other == nil {
		return
	}
	for _, block := range other.Blocks {
		d.Blocks = append(d.Blocks, CloneBlock(block))
	}
}

// Captions returns the caption blocks of the document in order.
func (d *Document) Captions() []*Caption {
	var captions []*Caption
	for _, block := range d.Blocks {
		if caption, ok := block.(*Caption); ok {
			captions = append(captions, caption)
		}
	}
	return captions
}
