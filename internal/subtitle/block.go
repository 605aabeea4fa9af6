package subtitle

// Block is one unit of a subtitle document. The concrete variants are
// Caption, Comment, Style, and Region; the interface is sealed so that
// serialization and conversion sites can switch over the full set.
//
// SubRip documents may only contain Caption blocks. The other variants are
// meaningful in WebVTT documents and are dropped during conversion.
type Block interface {
	// sealed restricts implementations to this package.
	sealed()
}

// Caption is a timestamped text cue. Identifier and Settings carry WebVTT
// cue metadata and are empty in SubRip documents.
type Caption struct {
	Timing     Timestamp
	Payload    string
	Identifier string
	Settings   string
}

// Comment is a WebVTT NOTE block. Inline comments place the first payload
// line on the NOTE line itself.
type Comment struct {
	Payload string
	Inline  bool
}

// Style is a WebVTT STYLE block carrying CSS-like rules.
type Style struct {
	Payload string
}

// Region is a WebVTT REGION definition block.
type Region struct {
	Payload string
}

func (*Caption) sealed() {}
func (*Comment) sealed() {}
func (*Style) sealed()   {}
func (*Region) sealed()  {}

// EqualBlocks reports structural equality between two blocks. Captions
// compare by timing and payload; identifier and settings are presentation
// metadata and do not participate, so the same cue arriving from two
// segment boundaries still compares equal.
func EqualBlocks(a, b Block) bool {
	switch a := a.(type) {
	case *Caption:
		other, ok := b.(*Caption)
		return ok && a.Timing == other.Timing && a.Payload == other.Payload
	case *Comment:
		other, ok := b.(*Comment)
		return ok && a.Inline == other.Inline && a.Payload == other.Payload
	case *Style:
		other, ok := b.(*Style)
		return ok && a.Payload == other.Payload
	case *Region:
		other, ok := b.(*Region)
		return ok && a.Payload == other.Payload
	default:
		return false
	}
}

// CloneBlock returns an independent copy of a block.
func CloneBlock(b Block) Block {
	switch b := b.(type) {
	case *Caption:
		clone := *b
		return &clone
	case *Comment:
		clone := *b
		return &clone
	case *Style:
		clone := *b
		return &clone
	case *Region:
		clone := *b
		return &clone
	default:
		return nil
	}
}
