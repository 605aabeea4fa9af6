package subtitle

// Format identifies a subtitle serialization format.
type Format int

const (
	FormatWebVTT Format = iota
	FormatSubRip
)

// String returns the format's display name.
func (f Format) String() string {
	switch f {
	case FormatWebVTT:
		return "WebVTT"
	case FormatSubRip:
		return "SubRip"
	default:
		return "unknown"
	}
}

// Extension returns the file extension for the format, without a dot.
func (f Format) Extension() string {
	switch f {
	case FormatWebVTT:
		return "vtt"
	case FormatSubRip:
		return "srt"
	default:
		return ""
	}
}

// SpecialType marks subtitle tracks that are not regular dialogue subtitles.
type SpecialType int

const (
	SpecialNone SpecialType = iota
	SpecialForced
	SpecialClosedCaptions
)

func (t SpecialType) String() string {
	switch t {
	case SpecialForced:
		return "Forced"
	case SpecialClosedCaptions:
		return "CC"
	default:
		return ""
	}
}
