package cbor

// Major is the top-3-bit kind discriminator of a CBOR item (spec §3.1).
type Major uint8

const (
	MajorPositive Major = 0
	MajorNegative Major = 1
	MajorBytes    Major = 2
	MajorText     Major = 3
	MajorArray    Major = 4
	MajorMap      Major = 5
	MajorTag      Major = 6
	MajorOther    Major = 7
)

func (m Major) String() string {
	switch m {
	case MajorPositive:
		return "Positive"
	case MajorNegative:
		return "Negative"
	case MajorBytes:
		return "Bytes"
	case MajorText:
		return "Text"
	case MajorArray:
		return "Array"
	case MajorMap:
		return "Map"
	case MajorTag:
		return "Tag"
	case MajorOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// Additional-info (bottom 5 bits of the prefix byte) selector values.
const (
	minSelImmediateMax = 23 // 0..23 carry the value directly
	minSel1            = 24
	minSel2            = 25
	minSel4            = 26
	minSel8            = 27
	// 28, 29, 30 are reserved and illegal.
	minSelIndeterminate = 31
)

// Reserved simple-value identifiers (major 7, immediate/Subsequent1).
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
)

// Well-known CBOR tag numbers used by this core.
const (
	TagPositiveBignum uint64 = 2
	TagNegativeBignum uint64 = 3
)

// breakByte is the single-byte sentinel (0xff) terminating an
// indefinite-length container: Major=Other, Minor=Indeterminate.
const breakByte byte = 0xff

func makePrefix(major Major, minorSelector uint8) byte {
	return byte(major)<<5 | (minorSelector & 0x1f)
}

func splitPrefix(b byte) (Major, uint8) {
	return Major(b >> 5), b & 0x1f
}
