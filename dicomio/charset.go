package dicomio

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
)

// CodingSystem holds the []byte->string decoders used to interpret a text
// value. PN values may carry up to three components (alphabetic,
// ideographic, phonetic) each under its own part of SpecificCharacterSet;
// every other text VR always uses the Ideographic decoder. See spec.md 4.D.
type CodingSystem struct {
	Alphabetic  *encoding.Decoder
	Ideographic *encoding.Decoder
	Phonetic    *encoding.Decoder
}

// CodingSystemType selects which of a PN value's three components is being
// decoded. Only meaningful for multi-component Japanese/Korean names; every
// other VR always reads through Ideographic.
type CodingSystemType int

const (
	// AlphabeticCodingSystem is for writing a name in (English) alphabets.
	AlphabeticCodingSystem CodingSystemType = iota
	// IdeographicCodingSystem is for writing the name in the native writing
	// system (Kanji, Hangul).
	IdeographicCodingSystem
	// PhoneticCodingSystem is for hiragana/katakana or hangul phonetics.
	PhoneticCodingSystem
)

// htmlEncodingNames maps a DICOM Defined Term (SpecificCharacterSet value)
// to a golang.org/x/text/encoding/htmlindex name. "" means 7-bit ASCII,
// represented by a nil decoder. Entries absent here but present in
// isoEscapeDecoders are the stateful ISO 2022 variants that htmlindex
// cannot decode correctly and are handled separately below.
var htmlEncodingNames = map[string]string{
	"ISO 2022 IR 6":   "iso-8859-1",
	"ISO_IR 100":      "iso-8859-1",
	"ISO 2022 IR 100": "iso-8859-1",
	"ISO_IR 101":      "iso-8859-2",
	"ISO 2022 IR 101": "iso-8859-2",
	"ISO_IR 109":      "iso-8859-3",
	"ISO 2022 IR 109": "iso-8859-3",
	"ISO_IR 110":      "iso-8859-4",
	"ISO 2022 IR 110": "iso-8859-4",
	"ISO_IR 126":      "iso-ir-126",
	"ISO 2022 IR 126": "iso-ir-126",
	"ISO_IR 127":      "iso-ir-127",
	"ISO 2022 IR 127": "iso-ir-127",
	"ISO_IR 138":      "iso-ir-138",
	"ISO 2022 IR 138": "iso-ir-138",
	"ISO_IR 144":      "iso-ir-144",
	"ISO 2022 IR 144": "iso-ir-144",
	"ISO_IR 148":      "iso-ir-148",
	"ISO 2022 IR 148": "iso-ir-148",
	"ISO 2022 IR 149": "euc-kr",
	"ISO_IR 13":       "shift_jis",
	"ISO_IR 166":      "iso-ir-166",
	"ISO 2022 IR 166": "iso-ir-166",
	"ISO_IR 192":      "utf-8",
	"GB18030":         "utf-8",
}

// isoEscapeDecoders covers the stateful, escape-sequence-driven ISO 2022
// character sets. htmlindex's "iso-2022-jp" name decodes the mail-oriented
// ISO-2022-JP profile, which does not switch into the same designated sets
// DICOM's IR 13/87/159 escape sequences select; these three Defined Terms
// are routed directly through x/text/encoding/japanese instead.
var isoEscapeDecoders = map[string]encoding.Encoding{
	"ISO 2022 IR 13":  japanese.ShiftJIS,
	"ISO 2022 IR 87":  japanese.ISO2022JP,
	"ISO 2022 IR 159": japanese.ISO2022JP,
}

// ParseSpecificCharacterSet builds the per-component decoder set named by a
// SpecificCharacterSet element's values. Values are the backslash-split
// Defined Terms from PS3.3 C.12.1.1.2; an unrecognized term is an error
// (tolerant-mode callers may choose to fall back to 7-bit ASCII instead of
// propagating it).
func ParseSpecificCharacterSet(encodingNames []string) (CodingSystem, error) {
	var decoders []*encoding.Decoder

	for _, name := range encodingNames {
		if name == "" {
			decoders = append(decoders, nil)
			continue
		}
		logrus.Debugf("dicomio.ParseSpecificCharacterSet: using character set %q", name)

		if enc, ok := isoEscapeDecoders[name]; ok {
			decoders = append(decoders, enc.NewDecoder())
			continue
		}

		htmlName, ok := htmlEncodingNames[name]
		if !ok {
			return CodingSystem{}, fmt.Errorf("dicomio: unknown character set %q", name)
		}
		if htmlName == "" {
			decoders = append(decoders, nil)
			continue
		}
		d, err := htmlindex.Get(htmlName)
		if err != nil {
			return CodingSystem{}, fmt.Errorf("dicomio: character set %q (%s) not registered: %w", name, htmlName, err)
		}
		decoders = append(decoders, d.NewDecoder())
	}

	switch len(decoders) {
	case 0:
		return CodingSystem{}, nil
	case 1:
		return CodingSystem{decoders[0], decoders[0], decoders[0]}, nil
	case 2:
		return CodingSystem{decoders[0], decoders[1], decoders[1]}, nil
	default:
		return CodingSystem{decoders[0], decoders[1], decoders[2]}, nil
	}
}
