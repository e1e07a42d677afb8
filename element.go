package dicom

import (
	"fmt"
	"strings"
	"time"

	"github.com/wrenfield/dicomkit/dicomio"
	"github.com/wrenfield/dicomkit/dicomtag"
)

// Element represents a single DICOM data element. Use NewElement to build
// one from scratch; constructing the struct literal directly is error
// prone because VR must agree with Tag.
type Element struct {
	// Tag is the <group, element> pair identifying this element.
	Tag dicomtag.Tag

	// Value holds this element's values; their Go type depends on the VR
	// (see dicomtag.GetVRKind):
	//
	//   If Tag==PixelData, len(Value)==1 and Value[0] is PixelDataInfo.
	//   Else if Tag==Item, each Value[i] is a *Element (one element of the item).
	//   Else if VR=="SQ", each Value[i] is a *Element with Tag==Item.
	//   Else if VR is LT/ST/UT, len(Value)==1 and Value[0] is a string.
	//   Else if VR=="DA", len(Value)==1 and Value[0] is a string; use ParseDate.
	//   Else if VR=="AT", Value[] is a []Tag.
	//   Else if VR is US/UL/SS/SL/FL/FD, Value[] holds the matching
	//   numeric Go type.
	//   Else if VR is OB/OW/OL/OD/OF/UN, len(Value)==1 and Value[0] is []byte.
	//   Else, Value[] is a list of strings, one per backslash component.
	Value []interface{}

	// VR is the two-letter value representation actually used to parse
	// Value[]. Usually redundant with the dictionary's VR for Tag, but
	// kept because a non-conformant file may encode an element under a
	// VR that differs from the standard dictionary.
	VR string

	// UndefinedLength records whether this element was read with length
	// 0xFFFFFFFF and is delimited by an end-of-sequence/end-of-item
	// marker rather than a byte count. Meaningful for VR=="SQ", Tag==Item,
	// and Tag==PixelData (where it marks the encapsulated, fragment-item
	// form).
	UndefinedLength bool
}

// PixelDataInfo holds PixelData's parsed sub-structure: Offsets is the basic
// offset table of an encapsulated transfer syntax (each frame's byte offset
// into the concatenated fragment items; empty if the table is empty), and
// Frames holds the fragment payloads in order, or the single native pixel
// byte string.
type PixelDataInfo struct {
	Offsets []uint32
	Frames  [][]byte
}

// UndefinedLength marks a length field as delimiter-terminated rather than
// a byte count (spec.md 4.C).
const UndefinedLength uint32 = 0xffffffff

// ItemSeqGroup is the reserved group number (0xFFFE) used for sequence
// item framing tags (Item, ItemDelimitationItem, SequenceDelimitationItem),
// which are always encoded implicit-VR regardless of the surrounding
// transfer syntax.
const ItemSeqGroup = 0xFFFE

// NewElement creates a new Element with the given tag and values. Each
// value must match the VR's expected Go representation; see Element.Value.
func NewElement(tag dicomtag.Tag, values ...interface{}) (*Element, error) {
	ti, err := dicomtag.Find(tag)
	if err != nil {
		return nil, err
	}

	e := Element{
		Tag:   tag,
		VR:    ti.VR,
		Value: make([]interface{}, len(values)),
	}

	vrKind := dicomtag.GetVRKind(tag, ti.VR)

	for i, v := range values {
		var ok bool

		switch vrKind {
		case dicomtag.VRStringList, dicomtag.VRDate, dicomtag.VRString:
			_, ok = v.(string)
		case dicomtag.VRBytes:
			_, ok = v.([]byte)
		case dicomtag.VRUInt16List:
			_, ok = v.(uint16)
		case dicomtag.VRUInt32List:
			_, ok = v.(uint32)
		case dicomtag.VRInt16List:
			_, ok = v.(int16)
		case dicomtag.VRInt32List:
			_, ok = v.(int32)
		case dicomtag.VRFloat32List:
			_, ok = v.(float32)
		case dicomtag.VRFloat64List:
			_, ok = v.(float64)
		case dicomtag.VRPixelData:
			_, ok = v.(PixelDataInfo)
		case dicomtag.VRTagList:
			_, ok = v.(dicomtag.Tag)
		case dicomtag.VRSequence:
			var subelement *Element
			subelement, ok = v.(*Element)
			if ok {
				ok = subelement.Tag == dicomtag.Item
			}
		case dicomtag.VRItem:
			_, ok = v.(*Element)
		}

		if !ok {
			return nil, fmt.Errorf("%v: wrong payload type for NewElement: expected %v, got %T",
				dicomtag.DebugString(tag), vrKind, v)
		}

		e.Value[i] = v
	}

	return &e, nil
}

// MustNewElement is NewElement but panics on error.
func MustNewElement(tag dicomtag.Tag, values ...interface{}) *Element {
	elem, err := NewElement(tag, values...)
	if err != nil {
		panic(fmt.Sprintf("dicom: failed to create element with tag %v: %v", tag, err))
	}
	return elem
}

// GetUInt32 returns the element's sole uint32 value.
func (e *Element) GetUInt32() (uint32, error) {
	if len(e.Value) != 1 {
		return 0, fmt.Errorf("dicom: found %d value(s) in GetUInt32 (want 1): %v", len(e.Value), e)
	}
	v, ok := e.Value[0].(uint32)
	if !ok {
		return 0, fmt.Errorf("dicom: uint32 value not found in %v", e)
	}
	return v, nil
}

// MustGetUInt32 is GetUInt32 but panics on error.
func (e *Element) MustGetUInt32() uint32 {
	v, err := e.GetUInt32()
	if err != nil {
		panic(err)
	}
	return v
}

// GetUInt16 returns the element's sole uint16 value.
func (e *Element) GetUInt16() (uint16, error) {
	if len(e.Value) != 1 {
		return 0, fmt.Errorf("dicom: found %d value(s) in GetUInt16 (want 1): %v", len(e.Value), e)
	}
	v, ok := e.Value[0].(uint16)
	if !ok {
		return 0, fmt.Errorf("dicom: uint16 value not found in %v", e)
	}
	return v, nil
}

// MustGetUInt16 is GetUInt16 but panics on error.
func (e *Element) MustGetUInt16() uint16 {
	v, err := e.GetUInt16()
	if err != nil {
		panic(err)
	}
	return v
}

// GetString returns the element's sole string value.
func (e *Element) GetString() (string, error) {
	if len(e.Value) != 1 {
		return "", fmt.Errorf("dicom: found %d value(s) in GetString (want 1): %v", len(e.Value), e.String())
	}
	v, ok := e.Value[0].(string)
	if !ok {
		return "", fmt.Errorf("dicom: string value not found in %v", e)
	}
	return v, nil
}

// MustGetString is GetString but panics on error.
func (e *Element) MustGetString() string {
	v, err := e.GetString()
	if err != nil {
		panic(err)
	}
	return v
}

// GetStrings returns all of the element's values as strings; it fails if
// any value is not a string.
func (e *Element) GetStrings() ([]string, error) {
	values := make([]string, 0, len(e.Value))
	for _, v := range e.Value {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("dicom: string value not found in %v", e.String())
		}
		values = append(values, s)
	}
	return values, nil
}

// GetUint32s returns all of the element's values as uint32s.
func (e *Element) GetUint32s() ([]uint32, error) {
	values := make([]uint32, 0, len(e.Value))
	for _, v := range e.Value {
		n, ok := v.(uint32)
		if !ok {
			return nil, fmt.Errorf("dicom: uint32 value not found in %v", e.String())
		}
		values = append(values, n)
	}
	return values, nil
}

// MustGetUint32s is GetUint32s but panics on error.
func (e *Element) MustGetUint32s() []uint32 {
	values, err := e.GetUint32s()
	if err != nil {
		panic(err)
	}
	return values
}

// GetUint16s returns all of the element's values as uint16s.
func (e *Element) GetUint16s() ([]uint16, error) {
	values := make([]uint16, 0, len(e.Value))
	for _, v := range e.Value {
		n, ok := v.(uint16)
		if !ok {
			return nil, fmt.Errorf("dicom: uint16 value not found in %v", e.String())
		}
		values = append(values, n)
	}
	return values, nil
}

// MustGetUint16s is GetUint16s but panics on error.
func (e *Element) MustGetUint16s() []uint16 {
	values, err := e.GetUint16s()
	if err != nil {
		panic(err)
	}
	return values
}

// GetFloat64s returns all of the element's values as float64, converting
// from FL/FD/DS storage. DS values are decimal strings and are parsed.
func (e *Element) GetFloat64s() ([]float64, error) {
	values := make([]float64, 0, len(e.Value))
	for _, v := range e.Value {
		switch x := v.(type) {
		case float64:
			values = append(values, x)
		case float32:
			values = append(values, float64(x))
		case string:
			var f float64
			if _, err := fmt.Sscanf(strings.TrimSpace(x), "%g", &f); err != nil {
				return nil, fmt.Errorf("dicom: cannot parse %q as float in %v", x, e.String())
			}
			values = append(values, f)
		default:
			return nil, fmt.Errorf("dicom: numeric value not found in %v", e.String())
		}
	}
	return values, nil
}

// GetPersonName returns the family and given names of a PN value. Only the
// first ('='-separated) component group, the alphabetic form, is used; it
// is split at the first '^', so given holds everything after that caret,
// including any middle name, prefix or suffix fields. PS3.5 6.2.1.
func (e *Element) GetPersonName() (family, given string, err error) {
	s, err := e.GetString()
	if err != nil {
		return "", "", err
	}
	group := strings.SplitN(s, "=", 2)[0]
	parts := strings.SplitN(group, "^", 2)
	family = parts[0]
	if len(parts) > 1 {
		given = parts[1]
	}
	return family, given, nil
}

// dicomDateLayout is the wire format for VR=DA: YYYYMMDD.
const dicomDateLayout = "20060102"

// ParseDate parses a DA-encoded date string.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(dicomDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("dicom: malformed DA value %q: %w", s, err)
	}
	return t, nil
}

// GetDate parses the element's sole DA value.
func (e *Element) GetDate() (time.Time, error) {
	s, err := e.GetString()
	if err != nil {
		return time.Time{}, err
	}
	return ParseDate(s)
}

// dicomTimeLayouts covers TM's permitted truncations: HHMMSS.FFFFFF down to
// just HH. PS3.5 6.2.
var dicomTimeLayouts = []string{"150405.000000", "150405", "1504", "15"}

// ParseTime parses a TM-encoded time-of-day string, trying progressively
// shorter truncations.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range dicomTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("dicom: malformed TM value %q: %w", s, firstErr)
}

// GetTime parses the element's sole TM value.
func (e *Element) GetTime() (time.Time, error) {
	s, err := e.GetString()
	if err != nil {
		return time.Time{}, err
	}
	return ParseTime(s)
}

// dicomDateTimeLayouts cover the wire format for VR=DT: YYYYMMDDHHMMSS.FFFFFF&ZZXX.
// The fractional seconds and offset are both optional; ParseDateTime tries
// the longest form first.
var dicomDateTimeLayouts = []string{
	"20060102150405.000000-0700",
	"20060102150405-0700",
	"20060102150405.000000",
	"20060102150405",
	"200601021504",
	"2006010215",
	"20060102",
}

// ParseDateTime parses a DT-encoded combined date-time string.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range dicomDateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("dicom: malformed DT value %q: %w", s, firstErr)
}

// GetDateTime parses the element's sole DT value.
func (e *Element) GetDateTime() (time.Time, error) {
	s, err := e.GetString()
	if err != nil {
		return time.Time{}, err
	}
	return ParseDateTime(s)
}

// GetAge parses an AS-encoded age string, e.g. "034Y", "012M", "002W",
// "007D", returning the numeric count and the unit character.
func (e *Element) GetAge() (count int, unit byte, err error) {
	s, err := e.GetString()
	if err != nil {
		return 0, 0, err
	}
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return 0, 0, fmt.Errorf("dicom: malformed AS value %q", s)
	}
	if _, err := fmt.Sscanf(s[:3], "%d", &count); err != nil {
		return 0, 0, fmt.Errorf("dicom: malformed AS value %q: %w", s, err)
	}
	unit = s[3]
	switch unit {
	case 'D', 'W', 'M', 'Y':
	default:
		return 0, 0, fmt.Errorf("dicom: malformed AS unit in %q", s)
	}
	return count, unit, nil
}

// GetUID returns the element's sole UI value, trimming the conventional
// NUL padding byte.
func (e *Element) GetUID() (string, error) {
	s, err := e.GetString()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, "\x00"), nil
}

// GetCodeString returns the element's sole CS value, a fixed upper-case
// token (spec.md 4.D).
func (e *Element) GetCodeString() (string, error) {
	return e.GetString()
}

func elementString(e *Element, nestLevel int) string {
	dicomio.DoAssert(nestLevel < 10)
	indent := strings.Repeat(" ", nestLevel)
	s := indent
	sVl := ""
	if e.UndefinedLength {
		sVl = "u"
	}
	s = fmt.Sprintf("%s %s %s %s ", s, dicomtag.DebugString(e.Tag), e.VR, sVl)
	if e.VR == "SQ" || e.Tag == dicomtag.Item {
		s += fmt.Sprintf(" (#%d)[\n", len(e.Value))
		for _, v := range e.Value {
			s += elementString(v.(*Element), nestLevel+1) + "\n"
		}
		s += indent + " ]"
	} else {
		var sv string
		if len(e.Value) == 1 {
			sv = fmt.Sprintf("%v", e.Value)
		} else {
			sv = fmt.Sprintf("(%d)%v", len(e.Value), e.Value)
		}
		if len(sv) > 1024 {
			sv = sv[1:1024] + "(...)"
		}
		s += sv
	}
	return s
}

// String renders the element tree for diagnostics.
func (e *Element) String() string {
	return elementString(e, 0)
}
