// Package dicomtag defines the Tag type and the static dictionary mapping
// tags to their VR, name and value multiplicity (spec.md component 4.A).
package dicomtag

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag is the <group, element> pair identifying a data element.
type Tag struct {
	Group   uint16
	Element uint16
}

// Compare returns -1/0/1 as t is less than, equal to, or greater than other.
// Tags order first by group, then by element; this is the ordering the
// data-set model's iteration is required to preserve (spec.md section 3).
func (t Tag) Compare(other Tag) int {
	if t.Group != other.Group {
		if t.Group < other.Group {
			return -1
		}
		return 1
	}
	if t.Element != other.Element {
		if t.Element < other.Element {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether t sorts before other; convenience for sort.Slice.
func (t Tag) Less(other Tag) bool { return t.Compare(other) < 0 }

// IsPrivate reports whether the tag's group is odd, i.e. not part of the
// DICOM standard dictionary.
func (t Tag) IsPrivate() bool { return t.Group%2 == 1 }

// IsPrivateCreator reports whether the tag names a private-creator slot,
// (gggg, 0010-00FF) within a private (odd) group.
func (t Tag) IsPrivateCreator() bool {
	return t.IsPrivate() && t.Element >= 0x0010 && t.Element <= 0x00FF
}

// String renders the tag as "(gggg,eeee)".
func (t Tag) String() string {
	return fmt.Sprintf("(%04x,%04x)", t.Group, t.Element)
}

// Well-known structural tags that the parser and writer refer to directly;
// each also has an entry in the static dictionary.
var (
	Item                            = Tag{0xFFFE, 0xE000}
	ItemDelimitationItem            = Tag{0xFFFE, 0xE00D}
	SequenceDelimitationItem        = Tag{0xFFFE, 0xE0DD}
	PixelData                       = Tag{0x7FE0, 0x0010}
	FileMetaInformationGroupLength  = Tag{0x0002, 0x0000}
	FileMetaInformationVersion      = Tag{0x0002, 0x0001}
	MediaStorageSOPClassUID         = Tag{0x0002, 0x0002}
	MediaStorageSOPInstanceUID      = Tag{0x0002, 0x0003}
	TransferSyntaxUID               = Tag{0x0002, 0x0010}
	ImplementationClassUID          = Tag{0x0002, 0x0012}
	ImplementationVersionName       = Tag{0x0002, 0x0013}
	SpecificCharacterSet            = Tag{0x0008, 0x0005}
)

// MetadataGroup is the group number reserved for file-meta-information.
const MetadataGroup = 0x0002

// Pixel-descriptor and LUT tags used by the pixel rendering pipeline
// (spec.md 4.E). Declared here, rather than looked up by name each time,
// since they are on the hot path of every frame render.
var (
	SamplesPerPixel              = Tag{0x0028, 0x0002}
	PhotometricInterpretation    = Tag{0x0028, 0x0004}
	PlanarConfiguration          = Tag{0x0028, 0x0006}
	NumberOfFrames                = Tag{0x0028, 0x0008}
	Rows                          = Tag{0x0028, 0x0010}
	Columns                       = Tag{0x0028, 0x0011}
	PixelSpacing                  = Tag{0x0028, 0x0030}
	BitsAllocated                 = Tag{0x0028, 0x0100}
	BitsStored                    = Tag{0x0028, 0x0101}
	HighBit                       = Tag{0x0028, 0x0102}
	PixelRepresentation           = Tag{0x0028, 0x0103}
	WindowCenter                  = Tag{0x0028, 0x1050}
	WindowWidth                   = Tag{0x0028, 0x1051}
	RescaleIntercept              = Tag{0x0028, 0x1052}
	RescaleSlope                  = Tag{0x0028, 0x1053}
	RescaleType                   = Tag{0x0028, 0x1054}
	VOILUTFunction                = Tag{0x0028, 0x1056}
	RedPaletteColorLUTDescriptor  = Tag{0x0028, 0x1101}
	GreenPaletteColorLUTDescriptor = Tag{0x0028, 0x1102}
	BluePaletteColorLUTDescriptor = Tag{0x0028, 0x1103}
	RedPaletteColorLUTData        = Tag{0x0028, 0x1201}
	GreenPaletteColorLUTData      = Tag{0x0028, 0x1202}
	BluePaletteColorLUTData       = Tag{0x0028, 0x1203}
	ModalityLUTSequence           = Tag{0x0028, 0x3000}
	LUTDescriptor                 = Tag{0x0028, 0x3002}
	LUTExplanation                = Tag{0x0028, 0x3003}
	LUTData                       = Tag{0x0028, 0x3006}
	VOILUTSequence                = Tag{0x0028, 0x3010}
	PresentationLUTShape          = Tag{0x2050, 0x0020}
	ReferencedStudySequence       = Tag{0x0008, 0x1110}
	ReferencedSOPClassUID         = Tag{0x0008, 0x1150}
	ReferencedSOPInstanceUID      = Tag{0x0008, 0x1155}
	PatientID                     = Tag{0x0010, 0x0020}
	PatientName                   = Tag{0x0010, 0x0010}
	PatientBirthDate              = Tag{0x0010, 0x0030}
	InstitutionName               = Tag{0x0008, 0x0080}
	StudyInstanceUID              = Tag{0x0020, 0x000D}
	SeriesInstanceUID             = Tag{0x0020, 0x000E}
	QueryRetrieveLevel            = Tag{0x0008, 0x0052}
)

// VRKind classifies the Go representation used for an element's Value[].
type VRKind int

const (
	// VRStringList: []string, one per backslash-separated component.
	VRStringList VRKind = iota
	// VRBytes: a single []byte (OB/OW/UN opaque payloads).
	VRBytes
	// VRString: a single string, not split on backslash (LT/ST/UT).
	VRString
	// VRUInt16List: []uint16.
	VRUInt16List
	// VRUInt32List: []uint32.
	VRUInt32List
	// VRInt16List: []int16.
	VRInt16List
	// VRInt32List: []int32.
	VRInt32List
	// VRFloat32List: []float32.
	VRFloat32List
	// VRFloat64List: []float64.
	VRFloat64List
	// VRSequence: []*Element, each Tag==Item.
	VRSequence
	// VRItem: []*Element, the contents of one sequence item.
	VRItem
	// VRTagList: []Tag (VR=AT).
	VRTagList
	// VRDate: a single string, parseable with ParseDate (VR=DA).
	VRDate
	// VRPixelData: a single PixelDataInfo.
	VRPixelData
)

func (k VRKind) String() string {
	switch k {
	case VRStringList:
		return "StringList"
	case VRBytes:
		return "Bytes"
	case VRString:
		return "String"
	case VRUInt16List:
		return "UInt16List"
	case VRUInt32List:
		return "UInt32List"
	case VRInt16List:
		return "Int16List"
	case VRInt32List:
		return "Int32List"
	case VRFloat32List:
		return "Float32List"
	case VRFloat64List:
		return "Float64List"
	case VRSequence:
		return "Sequence"
	case VRItem:
		return "Item"
	case VRTagList:
		return "TagList"
	case VRDate:
		return "Date"
	case VRPixelData:
		return "PixelData"
	default:
		return "Unknown"
	}
}

// GetVRKind returns the Go value-representation kind for an element with
// the given tag and on-disk VR code.
func GetVRKind(tag Tag, vr string) VRKind {
	if tag == Item {
		return VRItem
	}
	if tag == PixelData {
		return VRPixelData
	}
	switch vr {
	case "DA":
		return VRDate
	case "AT":
		return VRTagList
	case "OW", "OB", "OD", "OF", "OL", "UN":
		return VRBytes
	case "LT", "ST", "UT":
		return VRString
	case "UL":
		return VRUInt32List
	case "SL":
		return VRInt32List
	case "US":
		return VRUInt16List
	case "SS":
		return VRInt16List
	case "FL":
		return VRFloat32List
	case "FD":
		return VRFloat64List
	case "SQ":
		return VRSequence
	default:
		return VRStringList
	}
}

// TagInfo is one dictionary entry: the tag's canonical name, VR and value
// multiplicity. Retired tags remain resolvable (spec.md 4.A: "retirement
// flag"), they are not removed from the table.
type TagInfo struct {
	Tag     Tag
	VR      string
	Name    string
	VM      string
	Retired bool
}

// Find looks up a concrete tag in the dictionary, masking repeating-group
// wildcards (e.g. (50xx,0010)) before falling back to Unknown. Group-length
// elements ((gggg,0000) for any even group) are synthesized rather than
// tabulated, per the teacher's own convention.
func Find(tag Tag) (TagInfo, error) {
	if entry, ok := staticDict[tag]; ok {
		return entry, nil
	}
	if entry, ok := findRepeating(tag); ok {
		return entry, nil
	}
	if tag.Group%2 == 0 && tag.Element == 0x0000 {
		return TagInfo{Tag: tag, VR: "UL", Name: "GenericGroupLength", VM: "1"}, nil
	}
	return TagInfo{}, fmt.Errorf("dicomtag: tag %v not found in dictionary", tag)
}

// MustFind is like Find but panics on error; for use with compile-time-known
// tags only.
func MustFind(tag Tag) TagInfo {
	e, err := Find(tag)
	if err != nil {
		panic(err)
	}
	return e
}

// FindByName looks up a dictionary entry by its canonical keyword, e.g.
// FindByName("TransferSyntaxUID").
func FindByName(name string) (TagInfo, error) {
	if entry, ok := byName[name]; ok {
		return entry, nil
	}
	return TagInfo{}, fmt.Errorf("dicomtag: no tag named %q in dictionary", name)
}

// DebugString renders a tag with its dictionary name for diagnostics, e.g.
// "(0010,0010)[PatientName]".
func DebugString(tag Tag) string {
	if entry, err := Find(tag); err == nil {
		return fmt.Sprintf("(%04x,%04x)[%s]", tag.Group, tag.Element, entry.Name)
	}
	if tag.IsPrivate() {
		return fmt.Sprintf("(%04x,%04x)[private]", tag.Group, tag.Element)
	}
	return fmt.Sprintf("(%04x,%04x)[??]", tag.Group, tag.Element)
}

// ParseTag parses a "(gggg,eeee)" or "gggg,eeee" string into a Tag.
func ParseTag(s string) (Tag, error) {
	s = strings.Trim(s, "() ")
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Tag{}, fmt.Errorf("dicomtag: malformed tag string %q", s)
	}
	group, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 16, 16)
	if err != nil {
		return Tag{}, fmt.Errorf("dicomtag: malformed tag string %q: %w", s, err)
	}
	elem, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 16, 16)
	if err != nil {
		return Tag{}, fmt.Errorf("dicomtag: malformed tag string %q: %w", s, err)
	}
	return Tag{Group: uint16(group), Element: uint16(elem)}, nil
}
