package dicomtag

// AllVRs lists the 29 value representations the reader recognizes.
var AllVRs = []string{
	"AE", "AS", "AT", "CS", "DA", "DS", "DT", "FL", "FD", "IS", "LO", "LT",
	"OB", "OD", "OF", "OL", "OW", "PN", "SH", "SL", "SQ", "SS", "ST", "TM",
	"UI", "UL", "UN", "US", "UT",
}

// longFormVRs use a 2-byte reserved field followed by a 4-byte length under
// explicit VR, per spec.md 4.A(i). All other VRs use a 2-byte length.
// UC/UR are an extension beyond the AllVRs set (the 2007+ VRs); kept
// because the explicit-VR reader must still not
// misparse a file using them, even though the typed accessors in element.go
// do not specially interpret them (they fall through to opaque/string).
var longFormVRs = map[string]bool{
	"OB": true, "OD": true, "OF": true, "OL": true, "OW": true, "SQ": true,
	"UN": true, "UC": true, "UR": true, "UT": true,
}

// IsLongForm reports whether vr uses the 4-byte explicit-VR length encoding.
func IsLongForm(vr string) bool {
	return longFormVRs[vr]
}

// IsKnownVR reports whether vr is one of the 29 codes in AllVRs (plus the
// UC/UR long-form extensions tolerated by the reader).
func IsKnownVR(vr string) bool {
	for _, v := range AllVRs {
		if v == vr {
			return true
		}
	}
	return vr == "UC" || vr == "UR"
}

// IsTextVR reports whether vr's value is character data that is subject to
// SpecificCharacterSet decoding and backslash/padding rules, as opposed to
// binary-numeric, opaque or sequence values.
func IsTextVR(vr string) bool {
	switch vr {
	case "LO", "LT", "PN", "SH", "ST", "UT", "UC":
		return true
	default:
		return false
	}
}

// IsASCIIOnlyVR reports whether vr's value is always interpreted as 7-bit
// ASCII regardless of SpecificCharacterSet (spec.md 4.D).
func IsASCIIOnlyVR(vr string) bool {
	switch vr {
	case "AE", "AS", "CS", "DA", "DS", "DT", "IS", "TM", "UI":
		return true
	default:
		return false
	}
}

// PaddingByte returns the byte used to pad vr's value to an even length on
// disk: space (0x20) for text VRs, null (0x00) for UI and binary VRs.
func PaddingByte(vr string) byte {
	if vr == "UI" {
		return 0x00
	}
	if IsTextVR(vr) || IsASCIIOnlyVR(vr) {
		return 0x20
	}
	return 0x00
}

// MaxLength returns the maximum character length spec.md 4.D defines for a
// handful of string VRs with fixed bounds, or 0 if unbounded.
func MaxLength(vr string) int {
	switch vr {
	case "UI":
		return 64
	case "CS":
		return 16
	case "AS":
		return 4
	default:
		return 0
	}
}
