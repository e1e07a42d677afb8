package dicomtag

import "github.com/gobwas/glob"

// entries is the static tag dictionary. It is not the full DICOM PS3.6 data
// dictionary (tens of thousands of entries) — it carries the tags this core
// and its pixel pipeline consume directly, plus enough of the patient/study/
// series/image identification group to exercise the parser end to end.
// Find reports a not-found error for anything else (spec.md 4.A).
var entries = []TagInfo{
	// File meta group (always explicit VR LE).
	{Tag: FileMetaInformationGroupLength, VR: "UL", Name: "FileMetaInformationGroupLength", VM: "1"},
	{Tag: FileMetaInformationVersion, VR: "OB", Name: "FileMetaInformationVersion", VM: "1"},
	{Tag: MediaStorageSOPClassUID, VR: "UI", Name: "MediaStorageSOPClassUID", VM: "1"},
	{Tag: MediaStorageSOPInstanceUID, VR: "UI", Name: "MediaStorageSOPInstanceUID", VM: "1"},
	{Tag: Tag{0x0002, 0x0012}, VR: "UI", Name: "ImplementationClassUID", VM: "1"},
	{Tag: Tag{0x0002, 0x0013}, VR: "SH", Name: "ImplementationVersionName", VM: "1"},
	{Tag: TransferSyntaxUID, VR: "UI", Name: "TransferSyntaxUID", VM: "1"},
	{Tag: Tag{0x0002, 0x0016}, VR: "AE", Name: "SourceApplicationEntityTitle", VM: "1"},

	// Sequence item framing (group FFFE); no VR is encoded on disk.
	{Tag: Item, VR: "NA", Name: "Item", VM: "1"},
	{Tag: ItemDelimitationItem, VR: "NA", Name: "ItemDelimitationItem", VM: "1"},
	{Tag: SequenceDelimitationItem, VR: "NA", Name: "SequenceDelimitationItem", VM: "1"},

	// Identification / patient / study / series (group 0008, 0010, 0020).
	{Tag: SpecificCharacterSet, VR: "CS", Name: "SpecificCharacterSet", VM: "1-n"},
	{Tag: Tag{0x0008, 0x0008}, VR: "CS", Name: "ImageType", VM: "2-n"},
	{Tag: Tag{0x0008, 0x0016}, VR: "UI", Name: "SOPClassUID", VM: "1"},
	{Tag: Tag{0x0008, 0x0018}, VR: "UI", Name: "SOPInstanceUID", VM: "1"},
	{Tag: Tag{0x0008, 0x0020}, VR: "DA", Name: "StudyDate", VM: "1"},
	{Tag: Tag{0x0008, 0x0021}, VR: "DA", Name: "SeriesDate", VM: "1"},
	{Tag: Tag{0x0008, 0x0030}, VR: "TM", Name: "StudyTime", VM: "1"},
	{Tag: Tag{0x0008, 0x0050}, VR: "SH", Name: "AccessionNumber", VM: "1"},
	{Tag: Tag{0x0008, 0x0052}, VR: "CS", Name: "QueryRetrieveLevel", VM: "1"},
	{Tag: Tag{0x0008, 0x0060}, VR: "CS", Name: "Modality", VM: "1"},
	{Tag: Tag{0x0008, 0x0070}, VR: "LO", Name: "Manufacturer", VM: "1"},
	{Tag: Tag{0x0008, 0x0080}, VR: "LO", Name: "InstitutionName", VM: "1"},
	{Tag: Tag{0x0008, 0x0090}, VR: "PN", Name: "ReferringPhysicianName", VM: "1"},
	{Tag: Tag{0x0008, 0x1030}, VR: "LO", Name: "StudyDescription", VM: "1"},
	{Tag: Tag{0x0008, 0x103E}, VR: "LO", Name: "SeriesDescription", VM: "1"},
	{Tag: Tag{0x0008, 0x1090}, VR: "LO", Name: "ManufacturerModelName", VM: "1"},
	{Tag: Tag{0x0008, 0x1110}, VR: "SQ", Name: "ReferencedStudySequence", VM: "1"},
	{Tag: Tag{0x0008, 0x1150}, VR: "UI", Name: "ReferencedSOPClassUID", VM: "1"},
	{Tag: Tag{0x0008, 0x1155}, VR: "UI", Name: "ReferencedSOPInstanceUID", VM: "1"},

	{Tag: Tag{0x0010, 0x0010}, VR: "PN", Name: "PatientName", VM: "1"},
	{Tag: Tag{0x0010, 0x0020}, VR: "LO", Name: "PatientID", VM: "1"},
	{Tag: Tag{0x0010, 0x0030}, VR: "DA", Name: "PatientBirthDate", VM: "1"},
	{Tag: Tag{0x0010, 0x0040}, VR: "CS", Name: "PatientSex", VM: "1"},
	{Tag: Tag{0x0010, 0x1010}, VR: "AS", Name: "PatientAge", VM: "1"},
	{Tag: Tag{0x0010, 0x1030}, VR: "DS", Name: "PatientWeight", VM: "1"},

	{Tag: Tag{0x0020, 0x000D}, VR: "UI", Name: "StudyInstanceUID", VM: "1"},
	{Tag: Tag{0x0020, 0x000E}, VR: "UI", Name: "SeriesInstanceUID", VM: "1"},
	{Tag: Tag{0x0020, 0x0010}, VR: "SH", Name: "StudyID", VM: "1"},
	{Tag: Tag{0x0020, 0x0011}, VR: "IS", Name: "SeriesNumber", VM: "1"},
	{Tag: Tag{0x0020, 0x0013}, VR: "IS", Name: "InstanceNumber", VM: "1"},
	{Tag: Tag{0x0020, 0x0032}, VR: "DS", Name: "ImagePositionPatient", VM: "3"},
	{Tag: Tag{0x0020, 0x0037}, VR: "DS", Name: "ImageOrientationPatient", VM: "6"},
	{Tag: Tag{0x0020, 0x0052}, VR: "UI", Name: "FrameOfReferenceUID", VM: "1"},

	// Pixel-data descriptor fields (group 0028), spec.md 3 "Pixel-Data Descriptor".
	{Tag: Tag{0x0028, 0x0002}, VR: "US", Name: "SamplesPerPixel", VM: "1"},
	{Tag: Tag{0x0028, 0x0004}, VR: "CS", Name: "PhotometricInterpretation", VM: "1"},
	{Tag: Tag{0x0028, 0x0006}, VR: "US", Name: "PlanarConfiguration", VM: "1"},
	{Tag: Tag{0x0028, 0x0008}, VR: "IS", Name: "NumberOfFrames", VM: "1"},
	{Tag: Tag{0x0028, 0x0009}, VR: "AT", Name: "FrameIncrementPointer", VM: "1-n"},
	{Tag: Tag{0x0028, 0x0010}, VR: "US", Name: "Rows", VM: "1"},
	{Tag: Tag{0x0028, 0x0011}, VR: "US", Name: "Columns", VM: "1"},
	{Tag: Tag{0x0028, 0x0030}, VR: "DS", Name: "PixelSpacing", VM: "2-n"},
	{Tag: Tag{0x0028, 0x0100}, VR: "US", Name: "BitsAllocated", VM: "1"},
	{Tag: Tag{0x0028, 0x0101}, VR: "US", Name: "BitsStored", VM: "1"},
	{Tag: Tag{0x0028, 0x0102}, VR: "US", Name: "HighBit", VM: "1"},
	{Tag: Tag{0x0028, 0x0103}, VR: "US", Name: "PixelRepresentation", VM: "1"},
	{Tag: Tag{0x0028, 0x1050}, VR: "DS", Name: "WindowCenter", VM: "1-n"},
	{Tag: Tag{0x0028, 0x1051}, VR: "DS", Name: "WindowWidth", VM: "1-n"},
	{Tag: Tag{0x0028, 0x1052}, VR: "DS", Name: "RescaleIntercept", VM: "1"},
	{Tag: Tag{0x0028, 0x1053}, VR: "DS", Name: "RescaleSlope", VM: "1"},
	{Tag: Tag{0x0028, 0x1054}, VR: "LO", Name: "RescaleType", VM: "1"},
	{Tag: Tag{0x0028, 0x1055}, VR: "LO", Name: "WindowCenterWidthExplanation", VM: "1-n"},
	{Tag: Tag{0x0028, 0x1056}, VR: "CS", Name: "VOILUTFunction", VM: "1"},
	{Tag: Tag{0x0028, 0x1101}, VR: "US", Name: "RedPaletteColorLUTDescriptor", VM: "3"},
	{Tag: Tag{0x0028, 0x1102}, VR: "US", Name: "GreenPaletteColorLUTDescriptor", VM: "3"},
	{Tag: Tag{0x0028, 0x1103}, VR: "US", Name: "BluePaletteColorLUTDescriptor", VM: "3"},
	{Tag: Tag{0x0028, 0x1201}, VR: "OW", Name: "RedPaletteColorLUTData", VM: "1"},
	{Tag: Tag{0x0028, 0x1202}, VR: "OW", Name: "GreenPaletteColorLUTData", VM: "1"},
	{Tag: Tag{0x0028, 0x1203}, VR: "OW", Name: "BluePaletteColorLUTData", VM: "1"},
	{Tag: Tag{0x0028, 0x3000}, VR: "SQ", Name: "ModalityLUTSequence", VM: "1"},
	{Tag: Tag{0x0028, 0x3002}, VR: "US", Name: "LUTDescriptor", VM: "3"},
	{Tag: Tag{0x0028, 0x3003}, VR: "LO", Name: "LUTExplanation", VM: "1"},
	{Tag: Tag{0x0028, 0x3004}, VR: "LO", Name: "ModalityLUTType", VM: "1"},
	{Tag: Tag{0x0028, 0x3006}, VR: "US", Name: "LUTData", VM: "1-n"},
	{Tag: Tag{0x0028, 0x3010}, VR: "SQ", Name: "VOILUTSequence", VM: "1"},

	{Tag: PixelData, VR: "OW", Name: "PixelData", VM: "1"},

	// Presentation state / LUT shape.
	{Tag: Tag{0x2050, 0x0020}, VR: "CS", Name: "PresentationLUTShape", VM: "1"},
}

// staticDict and byName are built once at package init, per spec.md
// section 5 ("read-only tables built once at startup").
var staticDict map[Tag]TagInfo
var byName map[string]TagInfo

func init() {
	staticDict = make(map[Tag]TagInfo, len(entries))
	byName = make(map[string]TagInfo, len(entries))
	for _, e := range entries {
		staticDict[e.Tag] = e
		byName[e.Name] = e
	}
	compileRepeating()
}

// repeatingEntry is a dictionary entry for a repeating group, identified by
// a glob pattern over the tag's "gggg,eeee" hex rendering, e.g.
// "60[0-9a-f][0-9a-f],0010" for OverlayRows in any overlay group
// (6000,0010)-(60ff,0010); the pattern accepts every low byte, odd ones
// included. Matched with gobwas/glob, the same
// pattern-matching library the teacher used for C-FIND value matching
// (queryretrieve.go) repurposed here onto tag lookup (see DESIGN.md).
type repeatingEntry struct {
	pattern glob.Glob
	info    func(Tag) TagInfo
}

var repeating []repeatingEntry

func compileRepeating() {
	add := func(pattern, vr, name, vm string) {
		g := glob.MustCompile(pattern)
		repeating = append(repeating, repeatingEntry{
			pattern: g,
			info: func(t Tag) TagInfo {
				return TagInfo{Tag: t, VR: vr, Name: name, VM: vm}
			},
		})
	}
	// Overlay planes: group (60xx); the patterns match any two hex digits
	// xx in the group's low byte.
	add("60[0-9a-f][0-9a-f],0010", "US", "OverlayRows", "1")
	add("60[0-9a-f][0-9a-f],0011", "US", "OverlayColumns", "1")
	add("60[0-9a-f][0-9a-f],0015", "IS", "NumberOfFramesInOverlay", "1")
	add("60[0-9a-f][0-9a-f],0022", "LO", "OverlayDescription", "1")
	add("60[0-9a-f][0-9a-f],0040", "CS", "OverlayType", "1")
	add("60[0-9a-f][0-9a-f],0050", "SS", "OverlayOrigin", "2")
	add("60[0-9a-f][0-9a-f],0100", "US", "OverlayBitsAllocated", "1")
	add("60[0-9a-f][0-9a-f],0102", "US", "OverlayBitPosition", "1")
	add("60[0-9a-f][0-9a-f],3000", "OW", "OverlayData", "1")
	// Curve data, repeating group (50xx), legacy but still seen in archives.
	add("50[0-9a-f][0-9a-f],0005", "US", "CurveDimensions", "1")
	add("50[0-9a-f][0-9a-f],0010", "US", "CurveNumberOfPoints", "1")
	add("50[0-9a-f][0-9a-f],3000", "OW", "CurveData", "1")
	// Source image / image presentation repeating group (7Fxx) used by some
	// private dictionaries' public block; kept here as a generic fallback
	// for unassigned odd-group presentation overlays is intentionally not
	// added: private groups go through the private-creator path, not this
	// repeating table.
}

func findRepeating(tag Tag) (TagInfo, bool) {
	key := hexTagKey(tag)
	for _, r := range repeating {
		if r.pattern.Match(key) {
			return r.info(tag), true
		}
	}
	return TagInfo{}, false
}

func hexTagKey(t Tag) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 9)
	buf[0] = hexDigits[(t.Group>>12)&0xF]
	buf[1] = hexDigits[(t.Group>>8)&0xF]
	buf[2] = hexDigits[(t.Group>>4)&0xF]
	buf[3] = hexDigits[t.Group&0xF]
	buf[4] = ','
	buf[5] = hexDigits[(t.Element>>12)&0xF]
	buf[6] = hexDigits[(t.Element>>8)&0xF]
	buf[7] = hexDigits[(t.Element>>4)&0xF]
	buf[8] = hexDigits[t.Element&0xF]
	return string(buf)
}
