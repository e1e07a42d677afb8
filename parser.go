package dicom

import (
	"bytes"
	"encoding/binary"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/wrenfield/dicomkit/dicomio"
	"github.com/wrenfield/dicomkit/dicomtag"
	"github.com/wrenfield/dicomkit/dicomuid"
)

// endOfDataElement is a sentinel returned by ReadElement to tell the caller
// to stop reading (DropPixelData or StopAtTag triggered).
var endOfDataElement = &Element{Tag: dicomtag.Tag{Group: 0x7fff, Element: 0x7fff}}

func readTag(d *dicomio.Decoder) dicomtag.Tag {
	group := d.ReadUInt16()
	element := d.ReadUInt16()
	return dicomtag.Tag{Group: group, Element: element}
}

// readImplicit reads an implicit-VR element header: the VR comes from the
// dictionary (or UN if the tag is unknown), and VL is a plain 32-bit count.
func readImplicit(d *dicomio.Decoder, tag dicomtag.Tag) (string, uint32) {
	vr := "UN"
	if entry, err := dicomtag.Find(tag); err == nil {
		vr = entry.VR
	}

	vl := d.ReadUInt32()
	if vl != UndefinedLength && vl%2 != 0 {
		d.SetErrorf("odd length (vl=%v) reading implicit VR %q for tag %s", vl, vr, dicomtag.DebugString(tag))
		vl = 0
	}
	return vr, vl
}

// readExplicit reads an explicit-VR element header: 2 VR bytes, then
// either a 2-byte or 4-byte (for long-form VRs) length field (PS3.5 7.1.2).
func readExplicit(d *dicomio.Decoder, tag dicomtag.Tag, force bool) (string, uint32) {
	vr := d.ReadString(2)
	var vl uint32

	if dicomtag.IsLongForm(vr) || vr == "NA" {
		d.Skip(2) // reserved
		vl = d.ReadUInt32()
	} else if !dicomtag.IsKnownVR(vr) {
		if !force {
			d.SetErrorf("invalid VR %q for tag %s", vr, dicomtag.DebugString(tag))
			return vr, 0
		}
		logrus.Warnf("dicom: unrecognized VR %q for tag %s, downgrading to UN", vr, dicomtag.DebugString(tag))
		vr = "UN"
		d.Skip(2)
		vl = d.ReadUInt32()
	} else {
		vl = uint32(d.ReadUInt16())
		if vl == 0xffff {
			vl = UndefinedLength
		}
	}

	if vl != UndefinedLength && vl%2 != 0 {
		d.SetErrorf("odd length (vl=%v) reading explicit VR %v for tag %s", vl, vr, dicomtag.DebugString(tag))
		vl = 0
	}
	return vr, vl
}

// readRawItem reads one Item's raw bytes without decoding them as
// elements; used while collecting PixelData fragments.
func readRawItem(d *dicomio.Decoder) ([]byte, bool) {
	tag := readTag(d)
	vr, vl := readImplicit(d, tag)
	if d.Error() != nil {
		return nil, true
	}

	if tag == dicomtag.SequenceDelimitationItem {
		if vl != 0 {
			d.SetErrorf("SequenceDelimitationItem VL != 0: %v", vl)
		}
		return nil, true
	}
	if tag != dicomtag.Item {
		d.SetErrorf("expected Item in PixelData, found %v", dicomtag.DebugString(tag))
		return nil, false
	}
	if vl == UndefinedLength {
		d.SetErrorf("expected defined-length item in PixelData")
		return nil, false
	}
	if vr != "NA" {
		d.SetErrorf("expected NA item, found %s", vr)
		return nil, true
	}
	return d.ReadBytes(int(vl)), false
}

// readBasicOffsetTable reads PixelData's first embedded item: a table of
// per-frame byte offsets (PS3.5 A.4).
func readBasicOffsetTable(d *dicomio.Decoder) []uint32 {
	data, endOfData := readRawItem(d)
	if endOfData {
		d.SetErrorf("basic offset table not found")
	}
	if len(data) == 0 {
		return []uint32{0}
	}

	byteOrder, _ := d.TransferSyntax()
	sub := dicomio.NewBytesDecoder(data, byteOrder, dicomio.ImplicitVR)

	var offsets []uint32
	for !sub.EOF() {
		offsets = append(offsets, sub.ReadUInt32())
	}
	return offsets
}

// ParseFileHeader reads the 128-byte preamble, "DICM" magic and the
// file-meta-information group (always Explicit VR Little Endian), per
// spec.md 4.C. A missing preamble/magic is always reported as an error
// here, whatever options.Force says; with Force set, it is Parse that then
// retries from offset 0 under Implicit VR Little Endian.
func ParseFileHeader(d *dicomio.Decoder, options ReadOptions) []*Element {
	d.PushTransferSyntax(binary.LittleEndian, dicomio.ExplicitVR)
	defer d.PopTransferSyntax()

	d.Skip(128)
	if s := d.ReadString(4); s != "DICM" {
		d.SetError(newParseError(ErrInvalidDICMPrefix, "%q", s))
		return nil
	}

	metaElement := ReadElement(d, ReadOptions{})
	if d.Error() != nil {
		return nil
	}
	if metaElement.Tag != dicomtag.FileMetaInformationGroupLength {
		d.SetError(newParseError(ErrMissingRequiredTag, "expected FileMetaInformationGroupLength, found %s", metaElement.Tag))
		return nil
	}
	metaLength, err := metaElement.GetUInt32()
	if err != nil {
		d.SetErrorf("failed to read FileMetaInformationGroupLength: %v", err)
		return nil
	}
	if d.EOF() {
		d.SetError(newParseError(ErrUnexpectedEndOfData, "no data element found after file meta header"))
		return nil
	}

	metaElems := []*Element{metaElement}
	d.PushLimit(int64(metaLength))
	defer d.PopLimit()
	for !d.EOF() {
		elem := ReadElement(d, ReadOptions{})
		if d.Error() != nil {
			break
		}
		metaElems = append(metaElems, elem)
	}
	return metaElems
}

// ReadElement reads one DICOM data element.
//
//   - On read error, returns nil; the error is available via d.Error().
//   - Returns endOfDataElement if options.DropPixelData dropped a PixelData
//     element, or options.StopAtTag matched.
//   - Otherwise returns a fully-populated element.
func ReadElement(d *dicomio.Decoder, options ReadOptions) *Element {
	if options.Cancel.Cancelled() {
		d.SetError(Cancelled)
		return nil
	}

	tag := readTag(d)
	if tag == dicomtag.PixelData && options.DropPixelData {
		return endOfDataElement
	}
	if options.StopAtTag != nil && tag.Compare(*options.StopAtTag) >= 0 {
		return endOfDataElement
	}

	_, implicit := d.TransferSyntax()
	if tag.Group == ItemSeqGroup {
		implicit = dicomio.ImplicitVR
	}

	var vr string
	var vl uint32
	if implicit == dicomio.ImplicitVR {
		vr, vl = readImplicit(d, tag)
	} else {
		dicomio.DoAssert(implicit == dicomio.ExplicitVR, implicit)
		vr, vl = readExplicit(d, tag, options.Force)
	}
	if d.Error() != nil {
		return nil
	}

	var data []interface{}
	elem := &Element{
		Tag:             tag,
		VR:              vr,
		UndefinedLength: vl == UndefinedLength,
	}

	if vr == "UN" && vl == UndefinedLength {
		// PS3.5 6.2.2 allows UN with undefined length only for what is
		// effectively an SQ whose contents the writer chose not to
		// identify as such; treat it as a sequence.
		vr = "SQ"
		elem.VR = vr
	}

	switch {
	case tag == dicomtag.PixelData:
		// PS3.5 A.4: an encapsulated PixelData is
		//   Item(BasicOffsetTable) Item(fragment0) ... Item(fragmentN) SequenceDelimitationItem
		if vl == UndefinedLength {
			var image PixelDataInfo
			image.Offsets = readBasicOffsetTable(d)
			for !d.EOF() {
				chunk, endOfItems := readRawItem(d)
				if d.Error() != nil {
					break
				}
				if endOfItems {
					break
				}
				image.Frames = append(image.Frames, chunk)
			}
			data = append(data, image)
		} else {
			var image PixelDataInfo
			image.Frames = append(image.Frames, d.ReadBytes(int(vl)))
			data = append(data, image)
		}

	case vr == "SQ":
		// Note: subelements inside a sequence/item ignore DropPixelData
		// and StopAtTag; honoring them here would make the rest of the
		// file unreadable.
		if vl == UndefinedLength {
			for {
				item := ReadElement(d, ReadOptions{})
				if d.Error() != nil {
					break
				}
				if item.Tag == dicomtag.SequenceDelimitationItem {
					break
				}
				if item.Tag != dicomtag.Item {
					d.SetErrorf("found non-Item element in undefined-length sequence: %v", dicomtag.DebugString(item.Tag))
					break
				}
				data = append(data, item)
			}
		} else {
			d.PushLimit(int64(vl))
			for !d.EOF() {
				item := ReadElement(d, ReadOptions{})
				if d.Error() != nil {
					break
				}
				if item.Tag != dicomtag.Item {
					d.SetErrorf("found non-Item element in sequence: %v", dicomtag.DebugString(item.Tag))
					break
				}
				data = append(data, item)
			}
			d.PopLimit()
		}

	case tag == dicomtag.Item:
		if vl == UndefinedLength {
			for {
				sub := ReadElement(d, ReadOptions{})
				if d.Error() != nil {
					break
				}
				if sub.Tag == dicomtag.ItemDelimitationItem {
					break
				}
				data = append(data, sub)
			}
		} else {
			d.PushLimit(int64(vl))
			for !d.EOF() {
				sub := ReadElement(d, ReadOptions{})
				if d.Error() != nil {
					break
				}
				data = append(data, sub)
			}
			d.PopLimit()
		}

	default:
		if vl == UndefinedLength {
			d.SetErrorf("undefined length disallowed for VR=%s, tag %s", vr, dicomtag.DebugString(tag))
			return nil
		}
		d.PushLimit(int64(vl))
		defer d.PopLimit()
		switch vr {
		case "DA":
			data = []interface{}{strings.Trim(d.ReadString(int(vl)), " \x00")}
		case "AT":
			for !d.EOF() {
				data = append(data, dicomtag.Tag{Group: d.ReadUInt16(), Element: d.ReadUInt16()})
			}
		case "OW":
			if vl%2 != 0 {
				d.SetErrorf("tag %v: OW requires even length, found %v", dicomtag.DebugString(tag), vl)
			} else {
				n := int(vl / 2)
				e := dicomio.NewBytesEncoder(dicomio.NativeByteOrder, dicomio.UnknownVR)
				for i := 0; i < n; i++ {
					e.WriteUInt16(d.ReadUInt16())
				}
				dicomio.DoAssert(e.Error() == nil, e.Error())
				data = append(data, e.Bytes())
			}
		case "OB", "OD", "OF", "OL", "UN":
			data = append(data, d.ReadBytes(int(vl)))
		case "LT", "UT":
			data = append(data, d.ReadString(int(vl)))
		case "UL":
			for !d.EOF() {
				data = append(data, d.ReadUInt32())
			}
		case "SL":
			for !d.EOF() {
				data = append(data, d.ReadInt32())
			}
		case "US":
			for !d.EOF() {
				data = append(data, d.ReadUInt16())
			}
		case "SS":
			for !d.EOF() {
				data = append(data, d.ReadInt16())
			}
		case "FL":
			for !d.EOF() {
				data = append(data, d.ReadFloat32())
			}
		case "FD":
			for !d.EOF() {
				data = append(data, d.ReadFloat64())
			}
		default:
			v := d.ReadString(int(vl))
			str := strings.Trim(v, " \x00")
			if len(str) > 0 {
				for _, s := range strings.Split(str, "\\") {
					data = append(data, s)
				}
			}
		}
	}

	elem.Value = data
	return elem
}

// ReadDataSet parses in as a complete Part 10 stream: preamble, magic,
// file-meta group, then the main data set decoded under the transfer
// syntax named by TransferSyntaxUID. If the preamble, magic or file-meta
// group cannot be read, it returns a nil DataSet and the error; after
// that, it returns whatever was successfully read alongside the first
// error encountered.
func ReadDataSet(in io.Reader, options ReadOptions) (*DataSet, error) {
	d := dicomio.NewDecoder(in, binary.LittleEndian, dicomio.ExplicitVR)

	metaElements := ParseFileHeader(d, options)
	if d.Error() != nil {
		return nil, d.Error()
	}

	ds := &DataSet{Elements: metaElements}

	tsUID, err := ds.TransferSyntaxUID()
	if err != nil {
		return ds, errors.Wrap(err, "dicom: reading TransferSyntaxUID")
	}
	endian, implicit, err := dicomio.ParseTransferSyntaxUID(tsUID)
	if err != nil {
		return ds, &ParseError{Kind: ErrUnsupportedTransferSyntax, UID: tsUID}
	}

	if dicomuid.IsEncapsulated(tsUID) {
		// Encapsulated (compressed) pixel data is still framed under
		// Explicit VR Little Endian; only the codec differs, and codec
		// decoding is out of scope for the core parser (spec.md 4.E
		// Non-goals). The element stream itself parses the same way.
		endian, implicit = binary.LittleEndian, dicomio.ExplicitVR
	} else if tsUID == dicomuid.DeflatedExplicitVRLittleEndian {
		rest, err := ioutil.ReadAll(d)
		if err != nil {
			return ds, newParseError(ErrParsingFailed, "reading deflated stream: %v", err)
		}
		inflated, err := dicomio.Inflate(bytes.NewReader(rest))
		if err != nil {
			return ds, newParseError(ErrParsingFailed, "%v", err)
		}
		return readMainDataSet(bytes.NewReader(inflated), ds, options)
	}

	d.PushTransferSyntax(endian, implicit)
	defer d.PopTransferSyntax()
	return readElementsInto(d, ds, options)
}

func readMainDataSet(in io.Reader, ds *DataSet, options ReadOptions) (*DataSet, error) {
	d := dicomio.NewDecoder(in, binary.LittleEndian, dicomio.ExplicitVR)
	return readElementsInto(d, ds, options)
}

func readElementsInto(d *dicomio.Decoder, ds *DataSet, options ReadOptions) (*DataSet, error) {
	for !d.EOF() {
		startLen := d.BytesRead()
		elem := ReadElement(d, options)
		if d.BytesRead() <= startLen && d.Error() == nil {
			break
		}
		if elem == endOfDataElement {
			break
		}
		if elem == nil {
			continue
		}

		if elem.Tag == dicomtag.SpecificCharacterSet {
			encodingNames, err := elem.GetStrings()
			if err != nil {
				d.SetError(err)
			} else if cs, err := dicomio.ParseSpecificCharacterSet(encodingNames); err != nil {
				if !options.Force {
					d.SetError(err)
				}
			} else {
				d.SetCodingSystem(cs)
			}
		}

		if options.ReturnTags == nil || tagInList(elem.Tag, options.ReturnTags) {
			ds.Elements = append(ds.Elements, elem)
		}
	}
	return ds, d.Error()
}

// ReadDataSetInBytes is ReadDataSet over an in-memory byte slice.
func ReadDataSetInBytes(data []byte, options ReadOptions) (*DataSet, error) {
	return ReadDataSet(bytes.NewReader(data), options)
}

// ReadDataSetFromFile is ReadDataSet reading from the named file.
func ReadDataSetFromFile(path string, options ReadOptions) (*DataSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	ds, err := ReadDataSet(file, options)
	if e := file.Close(); e != nil && err == nil {
		err = e
	}
	return ds, err
}

// Parse is the toolkit's top-level entry point. It behaves like
// ReadDataSet, except that with options.Force set, a missing or malformed
// preamble/DICM magic does not fail the parse: the reader rewinds to
// offset 0 and retries under Implicit VR Little Endian, the conventional
// fallback for headerless DICOM streams (spec.md 9, "tolerant mode").
func Parse(data []byte, options ReadOptions) (*DataSet, error) {
	dicomtag.FreezePrivateDictionary()
	ds, err := ReadDataSetInBytes(data, options)
	if err == nil || !options.Force {
		return ds, err
	}

	hasMagic := len(data) >= 132 && string(data[128:132]) == "DICM"
	var perr *ParseError
	if hasMagic && (!errors.As(err, &perr) || (perr.Kind != ErrInvalidDICMPrefix && perr.Kind != ErrUnexpectedEndOfData)) {
		return ds, err
	}

	logrus.Warnf("dicom.Parse: no valid Part 10 header found, retrying as implicit-VR-LE at offset 0: %v", err)
	d := dicomio.NewDecoder(bytes.NewReader(data), binary.LittleEndian, dicomio.ImplicitVR)
	fallback := &DataSet{}
	return readElementsInto(d, fallback, options)
}

func getTransferSyntax(ds *DataSet) (byteorder binary.ByteOrder, implicit dicomio.IsImplicitVR, err error) {
	uid, err := ds.TransferSyntaxUID()
	if err != nil {
		return nil, dicomio.UnknownVR, err
	}
	return dicomio.ParseTransferSyntaxUID(uid)
}
