package dicom

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/wrenfield/dicomkit/dicomio"
	"github.com/wrenfield/dicomkit/dicomtag"

	"github.com/sirupsen/logrus"
)

// WriteFileHeader produces a DICOM Part 10 file header: the 128-byte
// preamble, "DICM" magic, and the file-meta-information group built from
// metaElements. Every element in metaElements must have Tag.Group==2.
// TransferSyntaxUID, MediaStorageSOPClassUID and MediaStorageSOPInstanceUID
// are mandatory; ImplementationClassUID/VersionName default if absent.
// Errors are reported through e.Error().
func WriteFileHeader(e *dicomio.Encoder, metaElements []*Element) {
	e.PushTransferSyntax(binary.LittleEndian, dicomio.ExplicitVR)
	defer e.PopTransferSyntax()

	subEncoder := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)

	tagsUsed := make(map[dicomtag.Tag]bool)
	tagsUsed[dicomtag.FileMetaInformationGroupLength] = true

	writeRequiredMetaElement := func(tag dicomtag.Tag) {
		if elem, err := FindElementByTag(metaElements, tag); err == nil {
			WriteElement(subEncoder, elem)
		} else {
			subEncoder.SetErrorf("%v not found in metaElements: %v", dicomtag.DebugString(tag), err)
		}
		tagsUsed[tag] = true
	}

	writeOptionalMetaElement := func(tag dicomtag.Tag, defaultValue interface{}) {
		if elem, err := FindElementByTag(metaElements, tag); err == nil {
			WriteElement(subEncoder, elem)
		} else {
			WriteElement(subEncoder, MustNewElement(tag, defaultValue))
		}
		tagsUsed[tag] = true
	}

	// PS3.10 7.1: a 2-byte field, value 0x0001 in big-endian bit order
	// (i.e. the byte sequence 0x00, 0x01), not the ASCII text "0 1".
	writeOptionalMetaElement(dicomtag.FileMetaInformationVersion, []byte{0x00, 0x01})
	writeRequiredMetaElement(dicomtag.MediaStorageSOPClassUID)
	writeRequiredMetaElement(dicomtag.MediaStorageSOPInstanceUID)
	writeRequiredMetaElement(dicomtag.TransferSyntaxUID)
	writeOptionalMetaElement(dicomtag.ImplementationClassUID, GoDICOMImplementationClassUID)
	writeOptionalMetaElement(dicomtag.ImplementationVersionName, GoDICOMImplementationVersionName)

	for _, elem := range metaElements {
		if elem.Tag.Group == dicomtag.MetadataGroup {
			if _, ok := tagsUsed[elem.Tag]; !ok {
				WriteElement(subEncoder, elem)
			}
		}
	}

	if subEncoder.Error() != nil {
		e.SetError(subEncoder.Error())
		return
	}

	metaBytes := subEncoder.Bytes()

	e.WriteZeros(128)
	e.WriteString("DICM")
	WriteElement(e, MustNewElement(dicomtag.FileMetaInformationGroupLength, uint32(len(metaBytes))))
	e.WriteBytes(metaBytes)
}

func writeRawItem(e *dicomio.Encoder, data []byte) {
	encodeElementHeader(e, dicomtag.Item, "NA", uint32(len(data)))
	e.WriteBytes(data)
}

func writeBasicOffsetTable(e *dicomio.Encoder, offsets []uint32) {
	byteOrder, _ := e.TransferSyntax()
	sub := dicomio.NewBytesEncoder(byteOrder, dicomio.ImplicitVR)
	for _, offset := range offsets {
		sub.WriteUInt32(offset)
	}
	writeRawItem(e, sub.Bytes())
}

func encodeElementHeader(e *dicomio.Encoder, tag dicomtag.Tag, vr string, vl uint32) {
	dicomio.DoAssert(vl == UndefinedLength || vl%2 == 0, vl)

	e.WriteUInt16(tag.Group)
	e.WriteUInt16(tag.Element)

	_, implicit := e.TransferSyntax()
	if tag.Group == ItemSeqGroup {
		implicit = dicomio.ImplicitVR
	}

	if implicit == dicomio.ExplicitVR {
		dicomio.DoAssert(len(vr) == 2, vr)
		e.WriteString(vr)
		if dicomtag.IsLongForm(vr) || vr == "NA" {
			e.WriteZeros(2)
			e.WriteUInt32(vl)
		} else {
			e.WriteUInt16(uint16(vl))
		}
	} else {
		dicomio.DoAssert(implicit == dicomio.ImplicitVR, implicit)
		e.WriteUInt32(vl)
	}
}

// WriteElement encodes one data element. Errors are reported through
// e.Error(). Each value in elem.Value must match the
// Go representation the element's VR expects.
func WriteElement(e *dicomio.Encoder, elem *Element) {
	vr := elem.VR

	entry, err := dicomtag.Find(elem.Tag)
	if vr == "" {
		if err == nil {
			vr = entry.VR
		} else {
			vr = "UN"
		}
	} else if err == nil && entry.VR != vr {
		if dicomtag.GetVRKind(elem.Tag, entry.VR) != dicomtag.GetVRKind(elem.Tag, vr) {
			e.SetErrorf("dicom.WriteElement: VR mismatch for tag %s: element has %v, dictionary has %v",
				dicomtag.DebugString(elem.Tag), vr, entry.VR)
			return
		}
		logrus.Warnf("dicom.WriteElement: VR mismatch for tag %s: element has %v, dictionary has %v (continuing)",
			dicomtag.DebugString(elem.Tag), vr, entry.VR)
	}
	dicomio.DoAssert(vr != "", vr)

	if elem.Tag == dicomtag.PixelData {
		writePixelDataElement(e, elem, vr)
		return
	}

	if vr == "SQ" {
		writeSequenceElement(e, elem, vr)
	} else if vr == "NA" {
		writeItemElement(e, elem, vr)
	} else {
		writeScalarElement(e, elem, vr)
	}
}

func writePixelDataElement(e *dicomio.Encoder, elem *Element, vr string) {
	if len(elem.Value) != 1 {
		e.SetError(fmt.Errorf("dicom: PixelData element must carry exactly one PixelDataInfo value"))
		return
	}
	image, ok := elem.Value[0].(PixelDataInfo)
	if !ok {
		e.SetError(fmt.Errorf("dicom: PixelData element's value must be a PixelDataInfo"))
		return
	}

	if elem.UndefinedLength {
		encodeElementHeader(e, elem.Tag, vr, UndefinedLength)
		writeBasicOffsetTable(e, image.Offsets)
		for _, frame := range image.Frames {
			writeRawItem(e, frame)
		}
		encodeElementHeader(e, dicomtag.SequenceDelimitationItem, "", 0)
		return
	}

	if len(image.Frames) != 1 {
		e.SetErrorf("dicom: defined-length PixelData requires exactly one frame, found %d", len(image.Frames))
		return
	}
	encodeElementHeader(e, elem.Tag, vr, uint32(len(image.Frames[0])))
	e.WriteBytes(image.Frames[0])
}

func writeSequenceElement(e *dicomio.Encoder, elem *Element, vr string) {
	if elem.UndefinedLength {
		encodeElementHeader(e, elem.Tag, vr, UndefinedLength)
		for _, value := range elem.Value {
			subelem, ok := value.(*Element)
			if !ok || subelem.Tag != dicomtag.Item {
				e.SetErrorf("dicom: SQ element value must be an Item, found %v", value)
				return
			}
			WriteElement(e, subelem)
		}
		encodeElementHeader(e, dicomtag.SequenceDelimitationItem, "", 0)
		return
	}

	sube := dicomio.NewBytesEncoder(e.TransferSyntax())
	for _, value := range elem.Value {
		subelem, ok := value.(*Element)
		if !ok || subelem.Tag != dicomtag.Item {
			e.SetErrorf("dicom: SQ element value must be an Item, found %v", value)
			return
		}
		WriteElement(sube, subelem)
	}
	if sube.Error() != nil {
		e.SetError(sube.Error())
		return
	}
	data := sube.Bytes()
	encodeElementHeader(e, elem.Tag, vr, uint32(len(data)))
	e.WriteBytes(data)
}

func writeItemElement(e *dicomio.Encoder, elem *Element, vr string) {
	if elem.UndefinedLength {
		encodeElementHeader(e, elem.Tag, vr, UndefinedLength)
		for _, value := range elem.Value {
			subelem, ok := value.(*Element)
			if !ok {
				e.SetErrorf("dicom: Item value must be a *dicom.Element, found %v", value)
				return
			}
			WriteElement(e, subelem)
		}
		encodeElementHeader(e, dicomtag.ItemDelimitationItem, "", 0)
		return
	}

	sube := dicomio.NewBytesEncoder(e.TransferSyntax())
	for _, value := range elem.Value {
		subelem, ok := value.(*Element)
		if !ok {
			e.SetErrorf("dicom: Item value must be a *dicom.Element, found %v", value)
			return
		}
		WriteElement(sube, subelem)
	}
	if sube.Error() != nil {
		e.SetError(sube.Error())
		return
	}
	data := sube.Bytes()
	encodeElementHeader(e, elem.Tag, vr, uint32(len(data)))
	e.WriteBytes(data)
}

func writeScalarElement(e *dicomio.Encoder, elem *Element, vr string) {
	if elem.UndefinedLength {
		e.SetErrorf("dicom: encoding undefined-length elements is not supported for VR=%s", vr)
		return
	}

	sube := dicomio.NewBytesEncoder(e.TransferSyntax())

	switch vr {
	case "US":
		for _, value := range elem.Value {
			v, ok := value.(uint16)
			if !ok {
				e.SetErrorf("%v: expected uint16, found %v", dicomtag.DebugString(elem.Tag), value)
				continue
			}
			sube.WriteUInt16(v)
		}
	case "UL":
		for _, value := range elem.Value {
			v, ok := value.(uint32)
			if !ok {
				e.SetErrorf("%v: expected uint32, found %v", dicomtag.DebugString(elem.Tag), value)
				continue
			}
			sube.WriteUInt32(v)
		}
	case "SL":
		for _, value := range elem.Value {
			v, ok := value.(int32)
			if !ok {
				e.SetErrorf("%v: expected int32, found %v", dicomtag.DebugString(elem.Tag), value)
				continue
			}
			sube.WriteInt32(v)
		}
	case "SS":
		for _, value := range elem.Value {
			v, ok := value.(int16)
			if !ok {
				e.SetErrorf("%v: expected int16, found %v", dicomtag.DebugString(elem.Tag), value)
				continue
			}
			sube.WriteInt16(v)
		}
	case "FL":
		for _, value := range elem.Value {
			v, ok := value.(float32)
			if !ok {
				e.SetErrorf("%v: expected float32, found %v", dicomtag.DebugString(elem.Tag), value)
				continue
			}
			sube.WriteFloat32(v)
		}
	case "FD":
		for _, value := range elem.Value {
			v, ok := value.(float64)
			if !ok {
				e.SetErrorf("%v: expected float64, found %v", dicomtag.DebugString(elem.Tag), value)
				continue
			}
			sube.WriteFloat64(v)
		}
	case "OW", "OB", "OD", "OF", "OL", "UN":
		if len(elem.Value) != 1 {
			e.SetErrorf("%v: expected a single value, found %v", dicomtag.DebugString(elem.Tag), elem.Value)
			break
		}
		raw, ok := elem.Value[0].([]byte)
		if !ok {
			e.SetErrorf("%v: expected a byte string, found %v", dicomtag.DebugString(elem.Tag), elem.Value[0])
			break
		}
		if vr == "OW" {
			if len(raw)%2 != 0 {
				e.SetErrorf("%v: OW requires an even-length byte string, found length %v", dicomtag.DebugString(elem.Tag), len(raw))
				break
			}
			d := dicomio.NewBytesDecoder(raw, dicomio.NativeByteOrder, dicomio.UnknownVR)
			for i := 0; i < len(raw)/2; i++ {
				sube.WriteUInt16(d.ReadUInt16())
			}
			dicomio.DoAssert(d.Finish() == nil, d.Error())
		} else {
			sube.WriteBytes(raw)
			if len(raw)%2 == 1 {
				sube.WriteByte(0)
			}
		}
	case "UI":
		s := joinStringValues(elem)
		sube.WriteString(s)
		if len(s)%2 == 1 {
			sube.WriteByte(0)
		}
	default:
		s := joinStringValues(elem)
		sube.WriteString(s)
		if len(s)%2 == 1 {
			sube.WriteByte(dicomtag.PaddingByte(vr))
		}
	}

	if sube.Error() != nil {
		e.SetError(sube.Error())
		return
	}
	data := sube.Bytes()
	encodeElementHeader(e, elem.Tag, vr, uint32(len(data)))
	e.WriteBytes(data)
}

func joinStringValues(elem *Element) string {
	s := ""
	for i, value := range elem.Value {
		substr, ok := value.(string)
		if !ok {
			continue
		}
		if i > 0 {
			s += "\\"
		}
		s += substr
	}
	return s
}

// WriteDataSet writes ds to out in DICOM Part 10 format, complete with
// preamble and file-meta header. The transfer syntax (byte order, VR mode)
// is determined by (0002,0010) in ds.
func WriteDataSet(out io.Writer, ds *DataSet) error {
	e := dicomio.NewEncoder(out, nil, dicomio.UnknownVR)
	var metaElems []*Element
	for _, elem := range ds.Elements {
		if elem.Tag.Group == dicomtag.MetadataGroup {
			metaElems = append(metaElems, elem)
		}
	}
	WriteFileHeader(e, metaElems)
	if e.Error() != nil {
		return e.Error()
	}
	endian, implicit, err := getTransferSyntax(ds)
	if err != nil {
		return err
	}
	e.PushTransferSyntax(endian, implicit)
	for _, elem := range ds.Elements {
		if elem.Tag.Group != dicomtag.MetadataGroup {
			WriteElement(e, elem)
		}
	}
	e.PopTransferSyntax()
	return e.Error()
}

// WriteDataSetToFile writes ds to the named file, creating or truncating it.
func WriteDataSetToFile(path string, ds *DataSet) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDataSet(out, ds); err != nil {
		out.Close() // nolint: errcheck
		return err
	}
	return out.Close()
}
