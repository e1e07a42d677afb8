package dicom_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfield/dicomkit/dicomio"
	"github.com/wrenfield/dicomkit/dicomtag"
	"github.com/wrenfield/dicomkit/dicomuid"

	dicom "github.com/wrenfield/dicomkit"
)

// buildMinimalFile assembles a 132-byte-plus Part 10 stream: preamble,
// DICM magic, a minimal file-meta group (Explicit VR LE), and a main data
// set (Implicit VR LE) carrying just PatientName.
func buildMinimalFile(t *testing.T, patientName string) []byte {
	t.Helper()

	meta := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	metaElems := []*dicom.Element{
		dicom.MustNewElement(dicomtag.MediaStorageSOPClassUID, dicomuid.CTImageStorage),
		dicom.MustNewElement(dicomtag.MediaStorageSOPInstanceUID, "1.2.3.4.5"),
		dicom.MustNewElement(dicomtag.TransferSyntaxUID, dicomuid.ImplicitVRLittleEndian),
	}
	for _, e := range metaElems {
		dicom.WriteElement(meta, e)
	}
	require.NoError(t, meta.Error())

	var buf bytes.Buffer
	buf.Write(make([]byte, 128))
	buf.WriteString("DICM")

	groupLenEnc := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	dicom.WriteElement(groupLenEnc, dicom.MustNewElement(dicomtag.FileMetaInformationGroupLength, uint32(len(meta.Bytes()))))
	buf.Write(groupLenEnc.Bytes())
	buf.Write(meta.Bytes())

	main := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ImplicitVR)
	dicom.WriteElement(main, dicom.MustNewElement(dicomtag.PatientName, patientName))
	require.NoError(t, main.Error())
	buf.Write(main.Bytes())

	return buf.Bytes()
}

func TestParseMinimalFile(t *testing.T) {
	data := buildMinimalFile(t, "Doe^John")

	ds, err := dicom.Parse(data, dicom.ReadOptions{})
	require.NoError(t, err)

	elem, err := ds.FindElementByTag(dicomtag.PatientName)
	require.NoError(t, err)
	name, err := elem.GetString()
	require.NoError(t, err)
	assert.Equal(t, "Doe^John", name)
}

func TestParseRejectsMissingPreambleWithoutForce(t *testing.T) {
	data := buildMinimalFile(t, "Doe^John")[4:] // corrupt the preamble/magic

	_, err := dicom.Parse(data, dicom.ReadOptions{Force: false})
	require.Error(t, err)
}

func TestParseTolerantModeRecoversMissingHeader(t *testing.T) {
	main := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ImplicitVR)
	dicom.WriteElement(main, dicom.MustNewElement(dicomtag.PatientName, "Roe^Jane"))
	require.NoError(t, main.Error())

	ds, err := dicom.Parse(main.Bytes(), dicom.ReadOptions{Force: true})
	require.NoError(t, err)

	elem, err := ds.FindElementByTag(dicomtag.PatientName)
	require.NoError(t, err)
	name, err := elem.GetString()
	require.NoError(t, err)
	assert.Equal(t, "Roe^Jane", name)
}

func TestReadOptionsDropPixelData(t *testing.T) {
	data := buildMinimalFile(t, "Doe^John")
	ds, err := dicom.Parse(data, dicom.ReadOptions{DropPixelData: true})
	require.NoError(t, err)
	_, err = ds.FindElementByTag(dicomtag.PixelData)
	require.Error(t, err)
}

func TestReadOptionsReturnTags(t *testing.T) {
	data := buildMinimalFile(t, "Doe^John")
	ds, err := dicom.Parse(data, dicom.ReadOptions{ReturnTags: []dicomtag.Tag{dicomtag.TransferSyntaxUID}})
	require.NoError(t, err)
	_, err = ds.FindElementByTag(dicomtag.TransferSyntaxUID)
	require.NoError(t, err)
	_, err = ds.FindElementByTag(dicomtag.PatientName)
	require.Error(t, err)
}

func TestSequenceWithOneItem(t *testing.T) {
	item, err := dicom.NewElement(dicomtag.Item,
		dicom.MustNewElement(dicomtag.ReferencedSOPClassUID, dicomuid.CTImageStorage),
		dicom.MustNewElement(dicomtag.ReferencedSOPInstanceUID, "1.2.3"),
	)
	require.NoError(t, err)

	seq, err := dicom.NewElement(dicomtag.ReferencedStudySequence, item)
	require.NoError(t, err)

	require.Len(t, seq.Value, 1)
	sub, ok := seq.Value[0].(*dicom.Element)
	require.True(t, ok)
	require.Len(t, sub.Value, 2)
}

func TestTagOrderingInvariant(t *testing.T) {
	tags := []dicomtag.Tag{
		dicomtag.FileMetaInformationGroupLength,
		dicomtag.TransferSyntaxUID,
		{Group: 0x0010, Element: 0x0010},
		{Group: 0x0010, Element: 0x0020},
	}
	for i := 1; i < len(tags); i++ {
		assert.True(t, tags[i-1].Less(tags[i]), "tags must be strictly ascending: %v >= %v", tags[i-1], tags[i])
	}
}
