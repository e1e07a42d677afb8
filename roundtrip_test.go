package dicom_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	dicom "github.com/wrenfield/dicomkit"
	"github.com/wrenfield/dicomkit/dicomtag"
	"github.com/wrenfield/dicomkit/dicomuid"
)

// TestRoundTripParseWriteParse builds a data set in memory, serializes it,
// re-parses the serialized bytes, and checks that PatientName's value is
// unchanged (via cmp.Diff) and that Rows reads back as 4. This exercises the writer and parser against
// each other rather than against a fixture file.
func TestRoundTripParseWriteParse(t *testing.T) {
	ds := &dicom.DataSet{Elements: []*dicom.Element{
		dicom.MustNewElement(dicomtag.MediaStorageSOPClassUID, dicomuid.CTImageStorage),
		dicom.MustNewElement(dicomtag.MediaStorageSOPInstanceUID, "1.2.3.4.5"),
		dicom.MustNewElement(dicomtag.TransferSyntaxUID, dicomuid.ExplicitVRLittleEndian),
		dicom.MustNewElement(dicomtag.PatientName, "Doe^Jane"),
		dicom.MustNewElement(dicomtag.PatientID, "MRN001"),
		dicom.MustNewElement(dicomtag.Rows, uint16(4)),
		dicom.MustNewElement(dicomtag.Columns, uint16(4)),
	}}

	var buf bytes.Buffer
	require.NoError(t, dicom.WriteDataSet(&buf, ds))

	reparsed, err := dicom.Parse(buf.Bytes(), dicom.ReadOptions{})
	require.NoError(t, err)

	original, err := dicom.FindElementByTag(ds.Elements, dicomtag.PatientName)
	require.NoError(t, err)
	roundTripped, err := reparsed.FindElementByTag(dicomtag.PatientName)
	require.NoError(t, err)

	diff := cmp.Diff(original.Value, roundTripped.Value, cmpopts.EquateEmpty())
	require.Empty(t, diff, "PatientName value changed across the round trip")

	rows, err := reparsed.FindElementByTag(dicomtag.Rows)
	require.NoError(t, err)
	v, err := rows.GetUInt16()
	require.NoError(t, err)
	require.Equal(t, uint16(4), v)
}
