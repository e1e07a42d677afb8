package pixel

import (
	dicom "github.com/wrenfield/dicomkit"
	"github.com/wrenfield/dicomkit/dicomtag"
)

// ModalityTransform is Stage 3: maps a raw sample to a modality value
// (e.g. CT Hounsfield units). Either a linear rescale (slope/intercept) or
// a lookup table supplied by ModalityLUTSequence; never both (PS3.3
// C.11.1).
type ModalityTransform struct {
	haveLUT   bool
	lut       lutTable
	slope     float64
	intercept float64
}

// BuildModalityTransform reads RescaleSlope/RescaleIntercept or
// ModalityLUTSequence from ds. If neither is present, the transform is the
// identity (slope 1, intercept 0) — plain-grayscale images without a
// modality LUT are common and not an error.
func BuildModalityTransform(ds *dicom.DataSet) (ModalityTransform, error) {
	if elem, err := ds.FindElementByTag(dicomtag.ModalityLUTSequence); err == nil {
		lut, err := parseLUTSequenceItem(elem)
		if err != nil {
			return ModalityTransform{}, err
		}
		return ModalityTransform{haveLUT: true, lut: lut}, nil
	}

	t := ModalityTransform{slope: 1, intercept: 0}
	if v, ok := getFloat64s(ds, dicomtag.RescaleSlope); ok && len(v) > 0 {
		t.slope = v[0]
	}
	if v, ok := getFloat64s(ds, dicomtag.RescaleIntercept); ok && len(v) > 0 {
		t.intercept = v[0]
	}
	return t, nil
}

// Apply maps one raw sample through the modality transform.
func (t ModalityTransform) Apply(raw int32) float64 {
	if t.haveLUT {
		return float64(t.lut.lookup(int(raw)))
	}
	return float64(raw)*t.slope + t.intercept
}

// lutTable is a general-purpose LUT descriptor + data table, shared by the
// modality LUT and the VOI LUT (PS3.3 C.11.1, C.11.2): NumEntries entries,
// the value at index 0 representing FirstMapped, BitsPerEntry wide.
type lutTable struct {
	firstMapped int
	numEntries  int
	data        []int
}

// lookup clamps x to the table's domain (values below FirstMapped map to
// entry 0, values at/above the last mapped value map to the last entry)
// and returns the mapped output.
func (t lutTable) lookup(x int) int {
	if len(t.data) == 0 {
		return x
	}
	idx := x - t.firstMapped
	if idx < 0 {
		idx = 0
	}
	if idx >= t.numEntries {
		idx = t.numEntries - 1
	}
	return t.data[idx]
}

func parseLUTSequenceItem(seqElem *dicom.Element) (lutTable, error) {
	if len(seqElem.Value) == 0 {
		return lutTable{}, &DescriptorError{Reason: "LUT sequence has no items"}
	}
	item, ok := seqElem.Value[0].(*dicom.Element)
	if !ok {
		return lutTable{}, &DescriptorError{Reason: "LUT sequence item malformed"}
	}

	var descElem, dataElem *dicom.Element
	for _, v := range item.Value {
		sub, ok := v.(*dicom.Element)
		if !ok {
			continue
		}
		switch sub.Tag {
		case dicomtag.LUTDescriptor:
			descElem = sub
		case dicomtag.LUTData:
			dataElem = sub
		}
	}
	if descElem == nil || dataElem == nil {
		return lutTable{}, &DescriptorError{Reason: "LUT item missing LUTDescriptor or LUTData"}
	}

	desc, err := descElem.GetUint16s()
	if err != nil || len(desc) < 3 {
		return lutTable{}, &DescriptorError{Reason: "malformed LUTDescriptor"}
	}
	numEntries := int(desc[0])
	if numEntries == 0 {
		numEntries = 65536
	}
	firstMapped := int(int16(desc[1]))

	values, err := dataElem.GetUint16s()
	if err != nil {
		return lutTable{}, &DescriptorError{Reason: "malformed LUTData"}
	}
	data := make([]int, len(values))
	for i, v := range values {
		data[i] = int(v)
	}

	return lutTable{firstMapped: firstMapped, numEntries: numEntries, data: data}, nil
}
