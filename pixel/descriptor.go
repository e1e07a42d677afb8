// Package pixel implements the pixel data pipeline: descriptor extraction,
// frame slicing, modality LUT, VOI LUT / windowing, and the photometric
// mapping to a displayable raster (spec.md component 4.E).
package pixel

import (
	"fmt"

	dicom "github.com/wrenfield/dicomkit"
	"github.com/wrenfield/dicomkit/dicomtag"
)

// Descriptor is the Stage 0 output: the mandatory fields every later stage
// needs, extracted once and validated for internal consistency.
type Descriptor struct {
	Rows, Columns        int
	SamplesPerPixel      int
	PhotometricInterpretation string
	PlanarConfiguration  int // 0 = interleaved, 1 = planar
	BitsAllocated        int
	BitsStored           int
	HighBit              int
	PixelRepresentation  int // 0 = unsigned, 1 = two's complement signed
	NumberOfFrames       int
	PixelSpacingMM       [2]float64 // [row spacing, column spacing]; zero if absent
}

// BytesPerSample returns the storage width of one sample in bytes.
func (d Descriptor) BytesPerSample() int {
	return (d.BitsAllocated + 7) / 8
}

// SamplesPerFrame returns the number of samples (not bytes) in one frame.
func (d Descriptor) SamplesPerFrame() int {
	return d.Rows * d.Columns * d.SamplesPerPixel
}

func getUint16(ds *dicom.DataSet, tag dicomtag.Tag) (uint16, bool) {
	elem, err := ds.FindElementByTag(tag)
	if err != nil {
		return 0, false
	}
	v, err := elem.GetUInt16()
	if err != nil {
		return 0, false
	}
	return v, true
}

func getString(ds *dicom.DataSet, tag dicomtag.Tag) (string, bool) {
	elem, err := ds.FindElementByTag(tag)
	if err != nil {
		return "", false
	}
	v, err := elem.GetString()
	if err != nil {
		return "", false
	}
	return v, true
}

func getFloat64s(ds *dicom.DataSet, tag dicomtag.Tag) ([]float64, bool) {
	elem, err := ds.FindElementByTag(tag)
	if err != nil {
		return nil, false
	}
	v, err := elem.GetFloat64s()
	if err != nil {
		return nil, false
	}
	return v, true
}

// ExtractDescriptor reads and validates the mandatory pixel descriptor
// fields from ds (spec.md 4.E Stage 0). Returns a *DescriptorError
// if a mandatory field is missing or the fields are mutually inconsistent
// (e.g. HighBit >= BitsAllocated).
func ExtractDescriptor(ds *dicom.DataSet) (Descriptor, error) {
	var d Descriptor
	var missing []string

	req := func(tag dicomtag.Tag, name string, dst *int) {
		v, ok := getUint16(ds, tag)
		if !ok {
			missing = append(missing, name)
			return
		}
		*dst = int(v)
	}

	req(dicomtag.Rows, "Rows", &d.Rows)
	req(dicomtag.Columns, "Columns", &d.Columns)
	req(dicomtag.BitsAllocated, "BitsAllocated", &d.BitsAllocated)
	req(dicomtag.BitsStored, "BitsStored", &d.BitsStored)
	req(dicomtag.HighBit, "HighBit", &d.HighBit)
	req(dicomtag.PixelRepresentation, "PixelRepresentation", &d.PixelRepresentation)

	if v, ok := getUint16(ds, dicomtag.SamplesPerPixel); ok {
		d.SamplesPerPixel = int(v)
	} else {
		d.SamplesPerPixel = 1
	}
	if v, ok := getUint16(ds, dicomtag.PlanarConfiguration); ok {
		d.PlanarConfiguration = int(v)
	}
	if v, ok := getString(ds, dicomtag.PhotometricInterpretation); ok {
		d.PhotometricInterpretation = v
	} else {
		missing = append(missing, "PhotometricInterpretation")
	}
	if elem, err := ds.FindElementByTag(dicomtag.NumberOfFrames); err == nil {
		if s, err := elem.GetString(); err == nil {
			var n int
			if _, err := fmt.Sscanf(s, "%d", &n); err == nil {
				d.NumberOfFrames = n
			}
		}
	}
	if d.NumberOfFrames == 0 {
		d.NumberOfFrames = 1
	}
	if spacing, ok := getFloat64s(ds, dicomtag.PixelSpacing); ok && len(spacing) >= 2 {
		d.PixelSpacingMM[0] = spacing[0]
		d.PixelSpacingMM[1] = spacing[1]
	}

	if len(missing) > 0 {
		return Descriptor{}, &DescriptorError{Reason: fmt.Sprintf("missing mandatory tag(s): %v", missing)}
	}
	if d.HighBit >= d.BitsAllocated {
		return Descriptor{}, &DescriptorError{Reason: fmt.Sprintf("HighBit (%d) must be < BitsAllocated (%d)", d.HighBit, d.BitsAllocated)}
	}
	if d.BitsStored > d.BitsAllocated {
		return Descriptor{}, &DescriptorError{Reason: fmt.Sprintf("BitsStored (%d) must be <= BitsAllocated (%d)", d.BitsStored, d.BitsAllocated)}
	}
	if d.Rows == 0 || d.Columns == 0 {
		return Descriptor{}, &DescriptorError{Reason: "Rows and Columns must be non-zero"}
	}
	if d.SamplesPerPixel == 0 {
		return Descriptor{}, &DescriptorError{Reason: "SamplesPerPixel must be non-zero"}
	}

	return d, nil
}
