package pixel

import (
	"fmt"

	dicom "github.com/wrenfield/dicomkit"
	"github.com/wrenfield/dicomkit/dicomtag"
)

// RGB is one displayable, gamma-uncorrected color sample.
type RGB struct {
	R, G, B uint8
}

// PaletteLUT holds the three color LUTs for PALETTE COLOR images
// (PS3.3 C.7.6.3.1.6).
type PaletteLUT struct {
	Red, Green, Blue lutTable
}

// BuildPaletteLUT reads the Red/Green/BluePaletteColorLUTData elements
// from ds. Returns an error if PhotometricInterpretation is PALETTE COLOR
// but any of the three LUTs is missing.
func BuildPaletteLUT(ds *dicom.DataSet) (PaletteLUT, error) {
	red, err := paletteChannel(ds, dicomtag.RedPaletteColorLUTDescriptor, dicomtag.RedPaletteColorLUTData)
	if err != nil {
		return PaletteLUT{}, err
	}
	green, err := paletteChannel(ds, dicomtag.GreenPaletteColorLUTDescriptor, dicomtag.GreenPaletteColorLUTData)
	if err != nil {
		return PaletteLUT{}, err
	}
	blue, err := paletteChannel(ds, dicomtag.BluePaletteColorLUTDescriptor, dicomtag.BluePaletteColorLUTData)
	if err != nil {
		return PaletteLUT{}, err
	}
	return PaletteLUT{Red: red, Green: green, Blue: blue}, nil
}

func paletteChannel(ds *dicom.DataSet, descTag, dataTag dicomtag.Tag) (lutTable, error) {
	descElem, err := ds.FindElementByTag(descTag)
	if err != nil {
		return lutTable{}, &DescriptorError{Reason: "PALETTE COLOR image missing a LUT descriptor"}
	}
	dataElem, err := ds.FindElementByTag(dataTag)
	if err != nil {
		return lutTable{}, &DescriptorError{Reason: "PALETTE COLOR image missing LUT data"}
	}
	desc, err := descElem.GetUint16s()
	if err != nil || len(desc) < 3 {
		return lutTable{}, &DescriptorError{Reason: "malformed palette LUT descriptor"}
	}
	numEntries := int(desc[0])
	if numEntries == 0 {
		numEntries = 65536
	}
	firstMapped := int(int16(desc[1]))

	values, err := dataElem.GetUint16s()
	if err != nil {
		return lutTable{}, &DescriptorError{Reason: "malformed palette LUT data"}
	}
	data := make([]int, len(values))
	for i, v := range values {
		data[i] = int(v)
	}
	return lutTable{firstMapped: firstMapped, numEntries: numEntries, data: data}, nil
}

func (p PaletteLUT) apply(index int) RGB {
	scale := func(v int) uint8 {
		// Palette LUT entries are conventionally 16-bit regardless of
		// declared bit depth; fold down to 8-bit output.
		return uint8(v >> 8)
	}
	return RGB{
		R: scale(p.Red.lookup(index)),
		G: scale(p.Green.lookup(index)),
		B: scale(p.Blue.lookup(index)),
	}
}

// ToDisplayRGB is Stage 5: maps Stage 2's unpacked samples (after Stage 3/4
// have already been applied to grayscale values, where applicable) to a
// Rows*Columns slice of displayable RGB pixels, honoring
// PhotometricInterpretation and PlanarConfiguration.
//
// gray must already be in display range (post-VOI) for MONOCHROME1/2; for
// RGB/YBR/PALETTE COLOR images, raw is the Stage 2 sample slice (pre-VOI,
// since VOI windowing does not apply to color images) and gray is ignored.
func ToDisplayRGB(d Descriptor, raw []int32, gray []float64, palette *PaletteLUT) ([]RGB, error) {
	switch d.PhotometricInterpretation {
	case "MONOCHROME1", "MONOCHROME2":
		return monochromeToRGB(d, gray), nil
	case "RGB":
		return samplesToRGB(d, raw, nil), nil
	case "YBR_FULL", "YBR_FULL_422", "YBR_PARTIAL_422":
		return samplesToRGB(d, raw, ybrToRGB), nil
	case "PALETTE COLOR":
		if palette == nil {
			return nil, &DescriptorError{Reason: "PALETTE COLOR image requires a PaletteLUT"}
		}
		out := make([]RGB, len(raw))
		for i, v := range raw {
			out[i] = palette.apply(int(v))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("pixel: unsupported PhotometricInterpretation %q", d.PhotometricInterpretation)
	}
}

// monochromeToRGB replicates the (already-windowed) gray level across all
// three channels. MONOCHROME1 inverts at the descriptor/VOI boundary, not
// here: callers pass gray values already in display polarity (spec.md
// 4.E Stage 5 treats MONOCHROME1 as "minimum is white", so invert before
// calling this — see InvertIfMonochrome1).
func monochromeToRGB(d Descriptor, gray []float64) []RGB {
	out := make([]RGB, len(gray))
	for i, v := range gray {
		g := clampByte(v)
		out[i] = RGB{R: g, G: g, B: g}
	}
	return out
}

// InvertIfMonochrome1 flips a display-range ([0, outMax]) grayscale value
// when the image's PhotometricInterpretation is MONOCHROME1, where a
// minimum sample value displays as white. outMax must be the same value
// passed to BuildVOITransform, so the inversion happens about the range the
// VOI transform actually produced rather than a fixed 8-bit assumption.
func InvertIfMonochrome1(d Descriptor, v, outMax float64) float64 {
	if d.PhotometricInterpretation == "MONOCHROME1" {
		return outMax - v
	}
	return v
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// samplesToRGB gathers 3-sample-per-pixel data, honoring
// PlanarConfiguration, and applies an optional per-pixel colorspace
// conversion (e.g. YBR->RGB).
func samplesToRGB(d Descriptor, raw []int32, convert func(y, cb, cr int32) RGB) []RGB {
	n := d.Rows * d.Columns
	out := make([]RGB, n)

	get := func(pixel, channel int) int32 {
		if d.PlanarConfiguration == 1 {
			return raw[channel*n+pixel]
		}
		return raw[pixel*3+channel]
	}

	for i := 0; i < n; i++ {
		a, b, c := get(i, 0), get(i, 1), get(i, 2)
		if convert != nil {
			out[i] = convert(a, b, c)
		} else {
			out[i] = RGB{R: uint8(a), G: uint8(b), B: uint8(c)}
		}
	}
	return out
}

// ybrToRGB converts one YCbCr sample to RGB using the ITU-R BT.601
// full-range coefficients DICOM specifies for YBR_FULL (PS3.3 C.7.6.3.1.2).
// YBR_FULL_422 and YBR_PARTIAL_422 are expected to already be upsampled to
// full chroma resolution (one Cb/Cr pair per pixel) before reaching here.
func ybrToRGB(y, cb, cr int32) RGB {
	yf := float64(y)
	cbf := float64(cb) - 128
	crf := float64(cr) - 128

	r := yf + 1.402*crf
	g := yf - 0.344136*cbf - 0.714136*crf
	b := yf + 1.772*cbf

	return RGB{R: clampByte(r), G: clampByte(g), B: clampByte(b)}
}
