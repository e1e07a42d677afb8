package pixel

import (
	dicom "github.com/wrenfield/dicomkit"
)

// RenderOptions customizes how Render maps one frame to display pixels.
type RenderOptions struct {
	// TransferSyntaxUID is required: it determines the PixelData framing
	// (raw vs. encapsulated) and, for encapsulated data, which
	// FrameDecoder is consulted.
	TransferSyntaxUID string

	// Window overrides the VOI transform's (center, width). Nil means
	// "use whatever the data set declares" (VOILUTSequence, then
	// WindowCenter/WindowWidth).
	Window *Window

	// OutMin/OutMax set the VOI transform's output range. Both zero
	// means [0, 255], the common 8-bit display range.
	OutMin, OutMax float64

	// BigEndian selects the byte order used to unpack native PixelData
	// samples (Stage 2). Explicit VR Big Endian is the only standard
	// transfer syntax this applies to; everything else is little-endian.
	BigEndian bool
}

// Frame is one rendered, displayable frame: Rows*Columns RGB pixels plus
// the descriptor it was rendered from.
type Frame struct {
	Descriptor Descriptor
	Pixels     []RGB
}

// Render runs the full pixel pipeline (Stages 0-5) for frame index of ds
// and returns a displayable RGB raster. Grayscale images (MONOCHROME1/2)
// are windowed through the modality and VOI transforms and replicated
// across channels; RGB/YBR/PALETTE COLOR images skip modality/VOI
// (PS3.3 C.11.1 applies only to grayscale) and are mapped directly.
func Render(ds *dicom.DataSet, index int, opts RenderOptions) (*Frame, error) {
	desc, err := ExtractDescriptor(ds)
	if err != nil {
		return nil, err
	}

	raw, err := ExtractFrame(ds, desc, opts.TransferSyntaxUID, index)
	if err != nil {
		return nil, err
	}
	samples := UnpackSamples(desc, raw, opts.BigEndian)

	if desc.PhotometricInterpretation == "MONOCHROME1" || desc.PhotometricInterpretation == "MONOCHROME2" {
		outMin, outMax := opts.OutMin, opts.OutMax
		if outMin == 0 && outMax == 0 {
			outMax = 255
		}

		modality, err := BuildModalityTransform(ds)
		if err != nil {
			return nil, err
		}
		voi, err := BuildVOITransform(ds, opts.Window, outMin, outMax)
		if err != nil {
			return nil, err
		}

		gray := make([]float64, len(samples))
		for i, s := range samples {
			gray[i] = InvertIfMonochrome1(desc, voi.Apply(modality.Apply(s)), outMax)
		}

		pixels, err := ToDisplayRGB(desc, samples, gray, nil)
		if err != nil {
			return nil, err
		}
		return &Frame{Descriptor: desc, Pixels: pixels}, nil
	}

	var palette *PaletteLUT
	if desc.PhotometricInterpretation == "PALETTE COLOR" {
		p, err := BuildPaletteLUT(ds)
		if err != nil {
			return nil, err
		}
		palette = &p
	}

	pixels, err := ToDisplayRGB(desc, samples, nil, palette)
	if err != nil {
		return nil, err
	}
	return &Frame{Descriptor: desc, Pixels: pixels}, nil
}
