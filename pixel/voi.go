package pixel

import (
	"math"

	dicom "github.com/wrenfield/dicomkit"
	"github.com/wrenfield/dicomkit/dicomtag"
)

// VOIFunction selects the windowing formula (PS3.3 C.11.2.1.2).
type VOIFunction int

const (
	// VOILinear is the default when VOILUTFunction is absent.
	VOILinear VOIFunction = iota
	VOISigmoid
)

// Window is an explicit (center, width) pair, overriding whatever the data
// set itself declares.
type Window struct {
	Center, Width float64
}

// VOITransform is Stage 4: maps a modality-domain value to a display-domain
// value. Built from an explicit Window, a VOI LUT table, or the data set's
// WindowCenter/WindowWidth, in that order of precedence. Window-based
// transforms produce values in [outMin, outMax]; a LUT-based transform
// returns the LUT entry itself, not rescaled to that range.
type VOITransform struct {
	haveLUT  bool
	lut      lutTable
	haveWin  bool
	window   Window
	function VOIFunction
	outMin   float64
	outMax   float64
}

// BuildVOITransform resolves the VOI transform for ds. override, if
// non-nil, takes precedence over both VOILUTSequence and
// WindowCenter/WindowWidth. Otherwise VOILUTSequence wins over
// WindowCenter/WindowWidth when both are present, matching how most
// viewers resolve the conflict PS3.3 leaves open. outMin/outMax set the
// display range (e.g. 0, 255 for 8-bit output).
//
// Returns ErrMissingWindow if override is nil and the data set supplies
// neither a VOI LUT nor WindowCenter/WindowWidth — callers that want a
// default windowing behavior must compute and pass one explicitly.
func BuildVOITransform(ds *dicom.DataSet, override *Window, outMin, outMax float64) (VOITransform, error) {
	t := VOITransform{outMin: outMin, outMax: outMax}

	if override != nil {
		t.haveWin = true
		t.window = *override
		t.function = voiFunctionOf(ds)
		return t, nil
	}

	if elem, err := ds.FindElementByTag(dicomtag.VOILUTSequence); err == nil {
		lut, err := parseLUTSequenceItem(elem)
		if err != nil {
			return VOITransform{}, err
		}
		t.haveLUT = true
		t.lut = lut
		return t, nil
	}

	if v, ok := getFloat64s(ds, dicomtag.WindowCenter); ok && len(v) > 0 {
		if w, ok := getFloat64s(ds, dicomtag.WindowWidth); ok && len(w) > 0 {
			t.haveWin = true
			t.window = Window{Center: v[0], Width: w[0]}
			t.function = voiFunctionOf(ds)
			return t, nil
		}
	}

	return VOITransform{}, ErrMissingWindow
}

func voiFunctionOf(ds *dicom.DataSet) VOIFunction {
	if v, ok := getString(ds, dicomtag.VOILUTFunction); ok && v == "SIGMOID" {
		return VOISigmoid
	}
	return VOILinear
}

// Apply maps one modality-domain value x to [outMin, outMax] under a
// window, or to the unscaled table entry under a VOI LUT.
func (t VOITransform) Apply(x float64) float64 {
	if t.haveLUT {
		return float64(t.lut.lookup(int(x)))
	}

	c, w := t.window.Center, t.window.Width
	if w <= 0 {
		w = 1
	}
	ymin, ymax := t.outMin, t.outMax

	switch t.function {
	case VOISigmoid:
		return (ymax-ymin)/(1+math.Exp(-4*(x-c)/w)) + ymin
	default: // VOILinear, PS3.3 C.11.2.1.2.1
		low := c - 0.5 - (w-1)/2
		high := c - 0.5 + (w-1)/2
		switch {
		case x <= low:
			return ymin
		case x > high:
			return ymax
		default:
			return ((x-(c-0.5))/(w-1)+0.5)*(ymax-ymin) + ymin
		}
	}
}
