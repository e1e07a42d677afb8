package dicom

import (
	"fmt"

	"github.com/wrenfield/dicomkit/dicomtag"
)

// DataSet is a parsed DICOM object: the file-meta elements (group 0002)
// together with the main data set, in the order they were read. Elements
// within a DataSet, and within any nested Item, are required to be in
// strictly ascending (group, element) order (spec.md section 3); Parse
// preserves whatever order the input had, it does not sort.
type DataSet struct {
	Elements []*Element
}

// CancelToken lets a caller abort a long parse. It is checked before each
// top-level element of the stream; elements nested inside sequences are
// read without checking it, and the pixel package does not check it. A nil
// token (the zero value) never cancels.
type CancelToken struct {
	C <-chan struct{}
}

// Cancelled reports whether the token's channel has fired.
func (c CancelToken) Cancelled() bool {
	if c.C == nil {
		return false
	}
	select {
	case <-c.C:
		return true
	default:
		return false
	}
}

// ReadOptions controls how ReadDataSet and Parse read a stream.
type ReadOptions struct {
	// DropPixelData stops reading when the PixelData tag is reached:
	// neither PixelData nor any element after it is returned.
	DropPixelData bool

	// ReturnTags, if non-nil, restricts the returned main-data-set
	// elements to this allow-list. File-meta elements are always kept.
	ReturnTags []dicomtag.Tag

	// StopAtTag halts main-data-set reading once a tag at or past this
	// value is encountered (the triggering element itself is not
	// returned).
	StopAtTag *dicomtag.Tag

	// Force enables tolerant-mode parsing: in Parse, a missing
	// preamble/DICM magic is not an error (Parse falls back to Implicit VR
	// Little Endian at offset 0), and an unrecognized explicit VR is downgraded
	// to UN rather than aborting the parse.
	Force bool

	// Cancel, if set, is checked before each top-level element (not
	// inside sequences); once it fires, ReadDataSet and Parse return a
	// Cancelled error. Rendering does not consult it.
	Cancel CancelToken
}

// FindElementByName finds an element from the data set given its
// dictionary keyword, e.g. "PatientName".
func (f *DataSet) FindElementByName(name string) (*Element, error) {
	return FindElementByName(f.Elements, name)
}

// FindElementByTag finds an element from the data set given its tag, such
// as dicomtag.Tag{Group: 0x0010, Element: 0x0010}.
func (f *DataSet) FindElementByTag(tag dicomtag.Tag) (*Element, error) {
	return FindElementByTag(f.Elements, tag)
}

// TransferSyntaxUID returns the value of (0002,0010), or an error if it is
// absent.
func (f *DataSet) TransferSyntaxUID() (string, error) {
	elem, err := f.FindElementByTag(dicomtag.TransferSyntaxUID)
	if err != nil {
		return "", err
	}
	return elem.GetString()
}

// FindPrivateElement resolves a private (odd-group) data element by first
// reading its governing private-creator string from the same data set,
// then consulting the registered private dictionary (spec.md 9: two-pass
// private-tag resolution).
func (f *DataSet) FindPrivateElement(tag dicomtag.Tag) (dicomtag.TagInfo, error) {
	creatorTag, ok := dicomtag.PrivateCreatorTag(tag)
	if !ok {
		return dicomtag.TagInfo{}, fmt.Errorf("dicom: %v is not a resolvable private data element", tag)
	}
	creatorElem, err := f.FindElementByTag(creatorTag)
	if err != nil {
		return dicomtag.TagInfo{}, fmt.Errorf("dicom: private creator element %v not found: %w", creatorTag, err)
	}
	creator, err := creatorElem.GetString()
	if err != nil {
		return dicomtag.TagInfo{}, err
	}
	return dicomtag.FindPrivate(creator, tag)
}

func tagInList(tag dicomtag.Tag, tags []dicomtag.Tag) bool {
	for _, t := range tags {
		if tag == t {
			return true
		}
	}
	return false
}

// FindElementByName finds an element with the given dictionary keyword in
// elems. Returns an error if not found.
func FindElementByName(elems []*Element, name string) (*Element, error) {
	t, err := dicomtag.FindByName(name)
	if err != nil {
		return nil, err
	}
	for _, elem := range elems {
		if elem.Tag == t.Tag {
			return elem, nil
		}
	}
	return nil, fmt.Errorf("dicom: no element named %q in data set", name)
}

// FindElementByTag finds an element with the given tag in elems. Returns an
// error if not found.
func FindElementByTag(elems []*Element, tag dicomtag.Tag) (*Element, error) {
	for _, elem := range elems {
		if elem.Tag == tag {
			return elem, nil
		}
	}
	return nil, fmt.Errorf("%s: element not found", dicomtag.DebugString(tag))
}
