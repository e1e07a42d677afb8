package dicomtag

import "fmt"

// PrivateBlockEntry is one dictionary entry within a private creator's
// block, keyed by the low byte of the element (0x00-0xFF).
type PrivateBlockEntry struct {
	Offset byte
	VR     string
	Name   string
	VM     string
}

// privateDictionary maps a private creator string (the value of the
// (gggg,0010-00FF) private-creator element) to its block entries.
// Registration happens once at startup, mirroring the read-only tag/VR
// registries (spec.md section 5: "registration is not permitted after the
// first parse").
var privateDictionary = map[string][]PrivateBlockEntry{}
var privateRegistered bool

// RegisterPrivateDictionary adds entries for a private creator. It must be
// called before any Parse call; calling it afterwards panics, matching the
// pixel codec registry's one-shot registration contract.
func RegisterPrivateDictionary(creator string, entries []PrivateBlockEntry) {
	if privateRegistered {
		panic("dicomtag: RegisterPrivateDictionary called after FreezePrivateDictionary")
	}
	privateDictionary[creator] = append(privateDictionary[creator], entries...)
}

// FreezePrivateDictionary locks the private dictionary against further
// registration. Parse calls this on first use; it is idempotent.
func FreezePrivateDictionary() { privateRegistered = true }

// PrivateBlockNumber extracts the block number (0x10-0xFF) encoded in a
// private-creator tag's element field.
func (t Tag) PrivateBlockNumber() (byte, bool) {
	if !t.IsPrivateCreator() {
		return 0, false
	}
	return byte(t.Element), true
}

// FindPrivate resolves a private (odd-group) data element's dictionary
// entry given the private-creator string read from the corresponding
// (gggg,0010-00FF) element in the same data set (spec.md 4.A, 9: "two-pass
// access"). The element nibble layout is: high byte (0x10-0xFF) selects
// the creator's block, low byte selects the entry within that block.
func FindPrivate(creator string, tag Tag) (TagInfo, error) {
	if !tag.IsPrivate() || tag.IsPrivateCreator() {
		return TagInfo{}, fmt.Errorf("dicomtag: %v is not a private data element", tag)
	}
	block, ok := privateDictionary[creator]
	if !ok {
		return TagInfo{}, fmt.Errorf("dicomtag: unknown private creator %q", creator)
	}
	offset := byte(tag.Element & 0x00FF)
	for _, e := range block {
		if e.Offset == offset {
			return TagInfo{Tag: tag, VR: e.VR, Name: fmt.Sprintf("%s.%s", creator, e.Name), VM: e.VM}, nil
		}
	}
	return TagInfo{}, fmt.Errorf("dicomtag: no entry for %v in private creator %q", tag, creator)
}

// PrivateCreatorTag returns the private-creator tag that governs the given
// private data element: same group, element = high byte of the data
// element's own element field (the block number), e.g. (0041,1001)'s
// creator lives at (0041,0010).
func PrivateCreatorTag(dataElement Tag) (Tag, bool) {
	if !dataElement.IsPrivate() || dataElement.IsPrivateCreator() {
		return Tag{}, false
	}
	block := byte(dataElement.Element >> 8)
	if block < 0x10 {
		return Tag{}, false
	}
	return Tag{Group: dataElement.Group, Element: uint16(block)}, true
}
