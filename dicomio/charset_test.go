package dicomio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfield/dicomkit/dicomio"
)

func TestParseSpecificCharacterSetEmpty(t *testing.T) {
	cs, err := dicomio.ParseSpecificCharacterSet(nil)
	require.NoError(t, err)
	assert.Nil(t, cs.Alphabetic)
	assert.Nil(t, cs.Ideographic)
	assert.Nil(t, cs.Phonetic)
}

func TestParseSpecificCharacterSetSingleLatin1(t *testing.T) {
	cs, err := dicomio.ParseSpecificCharacterSet([]string{"ISO_IR 100"})
	require.NoError(t, err)
	require.NotNil(t, cs.Ideographic)
	// Latin-1 0xE9 decodes to U+00E9 (é).
	out, err := cs.Ideographic.Bytes([]byte{0xE9})
	require.NoError(t, err)
	assert.Equal(t, "é", string(out))
}

func TestParseSpecificCharacterSetTwoComponents(t *testing.T) {
	// Default (ASCII) alphabetic component, Shift-JIS ideographic/phonetic.
	cs, err := dicomio.ParseSpecificCharacterSet([]string{"", "ISO 2022 IR 13"})
	require.NoError(t, err)
	assert.Nil(t, cs.Alphabetic)
	require.NotNil(t, cs.Ideographic)
	require.NotNil(t, cs.Phonetic)
}

func TestParseSpecificCharacterSetUnknown(t *testing.T) {
	_, err := dicomio.ParseSpecificCharacterSet([]string{"NOT A REAL CHARSET"})
	assert.Error(t, err)
}

func TestParseSpecificCharacterSetISO2022JapaneseEscapes(t *testing.T) {
	cs, err := dicomio.ParseSpecificCharacterSet([]string{"ISO 2022 IR 87"})
	require.NoError(t, err)
	require.NotNil(t, cs.Ideographic)
}
