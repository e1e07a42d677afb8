package dicomio_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfield/dicomkit/dicomio"
)

func TestEncoderDecoderRoundTrip(t *testing.T) {
	e := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	e.WriteUInt16(0x1234)
	e.WriteUInt32(0xdeadbeef)
	e.WriteString("HELLO")
	require.NoError(t, e.Error())

	d := dicomio.NewBytesDecoder(e.Bytes(), binary.LittleEndian, dicomio.ExplicitVR)
	assert.Equal(t, uint16(0x1234), d.ReadUInt16())
	assert.Equal(t, uint32(0xdeadbeef), d.ReadUInt32())
	assert.Equal(t, "HELLO", d.ReadString(5))
	require.NoError(t, d.Finish())
}

func TestDecoderReadBytesShortfallSetsError(t *testing.T) {
	d := dicomio.NewBytesDecoder([]byte{1, 2}, binary.LittleEndian, dicomio.ExplicitVR)
	got := d.ReadBytes(5)
	assert.Nil(t, got)
	assert.Error(t, d.Error())
}

func TestPushPopLimitSkipsUnconsumedBytes(t *testing.T) {
	d := dicomio.NewBytesDecoder([]byte{1, 2, 3, 4, 5}, binary.LittleEndian, dicomio.ExplicitVR)
	d.PushLimit(3)
	assert.Equal(t, byte(1), d.ReadByte()) // only consume one of the three bytes
	d.PopLimit()
	assert.Equal(t, byte(4), d.ReadByte()) // cursor skipped past the other two
	require.NoError(t, d.Error())
}

func TestPushPopTransferSyntax(t *testing.T) {
	d := dicomio.NewBytesDecoder(nil, binary.LittleEndian, dicomio.ExplicitVR)
	d.PushTransferSyntax(binary.BigEndian, dicomio.ImplicitVR)
	order, implicit := d.TransferSyntax()
	assert.Equal(t, binary.BigEndian, order)
	assert.Equal(t, dicomio.ImplicitVR, implicit)

	d.PopTransferSyntax()
	order, implicit = d.TransferSyntax()
	assert.Equal(t, binary.LittleEndian, order)
	assert.Equal(t, dicomio.ExplicitVR, implicit)
}

func TestEncoderBytesPanicsOnStickyError(t *testing.T) {
	e := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	e.SetErrorf("boom")
	assert.Panics(t, func() { e.Bytes() })
}

func TestDecoderEOF(t *testing.T) {
	d := dicomio.NewBytesDecoder([]byte{1}, binary.LittleEndian, dicomio.ExplicitVR)
	assert.False(t, d.EOF())
	_ = d.ReadByte()
	assert.True(t, d.EOF())
}
