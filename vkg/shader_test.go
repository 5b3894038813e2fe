package vkg

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spirvHeader(magic uint32, extra int) []byte {
	b := make([]byte, 20+extra*4)
	binary.LittleEndian.PutUint32(b, magic)
	binary.LittleEndian.PutUint32(b[4:], 0x00010000)
	return b
}

func TestSPIRVWords(t *testing.T) {
	words, err := SPIRVWords(spirvHeader(SPIRVMagic, 2))
	require.NoError(t, err)
	assert.Len(t, words, 7)
	assert.Equal(t, uint32(SPIRVMagic), words[0])
	assert.Equal(t, uint32(0x00010000), words[1])
}

func TestSPIRVWordsRejects(t *testing.T) {
	_, err := SPIRVWords(nil)
	assert.Error(t, err)

	_, err = SPIRVWords(make([]byte, 16))
	assert.Error(t, err, "shorter than a header")

	_, err = SPIRVWords(append(spirvHeader(SPIRVMagic, 0), 1))
	assert.Error(t, err, "not word aligned")

	_, err = SPIRVWords(spirvHeader(0xdeadbeef, 0))
	assert.ErrorContains(t, err, "magic")
}
