package compute

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/celer/vkcompute/vkg"
	"github.com/gogpu/naga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiplyShaderCompiles(t *testing.T) {
	spec := MultiplyKernelSpec(DefaultFactor)
	words, err := CompileWGSL(spec.Source)
	require.NoError(t, err)
	require.NotEmpty(t, words)
	assert.Equal(t, uint32(vkg.SPIRVMagic), words[0])

	raw, err := naga.Compile(spec.Source)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(raw, []byte(spec.EntryPoint+"\x00")), "entry point %q missing", spec.EntryPoint)
}

func TestCompileWGSLRejectsGarbage(t *testing.T) {
	_, err := CompileWGSL("fn main( {")
	assert.Error(t, err)
}

func TestMultiplyKernelSpec(t *testing.T) {
	spec := MultiplyKernelSpec(7)
	assert.Equal(t, "multiply", spec.Name)
	assert.Equal(t, MultiplyWorkgroupSize, spec.WorkgroupSize)
	assert.Equal(t, []uint32{0, 7}, spec.Params)
	assert.Contains(t, spec.Source, "@workgroup_size(64")
}

func TestParamBytes(t *testing.T) {
	k := &Kernel{paramWords: []uint32{0, DefaultFactor}}
	b := k.paramBytes(65536)
	require.Len(t, b, paramsSize)
	assert.Equal(t, uint32(65536), binary.LittleEndian.Uint32(b[0:]))
	assert.Equal(t, uint32(DefaultFactor), binary.LittleEndian.Uint32(b[4:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(b[8:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(b[12:]))
}

func TestNewKernelRejectsBadSpec(t *testing.T) {
	s := &Session{}
	_, err := s.NewKernel(KernelSpec{Name: "x", Source: multiplyShaderWGSL})
	assert.Error(t, err)

	_, err = s.NewKernel(KernelSpec{Name: "x", Source: multiplyShaderWGSL, WorkgroupSize: 64, Params: make([]uint32, 5)})
	assert.Error(t, err)
}

func TestShaderVersionFitsRequestedAPI(t *testing.T) {
	words, err := CompileWGSL(multiplyShaderWGSL)
	require.NoError(t, err)
	assert.LessOrEqual(t, words[1], maxSPIRVVersion(APIVersion))
	assert.Greater(t, words[1], maxSPIRVVersion(vkg.Version{Major: 1}), "Vulkan 1.0 can't load the module")
}

func TestMaxSPIRVVersion(t *testing.T) {
	assert.Equal(t, uint32(0x10000), maxSPIRVVersion(vkg.Version{Major: 1}))
	assert.Equal(t, uint32(0x10300), maxSPIRVVersion(vkg.Version{Major: 1, Minor: 1, Patch: 9}))
	assert.Equal(t, uint32(0x10500), maxSPIRVVersion(vkg.Version{Major: 1, Minor: 2}))
	assert.Equal(t, uint32(0x10600), maxSPIRVVersion(vkg.Version{Major: 1, Minor: 3}))
	assert.Equal(t, uint32(0x10600), maxSPIRVVersion(vkg.Version{Major: 1, Minor: 4}))
}
