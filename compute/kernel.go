package compute

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/celer/vkcompute/vkg"
	"github.com/gogpu/naga"
	"github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

//go:embed shaders/multiply.wgsl
var multiplyShaderWGSL string

// MultiplyWorkgroupSize matches @workgroup_size in shaders/multiply.wgsl
const MultiplyWorkgroupSize = 64

// DefaultFactor is what the multiply kernel scales by unless told otherwise
const DefaultFactor = 12

// paramsSize is the size of the uniform params buffer, padded to 16 bytes
const paramsSize = 16

// KernelSpec describes a compute shader over one storage buffer of 32 bit
// values (binding 0) and a uniform params block (binding 1). The first params
// word is overwritten with the element count when the kernel is bound.
type KernelSpec struct {
	Name          string
	Source        string
	EntryPoint    string
	WorkgroupSize int
	Params        []uint32
}

// Kernel is a compiled compute pipeline with its descriptor set
type Kernel struct {
	Name          string
	WorkgroupSize int

	session        *Session
	params         *HostBuffer
	paramWords     []uint32
	shader         *vkg.ShaderModule
	layout         *vkg.DescriptorSetLayout
	pipelineLayout *vkg.PipelineLayout
	cache          *vkg.PipelineCache
	pipeline       *vkg.ComputePipeline
	pool           *vkg.DescriptorPool
	set            *vkg.DescriptorSet
	boundTo        *HostBuffer

	// held is the recording whose dispatch the descriptor set points at
	held atomic.Pointer[Recording]
}

// CompileWGSL compiles WGSL source to SPIR-V words
func CompileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	return vkg.SPIRVWords(spirvBytes)
}

// maxSPIRVVersion is the newest SPIR-V version word a Vulkan api version
// guarantees to consume
func maxSPIRVVersion(api vkg.Version) uint32 {
	switch {
	case !api.AtLeast(vkg.Version{Major: 1, Minor: 1}):
		return 0x10000
	case !api.AtLeast(vkg.Version{Major: 1, Minor: 2}):
		return 0x10300
	case !api.AtLeast(vkg.Version{Major: 1, Minor: 3}):
		return 0x10500
	}
	return 0x10600
}

// MultiplyKernelSpec is the spec for the embedded kernel computing data[i] *= factor
func MultiplyKernelSpec(factor uint32) KernelSpec {
	return KernelSpec{
		Name:          "multiply",
		Source:        multiplyShaderWGSL,
		EntryPoint:    "main",
		WorkgroupSize: MultiplyWorkgroupSize,
		Params:        []uint32{0, factor},
	}
}

// NewMultiplyKernel builds the kernel computing data[i] *= factor
func (s *Session) NewMultiplyKernel(factor uint32) (*Kernel, error) {
	return s.NewKernel(MultiplyKernelSpec(factor))
}

// NewKernel compiles spec and builds its pipeline and descriptor set
func (s *Session) NewKernel(spec KernelSpec) (*Kernel, error) {
	if spec.WorkgroupSize <= 0 {
		return nil, fmt.Errorf("kernel %s: workgroup size must be positive", spec.Name)
	}
	if len(spec.Params)*4 > paramsSize {
		return nil, fmt.Errorf("kernel %s: %d params exceed %d bytes", spec.Name, len(spec.Params), paramsSize)
	}
	entry := spec.EntryPoint
	if entry == "" {
		entry = "main"
	}

	code, err := CompileWGSL(spec.Source)
	if err != nil {
		return nil, fmt.Errorf("kernel %s: %w", spec.Name, err)
	}
	if v, limit := code[1], maxSPIRVVersion(APIVersion); v > limit {
		return nil, fmt.Errorf("kernel %s: SPIR-V version %#x exceeds %#x allowed by Vulkan %s", spec.Name, v, limit, APIVersion)
	}

	k := &Kernel{
		Name:          spec.Name,
		WorkgroupSize: spec.WorkgroupSize,
		session:       s,
		paramWords:    append([]uint32(nil), spec.Params...),
	}
	if err := k.build(code, entry); err != nil {
		k.Destroy()
		return nil, fmt.Errorf("kernel %s: %w", spec.Name, err)
	}

	s.log.WithFields(logrus.Fields{
		"kernel":    k.Name,
		"workgroup": k.WorkgroupSize,
		"spirv":     len(code) * 4,
	}).Debug("kernel ready")
	return k, nil
}

func (k *Kernel) build(code []uint32, entry string) error {
	d := k.session.Device
	var err error

	k.params, err = k.session.AllocateBuffer(UsageUniform, paramsSize)
	if err != nil {
		return err
	}

	k.shader, err = d.CreateShaderModule(code)
	if err != nil {
		return fmt.Errorf("shader module: %w", err)
	}
	k.shader.Description = k.Name

	layout := d.NewDescriptorSetLayout().
		AddComputeBinding(0, vk.DescriptorTypeStorageBuffer).
		AddComputeBinding(1, vk.DescriptorTypeUniformBuffer)
	k.layout, err = d.CreateDescriptorSetLayout(layout)
	if err != nil {
		return fmt.Errorf("descriptor set layout: %w", err)
	}

	k.pipelineLayout, err = d.CreatePipelineLayout(k.layout)
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}

	k.cache, err = d.CreatePipelineCache()
	if err != nil {
		return fmt.Errorf("pipeline cache: %w", err)
	}

	pipeline := &vkg.ComputePipeline{}
	pipeline.SetShaderStage(entry, k.shader)
	pipeline.SetPipelineLayout(k.pipelineLayout)
	if err := d.CreateComputePipelines(k.cache, pipeline); err != nil {
		return fmt.Errorf("compute pipeline: %w", err)
	}
	k.pipeline = pipeline

	pool := d.NewDescriptorPool().
		AddPoolSize(vk.DescriptorTypeStorageBuffer, 1).
		AddPoolSize(vk.DescriptorTypeUniformBuffer, 1)
	k.pool, err = d.CreateDescriptorPool(pool, 1)
	if err != nil {
		return fmt.Errorf("descriptor pool: %w", err)
	}

	k.set, err = k.pool.Allocate(k.layout)
	if err != nil {
		return fmt.Errorf("descriptor set: %w", err)
	}
	return nil
}

// paramBytes encodes the params block for n elements
func (k *Kernel) paramBytes(n int) []byte {
	out := make([]byte, paramsSize)
	for i, w := range k.paramWords {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	binary.LittleEndian.PutUint32(out, uint32(n))
	return out
}

// bind points the descriptor set at data and writes the params block
func (k *Kernel) bind(data *HostBuffer) error {
	if err := k.params.Write(k.paramBytes(data.Len())); err != nil {
		return fmt.Errorf("write params: %w", err)
	}
	if k.boundTo == data {
		return nil
	}
	k.set.
		AddBuffer(0, vk.DescriptorTypeStorageBuffer, data.VK(), 0).
		AddBuffer(1, vk.DescriptorTypeUniformBuffer, k.params.VK(), 0).
		Write()
	k.boundTo = data
	return nil
}

// Destroy releases the pipeline and everything it was built from. Using the
// kernel afterwards returns ErrDestroyed.
func (k *Kernel) Destroy() {
	if k.pool != nil {
		if k.set != nil {
			if err := k.pool.Free(k.set); err != nil {
				k.session.log.WithError(err).WithField("kernel", k.Name).Warn("free descriptor set")
			}
			k.set = nil
		}
		k.pool.Destroy()
		k.pool = nil
	}
	k.boundTo = nil
	if k.pipeline != nil {
		k.pipeline.Destroy()
		k.pipeline = nil
	}
	if k.cache != nil {
		k.cache.Destroy()
		k.cache = nil
	}
	if k.pipelineLayout != nil {
		k.pipelineLayout.Destroy()
		k.pipelineLayout = nil
	}
	if k.layout != nil {
		k.layout.Destroy()
		k.layout = nil
	}
	if k.shader != nil {
		k.shader.Destroy()
		k.shader = nil
	}
	if k.params != nil {
		k.params.Destroy()
		k.params = nil
	}
}
