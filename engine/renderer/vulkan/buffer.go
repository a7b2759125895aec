//go:build vulkan

package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/rotisserie/eris"
)

// VulkanBuffer is a buffer with its own host-visible allocation.
type VulkanBuffer struct {
	Handle vk.Buffer
	Memory vk.DeviceMemory
	Size   uint64
}

func NewBuffer(context *VulkanContext, size uint64, usage vk.BufferUsageFlagBits) (*VulkanBuffer, error) {
	buffer := &VulkanBuffer{Size: size}

	createInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       vk.BufferUsageFlags(usage),
		SharingMode: vk.SharingModeExclusive,
	}
	if err := resultError(vk.CreateBuffer(context.Device.LogicalDevice, &createInfo, context.Allocator, &buffer.Handle), "vkCreateBuffer"); err != nil {
		return nil, err
	}

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, buffer.Handle, &requirements)
	requirements.Deref()

	properties := uint32(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	memoryIndex := context.FindMemoryIndex(requirements.MemoryTypeBits, properties)
	if memoryIndex < 0 {
		buffer.Destroy(context)
		return nil, eris.New("no host visible memory type is available for a buffer")
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: uint32(memoryIndex),
	}
	if err := resultError(vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &buffer.Memory), "vkAllocateMemory"); err != nil {
		buffer.Destroy(context)
		return nil, err
	}
	if err := resultError(vk.BindBufferMemory(context.Device.LogicalDevice, buffer.Handle, buffer.Memory, 0), "vkBindBufferMemory"); err != nil {
		buffer.Destroy(context)
		return nil, err
	}
	return buffer, nil
}

// LoadData copies data to the start of the buffer.
func (b *VulkanBuffer) LoadData(context *VulkanContext, data []byte) error {
	if uint64(len(data)) > b.Size {
		return eris.Errorf("%d bytes don't fit in a buffer of %d bytes", len(data), b.Size)
	}
	var mapped unsafe.Pointer
	if err := resultError(vk.MapMemory(context.Device.LogicalDevice, b.Memory, 0, vk.DeviceSize(len(data)), 0, &mapped), "vkMapMemory"); err != nil {
		return err
	}
	vk.Memcopy(mapped, data)
	vk.UnmapMemory(context.Device.LogicalDevice, b.Memory)
	return nil
}

func (b *VulkanBuffer) Destroy(context *VulkanContext) {
	if b.Handle != nil {
		vk.DestroyBuffer(context.Device.LogicalDevice, b.Handle, context.Allocator)
		b.Handle = nil
	}
	if b.Memory != nil {
		vk.FreeMemory(context.Device.LogicalDevice, b.Memory, context.Allocator)
		b.Memory = nil
	}
}

func float32Bytes(data []float32) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
}
