//go:build vulkan

package vulkan

import (
	vk "github.com/goki/vulkan"
)

// VulkanDescriptors holds one uniform buffer descriptor set per frame in
// flight, all sharing a layout with a single binding.
type VulkanDescriptors struct {
	Layout vk.DescriptorSetLayout
	Pool   vk.DescriptorPool
	Sets   []vk.DescriptorSet
}

func NewUniformDescriptors(context *VulkanContext, binding uint32, buffers []*VulkanBuffer) (*VulkanDescriptors, error) {
	d := &VulkanDescriptors{}

	layoutBinding := vk.DescriptorSetLayoutBinding{
		Binding:         binding,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit),
	}
	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings:    []vk.DescriptorSetLayoutBinding{layoutBinding},
	}
	if err := resultError(vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &layoutInfo, context.Allocator, &d.Layout), "vkCreateDescriptorSetLayout"); err != nil {
		return nil, err
	}

	count := uint32(len(buffers))
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       count,
		PoolSizeCount: 1,
		PPoolSizes: []vk.DescriptorPoolSize{{
			Type:            vk.DescriptorTypeUniformBuffer,
			DescriptorCount: count,
		}},
	}
	if err := resultError(vk.CreateDescriptorPool(context.Device.LogicalDevice, &poolInfo, context.Allocator, &d.Pool), "vkCreateDescriptorPool"); err != nil {
		d.Destroy(context)
		return nil, err
	}

	layouts := make([]vk.DescriptorSetLayout, count)
	for i := range layouts {
		layouts[i] = d.Layout
	}
	allocateInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     d.Pool,
		DescriptorSetCount: count,
		PSetLayouts:        layouts,
	}
	d.Sets = make([]vk.DescriptorSet, count)
	if err := resultError(vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocateInfo, &d.Sets[0]), "vkAllocateDescriptorSets"); err != nil {
		d.Destroy(context)
		return nil, err
	}

	for i, buffer := range buffers {
		write := vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          d.Sets[i],
			DstBinding:      binding,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			PBufferInfo: []vk.DescriptorBufferInfo{{
				Buffer: buffer.Handle,
				Offset: 0,
				Range:  vk.DeviceSize(buffer.Size),
			}},
		}
		vk.UpdateDescriptorSets(context.Device.LogicalDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
	}
	return d, nil
}

func (d *VulkanDescriptors) Destroy(context *VulkanContext) {
	// Sets are freed with their pool.
	d.Sets = nil
	if d.Pool != nil {
		vk.DestroyDescriptorPool(context.Device.LogicalDevice, d.Pool, context.Allocator)
		d.Pool = nil
	}
	if d.Layout != nil {
		vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, d.Layout, context.Allocator)
		d.Layout = nil
	}
}
