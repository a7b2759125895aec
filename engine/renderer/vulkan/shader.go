//go:build vulkan

package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/rotisserie/eris"
	"github.com/spf13/afero"

	"github.com/spaghettifunk/eae6320/engine/assets"
)

// VulkanShaderStage is a single compiled shader stage.
type VulkanShaderStage struct {
	/** @brief The internal shader module Handle. */
	Handle vk.ShaderModule
	/** @brief The pipeline shader stage creation info. */
	ShaderStageCreateInfo vk.PipelineShaderStageCreateInfo
}

func NewShaderStage(context *VulkanContext, fs afero.Fs, path string, stage vk.ShaderStageFlagBits) (*VulkanShaderStage, error) {
	code, err := assets.ReadSPIRV(fs, path)
	if err != nil {
		return nil, err
	}

	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code) * 4),
		PCode:    code,
	}

	shaderStage := &VulkanShaderStage{}
	if err := resultError(vk.CreateShaderModule(context.Device.LogicalDevice, &createInfo, context.Allocator, &shaderStage.Handle), "vkCreateShaderModule"); err != nil {
		return nil, eris.Wrapf(err, "failed to create a shader module from \"%s\"", path)
	}

	// Shader stage info
	shaderStage.ShaderStageCreateInfo = vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: shaderStage.Handle,
		PName:  VulkanSafeString("main"),
	}
	return shaderStage, nil
}

func (s *VulkanShaderStage) Destroy(context *VulkanContext) {
	if s.Handle != nil {
		vk.DestroyShaderModule(context.Device.LogicalDevice, s.Handle, context.Allocator)
		s.Handle = nil
	}
}
