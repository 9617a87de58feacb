package render

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"vulkan-testing/queues"
)

// Swapchain owns a Vulkan swap chain together with its images and image
// views. It is created by NewSwapchain and must be released with Destroy.
type Swapchain struct {
	Handle     vk.Swapchain
	Images     []vk.Image
	ImageViews []vk.ImageView
	Format     vk.Format
	Extent     vk.Extent2D

	device vk.Device
}

// NewSwapchain creates a swap chain on device for the given surface using the
// configuration cfg. When old is not nil its handle is passed to the driver as
// the swap chain being replaced, which lets it reuse resources during
// recreation. The old swap chain is not destroyed, that is still up to the
// caller.
func NewSwapchain(
	device vk.Device,
	surface vk.Surface,
	indices queues.FamilyIndices,
	support SupportDetails,
	cfg Config,
	old *Swapchain,
) (*Swapchain, error) {
	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    cfg.ImageCount,
		ImageColorSpace:  cfg.SurfaceFormat.ColorSpace,
		ImageFormat:      cfg.SurfaceFormat.Format,
		ImageExtent:      cfg.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     support.Capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      cfg.PresentMode,
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}

	if old != nil {
		createInfo.OldSwapchain = old.Handle
	}

	if indices.Graphics.Get() != indices.Present.Get() {
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{
			indices.Graphics.Get(),
			indices.Present.Get(),
		}
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	var swapChain vk.Swapchain
	res := vk.CreateSwapchain(device, &createInfo, nil, &swapChain)
	if err := vk.Error(res); err != nil {
		return nil, fmt.Errorf("failed to create swap chain: %w", err)
	}

	s := &Swapchain{
		Handle: swapChain,
		Format: cfg.SurfaceFormat.Format,
		Extent: cfg.Extent,
		device: device,
	}

	var imagesCount uint32
	vk.GetSwapchainImages(device, s.Handle, &imagesCount, nil)

	images := make([]vk.Image, imagesCount)
	vk.GetSwapchainImages(device, s.Handle, &imagesCount, images)
	s.Images = images

	if err := s.createImageViews(); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("createImageViews: %w", err)
	}

	return s, nil
}

func (s *Swapchain) createImageViews() error {
	for i, swapChainImage := range s.Images {
		createInfo := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    swapChainImage,
			ViewType: vk.ImageViewType2d,
			Format:   s.Format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		}

		var imageView vk.ImageView
		res := vk.CreateImageView(s.device, &createInfo, nil, &imageView)
		if err := vk.Error(res); err != nil {
			return fmt.Errorf("failed to create view for image %d: %w", i, err)
		}

		s.ImageViews = append(s.ImageViews, imageView)
	}

	return nil
}

// Destroy releases the image views and the swap chain itself. It is safe to
// call on an already destroyed Swapchain.
func (s *Swapchain) Destroy() {
	for _, imageView := range s.ImageViews {
		vk.DestroyImageView(s.device, imageView, nil)
	}
	s.ImageViews = nil
	s.Images = nil

	if s.Handle != vk.NullSwapchain {
		vk.DestroySwapchain(s.device, s.Handle, nil)
		s.Handle = vk.NullSwapchain
	}
}
