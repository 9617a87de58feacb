package render

import (
	"cmp"
	"fmt"
	"math"

	vk "github.com/vulkan-go/vulkan"
)

// SupportDetails describes what a present surface supports on a particular
// physical device. The type is suitable for passing around many details of the
// surface between functions.
type SupportDetails struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

// QuerySupport returns the surface capabilities, formats and present modes
// supported by the combination of device and surface.
func QuerySupport(
	device vk.PhysicalDevice,
	surface vk.Surface,
) (SupportDetails, error) {
	details := SupportDetails{}

	var capabilities vk.SurfaceCapabilities
	res := vk.GetPhysicalDeviceSurfaceCapabilities(device, surface, &capabilities)
	if err := vk.Error(res); err != nil {
		return details, fmt.Errorf("failed to query device surface capabilities: %w", err)
	}
	capabilities.Deref()
	capabilities.CurrentExtent.Deref()
	capabilities.MinImageExtent.Deref()
	capabilities.MaxImageExtent.Deref()

	details.Capabilities = capabilities

	var formatCount uint32
	res = vk.GetPhysicalDeviceSurfaceFormats(device, surface, &formatCount, nil)
	if err := vk.Error(res); err != nil {
		return details, fmt.Errorf("failed to query device surface formats: %w", err)
	}

	if formatCount != 0 {
		formats := make([]vk.SurfaceFormat, formatCount)
		vk.GetPhysicalDeviceSurfaceFormats(device, surface, &formatCount, formats)
		for _, format := range formats {
			format.Deref()
			details.Formats = append(details.Formats, format)
		}
	}

	var presentModeCount uint32
	res = vk.GetPhysicalDeviceSurfacePresentModes(
		device, surface, &presentModeCount, nil,
	)
	if err := vk.Error(res); err != nil {
		return details, fmt.Errorf("failed to query device surface present modes: %w", err)
	}

	if presentModeCount != 0 {
		presentModes := make([]vk.PresentMode, presentModeCount)
		vk.GetPhysicalDeviceSurfacePresentModes(
			device, surface, &presentModeCount, presentModes,
		)
		details.PresentModes = presentModes
	}

	return details, nil
}

// IsAdequate returns true when the surface supports at least one format and at
// least one present mode. A device which fails this check cannot present at
// all.
func (d *SupportDetails) IsAdequate() bool {
	return len(d.Formats) > 0 && len(d.PresentModes) > 0
}

// SurfaceFormat returns the preferred surface format among the supported ones.
// That is 32bit sRGB BGRA when available and the first supported format
// otherwise.
func (d *SupportDetails) SurfaceFormat() vk.SurfaceFormat {
	for _, format := range d.Formats {
		if format.Format == vk.FormatB8g8r8a8Srgb &&
			format.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return format
		}
	}

	return d.Formats[0]
}

// PresentMode returns the preferred present mode among the supported ones.
// Mailbox is used when available. FIFO is the fall-back since the standard
// guarantees its support.
func (d *SupportDetails) PresentMode() vk.PresentMode {
	for _, mode := range d.PresentModes {
		if mode == vk.PresentModeMailbox {
			return mode
		}
	}

	return vk.PresentModeFifo
}

// Extent returns the swap chain extent for the given framebuffer size in
// pixels. Normally the surface dictates the extent via CurrentExtent. Some
// window managers instead set its width to MaxUint32 which means the extent is
// picked by the application within the min/max bounds of the surface.
func (d *SupportDetails) Extent(fbWidth, fbHeight int) vk.Extent2D {
	if d.Capabilities.CurrentExtent.Width != math.MaxUint32 {
		return d.Capabilities.CurrentExtent
	}

	actualExtend := vk.Extent2D{
		Width:  uint32(fbWidth),
		Height: uint32(fbHeight),
	}

	actualExtend.Width = clamp(
		actualExtend.Width,
		d.Capabilities.MinImageExtent.Width,
		d.Capabilities.MaxImageExtent.Width,
	)

	actualExtend.Height = clamp(
		actualExtend.Height,
		d.Capabilities.MinImageExtent.Height,
		d.Capabilities.MaxImageExtent.Height,
	)

	return actualExtend
}

// ImageCount returns how many images the swap chain should be created with.
// One more than the minimum so that the program does not have to wait for the
// driver between frames, clamped to the maximum when the surface has one.
func (d *SupportDetails) ImageCount() uint32 {
	imageCount := d.Capabilities.MinImageCount + 1
	if d.Capabilities.MaxImageCount > 0 &&
		imageCount > d.Capabilities.MaxImageCount {
		imageCount = d.Capabilities.MaxImageCount
	}

	return imageCount
}

// Configure selects a swap chain configuration for the given framebuffer size
// using the preferences above.
func (d *SupportDetails) Configure(fbWidth, fbHeight int) Config {
	return Config{
		SurfaceFormat: d.SurfaceFormat(),
		PresentMode:   d.PresentMode(),
		Extent:        d.Extent(fbWidth, fbHeight),
		ImageCount:    d.ImageCount(),
	}
}

// Config is a fully resolved swap chain configuration.
type Config struct {
	SurfaceFormat vk.SurfaceFormat
	PresentMode   vk.PresentMode
	Extent        vk.Extent2D
	ImageCount    uint32
}

func clamp[T cmp.Ordered](val, min, max T) T {
	if val < min {
		val = min
	}
	if val > max {
		val = max
	}
	return val
}
