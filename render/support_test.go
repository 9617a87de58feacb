package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestSurfaceFormatPrefersSRGB(t *testing.T) {
	details := SupportDetails{
		Formats: []vk.SurfaceFormat{
			{
				Format:     vk.FormatR8g8b8a8Unorm,
				ColorSpace: vk.ColorSpaceSrgbNonlinear,
			},
			{
				Format:     vk.FormatB8g8r8a8Srgb,
				ColorSpace: vk.ColorSpaceSrgbNonlinear,
			},
		},
	}

	format := details.SurfaceFormat()
	assert.Equal(t, vk.FormatB8g8r8a8Srgb, format.Format)
	assert.Equal(t, vk.ColorSpaceSrgbNonlinear, format.ColorSpace)
}

func TestSurfaceFormatFallsBackToFirst(t *testing.T) {
	details := SupportDetails{
		Formats: []vk.SurfaceFormat{
			{
				Format:     vk.FormatR8g8b8a8Unorm,
				ColorSpace: vk.ColorSpaceSrgbNonlinear,
			},
			{
				Format:     vk.FormatB8g8r8a8Unorm,
				ColorSpace: vk.ColorSpaceSrgbNonlinear,
			},
		},
	}

	assert.Equal(t, vk.FormatR8g8b8a8Unorm, details.SurfaceFormat().Format)
}

func TestPresentModePrefersMailbox(t *testing.T) {
	details := SupportDetails{
		PresentModes: []vk.PresentMode{
			vk.PresentModeImmediate,
			vk.PresentModeFifo,
			vk.PresentModeMailbox,
		},
	}

	assert.Equal(t, vk.PresentModeMailbox, details.PresentMode())
}

func TestPresentModeFallsBackToFifo(t *testing.T) {
	details := SupportDetails{
		PresentModes: []vk.PresentMode{
			vk.PresentModeImmediate,
		},
	}

	assert.Equal(t, vk.PresentModeFifo, details.PresentMode())
}

func TestExtentDictatedBySurface(t *testing.T) {
	details := SupportDetails{
		Capabilities: vk.SurfaceCapabilities{
			CurrentExtent: vk.Extent2D{Width: 1024, Height: 768},
		},
	}

	// The framebuffer size must be ignored when the surface has an extent.
	extent := details.Extent(640, 480)
	assert.Equal(t, uint32(1024), extent.Width)
	assert.Equal(t, uint32(768), extent.Height)
}

func TestExtentClampedToSurfaceBounds(t *testing.T) {
	details := SupportDetails{
		Capabilities: vk.SurfaceCapabilities{
			CurrentExtent:  vk.Extent2D{Width: math.MaxUint32, Height: 768},
			MinImageExtent: vk.Extent2D{Width: 200, Height: 100},
			MaxImageExtent: vk.Extent2D{Width: 2000, Height: 1000},
		},
	}

	extent := details.Extent(1024, 768)
	assert.Equal(t, uint32(1024), extent.Width)
	assert.Equal(t, uint32(768), extent.Height)

	extent = details.Extent(10, 5000)
	assert.Equal(t, uint32(200), extent.Width)
	assert.Equal(t, uint32(1000), extent.Height)
}

func TestImageCount(t *testing.T) {
	tests := []struct {
		name     string
		min      uint32
		max      uint32
		expected uint32
	}{
		{
			name:     "one more than the minimum",
			min:      2,
			max:      0,
			expected: 3,
		},
		{
			name:     "clamped by the maximum",
			min:      3,
			max:      3,
			expected: 3,
		},
		{
			name:     "maximum leaves headroom",
			min:      2,
			max:      8,
			expected: 3,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			details := SupportDetails{
				Capabilities: vk.SurfaceCapabilities{
					MinImageCount: test.min,
					MaxImageCount: test.max,
				},
			}

			assert.Equal(t, test.expected, details.ImageCount())
		})
	}
}

func TestIsAdequate(t *testing.T) {
	details := SupportDetails{}
	assert.False(t, details.IsAdequate())

	details.Formats = []vk.SurfaceFormat{{Format: vk.FormatB8g8r8a8Srgb}}
	assert.False(t, details.IsAdequate())

	details.PresentModes = []vk.PresentMode{vk.PresentModeFifo}
	assert.True(t, details.IsAdequate())
}

func TestConfigure(t *testing.T) {
	details := SupportDetails{
		Capabilities: vk.SurfaceCapabilities{
			MinImageCount: 2,
			CurrentExtent: vk.Extent2D{Width: 800, Height: 600},
		},
		Formats: []vk.SurfaceFormat{
			{
				Format:     vk.FormatB8g8r8a8Srgb,
				ColorSpace: vk.ColorSpaceSrgbNonlinear,
			},
		},
		PresentModes: []vk.PresentMode{vk.PresentModeFifo},
	}

	cfg := details.Configure(800, 600)
	assert.Equal(t, vk.FormatB8g8r8a8Srgb, cfg.SurfaceFormat.Format)
	assert.Equal(t, vk.PresentModeFifo, cfg.PresentMode)
	assert.Equal(t, uint32(800), cfg.Extent.Width)
	assert.Equal(t, uint32(600), cfg.Extent.Height)
	assert.Equal(t, uint32(3), cfg.ImageCount)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, clamp(5, 1, 10))
	assert.Equal(t, 1, clamp(0, 1, 10))
	assert.Equal(t, 10, clamp(20, 1, 10))
}
