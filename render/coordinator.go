// Package render implements the swap chain and frame lifecycle management of
// the program. Its centre piece is the Coordinator which owns the frames in
// flight, acquires and presents swap chain images and rebuilds the swap chain
// with everything depending on it once the presentation surface invalidates
// the current one, typically on window resize.
package render

import (
	"fmt"
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-testing/queues"
)

// DefaultFramesInFlight is how many frames are recorded and submitted
// concurrently when CoordinatorConfig does not say otherwise.
const DefaultFramesInFlight = 2

// State describes in what condition the Coordinator currently is.
type State int

const (
	// StateValid means the swap chain matches the surface and frames go
	// through the normal acquire/present cycle.
	StateValid State = iota

	// StateRecreating means the surface invalidated the swap chain and the
	// Coordinator is rebuilding it along with its dependent resources.
	StateRecreating

	// StateFatal means rebuilding the swap chain failed and the Coordinator
	// cannot present any more.
	StateFatal
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateRecreating:
		return "recreating"
	case StateFatal:
		return "fatal"
	default:
		return fmt.Sprintf("unknown state %d", int(s))
	}
}

// Frame holds the synchronization objects and the command buffer of a single
// frame in flight.
type Frame struct {

	// ImageAvailable is signalled once the acquired swap chain image is ready
	// to be drawn into.
	ImageAvailable vk.Semaphore

	// RenderFinished is signalled once rendering into the image is done and it
	// may be presented.
	RenderFinished vk.Semaphore

	// InFlight is signalled when the GPU is done with the frame and its
	// command buffer may be recorded again.
	InFlight vk.Fence

	// CommandBuffer is reset and recorded anew every time the frame comes
	// around.
	CommandBuffer vk.CommandBuffer
}

// CoordinatorConfig describes the already created Vulkan objects a Coordinator
// builds its swap chain and frames on top of.
type CoordinatorConfig struct {
	Window         *glfw.Window
	PhysicalDevice vk.PhysicalDevice
	Device         vk.Device
	Surface        vk.Surface
	GraphicsQueue  vk.Queue
	PresentQueue   vk.Queue
	Indices        queues.FamilyIndices

	// FramesInFlight is how many frames may be recorded concurrently. When
	// zero, DefaultFramesInFlight is used.
	FramesInFlight int
}

// Coordinator owns the swap chain, the frames in flight and the command pool
// their command buffers come from. All methods must be called from the thread
// running the window event loop.
type Coordinator struct {
	cfg CoordinatorConfig

	commandPool vk.CommandPool
	swapChain   *Swapchain

	frames      []Frame
	curentFrame uint32

	state   State
	resized bool

	onSwapchainCreate  func(*Swapchain) error
	onSwapchainDestroy func()
}

// NewCoordinator creates the swap chain, the command pool and the per frame
// synchronization objects and command buffers.
func NewCoordinator(cfg CoordinatorConfig) (*Coordinator, error) {
	if cfg.FramesInFlight == 0 {
		cfg.FramesInFlight = DefaultFramesInFlight
	}

	c := &Coordinator{
		cfg:   cfg,
		state: StateValid,
	}

	if err := c.createSwapChain(nil); err != nil {
		return nil, fmt.Errorf("createSwapChain: %w", err)
	}

	if err := c.createCommandPool(); err != nil {
		c.swapChain.Destroy()
		return nil, fmt.Errorf("createCommandPool: %w", err)
	}

	if err := c.createFrames(); err != nil {
		c.Destroy()
		return nil, fmt.Errorf("createFrames: %w", err)
	}

	return c, nil
}

// SetOnSwapchainCreate registers fn to be called with every newly built swap
// chain, including after each recreation. The application rebuilds its
// framebuffers and whatever else references the swap chain images in it.
func (c *Coordinator) SetOnSwapchainCreate(fn func(*Swapchain) error) error {
	c.onSwapchainCreate = fn
	if fn == nil {
		return nil
	}

	return fn(c.swapChain)
}

// SetOnSwapchainDestroy registers fn to be called right before a swap chain is
// torn down so the application can release resources referencing its images.
func (c *Coordinator) SetOnSwapchainDestroy(fn func()) {
	c.onSwapchainDestroy = fn
}

// Swapchain returns the currently valid swap chain.
func (c *Coordinator) Swapchain() *Swapchain {
	return c.swapChain
}

// State returns the current coordinator state.
func (c *Coordinator) State() State {
	return c.state
}

// CurrentFrame returns the frame in flight whose turn it is. Its command
// buffer is what the application records into between AcquireNextImage and
// Submit.
func (c *Coordinator) CurrentFrame() *Frame {
	return &c.frames[c.curentFrame]
}

// FrameIndex returns the index of the current frame in flight. Applications
// use it to address their own per frame resources such as uniform buffers and
// descriptor sets.
func (c *Coordinator) FrameIndex() uint32 {
	return c.curentFrame
}

// Invalidate tells the Coordinator that the windowing layer changed the
// surface, e.g. on resize. The swap chain is rebuilt after the next present.
func (c *Coordinator) Invalidate() {
	c.resized = true
}

// AcquireNextImage blocks until the current frame may be recorded again and
// acquires a swap chain image for it. When the swap chain turned out to be out
// of date it is recreated instead and ok is false, meaning the frame should be
// skipped. A suboptimal swap chain still presents fine so the frame proceeds
// and the rebuild happens after present.
func (c *Coordinator) AcquireNextImage() (imageIndex uint32, ok bool, err error) {
	if c.state == StateFatal {
		return 0, false, fmt.Errorf("coordinator is in state %s", c.state)
	}

	frame := c.CurrentFrame()

	fences := []vk.Fence{frame.InFlight}
	vk.WaitForFences(c.cfg.Device, 1, fences, vk.True, math.MaxUint64)

	res := vk.AcquireNextImage(
		c.cfg.Device,
		c.swapChain.Handle,
		math.MaxUint64,
		frame.ImageAvailable,
		vk.Fence(vk.NullHandle),
		&imageIndex,
	)
	if res == vk.ErrorOutOfDate {
		if err := c.recreateSwapChain(); err != nil {
			return 0, false, fmt.Errorf("recreateSwapChain: %w", err)
		}
		return 0, false, nil
	} else if res != vk.Success && res != vk.Suboptimal {
		return 0, false, fmt.Errorf(
			"failed to acquire swap chain image: %w", vk.Error(res),
		)
	}

	// Only reset the fence if we are submitting work.
	vk.ResetFences(c.cfg.Device, 1, fences)

	return imageIndex, true, nil
}

// Submit hands the command buffer of the current frame to the graphics queue.
// It waits for the acquired image at the color attachment stage and signals
// the frame's RenderFinished semaphore and InFlight fence.
func (c *Coordinator) Submit() error {
	frame := c.CurrentFrame()

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{frame.ImageAvailable},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{frame.CommandBuffer},
		PSignalSemaphores:    []vk.Semaphore{frame.RenderFinished},
		SignalSemaphoreCount: 1,
	}

	res := vk.QueueSubmit(
		c.cfg.GraphicsQueue,
		1,
		[]vk.SubmitInfo{submitInfo},
		frame.InFlight,
	)
	if err := vk.Error(res); err != nil {
		return fmt.Errorf("queue submit error: %w", err)
	}

	return nil
}

// Present queues the image for presentation and advances to the next frame in
// flight. The swap chain is rebuilt when presenting reports it out of date or
// suboptimal or when a resize notification is pending.
func (c *Coordinator) Present(imageIndex uint32) error {
	frame := c.CurrentFrame()

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{frame.RenderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{c.swapChain.Handle},
		PImageIndices:      []uint32{imageIndex},
	}

	res := vk.QueuePresent(c.cfg.PresentQueue, &presentInfo)
	if needsRebuild(res, c.resized) {
		c.resized = false
		if err := c.recreateSwapChain(); err != nil {
			return fmt.Errorf("recreateSwapChain: %w", err)
		}
	} else if res != vk.Success {
		return fmt.Errorf("failed to present swap chain image: %w", vk.Error(res))
	}

	c.curentFrame = nextFrame(c.curentFrame, c.cfg.FramesInFlight)
	return nil
}

// needsRebuild reports whether the result of a present call, together with a
// possibly pending resize notification, invalidates the swap chain.
func needsRebuild(res vk.Result, resized bool) bool {
	return res == vk.ErrorOutOfDate || res == vk.Suboptimal || resized
}

func nextFrame(current uint32, framesInFlight int) uint32 {
	return (current + 1) % uint32(framesInFlight)
}

// WaitIdle blocks until the device finished all submitted work. Call it before
// releasing anything the frames in flight may still reference.
func (c *Coordinator) WaitIdle() {
	vk.DeviceWaitIdle(c.cfg.Device)
}

// Destroy releases the frames, the command pool and the swap chain. The swap
// chain destroy hook runs first so the application can release its dependent
// resources.
func (c *Coordinator) Destroy() {
	for _, frame := range c.frames {
		vk.DestroySemaphore(c.cfg.Device, frame.ImageAvailable, nil)
		vk.DestroySemaphore(c.cfg.Device, frame.RenderFinished, nil)
		vk.DestroyFence(c.cfg.Device, frame.InFlight, nil)
	}
	c.frames = nil

	vk.DestroyCommandPool(c.cfg.Device, c.commandPool, nil)

	if c.onSwapchainDestroy != nil {
		c.onSwapchainDestroy()
	}

	if c.swapChain != nil {
		c.swapChain.Destroy()
	}
}

func (c *Coordinator) createSwapChain(old *Swapchain) error {
	support, err := QuerySupport(c.cfg.PhysicalDevice, c.cfg.Surface)
	if err != nil {
		return fmt.Errorf("querying surface support: %w", err)
	}
	if !support.IsAdequate() {
		return fmt.Errorf("surface supports no formats or present modes")
	}

	width, height := c.cfg.Window.GetFramebufferSize()
	cfg := support.Configure(width, height)

	swapChain, err := NewSwapchain(
		c.cfg.Device,
		c.cfg.Surface,
		c.cfg.Indices,
		support,
		cfg,
		old,
	)
	if err != nil {
		return err
	}

	c.swapChain = swapChain
	return nil
}

// recreateSwapChain rebuilds the swap chain and everything depending on it
// after the surface invalidated the current one. The old swap chain is handed
// to the driver as OldSwapchain before being destroyed so no GPU handles leak
// and at most one frame is lost.
func (c *Coordinator) recreateSwapChain() error {
	c.state = StateRecreating

	// A minimized window has a zero sized framebuffer which cannot back a
	// swap chain. Sleep on the event queue until it has a size again.
	for {
		width, height := c.cfg.Window.GetFramebufferSize()
		if width != 0 || height != 0 {
			break
		}

		glfw.WaitEvents()
	}

	vk.DeviceWaitIdle(c.cfg.Device)

	if c.onSwapchainDestroy != nil {
		c.onSwapchainDestroy()
	}

	old := c.swapChain
	if err := c.createSwapChain(old); err != nil {
		c.state = StateFatal
		return fmt.Errorf("createSwapChain: %w", err)
	}
	old.Destroy()

	if c.onSwapchainCreate != nil {
		if err := c.onSwapchainCreate(c.swapChain); err != nil {
			c.state = StateFatal
			return fmt.Errorf("swap chain create hook: %w", err)
		}
	}

	c.state = StateValid
	return nil
}

func (c *Coordinator) createCommandPool() error {
	poolInfo := vk.CommandPoolCreateInfo{
		SType: vk.StructureTypeCommandPoolCreateInfo,
		Flags: vk.CommandPoolCreateFlags(
			vk.CommandPoolCreateResetCommandBufferBit,
		),
		QueueFamilyIndex: c.cfg.Indices.Graphics.Get(),
	}

	var commandPool vk.CommandPool
	res := vk.CreateCommandPool(c.cfg.Device, &poolInfo, nil, &commandPool)
	if err := vk.Error(res); err != nil {
		return fmt.Errorf("failed to create command pool: %w", err)
	}
	c.commandPool = commandPool

	return nil
}

func (c *Coordinator) createFrames() error {
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(c.cfg.FramesInFlight),
	}

	commandBuffers := make([]vk.CommandBuffer, c.cfg.FramesInFlight)
	res := vk.AllocateCommandBuffers(c.cfg.Device, &allocInfo, commandBuffers)
	if err := vk.Error(res); err != nil {
		return fmt.Errorf("failed to allocate command buffers: %w", err)
	}

	semaphoreInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	// Created signalled so the very first frame does not wait forever.
	fenceInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}

	for i := 0; i < c.cfg.FramesInFlight; i++ {
		// Appended before its objects are created so a failure half way
		// through still leaves the frame in c.frames for Destroy to release.
		c.frames = append(c.frames, Frame{
			CommandBuffer: commandBuffers[i],
		})
		frame := &c.frames[i]

		if err := vk.Error(
			vk.CreateSemaphore(c.cfg.Device, &semaphoreInfo, nil, &frame.ImageAvailable),
		); err != nil {
			return fmt.Errorf("failed to create image available semaphore: %w", err)
		}

		if err := vk.Error(
			vk.CreateSemaphore(c.cfg.Device, &semaphoreInfo, nil, &frame.RenderFinished),
		); err != nil {
			return fmt.Errorf("failed to create render finished semaphore: %w", err)
		}

		if err := vk.Error(
			vk.CreateFence(c.cfg.Device, &fenceInfo, nil, &frame.InFlight),
		); err != nil {
			return fmt.Errorf("failed to create in flight fence: %w", err)
		}
	}

	return nil
}
