package queues

import (
	"vulkan-testing/optional"
)

// FamilyIndices holds the indexes of Vulkan queue families needed by the program.
type FamilyIndices struct {

	// Graphics is the index of the graphics queue family.
	Graphics optional.Optional[uint32]

	// Present is the index of the queue family used for presenting to the drawing
	// surface.
	Present optional.Optional[uint32]
}

// IsComplete returns true if all families have been set.
func (f *FamilyIndices) IsComplete() bool {
	return f.Graphics.HasValue() && f.Present.HasValue()
}

// Unique returns the distinct family indices. The graphics and present families
// are often one and the same while a device queue must be requested only once
// per family.
func (f *FamilyIndices) Unique() []uint32 {
	families := make(map[uint32]struct{})
	families[f.Graphics.Get()] = struct{}{}
	families[f.Present.Get()] = struct{}{}

	indices := make([]uint32, 0, len(families))
	for familyIndex := range families {
		indices = append(indices, familyIndex)
	}

	return indices
}
