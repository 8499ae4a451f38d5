package vibrant

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Slot names one of the six palette positions.
type Slot int

// Palette slots, in assignment priority order.
const (
	SlotVibrant Slot = iota
	SlotDarkVibrant
	SlotLightVibrant
	SlotMuted
	SlotDarkMuted
	SlotLightMuted

	// SlotCount is the number of palette slots.
	SlotCount = 6
)

var slotNames = [SlotCount]string{
	"Vibrant",
	"Dark Vibrant",
	"Light Vibrant",
	"Muted",
	"Dark Muted",
	"Light Muted",
}

var slotKeys = [SlotCount]string{
	"vibrant",
	"dark_vibrant",
	"light_vibrant",
	"muted",
	"dark_muted",
	"light_muted",
}

// AllSlots returns every slot in assignment priority order.
func AllSlots() []Slot {
	return []Slot{SlotVibrant, SlotDarkVibrant, SlotLightVibrant, SlotMuted, SlotDarkMuted, SlotLightMuted}
}

// String returns the display name of the slot (e.g., "Dark Vibrant").
func (s Slot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Slot(%d)", int(s))
	}
	return slotNames[s]
}

// Key returns the machine-readable name of the slot (e.g., "dark_vibrant").
func (s Slot) Key() string {
	if !s.Valid() {
		return ""
	}
	return slotKeys[s]
}

// Valid reports whether s is one of the six palette slots.
func (s Slot) Valid() bool {
	return s >= 0 && int(s) < SlotCount
}

// ParseSlot resolves a slot from its key or display name, case-insensitively.
func ParseSlot(name string) (Slot, error) {
	for i := range SlotCount {
		if strings.EqualFold(name, slotKeys[i]) || strings.EqualFold(name, slotNames[i]) {
			return Slot(i), nil
		}
	}
	return 0, fmt.Errorf("unknown palette slot: %q", name)
}

// ErrDuplicateSwatch is returned when two palette slots would hold the same colour.
var ErrDuplicateSwatch = errors.New("swatch assigned to more than one palette slot")

// Palette holds the best-matching swatch for each named slot.
// Empty slots are nil. Palettes are immutable once created.
type Palette struct {
	slots [SlotCount]*Swatch
}

// NewPalette creates a palette from a slot assignment.
// Returns ErrDuplicateSwatch if two slots share a colour.
func NewPalette(slots map[Slot]Swatch) (*Palette, error) {
	p := &Palette{}
	for slot, sw := range slots {
		if !slot.Valid() {
			return nil, fmt.Errorf("invalid palette slot: %d", int(slot))
		}
		p.slots[slot] = &sw
	}
	for i := range SlotCount {
		for j := i + 1; j < SlotCount; j++ {
			if p.slots[i] != nil && p.slots[j] != nil && p.slots[i].Equal(*p.slots[j]) {
				return nil, fmt.Errorf("%w: %s in %s and %s", ErrDuplicateSwatch, p.slots[i].Hex(), Slot(i), Slot(j))
			}
		}
	}
	return p, nil
}

// Get returns the swatch in the given slot.
// The second return value is false if the slot is empty.
func (p *Palette) Get(slot Slot) (*Swatch, bool) {
	if p == nil || !slot.Valid() || p.slots[slot] == nil {
		return nil, false
	}
	sw := *p.slots[slot]
	return &sw, true
}

func (p *Palette) get(slot Slot) *Swatch {
	sw, _ := p.Get(slot)
	return sw
}

// Vibrant returns the Vibrant swatch, or nil.
func (p *Palette) Vibrant() *Swatch { return p.get(SlotVibrant) }

// DarkVibrant returns the Dark Vibrant swatch, or nil.
func (p *Palette) DarkVibrant() *Swatch { return p.get(SlotDarkVibrant) }

// LightVibrant returns the Light Vibrant swatch, or nil.
func (p *Palette) LightVibrant() *Swatch { return p.get(SlotLightVibrant) }

// Muted returns the Muted swatch, or nil.
func (p *Palette) Muted() *Swatch { return p.get(SlotMuted) }

// DarkMuted returns the Dark Muted swatch, or nil.
func (p *Palette) DarkMuted() *Swatch { return p.get(SlotDarkMuted) }

// LightMuted returns the Light Muted swatch, or nil.
func (p *Palette) LightMuted() *Swatch { return p.get(SlotLightMuted) }

// Len returns the number of filled slots.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, sw := range p.slots {
		if sw != nil {
			n++
		}
	}
	return n
}

// All returns an iterator over the filled slots in priority order.
func (p *Palette) All() func(func(Slot, Swatch) bool) {
	return func(yield func(Slot, Swatch) bool) {
		if p == nil {
			return
		}
		for i, sw := range p.slots {
			if sw == nil {
				continue
			}
			if !yield(Slot(i), *sw) {
				return
			}
		}
	}
}

// ToJSON converts the palette to JSON format. Empty slots are null.
func (p *Palette) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// MarshalJSON implements json.Marshaler.
func (p *Palette) MarshalJSON() ([]byte, error) {
	out := make(map[string]*Swatch, SlotCount)
	for _, slot := range AllSlots() {
		out[slot.Key()] = p.get(slot)
	}
	return json.Marshal(out)
}

// String returns a human-readable string representation of the palette.
func (p *Palette) String() string {
	var sb strings.Builder
	for _, slot := range AllSlots() {
		if sw := p.get(slot); sw != nil {
			fmt.Fprintf(&sb, "  %-14s %s (%s) population %d\n", slot.String()+":", sw.Hex(), sw.RGB().String(), sw.Population())
		} else {
			fmt.Fprintf(&sb, "  %-14s -\n", slot.String()+":")
		}
	}
	return sb.String()
}
