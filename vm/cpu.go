package vm

import (
	"math/rand" // #nosec G404 -- pseudo-random for emulator RNG, not crypto

	"chip16vm/flags"
)

// CPU owns every piece of mutable Chip16 state: registers, memory,
// video memory, palette, flags, the sprite/flip state, the program
// counter and stack pointer, the vblank latch, and the RNG. A step is
// atomic with respect to any outer driver; there are no suspension
// points inside it.
type CPU struct {
	Regs    Registers
	Memory  *Memory
	Video   *VideoMemory
	Palette *Palette
	Flags   flags.Flags
	Sprite  SpriteState
	Audio   AudioSink

	PC uint16
	SP uint16

	BGColor byte // low nibble only

	VBlankPending bool

	rng *rand.Rand

	// Cycles counts completed steps, for statistics and cycle limits.
	Cycles uint64
}

// NewCPU returns a CPU with a fresh 64 KiB memory, cleared video memory,
// the default palette, and a seeded RNG. Audio defaults to a buffered
// sink a driver can drain.
func NewCPU(seed int64) *CPU {
	return &CPU{
		Memory:  NewMemory(),
		Video:   NewVideoMemory(),
		Palette: NewPalette(),
		Audio:   &BufferedAudio{},
		rng:     rand.New(rand.NewSource(seed)), // #nosec G404
	}
}

// Reset clears registers, memory, video memory, flags, sprite/flip
// state and the vblank latch, and rewinds PC/SP to zero. The palette is
// restored to its defaults and the RNG is left running (re-seeding
// would make ROM behavior depend on reset timing).
func (c *CPU) Reset() {
	c.Regs.Reset()
	c.Memory.Reset()
	c.Video.Clear()
	c.Palette = NewPalette()
	c.Flags = flags.Flags{}
	c.Sprite = SpriteState{}
	c.PC = 0
	c.SP = 0
	c.BGColor = 0
	c.VBlankPending = false
	c.Cycles = 0
}

// LoadROM places content at address 0 and sets PC to entry.
func (c *CPU) LoadROM(content []byte, entry uint16) error {
	if err := c.Memory.LoadBytes(0, content); err != nil {
		return err
	}
	c.PC = entry
	return nil
}

// VBlank is called by the driver once per simulated vertical blank: it
// clears the latch VBLNK set and lets the CPU resume polling.
func (c *CPU) VBlank() {
	c.VBlankPending = false
}

// randInclusive returns a uniform value in [0, max] inclusive; an empty
// range (max == 0) always yields 0.
func (c *CPU) randInclusive(max uint16) uint16 {
	if max == 0 {
		return 0
	}
	return uint16(c.rng.Intn(int(max) + 1))
}
