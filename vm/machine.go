package vm

import (
	"fmt"

	"chip16vm/isa"
	"chip16vm/opcode"
	"chip16vm/rom"
)

// State is the VM's coarse execution state, mirroring the
// halted/running/error states a host needs to drive a run loop and
// report failures.
type State int

const (
	StateHalted State = iota
	StateRunning
	StateError
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateError:
		return "error"
	default:
		return "halted"
	}
}

// Machine bundles a CPU with the cycle-limit, tracing and statistics
// bookkeeping a driver wants, the way the teacher's VM type bundles a
// CPU and Memory with run-loop state. The CPU itself has no notion of
// "state" or cycle limits; those are this layer's concern.
type Machine struct {
	CPU *CPU

	State      State
	LastError  error
	MaxCycles  uint64 // 0 = unbounded
	Statistics *PerformanceStatistics
	Trace      *ExecutionTrace
}

// NewMachine returns a Machine with a fresh CPU; statistics and trace
// recording both start enabled, and the trace is unbounded.
func NewMachine(seed int64) *Machine {
	return &Machine{
		CPU:        NewCPU(seed),
		State:      StateHalted,
		Statistics: NewPerformanceStatistics(),
		Trace:      NewExecutionTrace(0),
	}
}

// LoadROM loads a parsed rom.Rom into the CPU's memory and resets
// execution to its start address.
func (m *Machine) LoadROM(r *rom.Rom) error {
	if err := m.CPU.LoadROM(r.Content, r.StartAddress); err != nil {
		return fmt.Errorf("machine: loading rom: %w", err)
	}
	m.State = StateHalted
	m.LastError = nil
	return nil
}

// Step performs one CPU step, updating state/statistics/trace around
// it. It returns the error, if any, the same way CPU.Step does; the
// Machine only adds bookkeeping and cycle-limit enforcement.
func (m *Machine) Step() error {
	if m.State == StateError {
		return fmt.Errorf("machine: in error state: %w", m.LastError)
	}
	if m.MaxCycles > 0 && m.CPU.Cycles >= m.MaxCycles {
		m.State = StateError
		m.LastError = fmt.Errorf("machine: cycle limit of %d exceeded", m.MaxCycles)
		return m.LastError
	}

	before := m.CPU.Regs.Snapshot()
	pc := m.CPU.PC
	readsBefore, writesBefore := m.CPU.Memory.ReadCount, m.CPU.Memory.WriteCount

	var inst isa.Instruction
	if !m.CPU.VBlankPending {
		raw, err := m.CPU.Memory.ReadWord32(uint32(pc))
		if err == nil {
			inst, _ = isa.Decode(opcode.Word(raw))
		}
	}

	m.State = StateRunning
	if err := m.CPU.Step(); err != nil {
		m.State = StateError
		m.LastError = err
		return err
	}

	after := m.CPU.Regs.Snapshot()
	taken := m.CPU.PC != pc+4
	m.Statistics.Record(inst, taken)
	for i := uint64(0); i < m.CPU.Memory.ReadCount-readsBefore; i++ {
		m.Statistics.RecordMemoryAccess(false)
	}
	for i := uint64(0); i < m.CPU.Memory.WriteCount-writesBefore; i++ {
		m.Statistics.RecordMemoryAccess(true)
	}
	m.Trace.RecordStep(m.CPU.Cycles, pc, inst,
		before, after,
		[4]bool{m.CPU.Flags.Carry, m.CPU.Flags.Zero, m.CPU.Flags.Overflow, m.CPU.Flags.Negative})

	return nil
}

// Run steps until a fatal error or MaxCycles is hit; it never returns a
// nil error on its own (the caller decides what "done" means for a
// ROM without a built-in halt instruction), matching the CLI's
// "execute" command which runs to host-termination or error.
func (m *Machine) Run() error {
	m.State = StateRunning
	for m.State == StateRunning {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// SampleController writes a controller's button state into the
// memory-mapped controller region ahead of a step.
func (m *Machine) SampleController(port int, buttons uint16) error {
	addr := Controller1Address
	if port == 1 {
		addr = Controller2Address
	}
	return SetController(m.CPU.Memory, addr, buttons)
}

// PresentFrame is called by the driver once per simulated vertical
// blank: it clears the VBLNK latch and returns the current framebuffer
// for the host to present.
func (m *Machine) PresentFrame() []byte {
	m.CPU.VBlank()
	return m.CPU.Video.Export()
}
