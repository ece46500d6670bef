package vm

import (
	"bytes"
	"testing"

	"chip16vm/rom"
)

func TestMachineLoadROMAndRunHitsCycleLimit(t *testing.T) {
	content := []byte{
		0x20, 0x00, 0x01, 0x00, // LDIR r0, 1
		0x10, 0x00, 0x04, 0x00, // JMPI 0x0004 (tight loop)
	}
	r, err := rom.Parse(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("rom.Parse: %v", err)
	}

	m := NewMachine(1)
	m.MaxCycles = 10
	if err := m.LoadROM(r); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	err = m.Run()
	if err == nil {
		t.Fatal("expected cycle-limit error")
	}
	if m.State != StateError {
		t.Fatalf("State = %v, want StateError", m.State)
	}
	if m.CPU.Cycles < m.MaxCycles {
		t.Fatalf("Cycles = %d, want >= %d", m.CPU.Cycles, m.MaxCycles)
	}
}

func TestMachineStatisticsCountInstructions(t *testing.T) {
	content := []byte{
		0x00, 0x00, 0x00, 0x00, // NOP
		0x00, 0x00, 0x00, 0x00, // NOP
	}
	r, err := rom.Parse(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("rom.Parse: %v", err)
	}

	m := NewMachine(1)
	m.MaxCycles = 2
	if err := m.LoadROM(r); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if err := m.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if err := m.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if m.Statistics.TotalInstructions != 2 {
		t.Fatalf("TotalInstructions = %d, want 2", m.Statistics.TotalInstructions)
	}
}

func TestMachineStatisticsCountMemoryAccesses(t *testing.T) {
	content := []byte{
		0x30, 0x00, 0x10, 0x00, // STMI r0, 0x0010
	}
	r, err := rom.Parse(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("rom.Parse: %v", err)
	}

	m := NewMachine(1)
	m.MaxCycles = 1
	if err := m.LoadROM(r); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if err := m.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if m.Statistics.MemoryReads == 0 {
		t.Fatal("MemoryReads = 0, want at least the instruction fetch counted")
	}
	if m.Statistics.MemoryWrites == 0 {
		t.Fatal("MemoryWrites = 0, want STMI's store counted")
	}
}

func TestMachinePresentFrameClearsLatch(t *testing.T) {
	m := NewMachine(1)
	m.CPU.VBlankPending = true
	frame := m.PresentFrame()
	if m.CPU.VBlankPending {
		t.Fatal("PresentFrame must clear the vblank latch")
	}
	if len(frame) != ScreenWidth*ScreenHeight {
		t.Fatalf("frame length = %d, want %d", len(frame), ScreenWidth*ScreenHeight)
	}
}

func TestMachineSampleController(t *testing.T) {
	m := NewMachine(1)
	if err := m.SampleController(0, ButtonA); err != nil {
		t.Fatalf("SampleController: %v", err)
	}
	got, err := GetController(m.CPU.Memory, Controller1Address)
	if err != nil {
		t.Fatalf("GetController: %v", err)
	}
	if got != ButtonA {
		t.Fatalf("got %#04x, want %#04x", got, ButtonA)
	}
}
