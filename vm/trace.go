package vm

import (
	"fmt"
	"io"

	"chip16vm/isa"
)

// TraceEntry is one recorded step: the instruction that ran, the flags
// immediately after it, and which registers it changed.
type TraceEntry struct {
	Sequence uint64
	PC       uint16
	Op       isa.Operation
	Flags    [4]bool // carry, zero, overflow, negative
	Changed  []byte  // register indices that changed this step
}

// ExecutionTrace records a bounded history of executed instructions and
// the registers they touched, for diagnostics — not a debugger, just an
// append-only log a host can dump after a run.
type ExecutionTrace struct {
	Enabled    bool
	MaxEntries int

	entries []TraceEntry
}

// NewExecutionTrace returns a trace capped at maxEntries (0 means
// unbounded).
func NewExecutionTrace(maxEntries int) *ExecutionTrace {
	return &ExecutionTrace{Enabled: true, MaxEntries: maxEntries}
}

// RecordStep appends one entry, comparing before/after register
// snapshots to find what changed. No-op once MaxEntries is reached.
func (t *ExecutionTrace) RecordStep(seq uint64, pc uint16, inst isa.Instruction, before, after [16]uint16, f [4]bool) {
	if !t.Enabled {
		return
	}
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}

	var changed []byte
	for i := 0; i < 16; i++ {
		if before[i] != after[i] {
			changed = append(changed, byte(i))
		}
	}

	t.entries = append(t.entries, TraceEntry{
		Sequence: seq,
		PC:       pc,
		Op:       inst.Op,
		Flags:    f,
		Changed:  changed,
	})
}

// Entries returns the recorded trace so far.
func (t *ExecutionTrace) Entries() []TraceEntry {
	return t.entries
}

// Reset clears the trace.
func (t *ExecutionTrace) Reset() {
	t.entries = t.entries[:0]
}

// Dump writes a one-line-per-entry human-readable rendering to w.
func (t *ExecutionTrace) Dump(w io.Writer) error {
	for _, e := range t.entries {
		regs := ""
		for _, r := range e.Changed {
			regs += fmt.Sprintf(" r%d", r)
		}
		_, err := fmt.Fprintf(w, "%6d pc=%#04x %-6s flags=c%vz%vo%vn%v%s\n",
			e.Sequence, e.PC, e.Op, e.Flags[0], e.Flags[1], e.Flags[2], e.Flags[3], regs)
		if err != nil {
			return err
		}
	}
	return nil
}
