package vm

import "chip16vm/isa"

// PerformanceStatistics tracks execution counters across a run: how many
// of each instruction executed, how many cycles elapsed, and how the
// branch instructions resolved. It is pure bookkeeping the host can
// print or export; nothing in the CPU's semantics depends on it.
type PerformanceStatistics struct {
	Enabled bool

	TotalInstructions uint64
	InstructionCounts map[isa.Operation]uint64

	BranchCount      uint64
	BranchTakenCount uint64

	MemoryReads  uint64
	MemoryWrites uint64
}

// NewPerformanceStatistics returns an enabled, empty statistics tracker.
func NewPerformanceStatistics() *PerformanceStatistics {
	return &PerformanceStatistics{
		Enabled:           true,
		InstructionCounts: make(map[isa.Operation]uint64),
	}
}

func isBranch(op isa.Operation) bool {
	switch op {
	case isa.JMPI, isa.JMC, isa.JX, isa.JME, isa.CALLI, isa.RET, isa.JMPR, isa.CX, isa.CALLR:
		return true
	default:
		return false
	}
}

// Record updates the counters for one executed instruction. taken counts
// toward BranchTakenCount for every branch form, conditional (JMC, JX,
// JME, CX) or not; it is ignored for non-branch instructions.
func (s *PerformanceStatistics) Record(inst isa.Instruction, taken bool) {
	if !s.Enabled {
		return
	}
	s.TotalInstructions++
	s.InstructionCounts[inst.Op]++
	if isBranch(inst.Op) {
		s.BranchCount++
		if taken {
			s.BranchTakenCount++
		}
	}
}

// RecordMemoryAccess tallies a memory read or write observed by the
// caller (Memory keeps its own per-access counters; this layer holds the
// totals a caller replays into it for reporting).
func (s *PerformanceStatistics) RecordMemoryAccess(isWrite bool) {
	if !s.Enabled {
		return
	}
	if isWrite {
		s.MemoryWrites++
	} else {
		s.MemoryReads++
	}
}

// Reset clears every counter.
func (s *PerformanceStatistics) Reset() {
	s.TotalInstructions = 0
	s.InstructionCounts = make(map[isa.Operation]uint64)
	s.BranchCount = 0
	s.BranchTakenCount = 0
	s.MemoryReads = 0
	s.MemoryWrites = 0
}
