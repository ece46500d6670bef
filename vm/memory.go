package vm

import "fmt"

// MemorySize is the fixed size of Chip16 main memory: a flat,
// byte-addressable 64 KiB space.
const MemorySize = 65536

// Memory is the flat 64 KiB main memory. Loads and stores of 16- and
// 32-bit quantities are little-endian at any byte offset; there is no
// alignment requirement. Any access outside [0, MemorySize) is a fatal
// error, not a wraparound.
type Memory struct {
	data        [MemorySize]byte
	AccessCount uint64
	ReadCount   uint64
	WriteCount  uint64
}

// NewMemory returns a zeroed 64 KiB memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Reset zeroes memory and its access counters.
func (m *Memory) Reset() {
	m.data = [MemorySize]byte{}
	m.AccessCount = 0
	m.ReadCount = 0
	m.WriteCount = 0
}

func rangeError(op string, address uint32, size int) error {
	return fmt.Errorf("memory: %s out of range at address %#06x (size %d, memory is %d bytes)", op, address, size, MemorySize)
}

// ReadByte reads a single byte at address.
func (m *Memory) ReadByte(address uint32) (byte, error) {
	if address >= MemorySize {
		return 0, rangeError("read", address, 1)
	}
	m.AccessCount++
	m.ReadCount++
	return m.data[address], nil
}

// WriteByte writes a single byte at address.
func (m *Memory) WriteByte(address uint32, value byte) error {
	if address >= MemorySize {
		return rangeError("write", address, 1)
	}
	m.AccessCount++
	m.WriteCount++
	m.data[address] = value
	return nil
}

// ReadWord16 reads a little-endian 16-bit word at address.
func (m *Memory) ReadWord16(address uint32) (uint16, error) {
	if address+1 >= MemorySize {
		return 0, rangeError("16-bit read", address, 2)
	}
	m.AccessCount++
	m.ReadCount++
	return uint16(m.data[address]) | uint16(m.data[address+1])<<8, nil
}

// WriteWord16 writes a little-endian 16-bit word at address.
func (m *Memory) WriteWord16(address uint32, value uint16) error {
	if address+1 >= MemorySize {
		return rangeError("16-bit write", address, 2)
	}
	m.AccessCount++
	m.WriteCount++
	m.data[address] = byte(value)
	m.data[address+1] = byte(value >> 8)
	return nil
}

// ReadWord32 reads a little-endian 32-bit word at address.
func (m *Memory) ReadWord32(address uint32) (uint32, error) {
	if address+3 >= MemorySize {
		return 0, rangeError("32-bit read", address, 4)
	}
	m.AccessCount++
	m.ReadCount++
	return uint32(m.data[address]) |
		uint32(m.data[address+1])<<8 |
		uint32(m.data[address+2])<<16 |
		uint32(m.data[address+3])<<24, nil
}

// WriteWord32 writes a little-endian 32-bit word at address.
func (m *Memory) WriteWord32(address uint32, value uint32) error {
	if address+3 >= MemorySize {
		return rangeError("32-bit write", address, 4)
	}
	m.AccessCount++
	m.WriteCount++
	m.data[address] = byte(value)
	m.data[address+1] = byte(value >> 8)
	m.data[address+2] = byte(value >> 16)
	m.data[address+3] = byte(value >> 24)
	return nil
}

// LoadBytes copies data into memory starting at address. Used once at
// reset to place ROM content; the whole copy must fit or it is rejected
// before any byte is written.
func (m *Memory) LoadBytes(address uint32, data []byte) error {
	if int(address)+len(data) > MemorySize {
		return fmt.Errorf("memory: load of %d bytes at %#06x exceeds memory size %d", len(data), address, MemorySize)
	}
	copy(m.data[address:], data)
	return nil
}

// GetBytes returns a copy of length bytes starting at address, for
// inspection (disassembly, PALI/PALR sourcing).
func (m *Memory) GetBytes(address uint32, length uint32) ([]byte, error) {
	if uint64(address)+uint64(length) > MemorySize {
		return nil, rangeError("read", address, int(length))
	}
	out := make([]byte, length)
	copy(out, m.data[address:uint64(address)+uint64(length)])
	return out, nil
}
