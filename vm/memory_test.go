package vm

import "testing"

func TestMemoryWord16RoundTrip(t *testing.T) {
	m := NewMemory()
	if err := m.WriteWord16(0x1000, 0xBEEF); err != nil {
		t.Fatalf("WriteWord16: %v", err)
	}
	got, err := m.ReadWord16(0x1000)
	if err != nil {
		t.Fatalf("ReadWord16: %v", err)
	}
	if got != 0xBEEF {
		t.Fatalf("got %#04x, want 0xBEEF", got)
	}
	// little-endian: low byte first
	lo, _ := m.ReadByte(0x1000)
	hi, _ := m.ReadByte(0x1001)
	if lo != 0xEF || hi != 0xBE {
		t.Fatalf("bytes = %#02x %#02x, want EF BE", lo, hi)
	}
}

func TestMemoryWord32RoundTrip(t *testing.T) {
	m := NewMemory()
	if err := m.WriteWord32(0x2000, 0xDEADBEEF); err != nil {
		t.Fatalf("WriteWord32: %v", err)
	}
	got, err := m.ReadWord32(0x2000)
	if err != nil {
		t.Fatalf("ReadWord32: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Fatalf("got %#08x, want 0xDEADBEEF", got)
	}
}

func TestMemoryOutOfRangeIsError(t *testing.T) {
	m := NewMemory()
	if _, err := m.ReadByte(MemorySize); err == nil {
		t.Fatal("ReadByte at MemorySize should fail")
	}
	if _, err := m.ReadWord16(MemorySize - 1); err == nil {
		t.Fatal("ReadWord16 spanning past MemorySize should fail")
	}
	if _, err := m.ReadWord32(MemorySize - 3); err == nil {
		t.Fatal("ReadWord32 spanning past MemorySize should fail")
	}
}

func TestMemoryLoadAndGetBytes(t *testing.T) {
	m := NewMemory()
	data := []byte{1, 2, 3, 4, 5}
	if err := m.LoadBytes(10, data); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	got, err := m.GetBytes(10, 5)
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	for i, b := range data {
		if got[i] != b {
			t.Fatalf("byte %d = %d, want %d", i, got[i], b)
		}
	}
}

func TestMemoryLoadBytesTooLargeRejected(t *testing.T) {
	m := NewMemory()
	if err := m.LoadBytes(MemorySize-2, []byte{1, 2, 3}); err == nil {
		t.Fatal("LoadBytes overflowing memory should fail")
	}
}
