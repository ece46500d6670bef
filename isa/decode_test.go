package isa

import (
	"testing"

	"chip16vm/opcode"
)

func word(b0, b1, b2, b3 byte) opcode.Word {
	return opcode.Word(uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24)
}

func TestDecodeNOP(t *testing.T) {
	inst, err := Decode(opcode.Word(0))
	if err != nil {
		t.Fatalf("Decode(0) error: %v", err)
	}
	if inst.Op != NOP {
		t.Fatalf("Op = %v, want NOP", inst.Op)
	}
}

func TestDecodeLDIR(t *testing.T) {
	inst, err := Decode(word(0x20, 0x00, 0x05, 0x00))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if inst.Op != LDIR || inst.X != 0 || inst.Imm != 5 {
		t.Fatalf("got %+v, want LDIR r0, 5", inst)
	}
}

func TestDecodeADDI(t *testing.T) {
	inst, err := Decode(word(0x40, 0x00, 0x03, 0x00))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if inst.Op != ADDI || inst.X != 0 || inst.Imm != 3 {
		t.Fatalf("got %+v, want ADDI r0, 3", inst)
	}
}

func TestDecodeCALLIandRET(t *testing.T) {
	inst, err := Decode(word(0x14, 0x00, 0x20, 0x00))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if inst.Op != CALLI || inst.Imm != 0x20 {
		t.Fatalf("got %+v, want CALLI 0x20", inst)
	}

	ret, err := Decode(word(0x15, 0x00, 0x00, 0x00))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if ret.Op != RET {
		t.Fatalf("Op = %v, want RET", ret.Op)
	}
}

func TestDecodeUnknownInstructionID(t *testing.T) {
	_, err := Decode(word(0xFF, 0, 0, 0))
	if err == nil {
		t.Fatal("expected decode error for unknown instruction id 0xFF")
	}
	var decErr *DecodeError
	if !asDecodeError(err, &decErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if decErr.II != 0xFF {
		t.Fatalf("II = %#x, want 0xFF", decErr.II)
	}
}

func asDecodeError(err error, target **DecodeError) bool {
	de, ok := err.(*DecodeError)
	if !ok {
		return false
	}
	*target = de
	return true
}

func TestDecodeADDR3RegisterNibbles(t *testing.T) {
	inst, err := Decode(word(0x42, 0xBA, 0x0C, 0x00))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if inst.X != 0xA || inst.Y != 0xB || inst.Z != 0xC {
		t.Fatalf("got X=%x Y=%x Z=%x, want A,B,C", inst.X, inst.Y, inst.Z)
	}
}

func TestDecodeJXCondition(t *testing.T) {
	// JX Z, 0x0010 -- condition Z is nibble 0.
	inst, err := Decode(word(0x12, 0x00, 0x10, 0x00))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if inst.Cond != Z || inst.Imm != 0x10 {
		t.Fatalf("got %+v, want cond Z, imm 0x10", inst)
	}
}

func TestConditionTable(t *testing.T) {
	cases := []struct {
		c                                  Condition
		carry, zero, overflow, negative, want bool
	}{
		{Z, false, true, false, false, true},
		{NZ, false, false, false, false, true},
		{N, false, false, false, true, true},
		{NN, false, false, false, false, true},
		{P, false, false, false, false, true},
		{O, false, false, true, false, true},
		{NO, false, false, false, false, true},
		{A, false, false, false, false, true},
		{AE, false, false, false, false, true},
		{B, true, false, false, false, true},
		{BE, true, false, false, false, true},
		{G, false, false, true, true, true},
		{GE, false, false, true, true, true},
		{L, false, false, true, false, true},
		{LE, false, true, false, false, true},
	}
	for _, tc := range cases {
		got := tc.c.Test(tc.carry, tc.zero, tc.overflow, tc.negative)
		if got != tc.want {
			t.Errorf("%v.Test(carry=%v,zero=%v,overflow=%v,negative=%v) = %v, want %v",
				tc.c, tc.carry, tc.zero, tc.overflow, tc.negative, got, tc.want)
		}
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	words := []opcode.Word{
		word(0x00, 0, 0, 0),
		word(0x20, 0x03, 0x05, 0x00),
		word(0x40, 0x03, 0x03, 0x00),
		word(0x42, 0xBA, 0x0C, 0x00),
		word(0x14, 0x00, 0x20, 0x00),
		word(0x15, 0x00, 0x00, 0x00),
		word(0x12, 0x00, 0x10, 0x00),
		word(0xC4, 0x00, 0x00, 0x00),
		word(0x0E, 0x12, 0x34, 0x56),
	}
	for _, w := range words {
		inst, err := Decode(w)
		if err != nil {
			t.Fatalf("Decode(%#08x) error: %v", uint32(w), err)
		}
		reinst, err := Decode(Encode(inst))
		if err != nil {
			t.Fatalf("Decode(Encode(...)) error: %v", err)
		}
		// Don't-care bits may differ between w and Encode(inst), so compare
		// everything except the raw Word each was decoded from.
		inst.Word, reinst.Word = 0, 0
		if reinst != inst {
			t.Fatalf("round trip mismatch: decode(%#08x)=%+v, decode(encode(...))=%+v", uint32(w), inst, reinst)
		}
	}
}
