package isa

import "chip16vm/opcode"

// iiTable maps each Operation back to its instruction id byte.
var iiTable = map[Operation]byte{
	NOP: 0x00, CLS: 0x01, VBLNK: 0x02, BGC: 0x03, SPR: 0x04,
	DRWI: 0x05, DRWR: 0x06, RND: 0x07, FLIP: 0x08,
	SND0: 0x09, SND1: 0x0A, SND2: 0x0B, SND3: 0x0C, SNP: 0x0D, SNG: 0x0E,
	JMPI: 0x10, JMC: 0x11, JX: 0x12, JME: 0x13, CALLI: 0x14, RET: 0x15,
	JMPR: 0x16, CX: 0x17, CALLR: 0x18,
	LDIR: 0x20, LDIS: 0x21, LDMI: 0x22, LDMR: 0x23, MOV: 0x24,
	STMI: 0x30, STMR: 0x31,
	ADDI: 0x40, ADDR2: 0x41, ADDR3: 0x42,
	SUBI: 0x50, SUBR2: 0x51, SUBR3: 0x52, CMPI: 0x53, CMPR: 0x54,
	ANDI: 0x60, ANDR2: 0x61, ANDR3: 0x62, TSTI: 0x63, TSTR: 0x64,
	ORI: 0x70, ORR2: 0x71, ORR3: 0x72,
	XORI: 0x80, XORR2: 0x81, XORR3: 0x82,
	MULI: 0x90, MULR2: 0x91, MULR3: 0x92,
	DIVI: 0xA0, DIVR2: 0xA1, DIVR3: 0xA2,
	MODI: 0xA3, MODR2: 0xA4, MODR3: 0xA5,
	REMI: 0xA6, REMR2: 0xA7, REMR3: 0xA8,
	SHLN: 0xB0, SHRN: 0xB1, SARN: 0xB2, SHLR: 0xB3, SHRR: 0xB4, SARR: 0xB5,
	PUSH: 0xC0, POP: 0xC1, PUSHALL: 0xC2, POPALL: 0xC3, PUSHF: 0xC4, POPF: 0xC5,
	PALI: 0xD0, PALR: 0xD1,
	NOTI: 0xE0, NOTR1: 0xE1, NOTR2: 0xE2, NEGI: 0xE3, NEGR1: 0xE4, NEGR2: 0xE5,
}

// Encode reconstructs an opcode.Word from a decoded Instruction. Fields
// the instruction's form does not use are encoded as zero; re-decoding
// the result always yields the same Instruction, and the result equals
// the word Decode produced it from on every bit that form defines (the
// don't-care bits for that form may differ).
func Encode(inst Instruction) opcode.Word {
	ii := iiTable[inst.Op]

	var yx, ll, hh byte

	switch inst.Op {
	case SPR:
		ll, hh = inst.X, inst.Y
	case DRWI:
		yx = inst.X | inst.Y<<4
		ll, hh = byte(inst.Imm), byte(inst.Imm>>8)
	case DRWR, ADDR3, SUBR3, ANDR3, ORR3, XORR3, MULR3, DIVR3, MODR3, REMR3:
		yx = inst.X | inst.Y<<4
		ll = inst.Z
	case BGC, FLIP:
		ll = inst.N
	case JX, CX:
		yx = byte(inst.Cond)
		ll, hh = byte(inst.Imm), byte(inst.Imm>>8)
	case SHLN, SHRN, SARN:
		yx = inst.X
		ll = inst.N
	case SNG:
		yx = inst.A<<4 | inst.D
		ll = inst.S<<4 | inst.R
		hh = inst.V<<4 | inst.T
	case NOP, CLS, VBLNK, RET, PUSHALL, POPALL, PUSHF, POPF:
		// no operands
	default:
		// every remaining form fits X (low nibble of yx), optionally Y
		// (high nibble), and optionally Imm/HHLL across ll:hh.
		yx = inst.X | inst.Y<<4
		ll, hh = byte(inst.Imm), byte(inst.Imm>>8)
	}

	return opcode.Word(uint32(ii) | uint32(yx)<<8 | uint32(ll)<<16 | uint32(hh)<<24)
}
