package vm

import (
	"fmt"

	"chip16vm/isa"
)

// Disassemble renders a decoded instruction as a mnemonic plus operands,
// the form the "disassemble" CLI command prints per word.
func Disassemble(inst isa.Instruction) string {
	switch inst.Op {
	case isa.NOP, isa.CLS, isa.VBLNK, isa.RET, isa.PUSHALL, isa.POPALL, isa.PUSHF, isa.POPF, isa.SND0:
		return inst.Op.String()

	case isa.BGC:
		return fmt.Sprintf("BGC %d", inst.N)
	case isa.SPR:
		return fmt.Sprintf("SPR %#02x, %#02x", inst.X, inst.Y)
	case isa.DRWI:
		return fmt.Sprintf("DRW r%d, r%d, %#04x", inst.X, inst.Y, inst.Imm)
	case isa.DRWR:
		return fmt.Sprintf("DRW r%d, r%d, r%d", inst.X, inst.Y, inst.Z)
	case isa.RND:
		return fmt.Sprintf("RND r%d, %#04x", inst.X, inst.Imm)
	case isa.FLIP:
		return fmt.Sprintf("FLIP %d", inst.N)

	case isa.SND1, isa.SND2, isa.SND3:
		return fmt.Sprintf("%s %#04x", inst.Op, inst.Imm)
	case isa.SNP:
		return fmt.Sprintf("SNP r%d, %#04x", inst.X, inst.Imm)
	case isa.SNG:
		return fmt.Sprintf("SNG %d,%d,%d,%d,%d,%d", inst.A, inst.D, inst.S, inst.R, inst.V, inst.T)

	case isa.JMPI, isa.JMC, isa.CALLI:
		return fmt.Sprintf("%s %#04x", inst.Op, inst.Imm)
	case isa.JX:
		return fmt.Sprintf("JX %s, %#04x", inst.Cond, inst.Imm)
	case isa.JME:
		return fmt.Sprintf("JME r%d, r%d, %#04x", inst.X, inst.Y, inst.Imm)
	case isa.JMPR, isa.CALLR:
		return fmt.Sprintf("%s r%d", inst.Op, inst.X)
	case isa.CX:
		return fmt.Sprintf("CX %s, %#04x", inst.Cond, inst.Imm)

	case isa.LDIR:
		return fmt.Sprintf("LDI r%d, %#04x", inst.X, inst.Imm)
	case isa.LDIS:
		return fmt.Sprintf("LDI sp, %#04x", inst.Imm)
	case isa.LDMI:
		return fmt.Sprintf("LDM r%d, %#04x", inst.X, inst.Imm)
	case isa.LDMR:
		return fmt.Sprintf("LDM r%d, r%d", inst.X, inst.Y)
	case isa.MOV:
		return fmt.Sprintf("MOV r%d, r%d", inst.X, inst.Y)
	case isa.STMI:
		return fmt.Sprintf("STM r%d, %#04x", inst.X, inst.Imm)
	case isa.STMR:
		return fmt.Sprintf("STM r%d, r%d", inst.X, inst.Y)

	case isa.PUSH, isa.POP:
		return fmt.Sprintf("%s r%d", inst.Op, inst.X)
	case isa.PALI:
		return fmt.Sprintf("PAL %#04x", inst.Imm)
	case isa.PALR:
		return fmt.Sprintf("PAL r%d", inst.X)

	case isa.NOTI:
		return fmt.Sprintf("NOT r%d, %#04x", inst.X, inst.Imm)
	case isa.NOTR1:
		return fmt.Sprintf("NOT r%d", inst.X)
	case isa.NOTR2:
		return fmt.Sprintf("NOT r%d, r%d", inst.X, inst.Y)
	case isa.NEGI:
		return fmt.Sprintf("NEG r%d, %#04x", inst.X, inst.Imm)
	case isa.NEGR1:
		return fmt.Sprintf("NEG r%d", inst.X)
	case isa.NEGR2:
		return fmt.Sprintf("NEG r%d, r%d", inst.X, inst.Y)

	default:
		return disassembleArith(inst)
	}
}

func disassembleArith(inst isa.Instruction) string {
	name := inst.Op.String()
	switch inst.Op {
	case isa.ADDI, isa.SUBI, isa.CMPI, isa.ANDI, isa.TSTI, isa.ORI, isa.XORI,
		isa.MULI, isa.DIVI, isa.MODI, isa.REMI:
		return fmt.Sprintf("%s r%d, %#04x", name, inst.X, inst.Imm)
	case isa.ADDR2, isa.SUBR2, isa.CMPR, isa.ANDR2, isa.TSTR, isa.ORR2, isa.XORR2,
		isa.MULR2, isa.DIVR2, isa.MODR2, isa.REMR2:
		return fmt.Sprintf("%s r%d, r%d", name, inst.X, inst.Y)
	case isa.ADDR3, isa.SUBR3, isa.ANDR3, isa.ORR3, isa.XORR3,
		isa.MULR3, isa.DIVR3, isa.MODR3, isa.REMR3:
		return fmt.Sprintf("%s r%d, r%d, r%d", name, inst.X, inst.Y, inst.Z)
	case isa.SHLN, isa.SHRN, isa.SARN:
		return fmt.Sprintf("%s r%d, %d", name, inst.X, inst.N)
	case isa.SHLR, isa.SHRR, isa.SARR:
		return fmt.Sprintf("%s r%d, r%d", name, inst.X, inst.Y)
	default:
		return name
	}
}
