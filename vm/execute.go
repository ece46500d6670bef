package vm

import (
	"fmt"

	"chip16vm/flags"
	"chip16vm/isa"
	"chip16vm/opcode"
)

// pcLimit is the lowest program counter at which Step refuses to fetch.
// An instruction there would still fit inside the 64 KiB address space,
// but advancing PC past it would wrap to zero, so reaching it is a fatal
// error rather than a silent wrap.
const pcLimit = MemorySize - 4

// Step performs one fetch-decode-execute cycle. If a vertical-blank
// latch is pending from a previous VBLNK, the CPU does nothing at all:
// it does not fetch, does not advance PC, and returns nil, polling
// until the driver calls VBlank() to clear the latch.
func (c *CPU) Step() error {
	if c.VBlankPending {
		return nil
	}

	if c.PC >= pcLimit {
		return &RuntimeError{Kind: ErrProgramCounterOverrun, PC: c.PC}
	}

	raw, err := c.Memory.ReadWord32(uint32(c.PC))
	if err != nil {
		return &RuntimeError{Kind: ErrMemoryAccess, PC: c.PC, Address: uint32(c.PC), Cause: err}
	}

	instPC := c.PC
	c.PC += 4

	inst, err := isa.Decode(opcode.Word(raw))
	if err != nil {
		return fmt.Errorf("chip16: decode at pc=%#04x: %w", instPC, err)
	}

	if err := c.execute(inst); err != nil {
		return err
	}
	c.Cycles++
	return nil
}

func (c *CPU) readM16(addr uint32) (uint16, error) {
	v, err := c.Memory.ReadWord16(addr)
	if err != nil {
		return 0, &RuntimeError{Kind: ErrMemoryAccess, PC: c.PC, Address: addr, Cause: err}
	}
	return v, nil
}

func (c *CPU) writeM16(addr uint32, v uint16) error {
	if err := c.Memory.WriteWord16(addr, v); err != nil {
		return &RuntimeError{Kind: ErrMemoryAccess, PC: c.PC, Address: addr, Cause: err}
	}
	return nil
}

func (c *CPU) readByte(addr uint32) (byte, error) {
	v, err := c.Memory.ReadByte(addr)
	if err != nil {
		return 0, &RuntimeError{Kind: ErrMemoryAccess, PC: c.PC, Address: addr, Cause: err}
	}
	return v, nil
}

func (c *CPU) writeByte(addr uint32, v byte) error {
	if err := c.Memory.WriteByte(addr, v); err != nil {
		return &RuntimeError{Kind: ErrMemoryAccess, PC: c.PC, Address: addr, Cause: err}
	}
	return nil
}

func (c *CPU) push(v uint16) error {
	if err := c.writeM16(uint32(c.SP), v); err != nil {
		return err
	}
	c.SP += 2
	return nil
}

func (c *CPU) pop() (uint16, error) {
	c.SP -= 2
	return c.readM16(uint32(c.SP))
}

func (c *CPU) divideError() error {
	return &RuntimeError{Kind: ErrDivideByZero, PC: c.PC}
}

// arithOp is the shape of every flags.Add/Sub/.../Xor style helper.
type arithOp func(a, b uint16) (uint16, flags.Flags)

func (c *CPU) arithImm(inst isa.Instruction, op arithOp, write bool) {
	result, f := op(c.Regs.Get(inst.X), inst.Imm)
	c.Flags = f
	if write {
		c.Regs.Set(inst.X, result)
	}
}

func (c *CPU) arithR2(inst isa.Instruction, op arithOp, write bool) {
	result, f := op(c.Regs.Get(inst.X), c.Regs.Get(inst.Y))
	c.Flags = f
	if write {
		c.Regs.Set(inst.X, result)
	}
}

func (c *CPU) arithR3(inst isa.Instruction, op arithOp) {
	result, f := op(c.Regs.Get(inst.X), c.Regs.Get(inst.Y))
	c.Flags = f
	c.Regs.Set(inst.Z, result)
}

func (c *CPU) execute(inst isa.Instruction) error {
	switch inst.Op {
	case isa.NOP:
		// nothing

	case isa.CLS:
		c.BGColor = 0
		c.Video.Clear()

	case isa.VBLNK:
		c.VBlankPending = true

	case isa.BGC:
		c.BGColor = inst.N & 0x0F

	case isa.SPR:
		c.Sprite.WidthBytes = inst.X
		c.Sprite.Height = inst.Y

	case isa.DRWI:
		return c.drw(int16(c.Regs.Get(inst.X)), int16(c.Regs.Get(inst.Y)), uint32(inst.Imm))

	case isa.DRWR:
		return c.drw(int16(c.Regs.Get(inst.X)), int16(c.Regs.Get(inst.Y)), uint32(c.Regs.Get(inst.Z)))

	case isa.RND:
		c.Regs.Set(inst.X, c.randInclusive(inst.Imm))

	case isa.FLIP:
		c.Sprite.SetFlip(inst.N)

	case isa.SND0:
		c.Audio.Emit(AudioEvent{Kind: AudioStop})
	case isa.SND1:
		c.Audio.Emit(AudioEvent{Kind: AudioTone1, Freq: inst.Imm})
	case isa.SND2:
		c.Audio.Emit(AudioEvent{Kind: AudioTone2, Freq: inst.Imm})
	case isa.SND3:
		c.Audio.Emit(AudioEvent{Kind: AudioTone3, Freq: inst.Imm})
	case isa.SNP:
		c.Audio.Emit(AudioEvent{Kind: AudioNote, NoteX: inst.X, Note: inst.Imm})
	case isa.SNG:
		c.Audio.Emit(AudioEvent{
			Kind: AudioEnvelope,
			Attack: inst.A, Decay: inst.D, Sustain: inst.S, Release: inst.R,
			Volume: inst.V, Wave: inst.T,
		})

	case isa.JMPI:
		c.PC = inst.Imm
	case isa.JMC:
		if c.Flags.Carry {
			c.PC = inst.Imm
		}
	case isa.JX:
		if inst.Cond.Test(c.Flags.Carry, c.Flags.Zero, c.Flags.Overflow, c.Flags.Negative) {
			c.PC = inst.Imm
		}
	case isa.JME:
		if c.Regs.Get(inst.X) == c.Regs.Get(inst.Y) {
			c.PC = inst.Imm
		}
	case isa.CALLI:
		if err := c.push(c.PC); err != nil {
			return err
		}
		c.PC = inst.Imm
	case isa.RET:
		pc, err := c.pop()
		if err != nil {
			return err
		}
		c.PC = pc
	case isa.JMPR:
		c.PC = c.Regs.Get(inst.X)
	case isa.CX:
		if inst.Cond.Test(c.Flags.Carry, c.Flags.Zero, c.Flags.Overflow, c.Flags.Negative) {
			if err := c.push(c.PC); err != nil {
				return err
			}
			c.PC = inst.Imm
		}
	case isa.CALLR:
		target := c.Regs.Get(inst.X)
		if err := c.push(c.PC); err != nil {
			return err
		}
		c.PC = target

	case isa.LDIR:
		c.Regs.Set(inst.X, inst.Imm)
	case isa.LDIS:
		c.SP = inst.Imm
	case isa.LDMI:
		v, err := c.readM16(uint32(inst.Imm))
		if err != nil {
			return err
		}
		c.Regs.Set(inst.X, v)
	case isa.LDMR:
		v, err := c.readM16(uint32(c.Regs.Get(inst.Y)))
		if err != nil {
			return err
		}
		c.Regs.Set(inst.X, v)
	case isa.MOV:
		c.Regs.Set(inst.X, c.Regs.Get(inst.Y))

	case isa.STMI:
		if err := c.writeM16(uint32(inst.Imm), c.Regs.Get(inst.X)); err != nil {
			return err
		}
	case isa.STMR:
		if err := c.writeM16(uint32(c.Regs.Get(inst.Y)), c.Regs.Get(inst.X)); err != nil {
			return err
		}

	case isa.ADDI:
		c.arithImm(inst, flags.Add, true)
	case isa.ADDR2:
		c.arithR2(inst, flags.Add, true)
	case isa.ADDR3:
		c.arithR3(inst, flags.Add)

	case isa.SUBI:
		c.arithImm(inst, flags.Sub, true)
	case isa.SUBR2:
		c.arithR2(inst, flags.Sub, true)
	case isa.SUBR3:
		c.arithR3(inst, flags.Sub)
	case isa.CMPI:
		c.arithImm(inst, flags.Sub, false)
	case isa.CMPR:
		c.arithR2(inst, flags.Sub, false)

	case isa.ANDI:
		c.arithImm(inst, flags.And, true)
	case isa.ANDR2:
		c.arithR2(inst, flags.And, true)
	case isa.ANDR3:
		c.arithR3(inst, flags.And)
	case isa.TSTI:
		c.arithImm(inst, flags.And, false)
	case isa.TSTR:
		c.arithR2(inst, flags.And, false)

	case isa.ORI:
		c.arithImm(inst, flags.Or, true)
	case isa.ORR2:
		c.arithR2(inst, flags.Or, true)
	case isa.ORR3:
		c.arithR3(inst, flags.Or)

	case isa.XORI:
		c.arithImm(inst, flags.Xor, true)
	case isa.XORR2:
		c.arithR2(inst, flags.Xor, true)
	case isa.XORR3:
		c.arithR3(inst, flags.Xor)

	case isa.MULI:
		c.arithImm(inst, flags.Mul, true)
	case isa.MULR2:
		c.arithR2(inst, flags.Mul, true)
	case isa.MULR3:
		c.arithR3(inst, flags.Mul)

	case isa.DIVI:
		if inst.Imm == 0 {
			return c.divideError()
		}
		c.arithImm(inst, flags.Div, true)
	case isa.DIVR2:
		if c.Regs.Get(inst.Y) == 0 {
			return c.divideError()
		}
		c.arithR2(inst, flags.Div, true)
	case isa.DIVR3:
		if c.Regs.Get(inst.Y) == 0 {
			return c.divideError()
		}
		c.arithR3(inst, flags.Div)

	case isa.MODI:
		if inst.Imm == 0 {
			return c.divideError()
		}
		c.arithImm(inst, flags.Mod, true)
	case isa.MODR2:
		if c.Regs.Get(inst.Y) == 0 {
			return c.divideError()
		}
		c.arithR2(inst, flags.Mod, true)
	case isa.MODR3:
		if c.Regs.Get(inst.Y) == 0 {
			return c.divideError()
		}
		c.arithR3(inst, flags.Mod)

	case isa.REMI:
		if inst.Imm == 0 {
			return c.divideError()
		}
		c.arithImm(inst, flags.Rem, true)
	case isa.REMR2:
		if c.Regs.Get(inst.Y) == 0 {
			return c.divideError()
		}
		c.arithR2(inst, flags.Rem, true)
	case isa.REMR3:
		if c.Regs.Get(inst.Y) == 0 {
			return c.divideError()
		}
		c.arithR3(inst, flags.Rem)

	case isa.SHLN:
		result, f := flags.Shl(c.Regs.Get(inst.X), uint(inst.N))
		c.Flags = f
		c.Regs.Set(inst.X, result)
	case isa.SHRN:
		result, f := flags.Shr(c.Regs.Get(inst.X), uint(inst.N))
		c.Flags = f
		c.Regs.Set(inst.X, result)
	case isa.SARN:
		result, f := flags.Sar(c.Regs.Get(inst.X), uint(inst.N))
		c.Flags = f
		c.Regs.Set(inst.X, result)
	case isa.SHLR:
		result, f := flags.Shl(c.Regs.Get(inst.X), uint(c.Regs.Get(inst.Y)&0x0F))
		c.Flags = f
		c.Regs.Set(inst.X, result)
	case isa.SHRR:
		result, f := flags.Shr(c.Regs.Get(inst.X), uint(c.Regs.Get(inst.Y)&0x0F))
		c.Flags = f
		c.Regs.Set(inst.X, result)
	case isa.SARR:
		result, f := flags.Sar(c.Regs.Get(inst.X), uint(c.Regs.Get(inst.Y)&0x0F))
		c.Flags = f
		c.Regs.Set(inst.X, result)

	case isa.PUSH:
		if err := c.push(c.Regs.Get(inst.X)); err != nil {
			return err
		}
	case isa.POP:
		v, err := c.pop()
		if err != nil {
			return err
		}
		c.Regs.Set(inst.X, v)
	case isa.PUSHALL:
		for i := byte(0); i < 16; i++ {
			if err := c.push(c.Regs.Get(i)); err != nil {
				return err
			}
		}
	case isa.POPALL:
		for i := int(15); i >= 0; i-- {
			v, err := c.pop()
			if err != nil {
				return err
			}
			c.Regs.Set(byte(i), v)
		}
	case isa.PUSHF:
		if err := c.writeByte(uint32(c.SP), flags.Pack(c.Flags)); err != nil {
			return err
		}
		c.SP += 2
	case isa.POPF:
		c.SP -= 2
		b, err := c.readByte(uint32(c.SP))
		if err != nil {
			return err
		}
		c.Flags = flags.Unpack(b)

	case isa.PALI:
		data, err := c.Memory.GetBytes(uint32(inst.Imm), 48)
		if err != nil {
			return &RuntimeError{Kind: ErrMemoryAccess, PC: c.PC, Address: uint32(inst.Imm), Cause: err}
		}
		c.Palette.LoadFromBytes(data)
	case isa.PALR:
		addr := uint32(c.Regs.Get(inst.X))
		data, err := c.Memory.GetBytes(addr, 48)
		if err != nil {
			return &RuntimeError{Kind: ErrMemoryAccess, PC: c.PC, Address: addr, Cause: err}
		}
		c.Palette.LoadFromBytes(data)

	case isa.NOTI:
		result, f := flags.Not(inst.Imm)
		c.Flags = f
		c.Regs.Set(inst.X, result)
	case isa.NOTR1:
		result, f := flags.Not(c.Regs.Get(inst.X))
		c.Flags = f
		c.Regs.Set(inst.X, result)
	case isa.NOTR2:
		result, f := flags.Not(c.Regs.Get(inst.Y))
		c.Flags = f
		c.Regs.Set(inst.X, result)
	case isa.NEGI:
		result, f := flags.Neg(inst.Imm)
		c.Flags = f
		c.Regs.Set(inst.X, result)
	case isa.NEGR1:
		result, f := flags.Neg(c.Regs.Get(inst.X))
		c.Flags = f
		c.Regs.Set(inst.X, result)
	case isa.NEGR2:
		result, f := flags.Neg(c.Regs.Get(inst.Y))
		c.Flags = f
		c.Regs.Set(inst.X, result)

	default:
		return fmt.Errorf("chip16: unhandled operation %v at pc=%#04x", inst.Op, c.PC)
	}

	return nil
}

func (c *CPU) drw(x, y int16, addr uint32) error {
	collision, err := c.Sprite.Blit(c.Memory, c.Video, x, y, addr)
	if err != nil {
		return &RuntimeError{Kind: ErrMemoryAccess, PC: c.PC, Address: addr, Cause: err}
	}
	c.Flags.Carry = collision
	return nil
}
