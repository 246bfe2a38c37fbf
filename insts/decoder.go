package insts

// ByteSource is the address space an instruction is fetched from.
type ByteSource interface {
	// Read8 returns the byte at addr, or an error if addr is not mapped.
	Read8(addr uint64) (byte, error)
}

// Bytes adapts a byte slice, mapped at address 0, as a ByteSource.
type Bytes []byte

// Read8 returns b[addr], or ErrTruncated past the end of the slice.
func (b Bytes) Read8(addr uint64) (byte, error) {
	if addr >= uint64(len(b)) {
		return 0, ErrTruncated
	}
	return b[addr], nil
}

// Decoder decodes Y86-64 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new Y86-64 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes the instruction at pc. It returns the instruction and the
// fall-through address pc+length.
func (d *Decoder) Decode(src ByteSource, pc uint64) (Instruction, uint64, error) {
	opcode, err := src.Read8(pc)
	if err != nil {
		return Instruction{}, 0, err
	}

	inst := Instruction{RA: RNone, RB: RNone}
	if err := d.decodeOpcode(opcode, pc, &inst); err != nil {
		return Instruction{}, 0, err
	}

	addr := pc + 1
	if hasRegisters(inst.Op) {
		regs, err := src.Read8(addr)
		if err != nil {
			return Instruction{}, 0, err
		}
		d.decodeRegisters(regs, &inst)
		addr++
	}

	if hasLiteral(inst.Op) {
		var value uint64
		for i := uint64(0); i < 8; i++ {
			b, err := src.Read8(addr + i)
			if err != nil {
				return Instruction{}, 0, err
			}
			value |= uint64(b) << (8 * i)
		}
		inst.Imm = value
		addr += 8
	}

	return inst, addr, nil
}

// decodeOpcode fills Op and the function code.
func (d *Decoder) decodeOpcode(opcode byte, pc uint64, inst *Instruction) error {
	op := Op(opcode >> 4)
	fn := opcode & 0x0f
	bad := &DecodeError{PC: pc, Byte: opcode}

	switch op {
	case OpHalt, OpNop, OpIrmovq, OpRmmovq, OpMrmovq, OpCall, OpRet, OpPushq, OpPopq:
		if fn != 0 {
			return bad
		}
	case OpCmov, OpJump:
		inst.Cond = Cond(fn)
		if !inst.Cond.Valid() {
			return bad
		}
	case OpOpq:
		inst.ALU = ALUOp(fn)
		if !inst.ALU.Valid() {
			return bad
		}
	default:
		return bad
	}

	inst.Op = op
	return nil
}

// decodeRegisters fills the register fields the family uses; the other
// nibble is ignored.
func (d *Decoder) decodeRegisters(regs byte, inst *Instruction) {
	rA := Register(regs >> 4)
	rB := Register(regs & 0x0f)

	switch inst.Op {
	case OpIrmovq:
		inst.RB = rB
	case OpPushq, OpPopq:
		inst.RA = rA
	default:
		inst.RA = rA
		inst.RB = rB
	}
}

// DecodeBytes decodes the instruction at the start of b and returns it with
// its length.
func DecodeBytes(b []byte) (Instruction, int, error) {
	inst, next, err := NewDecoder().Decode(Bytes(b), 0)
	if err != nil {
		return Instruction{}, 0, err
	}
	return inst, int(next), nil
}
