package insts

import "encoding/binary"

// Encode returns the canonical byte sequence of inst.
func Encode(inst Instruction) ([]byte, error) {
	if err := validate(inst); err != nil {
		return nil, err
	}

	fn := byte(0)
	switch inst.Op {
	case OpCmov, OpJump:
		fn = byte(inst.Cond)
	case OpOpq:
		fn = byte(inst.ALU)
	}

	code := make([]byte, 1, Length(inst.Op))
	code[0] = byte(inst.Op)<<4 | fn

	if hasRegisters(inst.Op) {
		rA, rB := inst.RA, inst.RB
		switch inst.Op {
		case OpIrmovq:
			rA = RNone
		case OpPushq, OpPopq:
			rB = RNone
		}
		code = append(code, byte(rA)<<4|byte(rB))
	}

	if hasLiteral(inst.Op) {
		code = binary.LittleEndian.AppendUint64(code, inst.Imm)
	}

	return code, nil
}

// MustEncode is like Encode but panics on error. It is meant for building
// fixed test programs.
func MustEncode(inst Instruction) []byte {
	code, err := Encode(inst)
	if err != nil {
		panic(err)
	}
	return code
}

// EncodeProgram encodes a sequence of instructions back to back.
func EncodeProgram(program ...Instruction) ([]byte, error) {
	var image []byte
	for _, inst := range program {
		code, err := Encode(inst)
		if err != nil {
			return nil, err
		}
		image = append(image, code...)
	}
	return image, nil
}

func validate(inst Instruction) error {
	switch {
	case !inst.Op.Valid():
		return &EncodeError{Inst: inst, Field: "op"}
	case (inst.Op == OpCmov || inst.Op == OpJump) && !inst.Cond.Valid():
		return &EncodeError{Inst: inst, Field: "cond"}
	case inst.Op == OpOpq && !inst.ALU.Valid():
		return &EncodeError{Inst: inst, Field: "alu"}
	case inst.RA > RNone:
		return &EncodeError{Inst: inst, Field: "rA"}
	case inst.RB > RNone:
		return &EncodeError{Inst: inst, Field: "rB"}
	}
	return nil
}
