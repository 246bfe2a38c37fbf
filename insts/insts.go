// Package insts provides Y86-64 instruction definitions, decoding and encoding.
//
// An instruction is one opcode byte, optionally followed by a register byte
// and an 8-byte little-endian literal:
//   - opcode byte:   family<<4 | function (condition or ALU operation)
//   - register byte: rA<<4 | rB, with 0xf meaning "no register"
//
// Usage:
//
//	code, _ := insts.Encode(insts.Irmovq(insts.RAX, 42))
//	inst, n, err := insts.DecodeBytes(code)
//	fmt.Println(inst, n, err) // irmovq $0x2a, %rax 10 <nil>
package insts
