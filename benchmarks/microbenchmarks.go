// Package benchmarks runs small Y86-64 programs through the timing model
// and reports their cycle counts.
package benchmarks

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each one
// stresses a single part of the timing model.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		memorySequential(),
		functionCalls(),
		branchLoop(),
		arraySum(),
	}
}

// GetCoreBenchmarks returns a quick subset: a loop, memory traffic and
// calls.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		branchLoop(),
		memorySequential(),
		functionCalls(),
	}
}

func arithmeticSequential() Benchmark {
	return Benchmark{
		Name:        "arithmetic_sequential",
		Description: "8 independent additions - ALU latency only",
		Source: `
    irmovq $1, %r8
    addq %r8, %rax
    addq %r8, %rbx
    addq %r8, %rcx
    addq %r8, %rdx
    addq %r8, %rax
    addq %r8, %rbx
    addq %r8, %rcx
    addq %r8, %rdx
    addq %rbx, %rax
    halt
`,
		ExpectedRAX: 4,
	}
}

func dependencyChain() Benchmark {
	return Benchmark{
		Name:        "dependency_chain",
		Description: "8 dependent additions doubling %rax",
		Source: `
    irmovq $1, %rax
    addq %rax, %rax
    addq %rax, %rax
    addq %rax, %rax
    addq %rax, %rax
    addq %rax, %rax
    addq %rax, %rax
    addq %rax, %rax
    addq %rax, %rax
    halt
`,
		ExpectedRAX: 0x100,
	}
}

func memorySequential() Benchmark {
	return Benchmark{
		Name:        "memory_sequential",
		Description: "4 stores then 4 loads of adjacent words - cache friendly",
		Source: `
    irmovq buf, %rdi
    irmovq $1, %rax
    rmmovq %rax, 0(%rdi)
    irmovq $2, %rax
    rmmovq %rax, 8(%rdi)
    irmovq $3, %rax
    rmmovq %rax, 16(%rdi)
    irmovq $4, %rax
    rmmovq %rax, 24(%rdi)
    xorq %rax, %rax
    mrmovq 0(%rdi), %rbx
    addq %rbx, %rax
    mrmovq 8(%rdi), %rbx
    addq %rbx, %rax
    mrmovq 16(%rdi), %rbx
    addq %rbx, %rax
    mrmovq 24(%rdi), %rbx
    addq %rbx, %rax
    halt

    .align 8
buf:
    .quad 0
    .quad 0
    .quad 0
    .quad 0
`,
		ExpectedRAX: 10,
	}
}

func functionCalls() Benchmark {
	return Benchmark{
		Name:        "function_calls",
		Description: "4 call/ret pairs - return penalty",
		Source: `
    irmovq stack, %rsp
    irmovq $1, %r8
    call inc
    call inc
    call inc
    call inc
    halt

inc:
    addq %r8, %rax
    ret

    .pos 0x300
stack:
`,
		ExpectedRAX: 4,
	}
}

func branchLoop() Benchmark {
	return Benchmark{
		Name:        "branch_loop",
		Description: "10 iteration counted loop - one mispredict on exit",
		Source: `
    irmovq $10, %rcx
    irmovq $-1, %r9
    irmovq $3, %r8
loop:
    addq %r8, %rax
    addq %r9, %rcx
    jne loop
    halt
`,
		ExpectedRAX: 30,
	}
}

func arraySum() Benchmark {
	return Benchmark{
		Name:        "array_sum",
		Description: "Sum of a 4 element array through nested calls",
		Source: `
    irmovq stack, %rsp
    call main
    halt

    .align 8
array:
    .quad 0x000d000d000d
    .quad 0x00c000c000c0
    .quad 0x0b000b000b00
    .quad 0xa000a000a000

main:
    irmovq array, %rdi
    irmovq $4, %rsi
    call sum
    ret

sum:
    irmovq $8, %r8
    irmovq $-1, %r9
    xorq %rax, %rax
    andq %rsi, %rsi
    jmp test
loop:
    mrmovq (%rdi), %r10
    addq %r10, %rax
    addq %r8, %rdi
    addq %r9, %rsi
test:
    jne loop
    ret

    .pos 0x300
stack:
`,
		ExpectedRAX: 0xabcdabcdabcd,
	}
}
