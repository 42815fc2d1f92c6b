package main

import (
	"sync/atomic"
	"testing"
)

// =============================================================================
// CPU Benchmark Suite
// Measures instruction execution performance for the 6502 and x86 CPU cores
// Run with: go test -bench="Benchmark(6502|X86)_" -benchmem -run="^$" ./...
// =============================================================================

// =============================================================================
// 6502 CPU Benchmarks
// =============================================================================

// setup6502BenchCPU creates a 6502 CPU for benchmarking
func setup6502BenchCPU() (*CPU_6502, *MachineBus) {
	bus := NewMachineBus()
	cpu := NewCPU_6502(bus)
	cpu.SetRDYLine(true)
	return cpu, bus
}

// Benchmark6502_LDA_Immediate measures LDA #imm throughput
func Benchmark6502_LDA_Immediate(b *testing.B) {
	cpu, bus := setup6502BenchCPU()
	// LDA #$42
	bus.Write8(0x1000, 0xA9)
	bus.Write8(0x1001, 0x42)
	cpu.PC = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.PC = 0x1000
		cpu.Step()
	}
}

// Benchmark6502_LDA_Absolute measures LDA addr throughput
func Benchmark6502_LDA_Absolute(b *testing.B) {
	cpu, bus := setup6502BenchCPU()
	// LDA $2000
	bus.Write8(0x1000, 0xAD)
	bus.Write8(0x1001, 0x00)
	bus.Write8(0x1002, 0x20)
	bus.Write8(0x2000, 0x42)
	cpu.PC = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.PC = 0x1000
		cpu.Step()
	}
}

// Benchmark6502_LDA_ZeroPage measures LDA zp throughput
func Benchmark6502_LDA_ZeroPage(b *testing.B) {
	cpu, bus := setup6502BenchCPU()
	// LDA $42
	bus.Write8(0x1000, 0xA5)
	bus.Write8(0x1001, 0x42)
	bus.Write8(0x0042, 0x55)
	cpu.PC = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.PC = 0x1000
		cpu.Step()
	}
}

// Benchmark6502_LDA_IndirectY measures LDA (zp),Y throughput
func Benchmark6502_LDA_IndirectY(b *testing.B) {
	cpu, bus := setup6502BenchCPU()
	cpu.Y = 0x01
	// LDA ($42),Y
	bus.Write8(0x1000, 0xB1)
	bus.Write8(0x1001, 0x42)
	// Pointer at $42 -> $2000
	bus.Write8(0x0042, 0x00)
	bus.Write8(0x0043, 0x20)
	// Value at $2001
	bus.Write8(0x2001, 0x55)
	cpu.PC = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.PC = 0x1000
		cpu.Step()
	}
}

func Benchmark6502_LDA_IndirectX(b *testing.B) {
	cpu, bus := setup6502BenchCPU()
	cpu.X = 0x04
	// LDA ($40,X)
	bus.Write8(0x1000, 0xA1)
	bus.Write8(0x1001, 0x40)
	// pointer at $44 -> $2000
	bus.Write8(0x0044, 0x00)
	bus.Write8(0x0045, 0x20)
	bus.Write8(0x2000, 0x66)
	cpu.PC = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.PC = 0x1000
		cpu.Step()
	}
}

// Benchmark6502_Memory_Read_Direct measures isolated adapter.Read() call
func Benchmark6502_Memory_Read_Direct(b *testing.B) {
	_, bus := setup6502BenchCPU()
	adapter := NewBus6502Adapter(bus)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = adapter.Read(0x1000)
	}
}

func Benchmark6502_Execute_Mixed(b *testing.B) {
	cpu, bus := setup6502BenchCPU()
	// LDA #$01; STA $10; INX; JMP $1000
	bus.Write8(0x1000, 0xA9)
	bus.Write8(0x1001, 0x01)
	bus.Write8(0x1002, 0x85)
	bus.Write8(0x1003, 0x10)
	bus.Write8(0x1004, 0xE8)
	bus.Write8(0x1005, 0x4C)
	bus.Write8(0x1006, 0x00)
	bus.Write8(0x1007, 0x10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.PC = 0x1000
		cpu.X = 0
		cpu.Step()
		cpu.Step()
		cpu.Step()
		cpu.Step()
	}
}

func Benchmark6502_Execute_Tight_Loop(b *testing.B) {
	cpu, bus := setup6502BenchCPU()
	// NOP; JMP $1000
	bus.Write8(0x1000, 0xEA)
	bus.Write8(0x1001, 0x4C)
	bus.Write8(0x1002, 0x00)
	bus.Write8(0x1003, 0x10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.PC = 0x1000
		cpu.Step()
		cpu.Step()
	}
}

func Benchmark6502_UpdateNZ(b *testing.B) {
	cpu, _ := setup6502BenchCPU()
	var v byte

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v += byte(i)
		cpu.updateNZ(v)
	}
}

// Benchmark6502_Read_IO_PSG measures an adapter read at $D400, the PSG
// register page address. No PSG device is mapped on this bus, so the read
// goes through the adapter's non-fast-path memory read.
func Benchmark6502_Read_IO_PSG(b *testing.B) {
	_, bus := setup6502BenchCPU()
	adapter := NewBus6502Adapter(bus)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = adapter.Read(0xD400)
	}
}

func Benchmark6502_Write_IO_SID(b *testing.B) {
	_, bus := setup6502BenchCPU()
	adapter := NewBus6502Adapter(bus)
	var v byte

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v += byte(i)
		adapter.Write(0xD500, v)
	}
}

func Benchmark6502_Execute_WithContention(b *testing.B) {
	cpu, bus := setup6502BenchCPU()
	// NOP; JMP $1000
	bus.Write8(0x1000, 0xEA)
	bus.Write8(0x1001, 0x4C)
	bus.Write8(0x1002, 0x00)
	bus.Write8(0x1003, 0x10)

	stop := atomic.Bool{}
	go func() {
		for !stop.Load() {
			cpu.irqPending.Store(true)
			cpu.irqPending.Store(false)
		}
	}()
	defer stop.Store(true)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.PC = 0x1000
		cpu.Step()
		cpu.Step()
	}
}

// Benchmark6502_STA_Absolute measures STA addr throughput
func Benchmark6502_STA_Absolute(b *testing.B) {
	cpu, bus := setup6502BenchCPU()
	cpu.A = 0x42
	// STA $2000
	bus.Write8(0x1000, 0x8D)
	bus.Write8(0x1001, 0x00)
	bus.Write8(0x1002, 0x20)
	cpu.PC = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.PC = 0x1000
		cpu.Step()
	}
}

// Benchmark6502_ADC_Immediate measures ADC #imm throughput
func Benchmark6502_ADC_Immediate(b *testing.B) {
	cpu, bus := setup6502BenchCPU()
	cpu.A = 0x10
	// ADC #$20
	bus.Write8(0x1000, 0x69)
	bus.Write8(0x1001, 0x20)
	cpu.PC = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.PC = 0x1000
		cpu.A = 0x10
		cpu.Step()
	}
}

// Benchmark6502_Step_Dispatch measures dispatch overhead with NOP
func Benchmark6502_Step_Dispatch(b *testing.B) {
	cpu, bus := setup6502BenchCPU()
	// NOP
	bus.Write8(0x1000, 0xEA)
	cpu.PC = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.PC = 0x1000
		cpu.Step()
	}
}

// Benchmark6502_Branch_Taken measures branch (taken) throughput
func Benchmark6502_Branch_Taken(b *testing.B) {
	cpu, bus := setup6502BenchCPU()
	cpu.SR = ZERO_FLAG // Z=1 for BEQ to branch
	// BEQ +0 (branch to next instruction)
	bus.Write8(0x1000, 0xF0)
	bus.Write8(0x1001, 0x00)
	cpu.PC = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.PC = 0x1000
		cpu.SR = ZERO_FLAG
		cpu.Step()
	}
}

// Benchmark6502_JSR_RTS measures subroutine call overhead
func Benchmark6502_JSR_RTS(b *testing.B) {
	cpu, bus := setup6502BenchCPU()
	cpu.SP = 0xFF
	// JSR $2000
	bus.Write8(0x1000, 0x20)
	bus.Write8(0x1001, 0x00)
	bus.Write8(0x1002, 0x20)
	// RTS at $2000
	bus.Write8(0x2000, 0x60)
	cpu.PC = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.PC = 0x1000
		cpu.SP = 0xFF
		cpu.Step() // JSR
		cpu.Step() // RTS
	}
}

// =============================================================================
// x86 CPU Benchmarks
// =============================================================================

// x86BenchBus implements X86Bus for benchmarking
type x86BenchBus struct {
	mem [0x100000]byte
}

func (b *x86BenchBus) Read(addr uint32) byte       { return b.mem[addr&0xFFFFF] }
func (b *x86BenchBus) Write(addr uint32, val byte) { b.mem[addr&0xFFFFF] = val }
func (b *x86BenchBus) In(port uint16) byte         { return 0 }
func (b *x86BenchBus) Out(port uint16, val byte)   {}
func (b *x86BenchBus) Tick(cycles int)             {}

// setupX86BenchCPU creates an x86 CPU for benchmarking
func setupX86BenchCPU() (*CPU_X86, *x86BenchBus) {
	bus := &x86BenchBus{}
	cpu := NewCPU_X86(bus)
	return cpu, bus
}

// BenchmarkX86_MOV_r32_imm measures MOV r32,imm32 throughput
func BenchmarkX86_MOV_r32_imm(b *testing.B) {
	cpu, bus := setupX86BenchCPU()
	// MOV EAX,$12345678 (B8 78 56 34 12)
	bus.mem[0x1000] = 0xB8
	bus.mem[0x1001] = 0x78
	bus.mem[0x1002] = 0x56
	bus.mem[0x1003] = 0x34
	bus.mem[0x1004] = 0x12
	cpu.EIP = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.EIP = 0x1000
		cpu.Step()
	}
}

// BenchmarkX86_MOV_r32_r32 measures MOV r32,r32 throughput
func BenchmarkX86_MOV_r32_r32(b *testing.B) {
	cpu, bus := setupX86BenchCPU()
	cpu.EBX = 0x12345678
	// MOV EAX,EBX (89 D8)
	bus.mem[0x1000] = 0x89
	bus.mem[0x1001] = 0xD8
	cpu.EIP = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.EIP = 0x1000
		cpu.Step()
	}
}

// BenchmarkX86_ADD_r32_r32 measures ADD r32,r32 throughput
func BenchmarkX86_ADD_r32_r32(b *testing.B) {
	cpu, bus := setupX86BenchCPU()
	cpu.EAX = 100
	cpu.EBX = 200
	// ADD EAX,EBX (01 D8)
	bus.mem[0x1000] = 0x01
	bus.mem[0x1001] = 0xD8
	cpu.EIP = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.EIP = 0x1000
		cpu.EAX = 100
		cpu.Step()
	}
}

// BenchmarkX86_ADD_r32_imm measures ADD r32,imm32 throughput
func BenchmarkX86_ADD_r32_imm(b *testing.B) {
	cpu, bus := setupX86BenchCPU()
	cpu.EAX = 100
	// ADD EAX,$64 (05 64 00 00 00)
	bus.mem[0x1000] = 0x05
	bus.mem[0x1001] = 0x64
	bus.mem[0x1002] = 0x00
	bus.mem[0x1003] = 0x00
	bus.mem[0x1004] = 0x00
	cpu.EIP = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.EIP = 0x1000
		cpu.EAX = 100
		cpu.Step()
	}
}

// BenchmarkX86_Step_Dispatch measures dispatch overhead with NOP
func BenchmarkX86_Step_Dispatch(b *testing.B) {
	cpu, bus := setupX86BenchCPU()
	// NOP (90)
	bus.mem[0x1000] = 0x90
	cpu.EIP = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.EIP = 0x1000
		cpu.Step()
	}
}

// BenchmarkX86_JMP_rel measures JMP rel8 throughput
func BenchmarkX86_JMP_rel(b *testing.B) {
	cpu, bus := setupX86BenchCPU()
	// JMP $+0 (EB FE - jump to self)
	bus.mem[0x1000] = 0xEB
	bus.mem[0x1001] = 0xFE
	cpu.EIP = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.EIP = 0x1000
		cpu.Step()
	}
}

// BenchmarkX86_PUSH_POP measures PUSH/POP throughput
func BenchmarkX86_PUSH_POP(b *testing.B) {
	cpu, bus := setupX86BenchCPU()
	cpu.EAX = 0x12345678
	cpu.ESP = 0x10000
	// PUSH EAX (50)
	bus.mem[0x1000] = 0x50
	// POP EBX (5B)
	bus.mem[0x1001] = 0x5B
	cpu.EIP = 0x1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cpu.EIP = 0x1000
		cpu.ESP = 0x10000
		cpu.Step() // PUSH
		cpu.Step() // POP
	}
}

