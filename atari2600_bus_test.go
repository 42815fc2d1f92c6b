package main

import "testing"

func TestAtari2600BusTIAWrite(t *testing.T) {
	bus := NewAtari2600Bus(nil)
	bus.Write(0x05, 0xAB)
	if got := bus.TIA.writeRegs[0x05]; got != 0xAB {
		t.Fatalf("TIA.writeRegs[0x05]=0x%02X, want 0xAB", got)
	}
}

func TestAtari2600BusAddressRepeatsEvery13Bits(t *testing.T) {
	bus := NewAtari2600Bus(nil)
	// 0x2005 & 0x1FFF == 0x0005: only 13 address pins are wired, so the
	// decode repeats every 0x2000 bytes across the full 16-bit range.
	bus.Write(0x2005, 0xCD)
	if got := bus.TIA.writeRegs[0x05]; got != 0xCD {
		t.Fatalf("TIA.writeRegs[0x05]=0x%02X, want 0xCD", got)
	}
}

func TestAtari2600BusWSYNCLatch(t *testing.T) {
	bus := NewAtari2600Bus(nil)
	if bus.ConsumeWSYNC() {
		t.Fatalf("WSYNC latched before any write")
	}
	bus.Write(0x02, 0x00)
	if !bus.ConsumeWSYNC() {
		t.Fatalf("WSYNC not latched after write to offset 0x02")
	}
	if bus.ConsumeWSYNC() {
		t.Fatalf("WSYNC still latched after consuming")
	}
}

func TestAtari2600BusWSYNCLatchThroughMirror(t *testing.T) {
	bus := NewAtari2600Bus(nil)
	bus.Write(0x42, 0x00) // 0x42 & 0x3F == 0x02
	if !bus.ConsumeWSYNC() {
		t.Fatalf("WSYNC not latched through 0x40-0x7F mirror write")
	}
}

func TestAtari2600BusOverlappingTIARIOTWrite(t *testing.T) {
	bus := NewAtari2600Bus(nil)
	bus.Write(0x50, 0x77)

	if got := bus.TIA.writeRegs[0x10]; got != 0x77 {
		t.Fatalf("TIA.writeRegs[0x10]=0x%02X, want 0x77", got)
	}
	if got := bus.RIOT.ram[0x50]; got != 0x77 {
		t.Fatalf("RIOT.ram[0x50]=0x%02X, want 0x77", got)
	}
}

func TestAtari2600BusRIOTRAMReadWrite(t *testing.T) {
	bus := NewAtari2600Bus(nil)
	bus.Write(0x0090, 0x33)
	if got := bus.Read(0x0090); got != 0x33 {
		t.Fatalf("Read(0x0090)=0x%02X, want 0x33", got)
	}
}

func TestAtari2600BusRIOTRAMMirror(t *testing.T) {
	bus := NewAtari2600Bus(nil)
	bus.RIOT.ram[0x40] = 0x99
	if got := bus.Read(0x0040); got != 0x99 {
		t.Fatalf("Read(0x0040)=0x%02X, want 0x99 (RIOT RAM mirror)", got)
	}
}

func TestAtari2600BusRIOTIOTimer(t *testing.T) {
	bus := NewAtari2600Bus(nil)
	bus.Write(0x0285, 0x5A)
	if got := bus.Read(0x0285); got != 0x5A {
		t.Fatalf("Read(0x0285)=0x%02X, want 0x5A", got)
	}
}

func TestAtari2600BusCartridgeRead(t *testing.T) {
	rom := make([]byte, 0x1000)
	rom[0x000] = 0x11
	rom[0xFFF] = 0x22
	bus := NewAtari2600Bus(rom)

	if got := bus.Read(0x1000); got != 0x11 {
		t.Fatalf("Read(0x1000)=0x%02X, want 0x11", got)
	}
	if got := bus.Read(0x1FFF); got != 0x22 {
		t.Fatalf("Read(0x1FFF)=0x%02X, want 0x22", got)
	}
}

func TestAtari2600BusCartridgeAbsentReadsFF(t *testing.T) {
	bus := NewAtari2600Bus(nil)
	if got := bus.Read(0x1000); got != 0xFF {
		t.Fatalf("Read(0x1000) with no cartridge=0x%02X, want 0xFF", got)
	}
}

func TestAtari2600BusCartridgeBankSwitchHookNoDataWritten(t *testing.T) {
	rom := make([]byte, 0x1000)
	rom[0x000] = 0xAA
	bus := NewAtari2600Bus(rom)

	var hookAddr uint16
	var hookCalled bool
	bus.Cart.SetBankSwitchHook(func(addr uint16) {
		hookCalled = true
		hookAddr = addr
	})

	bus.Write(0x1FF6, 0x00)

	if !hookCalled {
		t.Fatalf("bank-switch hook was not invoked")
	}
	if hookAddr != 0x1FF6 {
		t.Fatalf("hook addr=0x%04X, want 0x1FF6", hookAddr)
	}
	if got := bus.Read(0x1000); got != 0xAA {
		t.Fatalf("cartridge ROM mutated by bank-switch write: Read(0x1000)=0x%02X, want 0xAA", got)
	}
}

func TestAtari2600BusUnmappedReadsZero(t *testing.T) {
	bus := NewAtari2600Bus(nil)
	if got := bus.Read(0x02A0); got != 0 {
		t.Fatalf("Read(0x02A0) in unmapped gap=0x%02X, want 0", got)
	}
}
