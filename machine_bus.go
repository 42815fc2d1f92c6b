// machine_bus.go - Machine bus for the Intuition Engine

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
Buy me a coffee: https://ko-fi.com/intuition/tip

License: GPLv3 or later
*/

/*
machine_bus.go - Machine Bus for the Intuition Engine

This module implements the memory bus that forms the backbone of the Intuition Engine's memory subsystem. It provides a unified interface for byte-addressed memory operations, including both standard memory access and memory-mapped I/O. The implementation emphasises cache efficiency and precise control over memory layout, both critical for accurate retro-style computer emulation.

Core Features:

    32MB of main memory allocated as a contiguous block.
    Support for memory-mapped I/O via an I/O region mapping table that uses page masking and fixed page sizes.
    Little-endian read/write operations for 8/16/32-bit data.
    Full memory reset capability to clear the entire memory state.

Technical Details:

    The MachineBus struct fulfils the Bus32 interface, encapsulating the main memory and a mapping of I/O regions.
    I/O regions are registered with a defined start and end address along with callback functions (onRead and onWrite) to intercept memory accesses.
    Memory page keys are calculated using a page mask (0xFFF00) and a page increment of 0x100, ensuring that I/O regions are correctly mapped across the memory space.
    32-bit values are accessed using binary.LittleEndian conversion routines, maintaining consistency with the CPU's data handling.
    The Reset method iterates through the memory block in a cache-friendly manner to set all bytes to zero.

Fast Path:

    An I/O page bitmap, indexed by (addr >> 8), records which pages carry a mapped I/O region. Accesses to a page with no mapping skip the region lookup entirely and go straight to an unsafe pointer load/store against the backing slice.
    The bitmap is frozen once SealMappings is called, which the CPU runners do before execution starts, so the fast path never needs to race a concurrent MapIO call.

This module is a critical component of the Intuition Engine, interfacing directly with the 6502 and x86 cores and the peripherals they drive through memory-mapped I/O. Its design is driven by the need for both high performance and accurate emulation of hardware behaviour.

*/

package main

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"unsafe"
)

const (
	DEFAULT_MEMORY_SIZE = 32 * 1024 * 1024
	PAGE_SIZE           = 0x100
	PAGE_MASK           = 0xFFF00
)

type Bus32 interface {
	/*
		Bus32 defines the interface for memory operations
		within the Intuition Engine. It provides methods to read
		and write 8/16/32-bit values as well as to reset the memory state.

		Implementations must support memory-mapped I/O.
	*/

	Read8(addr uint32) uint8
	Write8(addr uint32, value uint8)
	Read16(addr uint32) uint16
	Write16(addr uint32, value uint16)
	Read32(addr uint32) uint32
	Write32(addr uint32, value uint32)
	Reset()
	GetMemory() []byte
}

type MachineBus struct {
	/*
		MachineBus implements the Bus32 interface and serves
		as the primary memory bus for the Intuition Engine.

		It maintains a contiguous block of main memory and a
		mapping of memory-mapped I/O regions.
	*/

	memory  []byte
	mapping map[uint32][]IORegion

	// Fast I/O page bitmap - indexed by (addr >> 8), true if page has I/O mappings.
	// Sized for the normal address range only (DEFAULT_MEMORY_SIZE / PAGE_SIZE).
	// Sign-extended pages (0xFFFF0000+) use the slow path before this is consulted.
	ioPageBitmap []bool

	// Sealed state to prevent I/O mapping after execution has started
	sealed atomic.Bool
}

type IORegion struct {
	/*
		IORegion represents a memory-mapped I/O region within the system.
		Each region is defined by its start and end addresses and includes
		callback functions to handle read and write operations.

		These callbacks are invoked when a memory access falls within the
		region's boundaries.
	*/
	start   uint32
	end     uint32
	onRead  func(addr uint32) uint32
	onWrite func(addr uint32, value uint32)
}

func NewMachineBus() *MachineBus {
	/*
		NewMachineBus initialises and returns a new MachineBus instance.

		The function allocates a 32MB block of main memory and initialises
		the I/O mapping table.
	*/

	return &MachineBus{
		memory:       make([]byte, DEFAULT_MEMORY_SIZE),
		mapping:      make(map[uint32][]IORegion),
		ioPageBitmap: make([]bool, DEFAULT_MEMORY_SIZE/PAGE_SIZE),
	}
}

func (bus *MachineBus) GetMemory() []byte {
	/*
		GetMemory returns a direct reference to the underlying memory slice.

		This allows CPU cores to cache the memory reference for fast access
		while maintaining visibility to peripherals that read through the bus.
		CPUs should use this for non-I/O memory operations.
	*/
	return bus.memory
}

// SealMappings prevents further MapIO calls. This is called when execution starts
// to ensure the ioPageBitmap remains stable during hot-path access.
func (bus *MachineBus) SealMappings() {
	bus.sealed.CompareAndSwap(false, true)
}

func (bus *MachineBus) MapIO(start, end uint32, onRead func(addr uint32) uint32, onWrite func(addr uint32, value uint32)) {
	if bus.sealed.Load() {
		panic(fmt.Sprintf("MapIO called after execution started (mapping range $%05X-$%05X)", start, end))
	}
	region := IORegion{
		start:   start,
		end:     end,
		onRead:  onRead,
		onWrite: onWrite,
	}

	// Calculate pages for normal address range
	firstPage := start & PAGE_MASK
	lastPage := end & PAGE_MASK
	for page := firstPage; page <= lastPage; page += PAGE_SIZE {
		bus.mapping[page] = append(bus.mapping[page], region)
		// Set bitmap for fast-path lookup (normal range only)
		pageIdx := page >> 8
		if pageIdx < uint32(len(bus.ioPageBitmap)) {
			bus.ioPageBitmap[pageIdx] = true
		}
	}

	// Handle sign extension for I/O addresses (only if in upper 16-bit range)
	// This is necessary because the M68K CPU treats I/O addresses with the high bit set
	// (0x8000-0xFFFF) as negative values and sign-extends them to 32-bit when used in
	// 32-bit addressing modes. For example, a device at 0xFFxx needs to be accessible
	// at both 0x0000FFxx and 0xFFFFFFxx to properly handle 16-bit peripherals in a
	// 32-bit address space, matching the real hardware behavior.
	if start >= 0x8000 && start <= 0xFFFF {
		// Also map to 0xFFFF0000-0xFFFFFFFF range
		signExtStart := start | 0xFFFF0000
		signExtEnd := end | 0xFFFF0000

		firstSignExtPage := signExtStart & PAGE_MASK
		lastSignExtPage := signExtEnd & PAGE_MASK

		for page := firstSignExtPage; page <= lastSignExtPage; page += PAGE_SIZE {
			bus.mapping[page] = append(bus.mapping[page], region)
		}
	}
}

func (bus *MachineBus) Write32(addr uint32, value uint32) {
	// Skip sign-extended addresses (rare, use slow path)
	if addr >= 0xFFFF0000 {
		bus.write32Slow(addr, value)
		return
	}

	// Bounds check
	if addr+4 > uint32(len(bus.memory)) {
		fmt.Printf("Warning: Write32 to out-of-bounds address 0x%08X\n", addr)
		return
	}

	// Lock-free fast path: check bitmap for I/O mappings
	if !bus.ioPageBitmap[addr>>8] {
		// No I/O on this page - lock-free write using unsafe pointer
		*(*uint32)(unsafe.Pointer(&bus.memory[addr])) = value
		return
	}

	// Has I/O mappings - use slow path
	bus.write32Slow(addr, value)
}

func (bus *MachineBus) write32Slow(addr uint32, value uint32) {
	// Check if the address is in the upper memory region (potentially sign-extended)
	if addr >= 0xFFFF0000 {
		// Map to lower 16-bit range if it looks like a sign-extended I/O address
		mapped := addr & 0x0000FFFF
		if mapped <= DEFAULT_MEMORY_SIZE-4 {
			// This is a valid sign-extended address, handle normally but with mapped address
			if regions, exists := bus.mapping[mapped&PAGE_MASK]; exists {
				for _, region := range regions {
					if mapped >= region.start && mapped <= region.end && region.onWrite != nil {
						region.onWrite(mapped, value)
						// Still store in memory if within bounds
						if mapped+4 <= uint32(len(bus.memory)) {
							binary.LittleEndian.PutUint32(bus.memory[mapped:mapped+4], value)
						}
						return
					}
				}
			}

			// Proceed with writing to the mapped address if in bounds
			if mapped+4 <= uint32(len(bus.memory)) {
				binary.LittleEndian.PutUint32(bus.memory[mapped:mapped+4], value)
				return
			}
		}

		// For other high addresses, just log and return safely
		fmt.Printf("Warning: Write32 to unmapped high address 0x%08X\n", addr)
		return
	}

	// Normal bounds check for regular memory
	if addr+4 > uint32(len(bus.memory)) {
		fmt.Printf("Warning: Write32 to out-of-bounds address 0x%08X\n", addr)
		return
	}

	// Process I/O regions
	if regions, exists := bus.mapping[addr&PAGE_MASK]; exists {
		for _, region := range regions {
			if addr >= region.start && addr <= region.end && region.onWrite != nil {
				region.onWrite(addr, value)
				binary.LittleEndian.PutUint32(bus.memory[addr:addr+4], value)
				return
			}
		}
	}

	// Regular memory write
	binary.LittleEndian.PutUint32(bus.memory[addr:addr+4], value)
}

func (bus *MachineBus) Read32(addr uint32) uint32 {
	// Skip sign-extended addresses (rare, use slow path)
	if addr >= 0xFFFF0000 {
		return bus.read32Slow(addr)
	}

	// Bounds check
	if addr+4 > uint32(len(bus.memory)) {
		fmt.Printf("Warning: Read32 from out-of-bounds address 0x%08X\n", addr)
		return 0
	}

	// Lock-free fast path: check bitmap for I/O mappings
	if !bus.ioPageBitmap[addr>>8] {
		// No I/O on this page - lock-free read using unsafe pointer
		return *(*uint32)(unsafe.Pointer(&bus.memory[addr]))
	}

	// Has I/O mappings - use slow path
	return bus.read32Slow(addr)
}

func (bus *MachineBus) read32Slow(addr uint32) uint32 {
	// Check if the address is in the upper memory region (potentially sign-extended)
	if addr >= 0xFFFF0000 {
		// Map to lower 16-bit range if it looks like a sign-extended I/O address
		mapped := addr & 0x0000FFFF
		if mapped <= DEFAULT_MEMORY_SIZE-4 {
			// Check for I/O regions with the mapped address
			if regions, exists := bus.mapping[mapped&PAGE_MASK]; exists {
				for _, region := range regions {
					if mapped >= region.start && mapped <= region.end && region.onRead != nil {
						value := region.onRead(mapped)
						if mapped+4 <= uint32(len(bus.memory)) {
							binary.LittleEndian.PutUint32(bus.memory[mapped:mapped+4], value)
						}
						return value
					}
				}
			}

			// Regular memory read with mapped address if in bounds
			if mapped+4 <= uint32(len(bus.memory)) {
				result := binary.LittleEndian.Uint32(bus.memory[mapped : mapped+4])
				return result
			}
		}

		fmt.Printf("Warning: Read32 from unmapped high address 0x%08X\n", addr)
		return 0
	}

	// Check for out-of-bounds access
	if addr+4 > uint32(len(bus.memory)) {
		fmt.Printf("Warning: Read32 from out-of-bounds address 0x%08X\n", addr)
		return 0
	}

	// Check for I/O regions
	if regions, exists := bus.mapping[addr&PAGE_MASK]; exists {
		for _, region := range regions {
			if addr >= region.start && addr <= region.end && region.onRead != nil {
				value := region.onRead(addr)
				binary.LittleEndian.PutUint32(bus.memory[addr:addr+4], value)
				return value
			}
		}
	}

	// Regular memory read
	result := binary.LittleEndian.Uint32(bus.memory[addr : addr+4])
	return result
}

func (bus *MachineBus) Write16(addr uint32, value uint16) {
	// Skip sign-extended addresses (rare, use slow path)
	if addr >= 0xFFFF0000 {
		bus.write16Slow(addr, value)
		return
	}

	// Bounds check
	if addr+2 > uint32(len(bus.memory)) {
		fmt.Printf("Warning: Write16 to out-of-bounds address 0x%08X\n", addr)
		return
	}

	// Lock-free fast path: check bitmap for I/O mappings
	if !bus.ioPageBitmap[addr>>8] {
		// No I/O on this page - lock-free write using unsafe pointer
		*(*uint16)(unsafe.Pointer(&bus.memory[addr])) = value
		return
	}

	// Has I/O mappings - use slow path
	bus.write16Slow(addr, value)
}

func (bus *MachineBus) write16Slow(addr uint32, value uint16) {
	// Check if the address is in the upper memory region (potentially sign-extended)
	if addr >= 0xFFFF0000 {
		// Map to lower 16-bit range if it looks like a sign-extended I/O address
		mapped := addr & 0x0000FFFF
		if mapped <= DEFAULT_MEMORY_SIZE-2 {
			// This is a valid sign-extended address, handle normally but with mapped address
			if regions, exists := bus.mapping[mapped&PAGE_MASK]; exists {
				for _, region := range regions {
					if mapped >= region.start && mapped <= region.end && region.onWrite != nil {
						region.onWrite(mapped, uint32(value))
						// Still store in memory if within bounds
						if mapped+2 <= uint32(len(bus.memory)) {
							binary.LittleEndian.PutUint16(bus.memory[mapped:mapped+2], value)
						}
						return
					}
				}
			}

			// Proceed with writing to the mapped address if in bounds
			if mapped+2 <= uint32(len(bus.memory)) {
				binary.LittleEndian.PutUint16(bus.memory[mapped:mapped+2], value)
				return
			}
		}

		// For other high addresses, just log and return safely
		fmt.Printf("Warning: Write16 to unmapped high address 0x%08X\n", addr)
		return
	}

	// Normal bounds check for regular memory
	if addr+2 > uint32(len(bus.memory)) {
		fmt.Printf("Warning: Write16 to out-of-bounds address 0x%08X\n", addr)
		return
	}

	// Process I/O regions
	if regions, exists := bus.mapping[addr&PAGE_MASK]; exists {
		for _, region := range regions {
			if addr >= region.start && addr <= region.end && region.onWrite != nil {
				region.onWrite(addr, uint32(value))
				binary.LittleEndian.PutUint16(bus.memory[addr:addr+2], value)
				return
			}
		}
	}

	// Regular memory write
	binary.LittleEndian.PutUint16(bus.memory[addr:addr+2], value)
}

func (bus *MachineBus) Read16(addr uint32) uint16 {
	// Skip sign-extended addresses (rare, use slow path)
	if addr >= 0xFFFF0000 {
		return bus.read16Slow(addr)
	}

	// Bounds check
	if addr+2 > uint32(len(bus.memory)) {
		fmt.Printf("Warning: Read16 from out-of-bounds address 0x%08X\n", addr)
		return 0
	}

	// Lock-free fast path: check bitmap for I/O mappings
	if !bus.ioPageBitmap[addr>>8] {
		// No I/O on this page - lock-free read using unsafe pointer
		return *(*uint16)(unsafe.Pointer(&bus.memory[addr]))
	}

	// Has I/O mappings - use slow path
	return bus.read16Slow(addr)
}

func (bus *MachineBus) read16Slow(addr uint32) uint16 {
	// Check if the address is in the upper memory region (potentially sign-extended)
	if addr >= 0xFFFF0000 {
		// Map to lower 16-bit range if it looks like a sign-extended I/O address
		mapped := addr & 0x0000FFFF
		if mapped <= DEFAULT_MEMORY_SIZE-2 {
			// Check for I/O regions with the mapped address
			if regions, exists := bus.mapping[mapped&PAGE_MASK]; exists {
				for _, region := range regions {
					if mapped >= region.start && mapped <= region.end && region.onRead != nil {
						value := region.onRead(mapped)
						if mapped+2 <= uint32(len(bus.memory)) {
							binary.LittleEndian.PutUint16(bus.memory[mapped:mapped+2], uint16(value))
						}
						return uint16(value)
					}
				}
			}

			// Regular memory read with mapped address if in bounds
			if mapped+2 <= uint32(len(bus.memory)) {
				result := binary.LittleEndian.Uint16(bus.memory[mapped : mapped+2])
				return result
			}
		}

		fmt.Printf("Warning: Read16 from unmapped high address 0x%08X\n", addr)
		return 0
	}

	// Check for out-of-bounds access
	if addr+2 > uint32(len(bus.memory)) {
		fmt.Printf("Warning: Read16 from out-of-bounds address 0x%08X\n", addr)
		return 0
	}

	// Check for I/O regions
	if regions, exists := bus.mapping[addr&PAGE_MASK]; exists {
		for _, region := range regions {
			if addr >= region.start && addr <= region.end && region.onRead != nil {
				value := region.onRead(addr)
				binary.LittleEndian.PutUint16(bus.memory[addr:addr+2], uint16(value))
				return uint16(value)
			}
		}
	}

	// Regular memory read
	result := binary.LittleEndian.Uint16(bus.memory[addr : addr+2])
	return result
}

func (bus *MachineBus) Write8(addr uint32, value uint8) {
	// Skip sign-extended addresses (rare, use slow path)
	if addr >= 0xFFFF0000 {
		bus.write8Slow(addr, value)
		return
	}

	// Bounds check
	if addr >= uint32(len(bus.memory)) {
		fmt.Printf("Warning: Write8 to out-of-bounds address 0x%08X\n", addr)
		return
	}

	// Lock-free fast path: check bitmap for I/O mappings
	if !bus.ioPageBitmap[addr>>8] {
		// No I/O on this page - lock-free write
		bus.memory[addr] = value
		return
	}

	// Has I/O mappings - use slow path
	bus.write8Slow(addr, value)
}

func (bus *MachineBus) write8Slow(addr uint32, value uint8) {
	// Check if the address is in the upper memory region (potentially sign-extended)
	if addr >= 0xFFFF0000 {
		// Map to lower 16-bit range if it looks like a sign-extended I/O address
		mapped := addr & 0x0000FFFF
		if mapped < DEFAULT_MEMORY_SIZE {
			// This is a valid sign-extended address, handle normally but with mapped address
			if regions, exists := bus.mapping[mapped&PAGE_MASK]; exists {
				for _, region := range regions {
					if mapped >= region.start && mapped <= region.end && region.onWrite != nil {
						region.onWrite(mapped, uint32(value))
						// Still store in memory if within bounds
						if mapped < uint32(len(bus.memory)) {
							bus.memory[mapped] = value
						}
						return
					}
				}
			}

			// Proceed with writing to the mapped address if in bounds
			if mapped < uint32(len(bus.memory)) {
				bus.memory[mapped] = value
				return
			}
		}

		// For other high addresses, just log and return safely
		fmt.Printf("Warning: Write8 to unmapped high address 0x%08X\n", addr)
		return
	}

	// Normal bounds check for regular memory
	if addr >= uint32(len(bus.memory)) {
		fmt.Printf("Warning: Write8 to out-of-bounds address 0x%08X\n", addr)
		return
	}

	// Process I/O regions
	if regions, exists := bus.mapping[addr&PAGE_MASK]; exists {
		for _, region := range regions {
			if addr >= region.start && addr <= region.end && region.onWrite != nil {
				region.onWrite(addr, uint32(value))
				bus.memory[addr] = value
				return
			}
		}
	}

	// Regular memory write
	bus.memory[addr] = value
}

func (bus *MachineBus) Read8(addr uint32) uint8 {
	// Skip sign-extended addresses (rare, use slow path)
	if addr >= 0xFFFF0000 {
		return bus.read8Slow(addr)
	}

	// Bounds check
	if addr >= uint32(len(bus.memory)) {
		fmt.Printf("Warning: Read8 from out-of-bounds address 0x%08X\n", addr)
		return 0
	}

	// Lock-free fast path: check bitmap for I/O mappings
	if !bus.ioPageBitmap[addr>>8] {
		// No I/O on this page - lock-free read
		return bus.memory[addr]
	}

	// Has I/O mappings - use slow path
	return bus.read8Slow(addr)
}

func (bus *MachineBus) read8Slow(addr uint32) uint8 {
	// Check if the address is in the upper memory region (potentially sign-extended)
	if addr >= 0xFFFF0000 {
		// Map to lower 16-bit range if it looks like a sign-extended I/O address
		mapped := addr & 0x0000FFFF
		if mapped < DEFAULT_MEMORY_SIZE {
			// Check for I/O regions with the mapped address
			if regions, exists := bus.mapping[mapped&PAGE_MASK]; exists {
				for _, region := range regions {
					if mapped >= region.start && mapped <= region.end && region.onRead != nil {
						value := region.onRead(mapped)
						if mapped < uint32(len(bus.memory)) {
							bus.memory[mapped] = uint8(value)
						}
						return uint8(value)
					}
				}
			}

			// Regular memory read with mapped address if in bounds
			if mapped < uint32(len(bus.memory)) {
				result := bus.memory[mapped]
				return result
			}
		}

		fmt.Printf("Warning: Read8 from unmapped high address 0x%08X\n", addr)
		return 0
	}

	// Check for out-of-bounds access
	if addr >= uint32(len(bus.memory)) {
		fmt.Printf("Warning: Read8 from out-of-bounds address 0x%08X\n", addr)
		return 0
	}

	// Check for I/O regions
	page := addr & PAGE_MASK
	if regions, exists := bus.mapping[page]; exists {
		for _, region := range regions {
			if addr >= region.start && addr <= region.end && region.onRead != nil {
				value := region.onRead(addr)
				bus.memory[addr] = uint8(value)
				return uint8(value)
			}
		}
	}

	// Regular memory read
	result := bus.memory[addr]
	return result
}

func (bus *MachineBus) Reset() {
	/*
		Reset clears the entire main memory of the system bus.

		This operation iterates through the memory block to set
		every byte to zero.
	*/

	for i := range bus.memory {
		bus.memory[i] = 0
	}
}
