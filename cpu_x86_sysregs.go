// cpu_x86_sysregs.go - protected-mode descriptor-register stubs and
// Pentium-era system instructions (CPUID, RDTSC, RDMSR, WRMSR).
//
// No segment translation or privilege checking is implemented: GDTR/IDTR/
// LDTR/TR/CR0 are held as plain registers so that software can load them,
// read them back, and a debugger can display them, exactly as much fidelity
// as spec.md's protected-mode stub calls for.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// opBOUND checks a signed array index against packed {lower, upper}
// bounds in memory and raises the BOUND-range-exceeded fault (vector 5)
// if it falls outside [lower, upper].
func (c *CPU_X86) opBOUND() {
	reg := c.getModRMReg()
	if c.getModRMMod() == 3 {
		// BOUND with a register operand is itself undefined behavior on
		// real hardware; treat it as a no-op fault-free decode.
		c.Cycles += 1
		return
	}
	addr := c.segmentedEffectiveAddress()
	if c.prefixOpSize {
		idx := int32(c.getReg32(reg))
		lower := int32(c.read32(addr))
		upper := int32(c.read32(addr + 4))
		if idx < lower || idx > upper {
			c.raiseFault(5)
			return
		}
	} else {
		idx := int16(c.getReg16(reg))
		lower := int16(c.read16(addr))
		upper := int16(c.read16(addr + 2))
		if idx < lower || idx > upper {
			c.raiseFault(5)
			return
		}
	}
	c.Cycles += 10
}

// opGrp6 dispatches SLDT/STR/LLDT/LTR/VERR/VERW by the ModR/M reg field.
// VERR/VERW always report "invalid" since no descriptor table lookup is
// performed.
func (c *CPU_X86) opGrp6() {
	switch c.getModRMReg() {
	case 0: // SLDT
		c.writeRM16(c.ldtr)
	case 1: // STR
		c.writeRM16(c.tr)
	case 2: // LLDT
		c.ldtr = c.readRM16()
	case 3: // LTR
		c.tr = c.readRM16()
	case 4, 5: // VERR/VERW
		c.readRM16()
		c.setFlag(x86FlagZF, false)
	}
	c.Cycles += 2
}

// opGrp7 dispatches SGDT/LGDT/SIDT/LIDT/SMSW/LMSW by the ModR/M reg field.
func (c *CPU_X86) opGrp7() {
	switch c.getModRMReg() {
	case 0: // SGDT
		addr := c.segmentedEffectiveAddress()
		c.write16(addr, c.gdtrLimit)
		c.write32(addr+2, c.gdtrBase)
	case 1: // SIDT
		addr := c.segmentedEffectiveAddress()
		c.write16(addr, c.idtrLimit)
		c.write32(addr+2, c.idtrBase)
	case 2: // LGDT
		addr := c.segmentedEffectiveAddress()
		c.gdtrLimit = c.read16(addr)
		c.gdtrBase = c.read32(addr + 2)
	case 3: // LIDT
		addr := c.segmentedEffectiveAddress()
		c.idtrLimit = c.read16(addr)
		c.idtrBase = c.read32(addr + 2)
	case 4: // SMSW
		c.writeRM16(uint16(c.msw))
	case 6: // LMSW
		c.msw = (c.msw &^ 0xFFFF) | uint32(c.readRM16())
	}
	c.Cycles += 3
}

// opLAR loads access rights; with no descriptor tables modeled, every
// selector is reported as invalid and the destination is zeroed.
func (c *CPU_X86) opLAR() {
	c.readRM16()
	reg := c.getModRMReg()
	c.setReg32(reg, 0)
	c.setFlag(x86FlagZF, false)
	c.Cycles += 4
}

// opLSL loads segment limit; stub always reports "invalid" with a zeroed
// destination, matching VERR/VERW/LAR.
func (c *CPU_X86) opLSL() {
	c.readRM16()
	reg := c.getModRMReg()
	c.setReg32(reg, 0)
	c.setFlag(x86FlagZF, false)
	c.Cycles += 4
}

// opCLTS clears the task-switched flag in the stubbed CR0.
func (c *CPU_X86) opCLTS() {
	c.msw &^= 1 << 3
	c.Cycles += 2
}

// opMOV_Rd_CRx reads CR0 (only CR0 is modeled) into a general register.
func (c *CPU_X86) opMOV_Rd_CRx() {
	reg := c.getModRMRM()
	crIdx := c.getModRMReg()
	if crIdx == 0 {
		c.setReg32(reg, c.msw)
	} else {
		c.setReg32(reg, 0)
	}
	c.Cycles += 6
}

// opMOV_CRx_Rd writes a general register into CR0 (only CR0 is modeled).
func (c *CPU_X86) opMOV_CRx_Rd() {
	reg := c.getModRMRM()
	crIdx := c.getModRMReg()
	if crIdx == 0 {
		c.msw = c.getReg32(reg)
	}
	c.Cycles += 6
}

// opRDTSC reads the time-stamp counter into EDX:EAX. On Pentium and later,
// Step advances tsc by each instruction's cycle count; RDTSC itself reads the counter as it stood
// before this instruction's own increment, matching the "sample, then
// advance" ordering a cycle-accurate TSC would have.
func (c *CPU_X86) opRDTSC() {
	c.EAX = uint32(c.tsc)
	c.EDX = uint32(c.tsc >> 32)
	c.Cycles += 1
}

// opRDMSR reads the MSR named by ECX into EDX:EAX. Unmodeled MSRs read
// back as zero rather than faulting, since no #GP surface is implemented.
func (c *CPU_X86) opRDMSR() {
	v := c.msrs[c.ECX]
	c.EAX = uint32(v)
	c.EDX = uint32(v >> 32)
	c.Cycles += 1
}

// opWRMSR writes EDX:EAX into the MSR named by ECX.
func (c *CPU_X86) opWRMSR() {
	v := uint64(c.EDX)<<32 | uint64(c.EAX)
	c.msrs[c.ECX] = v
	c.Cycles += 1
}

// opCPUID fills in the leaf-0 (vendor string, max leaf) and leaf-1
// (family/model/stepping + feature bits) results CPUID is asked for.
// Only leaves 0 and 1 are recognized; any other leaf returns zeroed output.
func (c *CPU_X86) opCPUID() {
	switch c.EAX {
	case 0:
		c.EAX = 1
		// "GenuineIntel" in EBX/EDX/ECX order
		c.EBX = 0x756e6547 // "Genu"
		c.EDX = 0x49656e69 // "ineI"
		c.ECX = 0x6c65746e // "ntel"
	case 1:
		c.EAX = 0x00000543 // family 5, model 4, stepping 3 (Pentium MMX-ish)
		c.EBX = 0
		c.ECX = 0
		c.EDX = 1 << 23 // MMX feature bit
	default:
		c.EAX, c.EBX, c.ECX, c.EDX = 0, 0, 0, 0
	}
	c.Cycles += 14
}
