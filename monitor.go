// monitor.go - interactive 6502 register/memory monitor

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
License: GPLv3 or later
*/

/*
monitor.go - interactive 6502 register/memory monitor

A bubbletea front-end over Atari2600Bus + CPU_6502: space/j single-steps
the CPU, the view renders a scrolling memory page table with the program
counter highlighted plus the register/flag file, in the same Update/View
shape as a plain single-screen debugger.
*/

package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	monitorPCStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	monitorDimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	monitorHdrStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)

type monitorModel struct {
	cpu *CPU_6502
	bus *Atari2600Bus

	offset uint16 // base address of the memory page table view
	steps  int
	err    error
	quit   bool
}

func newMonitorModel(bus *Atari2600Bus, cpu *CPU_6502) monitorModel {
	return monitorModel{cpu: cpu, bus: bus, offset: cpu.PC &^ 0x00FF}
}

func (m monitorModel) Init() tea.Cmd {
	return nil
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quit = true
			return m, tea.Quit

		case " ", "j":
			if !m.cpu.Running() {
				return m, nil
			}
			m.cpu.Step()
			m.steps++
			m.offset = m.cpu.PC &^ 0x00FF

		case "pgdown":
			m.offset += 0x100
		case "pgup":
			m.offset -= 0x100
		}
	}
	return m, nil
}

func (m monitorModel) renderPage(start uint16) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04X | ", start)
	for i := range 16 {
		addr := start + uint16(i)
		val := m.bus.Read(addr)
		cell := fmt.Sprintf("%02X ", val)
		if addr == m.cpu.PC {
			cell = monitorPCStyle.Render(fmt.Sprintf("[%02X]", val))
		}
		b.WriteString(cell)
		b.WriteString(" ")
	}
	return b.String()
}

func (m monitorModel) pageTable() string {
	lines := []string{monitorHdrStyle.Render("addr |  0  1  2  3  4  5  6  7  8  9  A  B  C  D  E  F")}
	for row := range 8 {
		lines = append(lines, m.renderPage(m.offset+uint16(row*16)))
	}
	return strings.Join(lines, "\n")
}

func (m monitorModel) status() string {
	flagBit := func(name string, set bool) string {
		if set {
			return monitorPCStyle.Render(name)
		}
		return monitorDimStyle.Render(strings.ToLower(name))
	}
	flags := strings.Join([]string{
		flagBit("N", m.cpu.getFlag(NEGATIVE_FLAG)),
		flagBit("V", m.cpu.getFlag(OVERFLOW_FLAG)),
		flagBit("B", m.cpu.getFlag(BREAK_FLAG)),
		flagBit("D", m.cpu.getFlag(DECIMAL_FLAG)),
		flagBit("I", m.cpu.getFlag(INTERRUPT_FLAG)),
		flagBit("Z", m.cpu.getFlag(ZERO_FLAG)),
		flagBit("C", m.cpu.getFlag(CARRY_FLAG)),
	}, " ")

	return fmt.Sprintf(
		"PC: %04X\nA:  %02X\nX:  %02X\nY:  %02X\nSP: %02X\nSR: %02X\nsteps: %d\n\n%s",
		m.cpu.PC, m.cpu.A, m.cpu.X, m.cpu.Y, m.cpu.SP, m.cpu.SR, m.steps, flags,
	)
}

func (m monitorModel) View() string {
	if m.quit {
		return ""
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.pageTable(), "   ", m.status())
	help := monitorDimStyle.Render("\n\nspace/j: step   pgup/pgdn: scroll   q: quit")
	return body + help
}

// runMonitor loads rom into an Atari2600Bus, constructs a 6502 around it
// and starts the interactive TUI. Mirrors run6502's setup in main.go.
func runMonitor(cartPath string) error {
	rom, err := os.ReadFile(cartPath)
	if err != nil {
		return fmt.Errorf("reading cartridge: %w", err)
	}

	if w, h, sizeErr := term.GetSize(int(os.Stdout.Fd())); sizeErr == nil && (w < 80 || h < 24) {
		fmt.Fprintf(os.Stderr, "warning: terminal is %dx%d, the monitor wants at least 80x24\n", w, h)
	}

	bus := NewAtari2600Bus(rom)
	cpu := NewCPU_6502WithBus6502(bus)
	cpu.Reset()

	_, err = tea.NewProgram(newMonitorModel(bus, cpu)).Run()
	return err
}
