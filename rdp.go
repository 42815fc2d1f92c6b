// rdp.go - N64 Reality Display Processor raster core

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
rdp.go - N64 Reality Display Processor raster core

A command-buffer-driven triangle rasterizer modelled on the RDP's
display-list interface: the host writes START/END/CURRENT/STATUS DPC
registers, then hands the processor a byte slice of system RAM to walk
as 8-byte display-list commands. Triangles are rasterized scanline by
scanline rather than with barycentric coordinates, matching the
simplified packed vertex format this command set actually uses.
*/

package main

import "sync"

// DPC register offsets, relative to the RDP's command register page.
const (
	RDPRegStart   = 0x00
	RDPRegEnd     = 0x04
	RDPRegCurrent = 0x08
	RDPRegStatus  = 0x0C
)

// STATUS register bits.
const (
	RDPStatusCBufReady = 0x080
	RDPStatusDMABusy   = 0x100
)

// Display-list command IDs (bits 29-24 of word0: word0 >> 24, masked to 0x3F).
const (
	rdpCmdTriFlat        = 0x08
	rdpCmdTriFlatZ       = 0x09
	rdpCmdTriGouraud     = 0x0C
	rdpCmdTriGouraudZ    = 0x0D
	rdpCmdTexRect        = 0x24
	rdpCmdSyncLo         = 0x26
	rdpCmdSyncHi         = 0x29
	rdpCmdSetScissor     = 0x2D
	rdpCmdSetOtherModes  = 0x2F
	rdpCmdLoadBlock      = 0x33
	rdpCmdLoadTile       = 0x34
	rdpCmdSetTile        = 0x35
	rdpCmdFillRect       = 0x36
	rdpCmdSetFillColor   = 0x37
	rdpCmdSetTextureImg  = 0x3D
	rdpCmdSetColorImg    = 0x3F
)

// rdpTile is a texture tile descriptor as populated by SET_TILE. Texture
// sampling itself is out of scope; the descriptor is retained so LOAD_BLOCK/
// LOAD_TILE/SET_TILE round-trip consistently for a host inspecting state.
type rdpTile struct {
	format, size, line, tmemAddr uint32
	palette                      uint32
	sMask, tMask                 uint32
	sShift, tShift               uint32
}

// rdpScissor is the clip rectangle applied to every rasterized primitive.
// xmax/ymax are exclusive, xmin/ymin inclusive.
type rdpScissor struct {
	xMin, yMin, xMax, yMax int
}

// rdpVertex is a single triangle vertex in the packed command format: plain
// pixel coordinates, a 16-bit depth and a packed ARGB8888 color.
type rdpVertex struct {
	x, y int
	z    int32
	argb uint32
}

// RDP implements the display-list driven triangle rasterizer.
type RDP struct {
	mu sync.Mutex

	width, height int
	framebuffer   []uint32
	zbuffer       []int32
	zEnabled      bool

	fillColor     uint32
	scissor       rdpScissor
	tiles         [8]rdpTile
	textureImgPtr uint32

	dpcStart, dpcEnd, dpcCurrent, dpcStatus uint32
}

// NewRDP constructs an RDP with the given framebuffer resolution, scissor
// defaulted to the full frame and CBUF_READY set (idle, ready for commands).
func NewRDP(width, height int) *RDP {
	r := &RDP{width: width, height: height}
	r.reset()
	return r
}

func (r *RDP) reset() {
	r.framebuffer = make([]uint32, r.width*r.height)
	r.zbuffer = make([]int32, r.width*r.height)
	for i := range r.zbuffer {
		r.zbuffer[i] = 0xFFFF // farthest depth, so the first write to a pixel always passes
	}
	r.zEnabled = false
	r.fillColor = 0
	r.scissor = rdpScissor{xMin: 0, yMin: 0, xMax: r.width, yMax: r.height}
	r.tiles = [8]rdpTile{}
	r.textureImgPtr = 0
	r.dpcStart = 0
	r.dpcEnd = 0
	r.dpcCurrent = 0
	r.dpcStatus = RDPStatusCBufReady
}

// Reset restores the RDP to its post-construction state.
func (r *RDP) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
}

// SetZBufferEnabled toggles depth testing for subsequent triangles.
func (r *RDP) SetZBufferEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.zEnabled = enabled
}

// ReadRegister reads a DPC control register.
func (r *RDP) ReadRegister(offset uint32) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch offset {
	case RDPRegStart:
		return r.dpcStart
	case RDPRegEnd:
		return r.dpcEnd
	case RDPRegCurrent:
		return r.dpcCurrent
	case RDPRegStatus:
		return r.dpcStatus
	}
	return 0
}

// WriteRegister writes a DPC control register. Writing END clears
// CBUF_READY iff START != END, the host-visible signal that a display list
// is pending; the host is expected to follow with ProcessDisplayList.
func (r *RDP) WriteRegister(offset uint32, value uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch offset {
	case RDPRegStart:
		r.dpcStart = value
	case RDPRegEnd:
		r.dpcEnd = value
		if r.dpcStart != r.dpcEnd {
			r.dpcStatus &^= RDPStatusCBufReady
		}
	}
}

// ProcessDisplayList walks [START, END) of ram in 8-byte steps, dispatching
// each command, then sets CURRENT=END and restores CBUF_READY.
func (r *RDP) ProcessDisplayList(ram []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dpcStatus |= RDPStatusDMABusy
	r.dpcStatus &^= RDPStatusCBufReady

	addr := int(r.dpcStart)
	end := int(r.dpcEnd)
	for addr < end && addr+7 < len(ram) {
		word0 := be32(ram, addr)
		word1 := be32(ram, addr+4)
		cmdID := (word0 >> 24) & 0x3F
		r.execute(cmdID, word0, word1)
		addr += 8
	}

	r.dpcCurrent = r.dpcEnd
	r.dpcStatus |= RDPStatusCBufReady
	r.dpcStatus &^= RDPStatusDMABusy
}

func be32(b []byte, off int) uint32 {
	return uint32(b[off])<<24 | uint32(b[off+1])<<16 | uint32(b[off+2])<<8 | uint32(b[off+3])
}

func (r *RDP) execute(cmdID, word0, word1 uint32) {
	switch cmdID {
	case rdpCmdTriFlat:
		x0, y0, x1, y1, x2, y2 := unpackTriCoords(word0, word1)
		r.rasterize(
			rdpVertex{x: x0, y: y0, argb: r.fillColor},
			rdpVertex{x: x1, y: y1, argb: r.fillColor},
			rdpVertex{x: x2, y: y2, argb: r.fillColor},
			false,
		)

	case rdpCmdTriFlatZ:
		x0, y0, x1, y1, x2, y2 := unpackTriCoords(word0, word1)
		r.rasterize(
			rdpVertex{x: x0, y: y0, z: 0x8000, argb: r.fillColor},
			rdpVertex{x: x1, y: y1, z: 0x8000, argb: r.fillColor},
			rdpVertex{x: x2, y: y2, z: 0x8000, argb: r.fillColor},
			true,
		)

	case rdpCmdTriGouraud:
		x0, y0, x1, y1, x2, y2 := unpackTriCoords(word0, word1)
		c0 := r.fillColor
		c1 := scaleColorRGB(r.fillColor, 0.8)
		c2 := scaleColorRGB(r.fillColor, 0.6)
		r.rasterize(
			rdpVertex{x: x0, y: y0, argb: c0},
			rdpVertex{x: x1, y: y1, argb: c1},
			rdpVertex{x: x2, y: y2, argb: c2},
			false,
		)

	case rdpCmdTriGouraudZ:
		x0, y0, x1, y1, x2, y2 := unpackTriCoords(word0, word1)
		c0 := r.fillColor
		c1 := scaleColorRGB(r.fillColor, 0.8)
		c2 := scaleColorRGB(r.fillColor, 0.6)
		r.rasterize(
			rdpVertex{x: x0, y: y0, z: 0x8000, argb: c0},
			rdpVertex{x: x1, y: y1, z: 0x8000, argb: c1},
			rdpVertex{x: x2, y: y2, z: 0x8000, argb: c2},
			true,
		)

	case rdpCmdTexRect:
		// Stub: no TMEM sampling, just fills with fill_color like a real
		// implementation would after a miss on an unbound texture.
		xh := int(((word0 >> 12) & 0xFFF) / 4)
		yh := int((word0 & 0xFFF) / 4)
		xl := int(((word1 >> 12) & 0xFFF) / 4)
		yl := int((word1 & 0xFFF) / 4)
		r.fillRect(xl, yl, xh-xl, yh-yl)

	case rdpCmdSyncLo, rdpCmdSyncHi:
		// No-op: this is a frame-based implementation with no pipeline to drain.
	case 0x27, 0x28:
		// SYNC_PIPE / SYNC_TILE, also no-ops.

	case rdpCmdSetScissor:
		xMax := int((word0 >> 12) & 0xFFF / 4)
		yMax := int(word0 & 0xFFF / 4)
		xMin := int((word1 >> 12) & 0xFFF / 4)
		yMin := int(word1 & 0xFFF / 4)
		r.scissor = rdpScissor{xMin: xMin, yMin: yMin, xMax: xMax, yMax: yMax}

	case rdpCmdSetOtherModes:
		// Accepted, no effect: no blend/combine pipeline is modeled.

	case rdpCmdLoadBlock, rdpCmdLoadTile:
		// Accepted, no effect: would require TMEM sampling from RDRAM.

	case rdpCmdSetTile:
		format := (word0 >> 21) & 0x07
		size := (word0 >> 19) & 0x03
		line := (word0 >> 9) & 0x1FF
		tmemAddr := word0 & 0x1FF
		tileNum := (word1 >> 24) & 0x07
		palette := (word1 >> 20) & 0x0F
		maskT := (word1 >> 14) & 0x0F
		shiftT := (word1 >> 10) & 0x0F
		maskS := (word1 >> 4) & 0x0F
		shiftS := word1 & 0x0F
		if tileNum < 8 {
			r.tiles[tileNum] = rdpTile{
				format: format, size: size, line: line, tmemAddr: tmemAddr,
				palette: palette, sMask: maskS, tMask: maskT,
				sShift: shiftS, tShift: shiftT,
			}
		}

	case rdpCmdFillRect:
		xh := int((((word0 >> 14) & 0xFFF) + 3) / 4)
		yh := int((((word0 >> 2) & 0xFFF) + 3) / 4)
		xl := int(((word1 >> 14) & 0xFFF) / 4)
		yl := int(((word1 >> 2) & 0xFFF) / 4)
		r.fillRect(xl, yl, xh-xl, yh-yl)

	case rdpCmdSetFillColor:
		r.fillColor = word1

	case rdpCmdSetTextureImg:
		r.textureImgPtr = word1 & 0xFFFFFF

	case rdpCmdSetColorImg:
		// Accepted, no effect: the framebuffer is internal to this core.

	default:
		// Unassigned command: ignored.
	}
}

// unpackTriCoords decodes the simplified packed vertex layout shared by all
// four triangle opcodes: word0 bits 23-12 = x0, bits 11-0 = y0; word1 bits
// 31-24 = x1, 23-16 = y1, 15-8 = x2, 7-0 = y2.
func unpackTriCoords(word0, word1 uint32) (x0, y0, x1, y1, x2, y2 int) {
	x0 = int((word0 >> 12) & 0xFFF)
	y0 = int(word0 & 0xFFF)
	x1 = int((word1 >> 24) & 0xFF)
	y1 = int((word1 >> 16) & 0xFF)
	x2 = int((word1 >> 8) & 0xFF)
	y2 = int(word1 & 0xFF)
	return
}

// scaleColorRGB scales the R/G/B channels of a packed ARGB8888 color by
// factor, leaving alpha untouched, used to derive Gouraud vertex colors
// from a single fill_color.
func scaleColorRGB(argb uint32, factor float64) uint32 {
	a := argb >> 24 & 0xFF
	r := scaleChannel(argb>>16&0xFF, factor)
	g := scaleChannel(argb>>8&0xFF, factor)
	b := scaleChannel(argb&0xFF, factor)
	return a<<24 | r<<16 | g<<8 | b
}

func scaleChannel(c uint32, factor float64) uint32 {
	v := int(float64(c) * factor)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint32(v)
}

// lerpColor linearly interpolates two packed ARGB8888 colors per channel,
// t clamped to [0,1].
func lerpColor(a, b uint32, t float64) uint32 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	la := lerpChannel(a>>24&0xFF, b>>24&0xFF, t)
	lr := lerpChannel(a>>16&0xFF, b>>16&0xFF, t)
	lg := lerpChannel(a>>8&0xFF, b>>8&0xFF, t)
	lb := lerpChannel(a&0xFF, b&0xFF, t)
	return la<<24 | lr<<16 | lg<<8 | lb
}

func lerpChannel(a, b uint32, t float64) uint32 {
	v := float64(a) + (float64(b)-float64(a))*t
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint32(v)
}

// fillRect fills [x,y,x+w,y+h) with fill_color, clipped to the scissor and
// framebuffer bounds.
func (r *RDP) fillRect(x, y, w, h int) {
	xStart := max(x, r.scissor.xMin)
	yStart := max(y, r.scissor.yMin)
	xEnd := min(min(x+w, r.scissor.xMax), r.width)
	yEnd := min(min(y+h, r.scissor.yMax), r.height)

	for py := yStart; py < yEnd; py++ {
		row := py * r.width
		for px := xStart; px < xEnd; px++ {
			r.framebuffer[row+px] = r.fillColor
		}
	}
}

// rasterize implements the scanline-based Y-sorted triangle fill shared by
// all four triangle opcodes: sort vertices by Y, walk y0..y2, interpolate
// X (and Z/color when requested) across each scanline, clip to scissor and
// framebuffer bounds, and optionally Z-test each pixel.
func (r *RDP) rasterize(v0, v1, v2 rdpVertex, zTest bool) {
	if v0.y > v1.y {
		v0, v1 = v1, v0
	}
	if v1.y > v2.y {
		v1, v2 = v2, v1
	}
	if v0.y > v1.y {
		v0, v1 = v1, v0
	}

	if v0.y == v2.y {
		return // degenerate
	}
	totalHeight := float64(v2.y - v0.y)

	for y := v0.y; y <= v2.y; y++ {
		var segmentHeight int
		if y < v1.y {
			segmentHeight = v1.y - v0.y
		} else {
			segmentHeight = v2.y - v1.y
		}
		if segmentHeight == 0 {
			continue
		}

		alpha := float64(y-v0.y) / totalHeight
		var beta float64
		if y < v1.y {
			beta = float64(y-v0.y) / float64(v1.y-v0.y)
		} else {
			beta = float64(y-v1.y) / float64(v2.y-v1.y)
		}

		xa := float64(v0.x) + float64(v2.x-v0.x)*alpha
		za := float64(v0.z) + float64(v2.z-v0.z)*alpha
		ca := lerpColor(v0.argb, v2.argb, alpha)

		var xb, zb float64
		var cb uint32
		if y < v1.y {
			xb = float64(v0.x) + float64(v1.x-v0.x)*beta
			zb = float64(v0.z) + float64(v1.z-v0.z)*beta
			cb = lerpColor(v0.argb, v1.argb, beta)
		} else {
			xb = float64(v1.x) + float64(v2.x-v1.x)*beta
			zb = float64(v1.z) + float64(v2.z-v1.z)*beta
			cb = lerpColor(v1.argb, v2.argb, beta)
		}

		xStart, xEnd := int(xa), int(xb)
		zStart, zEnd := za, zb
		cStart, cEnd := ca, cb
		if xb < xa {
			xStart, xEnd = int(xb), int(xa)
			zStart, zEnd = zb, za
			cStart, cEnd = cb, ca
		}

		clipY := y
		if clipY < r.scissor.yMin || clipY >= r.scissor.yMax || clipY < 0 || clipY >= r.height {
			continue
		}

		clipXStart := max(xStart, r.scissor.xMin)
		clipXEnd := min(xEnd, r.scissor.xMax-1)

		spanWidth := xEnd - xStart
		for x := clipXStart; x <= clipXEnd; x++ {
			if x < 0 || x >= r.width {
				continue
			}
			t := 0.0
			if spanWidth > 0 {
				t = float64(x-xStart) / float64(spanWidth)
			}

			idx := clipY*r.width + x

			if r.zEnabled && zTest {
				z := int32(zStart + (zEnd-zStart)*t)
				if z >= r.zbuffer[idx] {
					continue
				}
				r.zbuffer[idx] = z
			}

			r.framebuffer[idx] = lerpColor(cStart, cEnd, t)
		}
	}
}

// Framebuffer returns the current ARGB8888 framebuffer contents.
func (r *RDP) Framebuffer() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint32, len(r.framebuffer))
	copy(out, r.framebuffer)
	return out
}
