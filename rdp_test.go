package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRDPRegisterDefaults(t *testing.T) {
	r := NewRDP(64, 64)
	assert.Equal(t, uint32(RDPStatusCBufReady), r.ReadRegister(RDPRegStatus))
	assert.Equal(t, uint32(0), r.ReadRegister(RDPRegStart))
}

func TestRDPWriteEndClearsCBufReady(t *testing.T) {
	r := NewRDP(64, 64)
	r.WriteRegister(RDPRegStart, 0x100)
	r.WriteRegister(RDPRegEnd, 0x108)

	assert.Zero(t, r.ReadRegister(RDPRegStatus)&RDPStatusCBufReady, "CBUF_READY should clear after START != END")
}

func TestRDPWriteEndSameAsStartLeavesCBufReady(t *testing.T) {
	r := NewRDP(64, 64)
	r.WriteRegister(RDPRegStart, 0x100)
	r.WriteRegister(RDPRegEnd, 0x100)

	assert.NotZero(t, r.ReadRegister(RDPRegStatus)&RDPStatusCBufReady, "CBUF_READY should stay set when START == END")
}

func TestRDPProcessDisplayListRestoresStatus(t *testing.T) {
	r := NewRDP(64, 64)
	ram := make([]byte, 16)
	r.WriteRegister(RDPRegStart, 0)
	r.WriteRegister(RDPRegEnd, 8)

	r.ProcessDisplayList(ram)

	status := r.ReadRegister(RDPRegStatus)
	assert.NotZero(t, status&RDPStatusCBufReady, "CBUF_READY should be set after processing")
	assert.Zero(t, status&RDPStatusDMABusy, "DMA_BUSY should clear after processing")
	assert.Equal(t, uint32(8), r.ReadRegister(RDPRegCurrent))
}

func putCmd(ram []byte, off int, word0, word1 uint32) {
	ram[off] = byte(word0 >> 24)
	ram[off+1] = byte(word0 >> 16)
	ram[off+2] = byte(word0 >> 8)
	ram[off+3] = byte(word0)
	ram[off+4] = byte(word1 >> 24)
	ram[off+5] = byte(word1 >> 16)
	ram[off+6] = byte(word1 >> 8)
	ram[off+7] = byte(word1)
}

func TestRDPSetFillColorAndFillRect(t *testing.T) {
	r := NewRDP(16, 16)
	ram := make([]byte, 16)

	// SET_FILL_COLOR: cmd 0x37 in word0 bits 29-24, fill color in word1.
	putCmd(ram, 0, rdpCmdSetFillColor<<24, 0xFF00FF00)
	// FILL_RECTANGLE: xh=4,yh=4 in word0 (fixed-point *4), xl=0,yl=0 in word1.
	putCmd(ram, 8, rdpCmdFillRect<<24|(4*4)<<14|(4*4)<<2, 0)

	r.WriteRegister(RDPRegStart, 0)
	r.WriteRegister(RDPRegEnd, 16)
	r.ProcessDisplayList(ram)

	fb := r.Framebuffer()
	assert.Equal(t, uint32(0xFF00FF00), fb[0])
	assert.Zero(t, fb[5*16+5], "pixel outside fill rect should be untouched")
}

func TestRDPTriangleFlat(t *testing.T) {
	r := NewRDP(32, 32)
	ram := make([]byte, 16)

	putCmd(ram, 0, rdpCmdSetFillColor<<24, 0xAABBCCDD)
	// Triangle: (x0,y0)=(5,5), (x1,y1)=(20,5), (x2,y2)=(5,20).
	word0 := rdpCmdTriFlat<<24 | uint32(5)<<12 | uint32(5)
	word1 := uint32(20)<<24 | uint32(5)<<16 | uint32(5)<<8 | uint32(20)
	putCmd(ram, 8, word0, word1)

	r.WriteRegister(RDPRegStart, 0)
	r.WriteRegister(RDPRegEnd, 16)
	r.ProcessDisplayList(ram)

	fb := r.Framebuffer()
	assert.Equal(t, uint32(0xAABBCCDD), fb[10*32+10], "interior of triangle should be filled")
	assert.Zero(t, fb[1*32+1], "outside triangle should be untouched")
}

func TestRDPTriangleDegenerateIsNoOp(t *testing.T) {
	r := NewRDP(16, 16)
	r.fillColor = 0xFFFFFFFF
	// All three vertices share the same Y.
	r.rasterize(
		rdpVertex{x: 0, y: 5, argb: 0xFFFFFFFF},
		rdpVertex{x: 5, y: 5, argb: 0xFFFFFFFF},
		rdpVertex{x: 10, y: 5, argb: 0xFFFFFFFF},
		false,
	)
	for _, px := range r.Framebuffer() {
		assert.Zero(t, px, "degenerate triangle should not draw")
	}
}

func TestRDPZTestRejectsFartherPixel(t *testing.T) {
	r := NewRDP(16, 16)
	r.SetZBufferEnabled(true)

	r.rasterize(
		rdpVertex{x: 2, y: 2, z: 0x1000, argb: 0x11111111},
		rdpVertex{x: 12, y: 2, z: 0x1000, argb: 0x11111111},
		rdpVertex{x: 2, y: 12, z: 0x1000, argb: 0x11111111},
		true,
	)
	// Second, farther triangle covering the same pixels should not overwrite.
	r.rasterize(
		rdpVertex{x: 2, y: 2, z: 0x2000, argb: 0x22222222},
		rdpVertex{x: 12, y: 2, z: 0x2000, argb: 0x22222222},
		rdpVertex{x: 2, y: 12, z: 0x2000, argb: 0x22222222},
		true,
	)

	fb := r.Framebuffer()
	assert.Equal(t, uint32(0x11111111), fb[5*16+5], "nearer triangle should win")
}

func TestRDPZTestAcceptsNearerPixel(t *testing.T) {
	r := NewRDP(16, 16)
	r.SetZBufferEnabled(true)

	r.rasterize(
		rdpVertex{x: 2, y: 2, z: 0x2000, argb: 0x11111111},
		rdpVertex{x: 12, y: 2, z: 0x2000, argb: 0x11111111},
		rdpVertex{x: 2, y: 12, z: 0x2000, argb: 0x11111111},
		true,
	)
	r.rasterize(
		rdpVertex{x: 2, y: 2, z: 0x1000, argb: 0x22222222},
		rdpVertex{x: 12, y: 2, z: 0x1000, argb: 0x22222222},
		rdpVertex{x: 2, y: 12, z: 0x1000, argb: 0x22222222},
		true,
	)

	fb := r.Framebuffer()
	assert.Equal(t, uint32(0x22222222), fb[5*16+5], "nearer triangle should overwrite")
}

func TestRDPSetScissorClipsFillRect(t *testing.T) {
	r := NewRDP(16, 16)
	r.fillColor = 0xFFFFFFFF
	r.scissor = rdpScissor{xMin: 4, yMin: 4, xMax: 8, yMax: 8}

	r.fillRect(0, 0, 16, 16)

	fb := r.Framebuffer()
	assert.Zero(t, fb[0], "clipped by scissor")
	assert.Equal(t, uint32(0xFFFFFFFF), fb[5*16+5], "inside scissor")
}

func TestRDPSetTileStoresDescriptor(t *testing.T) {
	r := NewRDP(16, 16)
	word0 := uint32(rdpCmdSetTile)<<24 | uint32(2)<<21 | uint32(1)<<19 | uint32(10)<<9 | uint32(0x50)
	word1 := uint32(3)<<24 | uint32(5)<<20 | uint32(2)<<14 | uint32(1)<<10 | uint32(4)<<4 | uint32(6)
	r.execute(rdpCmdSetTile, word0, word1)

	tile := r.tiles[3]
	assert.Equal(t, uint32(2), tile.format)
	assert.Equal(t, uint32(1), tile.size)
	assert.Equal(t, uint32(10), tile.line)
	assert.Equal(t, uint32(0x50), tile.tmemAddr)
	assert.Equal(t, uint32(5), tile.palette)
	assert.Equal(t, uint32(2), tile.tMask)
	assert.Equal(t, uint32(1), tile.tShift)
	assert.Equal(t, uint32(4), tile.sMask)
	assert.Equal(t, uint32(6), tile.sShift)
}

func TestScaleColorRGBKeepsAlpha(t *testing.T) {
	got := scaleColorRGB(0xFF806040, 0.5)
	assert.Equal(t, uint32(0xFF), got>>24&0xFF, "alpha channel must not change")
	assert.Equal(t, uint32(0x40), got>>16&0xFF)
}

func TestLerpColorEndpoints(t *testing.T) {
	assert.Equal(t, uint32(0xFF000000), lerpColor(0xFF000000, 0xFF0000FF, 0))
	assert.Equal(t, uint32(0xFF0000FF), lerpColor(0xFF000000, 0xFF0000FF, 1))
}
