package hal

// pixel565 is one RGB565 pixel as stored little-endian in a framebuffer.
type pixel565 uint16

func pack565(r, g, b uint8) pixel565 {
	return pixel565(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// load565 reads the pixel at byte offset off of buf.
func load565(buf []byte, off int) pixel565 {
	return pixel565(uint16(buf[off]) | uint16(buf[off+1])<<8)
}

// rgb expands the pixel to 8 bits per channel, mapping full-scale fields
// to 255.
func (p pixel565) rgb() (r, g, b uint8) {
	r = uint8(uint32(p>>11&0x1F) * 255 / 31)
	g = uint8(uint32(p>>5&0x3F) * 255 / 63)
	b = uint8(uint32(p&0x1F) * 255 / 31)
	return r, g, b
}
