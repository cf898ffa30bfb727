package core

// Frame is a row-major RGB float buffer. Row 0 is the top of the image.
type Frame struct {
	Width  int
	Height int
	Pixels []Vec3
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]Vec3, width*height),
	}
}

// At returns the pixel at column x, row y
func (f *Frame) At(x, y int) Vec3 {
	return f.Pixels[y*f.Width+x]
}

// Set stores the pixel at column x, row y
func (f *Frame) Set(x, y int, c Vec3) {
	f.Pixels[y*f.Width+x] = c
}

// Rows returns the sub-slice covering rows [start, end). Bands rendered in
// parallel each get their own disjoint slice.
func (f *Frame) Rows(start, end int) []Vec3 {
	return f.Pixels[start*f.Width : end*f.Width]
}
