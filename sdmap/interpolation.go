package sdmap

import "math"

// bilinearSample reads buf (row-major, width*height, the same layout
// VectorField2D and Image use elsewhere in this module) at fractional
// coordinates (x, y) using bilinear interpolation. Callers are responsible
// for keeping (x, y) at least one pixel inside the buffer; no bounds
// checking is done here, matching the unchecked getInterpolatedElement the
// rest of the stereo search is built on.
func bilinearSample(buf []float32, width int, x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	ix, iy := int(x0), int(y0)
	fx, fy := x-x0, y-y0

	idx := iy*width + ix
	v00 := float64(buf[idx])
	v10 := float64(buf[idx+1])
	v01 := float64(buf[idx+width])
	v11 := float64(buf[idx+width+1])

	top := v00 + fx*(v10-v00)
	bot := v01 + fx*(v11-v01)
	return top + fy*(bot-top)
}

// bilinearSampleGrad interpolates a two-channel (gx, gy) buffer pair at
// (x, y), mirroring bilinearSample but for gradient fields.
func bilinearSampleGrad(gx, gy []float32, width int, x, y float64) (float64, float64) {
	return bilinearSample(gx, width, x, y), bilinearSample(gy, width, x, y)
}

// inImageRange reports whether pt lies at least padding pixels inside an
// image of the given width/height (used for both epipolar-segment
// endpoints and the search-range pre-check).
func inImageRange(x, y float64, width, height int, padding float64) bool {
	return x >= padding && y >= padding &&
		x <= float64(width-1)-padding && y <= float64(height-1)-padding
}
