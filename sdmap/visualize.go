package sdmap

import (
	"image"

	"go.viam.com/rdk/rimage"
)

// debugDepthScaleMM converts a smoothed inverse depth into the millimeter
// integer scale rimage.DepthMap expects, matching the resolution the
// original mapper's debug plot displayed depth at.
const debugDepthScaleMM = 1000.0

// DebugPlotDepthMap renders grid's smoothed inverse-depth field as a false
// color image the way the original mapper's debugPlotDepthMap did, using
// hue to encode depth between hardMinMM and hardMaxMM millimeters. Invalid
// cells are left transparent black (rimage treats a zero depth as "no
// data"). This is a visualization aid only; it never drives any pipeline
// decision.
func DebugPlotDepthMap(grid *Grid, hardMinMM, hardMaxMM int) image.Image {
	dm := rimage.NewEmptyDepthMap(grid.Width, grid.Height)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			hyp := grid.At(x, y)
			if !hyp.Valid || hyp.IDepthSmoothed <= 0 {
				continue
			}
			z := debugDepthScaleMM / float64(hyp.IDepthSmoothed)
			dm.Set(x, y, int(z))
		}
	}
	return dm.ToPrettyPicture(hardMinMM, hardMaxMM)
}
