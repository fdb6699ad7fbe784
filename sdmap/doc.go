// Package sdmap implements the semi-dense inverse-depth mapping core of a
// monocular direct visual SLAM pipeline: per-pixel Gaussian inverse-depth
// hypotheses attached to a keyframe, refined by epipolar stereo search
// against later reference frames, and propagated forward across keyframe
// changes.
//
// Pose tracking, keyframe selection, the global map graph, image I/O, and
// pyramid/gradient precomputation are external collaborators, consumed here
// only through the Frame interface.
package sdmap
