package bounding

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// grid describes a uniform tiling of a region: every cell has the same axis
// sides, so a single diameter and a single side-to-diameter ratio vector are
// shared by all cells.
type grid struct {
	// centers holds one cell center per cell, in row-major axis order.
	centers [][]float64
	// diam is the Euclidean length of every cell's diagonal.
	diam float64
	// sideToDiam is the per-axis cell side divided by diam. It stays valid
	// for all descendants of these cells because subdivision is
	// geometrically self-similar.
	sideToDiam []float64
}

// sampleRegularGrid tiles the region with near-uniform hyper-cuboids. The
// reference cell side is chosen so that roughly sampleSize cells cover the
// region; each axis is then split into an integral number of equal
// sub-intervals, so the actual cell count may exceed sampleSize.
func sampleRegularGrid(region Region, sampleSize int) (*grid, error) {
	const op = "sampleRegularGrid"

	n := region.Dim()
	referenceSide := math.Pow(region.Volume()/float64(sampleSize), 1/float64(n))

	axes := make([][]float64, n)
	sides := make([]float64, n)
	total := 1
	for i, iv := range region {
		width := iv[1] - iv[0]
		cells := int(math.Ceil(width / referenceSide))
		if cells <= 1 {
			return nil, NewError("not enough points to properly fill the region").
				WithOperation(op).WithComponent("bounding")
		}
		side := width / float64(cells)
		sides[i] = side

		mids := make([]float64, cells)
		for k := 0; k < cells; k++ {
			mids[k] = iv[0] + side/2 + float64(k)*side
		}
		axes[i] = mids
		total *= cells
	}

	centers := make([][]float64, 0, total)
	idx := make([]int, n)
	for {
		p := make([]float64, n)
		for i := range p {
			p[i] = axes[i][idx[i]]
		}
		centers = append(centers, p)

		// odometer-style advance over the per-axis midpoints
		axis := 0
		for axis < n {
			idx[axis]++
			if idx[axis] < len(axes[axis]) {
				break
			}
			idx[axis] = 0
			axis++
		}
		if axis == n {
			break
		}
	}

	diam := floats.Norm(sides, 2)
	ratio := make([]float64, n)
	for i, s := range sides {
		ratio[i] = s / diam
	}

	return &grid{centers: centers, diam: diam, sideToDiam: ratio}, nil
}
