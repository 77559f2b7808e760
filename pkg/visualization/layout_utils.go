package visualization

import "math"

// FitToCanvas scales positions to fit within a width x height area, leaving
// padding on every side. Aspect ratio is not preserved.
func FitToCanvas(positions []Position, width, height, padding float64) []Position {
	if len(positions) == 0 {
		return positions
	}

	// Find bounds
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64

	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY

	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	normalized := make([]Position, len(positions))
	for i, pos := range positions {
		x, y := 0.5, 0.5
		if rangeX >= 0.01 {
			x = (pos.X - minX) / rangeX
		}
		if rangeY >= 0.01 {
			y = (pos.Y - minY) / rangeY
		}
		normalized[i] = Position{
			X: padding + x*targetWidth,
			Y: padding + y*targetHeight,
		}
	}

	return normalized
}

// FitUniform scales positions by one factor so they fit within a width x
// height area less padding, then centres them. Shapes are preserved.
func FitUniform(positions []Position, width, height, padding float64) []Position {
	if len(positions) == 0 {
		return positions
	}

	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	targetWidth := width - 2*padding
	targetHeight := height - 2*padding
	scale := math.Inf(1)
	if r := maxX - minX; r >= 0.01 {
		scale = targetWidth / r
	}
	if r := maxY - minY; r >= 0.01 {
		scale = math.Min(scale, targetHeight/r)
	}
	if math.IsInf(scale, 1) {
		scale = 0
	}

	midX, midY := (minX+maxX)/2, (minY+maxY)/2
	fitted := make([]Position, len(positions))
	for i, pos := range positions {
		fitted[i] = Position{
			X: width/2 + (pos.X-midX)*scale,
			Y: height/2 + (pos.Y-midY)*scale,
		}
	}
	return fitted
}
