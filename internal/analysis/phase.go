package analysis

import "strings"

// PhasePortrait plots ys against xs on a width x height character grid with
// 10% padding, drawing the axes where they are visible.
func PhasePortrait(xs, ys []float64, width, height int) string {
	n := min(len(xs), len(ys))
	if n == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range n {
		minX, maxX = min(minX, xs[i]), max(maxX, xs[i])
		minY, maxY = min(minY, ys[i]), max(maxY, ys[i])
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX, rangeY = maxX-minX, maxY-minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	cell := func(x, y float64) (int, int) {
		return int((x - minX) / rangeX * float64(width-1)), height - 1 - int((y-minY)/rangeY*float64(height-1))
	}

	for i := range n {
		col, row := cell(xs[i], ys[i])
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col, _ := cell(0, 0)
		for row := range height {
			if grid[row][col] == ' ' {
				grid[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		_, row := cell(0, 0)
		for col := range width {
			if grid[row][col] == ' ' {
				grid[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
