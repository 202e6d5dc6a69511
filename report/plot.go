package report

import (
	"fmt"
	"strings"

	"github.com/quantlab/backsim/portfolio"
)

// ASCIIPlot renders the equity curve as a width x height character grid with
// min/max labels on the Y axis. A flat curve has no vertical range and
// renders as a message instead.
func ASCIIPlot(curve []portfolio.EquitySample, width, height int) string {
	if width <= 0 {
		width = 80
	}
	if height <= 2 {
		height = 20
	}
	if len(curve) == 0 {
		return "Equity curve is empty. No plot generated."
	}

	minVal, maxVal := curve[0].Equity, curve[0].Equity
	for _, s := range curve {
		if s.Equity < minVal {
			minVal = s.Equity
		}
		if s.Equity > maxVal {
			maxVal = s.Equity
		}
	}
	if maxVal == minVal {
		return "Equity curve is flat. No plot generated."
	}

	yRange := maxVal - minVal
	scaled := make([]int, len(curve))
	for i, s := range curve {
		scaled[i] = int((s.Equity - minVal) / yRange * float64(height-1))
	}

	grid := make([][]byte, height)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(" ", width))
	}

	// Downsample evenly across the width.
	for col := 0; col < width; col++ {
		idx := col * (len(curve) - 1) / max(width-1, 1)
		y := scaled[idx]
		grid[height-1-y][col] = '*'
	}

	labelMax := fmt.Sprintf("%.2f -", maxVal)
	labelMin := fmt.Sprintf("%.2f -", minVal)
	pad := strings.Repeat(" ", len(labelMax))

	var b strings.Builder
	b.WriteString(labelMax)
	b.Write(grid[0])
	b.WriteByte('\n')
	for r := 1; r < height-1; r++ {
		b.WriteString(pad)
		b.Write(grid[r])
		b.WriteByte('\n')
	}
	b.WriteString(labelMin)
	b.Write(grid[height-1])

	return b.String()
}
