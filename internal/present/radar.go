package present

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alnah/go-mdcanon/internal/block"
)

// Radar chart geometry.
const (
	defaultChartSize = 400
	chartMargin      = 48 // room for axis labels
	chartRings       = 4
)

// writeRadarChart draws the chart as inline SVG. Values are scaled to the
// largest point, so the chart has no fixed maximum.
func writeRadarChart(buf *bytes.Buffer, c block.RadarChart) {
	width, height := c.Width, c.Height
	if width <= 0 {
		width = defaultChartSize
	}
	if height <= 0 {
		height = defaultChartSize
	}
	cx, cy := float64(width)/2, float64(height)/2
	radius := math.Max(math.Min(cx, cy)-chartMargin, 1)

	peak := 0.0
	for _, p := range c.Points {
		peak = math.Max(peak, p.Value)
	}
	if peak <= 0 {
		peak = 1
	}

	n := len(c.Points)
	vertex := func(i int, scale float64) (float64, float64) {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(max(n, 1))
		return cx + radius*scale*math.Cos(angle), cy + radius*scale*math.Sin(angle)
	}
	polygon := func(scale func(i int) float64) string {
		pts := make([]string, n)
		for i := range n {
			x, y := vertex(i, scale(i))
			pts[i] = num(x) + "," + num(y)
		}
		return strings.Join(pts, " ")
	}

	buf.WriteString("<figure class=\"radar-chart\">\n")
	fmt.Fprintf(buf, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\" role=\"img\"%s>\n",
		width, height, width, height, attr("aria-label", c.Title))

	for ring := 1; ring <= chartRings; ring++ {
		s := float64(ring) / chartRings
		fmt.Fprintf(buf, "<polygon class=\"radar-grid\" points=\"%s\" fill=\"none\" />\n", polygon(func(int) float64 { return s }))
	}
	for i, p := range c.Points {
		x, y := vertex(i, 1)
		fmt.Fprintf(buf, "<line class=\"radar-axis\" x1=\"%s\" y1=\"%s\" x2=\"%s\" y2=\"%s\" />\n", num(cx), num(cy), num(x), num(y))
		lx, ly := vertex(i, 1+16/radius)
		fmt.Fprintf(buf, "<text x=\"%s\" y=\"%s\" text-anchor=\"middle\">%s</text>\n", num(lx), num(ly), esc(p.Label))
	}
	fmt.Fprintf(buf, "<polygon class=\"radar-value\" points=\"%s\" />\n", polygon(func(i int) float64 {
		return math.Max(c.Points[i].Value, 0) / peak
	}))

	buf.WriteString("</svg>\n")
	if c.Title != "" {
		fmt.Fprintf(buf, "<figcaption>%s</figcaption>\n", esc(c.Title))
	}
	buf.WriteString("</figure>\n")
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
