package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/viz"
)

// FrameToSVG draws one frame of a width x height playfield. Atoms are coloured
// by variant, wells are filled, neutrons are dots and floating texts are labels.
func FrameToSVG(neutrons []entity.Neutron, atoms []entity.Atom, texts []entity.FloatingText, width, height float64, theme viz.Theme) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, theme.Background)

	sb.WriteString("<g fill=\"none\" stroke-width=\"2\">\n")
	for i := range atoms {
		a := &atoms[i]
		col := theme.AtomColor(a)
		if a.Well() {
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="0.4" stroke="%s"/>`+"\n",
				a.Pos.X, a.Pos.Y, a.Radius, col, col)
			continue
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" stroke="%s" data-kind="%s" data-health="%d"/>`+"\n",
			a.Pos.X, a.Pos.Y, a.Radius, col, a.Kind(), a.Health)
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", theme.Neutron)
	for _, n := range neutrons {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", n.Pos.X, n.Pos.Y, n.Size)
	}
	sb.WriteString("</g>\n")

	if len(texts) > 0 {
		fmt.Fprintf(&sb, "<g fill=\"%s\" font-family=\"monospace\" font-size=\"12\">\n", theme.Text)
		for _, t := range texts {
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f">%s</text>`+"\n", t.Pos.X, t.Pos.Y, html.EscapeString(t.Text))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values against their index as a polyline, e.g. banked coins
// or max chain per round.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(values) - 1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
