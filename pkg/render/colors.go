package render

import (
	"fmt"
	"strconv"
	"strings"
)

// BlendColor linearly interpolates between two "#rrggbb" colors.
// An alpha of 0 yields c1, 1 yields c2. Each channel is blended
// independently and truncated toward zero, so midpoints round down
// (blue to red at 0.5 is "#7f007f", not "#800080"). Alpha values
// outside [0, 1] are clamped.
func BlendColor(c1, c2 string, alpha float64) string {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	r1, g1, b1 := hexToRGB(c1)
	r2, g2, b2 := hexToRGB(c2)
	return rgbToHex(
		blendChannel(r1, r2, alpha),
		blendChannel(g1, g2, alpha),
		blendChannel(b1, b2, alpha),
	)
}

func blendChannel(a, b float64, alpha float64) int {
	return int((1-alpha)*a + alpha*b)
}

// hexToRGB parses a "#rrggbb" color. Malformed input decodes as black.
func hexToRGB(c string) (r, g, b float64) {
	c = strings.TrimPrefix(c, "#")
	if len(c) != 6 {
		return 0, 0, 0
	}
	rv, _ := strconv.ParseUint(c[0:2], 16, 16)
	gv, _ := strconv.ParseUint(c[2:4], 16, 16)
	bv, _ := strconv.ParseUint(c[4:6], 16, 16)
	return float64(rv), float64(gv), float64(bv)
}

func rgbToHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
