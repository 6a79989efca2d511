package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/loadboard/internal/domain"
)

const (
	filledBlock   = "█"
	emptyBlock    = "░"
	overflowBlock = "▶"
)

// RenderLoad renders a load bar like [████░░░░]  45%. Loads above 100%
// fill the bar and end in an overflow marker.
func RenderLoad(load domain.Load, width int) string {
	if width < 2 {
		width = 2
	}
	pct := max(load.Percent, 0)

	filled := min(pct*width/100, width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	if pct > 100 {
		bar = strings.Repeat(filledBlock, width-1) + overflowBlock
	}
	return fmt.Sprintf("[%s] %3d%%", LoadColor(load).Render(bar), pct)
}

// RenderCompactBar renders a bar without brackets or percentage, for
// narrow board cards.
func RenderCompactBar(load domain.Load, width int) string {
	if width < 2 {
		width = 2
	}
	filled := min(max(load.Percent, 0)*width/100, width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return LoadColor(load).Render(bar)
}
