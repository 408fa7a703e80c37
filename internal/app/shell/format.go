package shell

import (
	"fmt"

	"github.com/osa030/wavbox/internal/app/transport"
)

// FormatTime renders seconds as minutes:seconds without padding.
// Minutes wrap at one hour.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds)
	return fmt.Sprintf("%d:%d", s/60%60, s%60)
}

// CursorLabel renders "position / length".
func CursorLabel(c transport.Cursor) string {
	return FormatTime(c.Position) + " / " + FormatTime(c.Length)
}
