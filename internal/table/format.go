package table

import (
	"fmt"
	"time"
)

// TimeLayout is the calendar layout used for create_time.
const TimeLayout = "2006-01-02 15:04:05"

var byteUnits = []string{"", "K", "M", "G", "T", "P"}

// FormatBytes scales n by powers of 1024 until it is below 1024 and prints
// it with two decimals, e.g. 1536 -> "1.50KB". Exactly 1024^k uses the
// next unit up.
func FormatBytes(n uint64) string {
	v := float64(n)
	for _, unit := range byteUnits {
		if v < 1024 {
			return fmt.Sprintf("%.2f%sB", v, unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%.2fEB", v)
}

// FormatTime renders t in local time using TimeLayout.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(TimeLayout)
}
