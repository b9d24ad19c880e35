package maintenance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ukydev/municipal-assets/internal/models"
)

const (
	// CodeWidth is the zero padding of the correlative suffix.
	CodeWidth = 3

	MaintenanceNamespace = "MANT"
	WorkOrderNamespace   = "WO"
)

var spanishMonths = [12]string{"ENE", "FEB", "MAR", "ABR", "MAY", "JUN", "JUL", "AGO", "SEP", "OCT", "NOV", "DIC"}

var suffixPatterns = map[int]*regexp.Regexp{
	CodeWidth: suffixPattern(CodeWidth),
}

// MaintenanceCodePrefix formats MANT-DD-MON-YYYY with a Spanish month.
func MaintenanceCodePrefix(day time.Time) string {
	return fmt.Sprintf("%s-%02d-%s-%04d", MaintenanceNamespace, day.Day(), spanishMonths[day.Month()-1], day.Year())
}

// WorkOrderPrefix formats WO-YYYY-MM-DD.
func WorkOrderPrefix(day time.Time) string {
	return WorkOrderNamespace + "-" + day.Format("2006-01-02")
}

// NextCode returns prefix-NNN where NNN is one more than the highest suffix
// among existing codes sharing prefix. Codes whose tail is not exactly width
// digits are ignored.
//
// The result is only as fresh as existing: two callers working from the same
// snapshot compute the same code, and the backend's 409 is the only guard.
func NextCode(existing []string, prefix string, width int) string {
	if width <= 0 {
		width = CodeWidth
	}
	pattern, ok := suffixPatterns[width]
	if !ok {
		pattern = suffixPattern(width)
	}

	max := 0
	for _, code := range existing {
		if !strings.HasPrefix(code, prefix) {
			continue
		}
		m := pattern.FindStringSubmatch(code)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%0*d", prefix, width, max+1)
}

// NextMaintenanceCode assigns the next MANT code for day from records.
func NextMaintenanceCode(records []models.MaintenanceRecord, day time.Time) string {
	codes := make([]string, 0, len(records))
	for _, r := range records {
		codes = append(codes, r.MaintenanceCode)
	}
	return NextCode(codes, MaintenanceCodePrefix(day), CodeWidth)
}

// NextWorkOrder assigns the next WO code for day from records.
func NextWorkOrder(records []models.MaintenanceRecord, day time.Time) string {
	codes := make([]string, 0, len(records))
	for _, r := range records {
		if r.WorkOrder != "" {
			codes = append(codes, r.WorkOrder)
		}
	}
	return NextCode(codes, WorkOrderPrefix(day), CodeWidth)
}

func suffixPattern(width int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`-(\d{%d})$`, width))
}
