package marlens

import (
	"fmt"
	"strings"
)

// Warning codes reported by terminal operations.
const (
	// WarnNoDayColumns: a page had tokens but no recognizable day-column
	// header, so it contributed no room blocks.
	WarnNoDayColumns = "no_day_columns"

	// WarnNoVitalsRow: a room block had due cells but no dedicated vitals
	// row; inline due-cell readings were the only evidence available.
	WarnNoVitalsRow = "no_vitals_row"
)

// Warning is a non-fatal issue encountered while parsing. The audit
// succeeded but the results for the affected page may be incomplete.
type Warning struct {
	Code    string
	Message string
	Page    int
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] page %d: %s", w.Code, w.Page, w.Message)
}

// FormatWarnings renders warnings one per line for display or logging.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, 0, len(warnings))
	for _, w := range warnings {
		lines = append(lines, w.String())
	}
	return strings.Join(lines, "\n")
}
