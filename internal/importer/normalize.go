package importer

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

var completedStatuses = map[string]struct{}{
	"finished":   {},
	"finalizado": {},
	"finalizada": {},
	"concluido":  {},
	"concluída":  {},
	"completed":  {},
	"success":    {},
	"sucesso":    {},
	"pago":       {},
	"paga":       {},
}

// NormalizeStatus folds a ledger status into completed or other.
func NormalizeStatus(raw any) string {
	s := ""
	if truthy(raw) {
		s = cast.ToString(raw)
	}
	s = strings.TrimSpace(strings.ToLower(s))

	if _, ok := completedStatuses[s]; ok || strings.Contains(s, "conclu") {
		return domain.TripCompleted
	}
	return domain.TripOther
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseLocalizedNumber reads Brazilian formatted amounts such as "R$ 1.234,56".
// Every dot is taken as a thousands separator, so "1234.5" reads as 12345.
func ParseLocalizedNumber(raw any) float64 {
	switch v := raw.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToFloat64(v)
	}
	if !truthy(raw) {
		return 0
	}
	switch raw.(type) {
	case bool, time.Time:
		return 0
	}

	s := strings.ReplaceAll(cast.ToString(raw), "R$", "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\uFEFF' {
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)

	m := leadingFloat.FindString(s)
	if m == "" {
		return 0
	}
	f, err := cast.ToFloat64E(m)
	if err != nil {
		return 0
	}
	return f
}

// truthy mirrors how the exports treat a missing cell: nil, empty text, zero,
// NaN and false all count as absent.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToFloat64(x) != 0
	case time.Time:
		return true
	}
	return true
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format(time.RFC3339)
	}
	return cast.ToString(v)
}

// accessor reads one candidate column from a row.
type accessor func(Row) any

func column(name string) accessor {
	return func(r Row) any { return r[name] }
}

// probe is an ordered list of accessors; earlier entries win.
type probe []accessor

func aliases(names ...string) probe {
	p := make(probe, len(names))
	for i, name := range names {
		p[i] = column(name)
	}
	return p
}

// first returns the first present value or nil.
func (p probe) first(r Row) any {
	for _, get := range p {
		if v := get(r); truthy(v) {
			return v
		}
	}
	return nil
}

func (p probe) text(r Row) string {
	return text(p.first(r))
}

// firstNumber parses every candidate and keeps the first non-zero result.
func (p probe) firstNumber(r Row) (float64, bool) {
	for _, get := range p {
		if f := ParseLocalizedNumber(get(r)); truthy(f) {
			return f, true
		}
	}
	return 0, false
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
}

// parseTime accepts time values, Excel date serials and the textual layouts
// seen in exports.
func parseTime(v any, loc *time.Location) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case float64:
		if x <= 0 || math.IsNaN(x) {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(x, false)
		if err != nil {
			return time.Time{}, false
		}
		// serials carry wall clock time, not an instant
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t, true
			}
		}
		if f, err := cast.ToFloat64E(s); err == nil {
			return parseTime(f, loc)
		}
	}
	return time.Time{}, false
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
