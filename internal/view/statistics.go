package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/smolensk-traffic/portal/internal/models"
)

// Tab selects a group of statistics indicators
type Tab string

const (
	TabDTP        Tab = "dtp"
	TabEvacuation Tab = "evacuation"
	TabFines      Tab = "fines"
)

// Tabs lists the statistics tabs in display order
var Tabs = []Tab{TabDTP, TabEvacuation, TabFines}

// ParseTab maps a tab name to a Tab. An empty name selects TabDTP.
func ParseTab(s string) (Tab, error) {
	switch t := Tab(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TabDTP, nil
	case TabDTP, TabEvacuation, TabFines:
		return t, nil
	default:
		return "", fmt.Errorf("unknown statistics tab %q (want dtp, evacuation or fines)", s)
	}
}

// Title is the tab caption
func (t Tab) Title() string {
	switch t {
	case TabDTP:
		return "Road accidents"
	case TabEvacuation:
		return "Evacuations"
	case TabFines:
		return "Fines"
	default:
		return string(t)
	}
}

// Indicator is one labeled figure on a statistics tab
type Indicator struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Indicators returns the formatted figures shown on tab
func Indicators(tab Tab, s *models.Statistics) []Indicator {
	if s == nil {
		return nil
	}
	switch tab {
	case TabEvacuation:
		return []Indicator{
			{Label: "Evacuations", Value: FormatNumber(s.EvacuationsCount)},
			{Label: "Tow trucks", Value: FormatNumber(s.EvacuatorsCount)},
			{Label: "Impound lot income", Value: FormatCurrency(s.FineLotIncome)},
		}
	case TabFines:
		return []Indicator{
			{Label: "Fines issued", Value: FormatCurrency(s.FinesAmountTotal)},
			{Label: "Fines collected", Value: FormatCurrency(s.CollectedAmountTotal)},
			{Label: "Orders", Value: FormatNumber(s.OrdersTotal)},
		}
	default:
		return []Indicator{
			{Label: "Road accidents", Value: FormatNumber(s.ViolationsTotal)},
			{Label: "Active traffic lights", Value: FormatNumber(s.TrafficLightsActive)},
			{Label: "Trips", Value: FormatNumber(s.TripsCount)},
		}
	}
}

// FormatNumber groups thousands with spaces: 7812 -> "7 812"
func FormatNumber(n int64) string {
	if n >= 0 {
		return group(strconv.FormatUint(uint64(n), 10))
	}
	// -(n+1) cannot overflow, including for math.MinInt64
	return "-" + group(strconv.FormatUint(uint64(-(n+1))+1, 10))
}

// FormatCurrency formats an amount in rubles: 1250.5 -> "1 250,5 ₽".
// Non-finite values render as a dash.
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
	whole, frac, _ := strings.Cut(s, ".")
	out := group(whole)
	if frac != "" {
		out += "," + frac
	}
	if neg {
		out = "-" + out
	}
	return out + " ₽"
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
