package view

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smolensk-traffic/portal/internal/models"
)

func TestParseTab(t *testing.T) {
	tests := []struct {
		in      string
		want    Tab
		wantErr bool
	}{
		{in: "", want: TabDTP},
		{in: "dtp", want: TabDTP},
		{in: " Evacuation ", want: TabEvacuation},
		{in: "FINES", want: TabFines},
		{in: "weather", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTab(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestIndicators(t *testing.T) {
	stats := &models.Statistics{
		ViolationsTotal:      7812,
		TrafficLightsActive:  40,
		TripsCount:           120,
		EvacuationsCount:     35,
		EvacuatorsCount:      4,
		FineLotIncome:        1250.5,
		FinesAmountTotal:     1500000,
		CollectedAmountTotal: 975000.25,
		OrdersTotal:          18,
	}

	assert.Equal(t, []Indicator{
		{Label: "Road accidents", Value: "7 812"},
		{Label: "Active traffic lights", Value: "40"},
		{Label: "Trips", Value: "120"},
	}, Indicators(TabDTP, stats))

	assert.Equal(t, []Indicator{
		{Label: "Evacuations", Value: "35"},
		{Label: "Tow trucks", Value: "4"},
		{Label: "Impound lot income", Value: "1 250,5 ₽"},
	}, Indicators(TabEvacuation, stats))

	assert.Equal(t, []Indicator{
		{Label: "Fines issued", Value: "1 500 000 ₽"},
		{Label: "Fines collected", Value: "975 000,25 ₽"},
		{Label: "Orders", Value: "18"},
	}, Indicators(TabFines, stats))

	assert.Nil(t, Indicators(TabDTP, nil))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1 000", FormatNumber(1000))
	assert.Equal(t, "12 345 678", FormatNumber(12345678))
	assert.Equal(t, "-7 812", FormatNumber(-7812))
	assert.Equal(t, "9 223 372 036 854 775 807", FormatNumber(math.MaxInt64))
	assert.Equal(t, "-9 223 372 036 854 775 808", FormatNumber(math.MinInt64))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "0 ₽", FormatCurrency(0))
	assert.Equal(t, "100 500 ₽", FormatCurrency(100500))
	assert.Equal(t, "-3,5 ₽", FormatCurrency(-3.5))
	assert.Equal(t, "—", FormatCurrency(math.NaN()))
	assert.Equal(t, "—", FormatCurrency(math.Inf(1)))
}
