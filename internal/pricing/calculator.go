package pricing

import (
	"errors"
	"math"
	"time"
)

// ErrNegativeDuration возвращается, если конец интервала раньше начала
var ErrNegativeDuration = errors.New("pricing: end time is before start time")

// Quote результат расчёта стоимости стоянки
type Quote struct {
	DurationHours  float64
	Cost           float64
	RateConfigured bool // false, если у парковки не задан тариф (стоимость = 0)
}

// Calculate считает стоимость стоянки: часы × почасовой тариф
// Стоимость округляется до копеек
func Calculate(start, end time.Time, hourlyRate *float64) (Quote, error) {
	elapsed := end.Sub(start)
	if elapsed < 0 {
		return Quote{}, ErrNegativeDuration
	}

	hours := elapsed.Seconds() / 3600.0

	if hourlyRate == nil {
		return Quote{DurationHours: hours, Cost: 0, RateConfigured: false}, nil
	}

	return Quote{
		DurationHours:  hours,
		Cost:           roundCents(*hourlyRate * hours),
		RateConfigured: true,
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
