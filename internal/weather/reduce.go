package weather

import "time"

// MaxForecastDays caps the daily forecast
const MaxForecastDays = 5

// ReduceToDaily keeps the first sample of each local calendar day, up to
// MaxForecastDays days, in order of first appearance.
func ReduceToDaily(samples []ForecastSample) []ForecastSample {
	return ReduceToDailyIn(samples, time.Local)
}

// ReduceToDailyIn is ReduceToDaily with calendar days taken in loc
func ReduceToDailyIn(samples []ForecastSample, loc *time.Location) []ForecastSample {
	daily := make([]ForecastSample, 0, MaxForecastDays)
	seen := make(map[civilDay]bool, MaxForecastDays)

	for _, s := range samples {
		if len(daily) >= MaxForecastDays {
			break
		}
		day := dayOf(time.Unix(s.Timestamp, 0).In(loc))
		if seen[day] {
			continue
		}
		seen[day] = true
		daily = append(daily, s)
	}

	return daily
}

type civilDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) civilDay {
	y, m, d := t.Date()
	return civilDay{y, m, d}
}
