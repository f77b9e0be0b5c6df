// Package units formats temperatures and wind speeds for the selected
// measurement system. Raw readings are always Celsius and metres per second;
// conversion happens only at display time.
package units

import (
	"fmt"
	"math"
)

// Unit is the temperature measurement system used for display
type Unit int

const (
	Metric Unit = iota
	Imperial
)

const mpsToMph = 2.2369362920544

func (u Unit) String() string {
	if u == Imperial {
		return "imperial"
	}
	return "metric"
}

// Symbol returns the temperature suffix for u
func (u Unit) Symbol() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

// ParseUnit accepts "metric" or "imperial"
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "metric":
		return Metric, nil
	case "imperial":
		return Imperial, nil
	}
	return Metric, fmt.Errorf("unknown unit %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (u *Unit) UnmarshalText(b []byte) error {
	parsed, err := ParseUnit(string(b))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Converter holds the active unit. The zero value is metric.
type Converter struct {
	unit Unit
}

// Unit returns the active unit
func (c *Converter) Unit() Unit {
	return c.unit
}

// Toggle flips between metric and imperial
func (c *Converter) Toggle() {
	if c.unit == Metric {
		c.unit = Imperial
	} else {
		c.unit = Metric
	}
}

// Format renders a Celsius reading in the active unit, e.g. "20°C" or "69°F".
// Values are rounded half away from zero.
func (c *Converter) Format(celsius float64) string {
	return Format(celsius, c.unit)
}

// FormatSpeed renders a wind speed given in m/s
func (c *Converter) FormatSpeed(mps float64) string {
	return FormatSpeed(mps, c.unit)
}

// Format renders a Celsius reading in unit u
func Format(celsius float64, u Unit) string {
	v := celsius
	if u == Imperial {
		v = celsius*9/5 + 32
	}
	// int conversion folds -0 into 0
	return fmt.Sprintf("%d%s", int(math.Round(v)), u.Symbol())
}

// FormatSpeed renders a wind speed given in m/s in unit u
func FormatSpeed(mps float64, u Unit) string {
	if u == Imperial {
		return fmt.Sprintf("%.1f mph", mps*mpsToMph)
	}
	return fmt.Sprintf("%.1f m/s", mps)
}
