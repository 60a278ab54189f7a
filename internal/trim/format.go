package trim

import (
	"fmt"
	"math"
)

// FormatTimestamp saniyeyi "m:ss:cc" biçiminde yazar (cc = salise).
func FormatTimestamp(sec float64) string {
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec < 0 {
		sec = 0
	}
	minutes := int(math.Floor(sec / 60))
	seconds := int(math.Floor(math.Mod(sec, 60)))
	centis := int(math.Floor(math.Mod(sec, 1) * 100))
	return fmt.Sprintf("%d:%02d:%02d", minutes, seconds, centis)
}

// Ratio value/duration oranını [0, 1] aralığında döner. Süre yoksa 0.
func Ratio(value, duration float64) float64 {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) || math.IsNaN(value) {
		return 0
	}
	r := value / duration
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// Length seçili aralığın uzunluğunu döner; süre bilinmiyorsa ve bitiş yoksa 0.
func (s Snapshot) Length() float64 {
	end := s.EffectiveEnd()
	if math.IsInf(end, 1) {
		return 0
	}
	if end < s.Start {
		return 0
	}
	return end - s.Start
}

// Highlight vurgulanan pencerenin sol kenarını ve genişliğini zaman
// çizelgesinin oranı olarak döner. Süre bilinmiyorsa bütün çizelge seçilidir.
func (s Snapshot) Highlight() (left, width float64) {
	if !s.Known || s.Duration <= 0 {
		return 0, 1
	}
	left = Ratio(s.Start, s.Duration)
	right := Ratio(s.EffectiveEnd(), s.Duration)
	if right < left {
		right = left
	}
	return left, right - left
}

// Progress çalma konumunu tüm süreye oranlar.
func (s Snapshot) Progress(current float64) float64 {
	if !s.Known {
		return 0
	}
	return Ratio(current, s.Duration)
}
