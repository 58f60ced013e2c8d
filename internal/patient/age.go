package patient

import "time"

// AgeOn returns the age in whole years on ref for someone born on birth.
func AgeOn(birth, ref time.Time) int {
	years := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() || (ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
