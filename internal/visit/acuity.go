package visit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	acuityStep  = 0.25
	acuitySteps = 80 // 0.25 .. 20.00
)

// AcuityChoices lists the accepted visual-acuity values: blank first, then
// 0.25 through 20.00 in quarter steps.
func AcuityChoices() []string {
	choices := make([]string, 0, acuitySteps+1)
	choices = append(choices, "")
	for i := 1; i <= acuitySteps; i++ {
		choices = append(choices, fmt.Sprintf("%.2f", float64(i)*acuityStep))
	}
	return choices
}

// NormalizeAcuity validates s and renders it with two decimals ("1" -> "1.00").
func NormalizeAcuity(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return "", fmt.Errorf("acuity %q is not a number", s)
	}
	q := v / acuityStep
	steps := math.Round(q)
	if math.Abs(q-steps) > 1e-9 || steps < 1 || steps > acuitySteps {
		return "", fmt.Errorf("acuity must be between 0.25 and 20.00 in steps of 0.25")
	}
	return fmt.Sprintf("%.2f", steps*acuityStep), nil
}
