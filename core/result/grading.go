package result

import (
	"math"
	"strings"
)

// GradePointForMarks maps a score out of 100 to its grade point.
// Values outside [0, 100] are not validated; callers must clamp them.
func GradePointForMarks(marks int) int {
	switch {
	case marks >= 90:
		return 10
	case marks >= 80:
		return 9
	case marks >= 70:
		return 8
	case marks >= 60:
		return 7
	case marks >= 50:
		return 6
	case marks >= 45:
		return 5
	case marks >= 40:
		return 4
	default:
		return 0
	}
}

var letterGradePoints = map[string]float64{
	"O":  10,
	"S+": 10,
	"S":  9,
	"A+": 9,
	"A":  8,
	"B":  7,
	"C":  6,
	"D":  5,
	"E":  4,
	"F":  0,
}

// GradePointForLetter maps a grade letter printed on a marks card to its grade point.
func GradePointForLetter(letter string) (float64, bool) {
	gp, ok := letterGradePoints[strings.ToUpper(strings.TrimSpace(letter))]
	return gp, ok
}

// gradePoint returns the grade point of s, and false when s carries neither grade points nor marks.
func gradePoint(s Subject) (float64, bool) {
	if s.GradePoints != nil {
		return *s.GradePoints, true
	}
	if s.Marks != nil {
		return float64(GradePointForMarks(*s.Marks)), true
	}
	return 0, false
}

// ComputeSGPA returns the credit-weighted mean of the subjects' grade points, rounded to 2 decimal places.
// Subjects without grade points or marks are left out of both sums.
// It returns 0 when no credits are counted.
func ComputeSGPA(subjects []Subject) float64 {
	var product, credits float64
	for _, s := range subjects {
		gp, ok := gradePoint(s)
		if !ok {
			continue
		}
		product += s.Credits * gp
		credits += s.Credits
	}
	if credits == 0 {
		return 0
	}
	return Round2(product / credits)
}

// IncludedCredits sums the credits of the subjects ComputeSGPA takes into account.
func IncludedCredits(subjects []Subject) float64 {
	var credits float64
	for _, s := range subjects {
		if _, ok := gradePoint(s); ok {
			credits += s.Credits
		}
	}
	return credits
}

func TotalCredits(subjects []Subject) float64 {
	var credits float64
	for _, s := range subjects {
		credits += s.Credits
	}
	return credits
}

func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
