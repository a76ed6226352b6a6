package hijri

import (
	"math"

	"github.com/tartampluch/go-hijri/internal/daycount"
)

// Mean lunation constants (J. Meeus, Astronomical Algorithms, ch. 49).
const (
	// LunationEpochJDE is the mean new moon of 6 January 2000 (k = 0).
	LunationEpochJDE = 2451550.09766

	// SynodicMonth is the mean length of a lunation in days.
	SynodicMonth = 29.530588861

	// lunationEpochMonths is the number of Hijri months elapsed between
	// 1 Muharram 1 AH and the month that starts after the k = 0 new moon
	// (Shawwal 1420).
	lunationEpochMonths = 17037
)

// periodicTerm is coeff * E^ePow * sin(m*M + mp*M' + f*F + om*Omega).
type periodicTerm struct {
	coeff        float64
	ePow         int
	m, mp, f, om float64
}

var newMoonTerms = [...]periodicTerm{
	{-0.40720, 0, 0, 1, 0, 0},
	{0.17241, 1, 1, 0, 0, 0},
	{0.01608, 0, 0, 2, 0, 0},
	{0.01039, 0, 0, 0, 2, 0},
	{0.00739, 1, -1, 1, 0, 0},
	{-0.00514, 1, 1, 1, 0, 0},
	{0.00208, 2, 2, 0, 0, 0},
	{-0.00111, 0, 0, 1, -2, 0},
	{-0.00057, 0, 0, 1, 2, 0},
	{0.00056, 1, 1, 2, 0, 0},
	{-0.00042, 0, 0, 3, 0, 0},
	{0.00042, 1, 1, 0, 2, 0},
	{0.00038, 1, 1, 0, -2, 0},
	{-0.00024, 1, -1, 2, 0, 0},
	{-0.00017, 0, 0, 0, 0, 1},
	{-0.00007, 0, 2, 1, 0, 0},
	{0.00004, 0, 0, 2, -2, 0},
	{0.00004, 0, 3, 0, 0, 0},
	{0.00003, 0, 1, 1, -2, 0},
	{0.00003, 0, 0, 2, 2, 0},
	{-0.00003, 0, 1, 1, 2, 0},
	{0.00003, 0, -1, 1, 2, 0},
	{-0.00002, 0, -1, 1, -2, 0},
	{-0.00002, 0, 1, 3, 0, 0},
	{0.00002, 0, 0, 4, 0, 0},
}

// planetaryTerm is coeff * sin(base + rate*k), angles in degrees.
type planetaryTerm struct {
	coeff, base, rate float64
}

// The first argument (A1) also carries a T^2 term, applied in NewMoonJDE.
var planetaryTerms = [...]planetaryTerm{
	{0.000325, 299.77, 0.107408},
	{0.000165, 251.88, 0.016321},
	{0.000164, 251.83, 26.651886},
	{0.000126, 349.42, 36.412478},
	{0.000110, 84.66, 18.206239},
	{0.000062, 141.74, 53.303771},
	{0.000060, 207.14, 2.453732},
	{0.000056, 154.84, 7.306860},
	{0.000047, 34.52, 27.261239},
	{0.000042, 207.19, 0.121824},
	{0.000040, 291.34, 1.844379},
	{0.000037, 161.72, 24.198154},
	{0.000035, 239.56, 25.513099},
	{0.000023, 331.55, 3.592518},
}

const a1QuadraticTerm = -0.009173

// NewMoonJDE returns the Julian Ephemeris Day of the true new moon with
// lunation index k (k = 0 is the new moon of 6 January 2000).
func NewMoonJDE(k int) float64 {
	kf := float64(k)
	t := kf / 1236.85
	t2 := t * t
	t3 := t2 * t
	t4 := t3 * t

	jde := LunationEpochJDE + SynodicMonth*kf +
		0.00015437*t2 - 0.000000150*t3 + 0.00000000073*t4

	e := 1 - 0.002516*t - 0.0000074*t2
	sunAnomaly := radians(2.5534 + 29.10535670*kf - 0.0000014*t2 - 0.00000011*t3)
	moonAnomaly := radians(201.5643 + 385.81693528*kf + 0.0107582*t2 + 0.00001238*t3 - 0.000000058*t4)
	latitude := radians(160.7108 + 390.67050284*kf - 0.0016118*t2 - 0.00000227*t3 + 0.000000011*t4)
	node := radians(124.7746 - 1.56375588*kf + 0.0020672*t2 + 0.00000215*t3)

	for _, term := range newMoonTerms {
		arg := term.m*sunAnomaly + term.mp*moonAnomaly + term.f*latitude + term.om*node
		jde += term.coeff * math.Pow(e, float64(term.ePow)) * math.Sin(arg)
	}

	for i, term := range planetaryTerms {
		arg := term.base + term.rate*kf
		if i == 0 {
			arg += a1QuadraticTerm * t2
		}
		jde += term.coeff * math.Sin(radians(arg))
	}

	return jde
}

// ApproximateLunationIndex estimates the lunation whose conjunction opens
// the given Hijri month. It only seeds the month-start search.
func ApproximateLunationIndex(year, month int) int {
	return (year-1)*MonthsPerYear + (month - 1) - lunationEpochMonths
}

// ConjunctionToMonthStart maps a conjunction instant to the pivot of the
// first day of the month it opens: round(jde + 0.5).
func ConjunctionToMonthStart(jde float64) daycount.Pivot {
	return daycount.Pivot(math.Round(jde + 0.5))
}

func radians(deg float64) float64 {
	return math.Mod(deg, 360) * math.Pi / 180
}
