package calendar

import "time"

// WesternEaster returns the date of Easter Sunday in the Gregorian
// calendar for year y.
func WesternEaster(y int) time.Time {
	a := y % 19
	b := y / 100
	c := y % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// OrthodoxEaster returns the date of Orthodox Easter Sunday for year y,
// expressed in the Gregorian calendar.
func OrthodoxEaster(y int) time.Time {
	a := y % 4
	b := y % 7
	c := y % 19
	d := (19*c + 15) % 30
	e := (2*a + 4*b - d + 34) % 7
	month := (d + e + 114) / 31
	day := (d+e+114)%31 + 1
	julian := time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return julian.AddDate(0, 0, y/100-y/400-2)
}
