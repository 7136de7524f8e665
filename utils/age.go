package utils

import "time"

// Age returns the whole years between birthdate and now: the calendar
// year difference, minus one if the birthday has not yet occurred in
// now's year.
func Age(birthdate, now time.Time) int {
	years := now.Year() - birthdate.Year()
	anniversary := birthdate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
