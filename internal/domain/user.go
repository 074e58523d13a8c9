package domain

import "time"

// User is the slice of the user entity the booking core reads
type User struct {
	ID          int64
	Name        string
	Email       string
	DateOfBirth *time.Time
	// FreeTrialUsed is set exactly once, when the user's free-trial
	// booking commits; never unset
	FreeTrialUsed bool
}

// AgeOn computes the user's age in whole years on the given date.
// Returns false if the date of birth is unknown.
func (u *User) AgeOn(date time.Time) (int, bool) {
	if u.DateOfBirth == nil {
		return 0, false
	}

	dob := *u.DateOfBirth
	age := date.Year() - dob.Year()
	// Birthday not yet reached this year
	if date.Month() < dob.Month() || (date.Month() == dob.Month() && date.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age, true
}
