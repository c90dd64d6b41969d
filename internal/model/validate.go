package model

import (
	"regexp"
	"time"
)

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe   = regexp.MustCompile(`^[6-9]\d{9}$`) // Indian mobile numbers
	aadhaarRe = regexp.MustCompile(`^\d{12}$`)
	dateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	digitRe   = regexp.MustCompile(`\d`)
)

func ValidEmail(s string) bool { return emailRe.MatchString(s) }

func ValidPhone(s string) bool { return phoneRe.MatchString(s) }

func ValidAadhaar(s string) bool { return aadhaarRe.MatchString(s) }

// ValidPassword requires at least 8 characters with an uppercase letter,
// a lowercase letter and a digit.
func ValidPassword(s string) bool {
	return len(s) >= 8 && lowerRe.MatchString(s) && upperRe.MatchString(s) && digitRe.MatchString(s)
}

func ValidDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateFormat, s)
	return err == nil
}

// Today returns the current calendar date in DateFormat.
func Today() string {
	return time.Now().Format(DateFormat)
}

// PastDate reports whether date falls before today.
func PastDate(date string) bool {
	d, err := time.Parse(DateFormat, date)
	if err != nil {
		return false
	}
	today, _ := time.Parse(DateFormat, Today())
	return d.Before(today)
}
