package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the appointment lifecycle state. The set is closed: anything
// outside it is rejected at the boundary before it reaches the engine.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusServed     Status = "Served"
	StatusCancelled  Status = "Cancelled"
	StatusNoShow     Status = "No Show"
)

// Statuses lists every valid lifecycle state.
var Statuses = []Status{StatusPending, StatusInProgress, StatusServed, StatusCancelled, StatusNoShow}

func ValidStatus(s Status) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no citizen transition exists out of s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusNoShow
}

// ServiceTypes are the service categories offered by the center.
var ServiceTypes = []string{
	"New Aadhaar Enrollment",
	"Aadhaar Update",
	"Biometric Update",
	"Mobile Number Update",
	"Address Update",
}

// TimeSlots are the hour-long booking windows, in queue order.
var TimeSlots = []string{
	"10:00 - 11:00",
	"11:00 - 12:00",
	"12:00 - 01:00",
	"02:00 - 03:00",
	"03:00 - 04:00",
	"04:00 - 05:00",
}

// SlotCapacity is the maximum number of active bookings per (date, slot).
const SlotCapacity = 10

func ValidServiceType(s string) bool {
	for _, v := range ServiceTypes {
		if s == v {
			return true
		}
	}
	return false
}

func ValidTimeSlot(s string) bool {
	return SlotIndex(s) >= 0
}

// SlotIndex returns the position of slot in the daily order, or -1.
func SlotIndex(slot string) int {
	for i, v := range TimeSlots {
		if slot == v {
			return i
		}
	}
	return -1
}

const tokenPrefix = "TKN-"

// FormatToken renders a sequence number as a display token, zero-padded to
// three digits. Sequences past 999 keep their natural width (TKN-1000).
func FormatToken(seq int) string {
	return fmt.Sprintf("%s%03d", tokenPrefix, seq)
}

// TokenSeq parses the numeric suffix of a display token.
func TokenSeq(token string) (int, bool) {
	rest, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// DateFormat is the calendar-date layout used everywhere (ISO, no time part).
const DateFormat = "2006-01-02"

type Appointment struct {
	ID            string    `json:"appointmentId"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	AadhaarNumber string    `json:"aadhaarNumber"`
	ServiceType   string    `json:"serviceType"`
	Date          string    `json:"date"`
	TimeSlot      string    `json:"timeSlot"`
	TokenNumber   string    `json:"tokenNumber"`
	Status        Status    `json:"status"`
	QueuePosition int       `json:"queuePosition"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type User struct {
	ID           string    `json:"userId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Admin struct {
	ID           string    `json:"adminId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
