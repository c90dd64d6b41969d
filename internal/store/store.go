package store

import (
	"context"
	"errors"
	"time"

	"aadhaarqms/internal/model"
)

// Sentinel errors shared by both store backends. Anything else coming out
// of a store call is an I/O failure.
var (
	ErrNotFound         = errors.New("record not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrSlotFull         = errors.New("slot capacity reached")
	ErrDuplicatePending = errors.New("pending appointment already exists for this date")
	ErrTokenTaken       = errors.New("token number already assigned for this date")
)

// AppointmentFilter narrows a scan over the appointment collection.
// Zero-valued fields match everything.
type AppointmentFilter struct {
	Date        string
	Status      model.Status
	ServiceType string
}

// Store is the record-store collaborator: keyed collections for users,
// admins and appointments with filtered scans. The postgres backend is the
// production store; the memory backend serves local dev and tests.
type Store interface {
	// CreateAppointment persists a new record. It re-verifies the slot
	// capacity and the per-(user,date) pending uniqueness at write time so
	// concurrent writers cannot slip past the engine's checks, returning
	// ErrSlotFull, ErrDuplicatePending or ErrTokenTaken on violation.
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	AppointmentByID(ctx context.Context, id string) (*model.Appointment, error)
	SetAppointmentStatus(ctx context.Context, id string, st model.Status, at time.Time) error
	AppointmentsByUser(ctx context.Context, userID string) ([]model.Appointment, error)
	AppointmentsByDate(ctx context.Context, date string) ([]model.Appointment, error)
	ScanAppointments(ctx context.Context, f AppointmentFilter) ([]model.Appointment, error)

	// CountSlot counts non-cancelled appointments in (date, slot).
	CountSlot(ctx context.Context, date, slot string) (int, error)
	HasPending(ctx context.Context, userID, date string) (bool, error)
	// MaxTokenSeq returns the highest numeric token suffix issued for date,
	// cancelled records included, or 0 when none exist.
	MaxTokenSeq(ctx context.Context, date string) (int, error)

	CreateUser(ctx context.Context, u *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)

	CreateAdmin(ctx context.Context, a *model.Admin) error
	AdminByEmail(ctx context.Context, email string) (*model.Admin, error)
}
