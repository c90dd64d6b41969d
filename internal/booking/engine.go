package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aadhaarqms/internal/auth"
	"aadhaarqms/internal/model"
	"aadhaarqms/internal/store"
	"aadhaarqms/pkg/metrics"
)

// Engine owns the appointment lifecycle: it is the only writer of
// appointment status, token numbers and queue positions.
type Engine struct {
	store store.Store
	log   *zap.SugaredLogger
	met   *metrics.Metrics
	avail *availabilityCache

	// per-date locks serializing book operations in this process; the
	// postgres store holds an advisory lock for the cross-process case
	mu    sync.Mutex
	dates map[string]*dateLock
}

type dateLock struct {
	mu   sync.Mutex
	refs int
}

func NewEngine(st store.Store, log *zap.SugaredLogger, met *metrics.Metrics, cacheSize int, cacheTTL time.Duration) *Engine {
	return &Engine{
		store: st,
		log:   log,
		met:   met,
		avail: newAvailabilityCache(cacheSize, cacheTTL),
		dates: make(map[string]*dateLock),
	}
}

// lockDate serializes all bookings for one calendar date. The returned func
// releases the lock and drops the entry once nobody waits on it.
func (e *Engine) lockDate(date string) func() {
	e.mu.Lock()
	l := e.dates[date]
	if l == nil {
		l = &dateLock{}
		e.dates[date] = l
	}
	l.refs++
	e.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		e.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(e.dates, date)
		}
		e.mu.Unlock()
	}
}

// BookingSummary is the projection returned to the citizen after booking.
type BookingSummary struct {
	AppointmentID string       `json:"appointmentId"`
	TokenNumber   string       `json:"tokenNumber"`
	Date          string       `json:"date"`
	TimeSlot      string       `json:"timeSlot"`
	QueuePosition int          `json:"queuePosition"`
	Status        model.Status `json:"status"`
}

// Book validates the request, gates it on slot capacity and the one-pending-
// per-date rule, issues the next token for the date and persists the record.
func (e *Engine) Book(ctx context.Context, p auth.Principal, req BookRequest) (*BookingSummary, error) {
	if p.IsAdmin() {
		return nil, errf(KindForbidden, "only citizens can book appointments")
	}
	if err := validateBookRequest(req); err != nil {
		e.met.BookingFailures.WithLabelValues("validation").Inc()
		return nil, err
	}

	unlock := e.lockDate(req.Date)
	defer unlock()

	dup, err := e.store.HasPending(ctx, p.ID, req.Date)
	if err != nil {
		return nil, storeErr("duplicate check", err)
	}
	if dup {
		e.met.BookingFailures.WithLabelValues("conflict").Inc()
		return nil, errf(KindConflict, "you already have a pending appointment on this date")
	}

	booked, err := e.store.CountSlot(ctx, req.Date, req.TimeSlot)
	if err != nil {
		return nil, storeErr("capacity check", err)
	}
	if booked >= model.SlotCapacity {
		e.met.BookingFailures.WithLabelValues("capacity").Inc()
		return nil, errf(KindCapacity, "time slot %s on %s is fully booked", req.TimeSlot, req.Date)
	}

	token, err := e.nextToken(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	apt := &model.Appointment{
		ID:            uuid.New().String(),
		UserID:        p.ID,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		AadhaarNumber: req.AadhaarNumber,
		ServiceType:   req.ServiceType,
		Date:          req.Date,
		TimeSlot:      req.TimeSlot,
		TokenNumber:   token,
		Status:        model.StatusPending,
		QueuePosition: booked + 1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := e.store.CreateAppointment(ctx, apt); err != nil {
		switch {
		case errors.Is(err, store.ErrSlotFull):
			e.met.BookingFailures.WithLabelValues("capacity").Inc()
			return nil, errf(KindCapacity, "time slot %s on %s is fully booked", req.TimeSlot, req.Date)
		case errors.Is(err, store.ErrDuplicatePending):
			e.met.BookingFailures.WithLabelValues("conflict").Inc()
			return nil, errf(KindConflict, "you already have a pending appointment on this date")
		case errors.Is(err, store.ErrTokenTaken):
			// another writer won the token; surface as retryable
			e.met.TokenSequencerFailures.Inc()
			e.log.Warnw("token collision on insert", "date", req.Date, "token", token)
			return nil, storeErr("token assignment", err)
		default:
			return nil, storeErr("create appointment", err)
		}
	}

	e.avail.invalidate(req.Date)
	e.met.BookingsTotal.Inc()
	e.log.Infow("appointment booked",
		"appointmentId", apt.ID, "date", apt.Date, "timeSlot", apt.TimeSlot, "token", apt.TokenNumber)

	return &BookingSummary{
		AppointmentID: apt.ID,
		TokenNumber:   apt.TokenNumber,
		Date:          apt.Date,
		TimeSlot:      apt.TimeSlot,
		QueuePosition: apt.QueuePosition,
		Status:        apt.Status,
	}, nil
}

// Cancel is the citizen self-service transition. The record is kept for
// audit; the token and later queue positions are not renumbered.
func (e *Engine) Cancel(ctx context.Context, p auth.Principal, id string) error {
	apt, err := e.getByID(ctx, id)
	if err != nil {
		return err
	}
	if apt.UserID != p.ID {
		return errf(KindForbidden, "appointment belongs to another citizen")
	}
	if apt.Status == model.StatusServed {
		return errf(KindInvalidState, "a served appointment cannot be cancelled")
	}
	if apt.Status.Terminal() {
		return errf(KindInvalidState, "appointment is already %s", apt.Status)
	}

	if err := e.store.SetAppointmentStatus(ctx, id, model.StatusCancelled, time.Now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errf(KindNotFound, "appointment not found")
		}
		return storeErr("cancel appointment", err)
	}

	e.avail.invalidate(apt.Date)
	e.met.StatusTransitions.WithLabelValues(string(model.StatusCancelled)).Inc()
	e.log.Infow("appointment cancelled", "appointmentId", id, "date", apt.Date)
	return nil
}

// UpdateStatus is the admin-driven transition. Any target within the
// enumerated set is accepted.
func (e *Engine) UpdateStatus(ctx context.Context, p auth.Principal, id string, st model.Status) (*model.Appointment, error) {
	if !p.IsAdmin() {
		return nil, errf(KindForbidden, "admin privileges required")
	}
	if !model.ValidStatus(st) {
		return nil, errf(KindValidation, "invalid status %q", st)
	}

	apt, err := e.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := e.store.SetAppointmentStatus(ctx, id, st, time.Now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errf(KindNotFound, "appointment not found")
		}
		return nil, storeErr("update status", err)
	}

	e.avail.invalidate(apt.Date)
	e.met.StatusTransitions.WithLabelValues(string(st)).Inc()
	e.log.Infow("appointment status updated", "appointmentId", id, "from", apt.Status, "to", st)

	apt.Status = st
	return apt, nil
}

// Get returns the full record to its owner or to any admin.
func (e *Engine) Get(ctx context.Context, p auth.Principal, id string) (*model.Appointment, error) {
	apt, err := e.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && apt.UserID != p.ID {
		return nil, errf(KindForbidden, "appointment belongs to another citizen")
	}
	return apt, nil
}

// ListForUser returns the citizen's own appointments, newest first.
func (e *Engine) ListForUser(ctx context.Context, p auth.Principal) ([]model.Appointment, error) {
	apts, err := e.store.AppointmentsByUser(ctx, p.ID)
	if err != nil {
		return nil, storeErr("list appointments", err)
	}
	sort.Slice(apts, func(i, j int) bool {
		return apts[i].CreatedAt.After(apts[j].CreatedAt)
	})
	return apts, nil
}

// AdminList scans with optional date/status/serviceType filters, newest
// date first, slots in daily order within a date.
func (e *Engine) AdminList(ctx context.Context, p auth.Principal, f store.AppointmentFilter) ([]model.Appointment, error) {
	if !p.IsAdmin() {
		return nil, errf(KindForbidden, "admin privileges required")
	}
	if f.Status != "" && !model.ValidStatus(f.Status) {
		return nil, errf(KindValidation, "invalid status %q", f.Status)
	}
	apts, err := e.store.ScanAppointments(ctx, f)
	if err != nil {
		return nil, storeErr("scan appointments", err)
	}
	sort.Slice(apts, func(i, j int) bool {
		if apts[i].Date != apts[j].Date {
			return apts[i].Date > apts[j].Date
		}
		return model.SlotIndex(apts[i].TimeSlot) < model.SlotIndex(apts[j].TimeSlot)
	})
	return apts, nil
}

func (e *Engine) getByID(ctx context.Context, id string) (*model.Appointment, error) {
	apt, err := e.store.AppointmentByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errf(KindNotFound, "appointment not found")
	}
	if err != nil {
		return nil, storeErr("get appointment", err)
	}
	return apt, nil
}
