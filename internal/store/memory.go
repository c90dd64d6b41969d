package store

import (
	"context"
	"sync"
	"time"

	"aadhaarqms/internal/model"
)

// Memory is a mutex-guarded in-memory store. It backs local development
// (STORE=memory) and the engine's unit tests, and enforces the same write
// invariants as the postgres backend.
type Memory struct {
	mu           sync.RWMutex
	appointments map[string]model.Appointment
	users        map[string]model.User
	admins       map[string]model.Admin
}

func NewMemory() *Memory {
	return &Memory{
		appointments: make(map[string]model.Appointment),
		users:        make(map[string]model.User),
		admins:       make(map[string]model.Admin),
	}
}

func (s *Memory) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	booked := 0
	for _, ex := range s.appointments {
		if ex.Date != a.Date {
			continue
		}
		if ex.TimeSlot == a.TimeSlot && ex.Status != model.StatusCancelled {
			booked++
		}
		if ex.TokenNumber == a.TokenNumber {
			return ErrTokenTaken
		}
		if ex.UserID == a.UserID && ex.Status == model.StatusPending && a.Status == model.StatusPending {
			return ErrDuplicatePending
		}
	}
	if booked >= model.SlotCapacity && a.Status != model.StatusCancelled {
		return ErrSlotFull
	}

	s.appointments[a.ID] = *a
	return nil
}

func (s *Memory) AppointmentByID(ctx context.Context, id string) (*model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *Memory) SetAppointmentStatus(ctx context.Context, id string, st model.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = st
	a.UpdatedAt = at
	s.appointments[id] = a
	return nil
}

func (s *Memory) AppointmentsByUser(ctx context.Context, userID string) ([]model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Appointment
	for _, a := range s.appointments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Memory) AppointmentsByDate(ctx context.Context, date string) ([]model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Appointment
	for _, a := range s.appointments {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Memory) ScanAppointments(ctx context.Context, f AppointmentFilter) ([]model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Appointment
	for _, a := range s.appointments {
		if f.Date != "" && a.Date != f.Date {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.ServiceType != "" && a.ServiceType != f.ServiceType {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Memory) CountSlot(ctx context.Context, date, slot string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.appointments {
		if a.Date == date && a.TimeSlot == slot && a.Status != model.StatusCancelled {
			n++
		}
	}
	return n, nil
}

func (s *Memory) HasPending(ctx context.Context, userID, date string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.appointments {
		if a.UserID == userID && a.Date == date && a.Status == model.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (s *Memory) MaxTokenSeq(ctx context.Context, date string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	best := 0
	for _, a := range s.appointments {
		if a.Date != date {
			continue
		}
		if seq, ok := model.TokenSeq(a.TokenNumber); ok && seq > best {
			best = seq
		}
	}
	return best, nil
}

func (s *Memory) CreateUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ex := range s.users {
		if ex.Email == u.Email {
			return ErrEmailTaken
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Memory) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) UserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *Memory) CreateAdmin(ctx context.Context, a *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ex := range s.admins {
		if ex.Email == a.Email {
			return ErrEmailTaken
		}
	}
	s.admins[a.ID] = *a
	return nil
}

func (s *Memory) AdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if a.Email == email {
			out := a
			return &out, nil
		}
	}
	return nil, ErrNotFound
}
