package booking

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"aadhaarqms/internal/model"
)

// Availability is the remaining capacity of one (date, slot).
type Availability struct {
	TimeSlot    string `json:"timeSlot"`
	BookedCount int    `json:"bookedCount"`
	Remaining   int    `json:"remaining"`
	IsFull      bool   `json:"isFull"`
}

// availabilityCache keeps recently computed per-date slot counts. Entries
// expire on their own and are dropped eagerly whenever a write touches the
// date, so a stale entry can only undercount for the TTL window.
type availabilityCache struct {
	lru *expirable.LRU[string, []Availability]
}

func newAvailabilityCache(size int, ttl time.Duration) *availabilityCache {
	if size <= 0 {
		size = 128
	}
	return &availabilityCache{lru: expirable.NewLRU[string, []Availability](size, nil, ttl)}
}

func (c *availabilityCache) get(date string) ([]Availability, bool) {
	return c.lru.Get(date)
}

func (c *availabilityCache) put(date string, slots []Availability) {
	c.lru.Add(date, slots)
}

func (c *availabilityCache) invalidate(date string) {
	c.lru.Remove(date)
}

// CheckAvailability reports the booked count and remaining capacity of one
// slot. Read-only.
func (e *Engine) CheckAvailability(ctx context.Context, date, slot string) (Availability, error) {
	if err := validateDateSlot(date, slot); err != nil {
		return Availability{}, err
	}
	slots, err := e.DayAvailability(ctx, date)
	if err != nil {
		return Availability{}, err
	}
	for _, a := range slots {
		if a.TimeSlot == slot {
			return a, nil
		}
	}
	// unreachable: validateDateSlot guarantees slot membership
	return Availability{}, errf(KindValidation, "unknown time slot %q", slot)
}

// DayAvailability returns every slot's availability for date, in daily
// order. Counts are cached briefly per date.
func (e *Engine) DayAvailability(ctx context.Context, date string) ([]Availability, error) {
	if !model.ValidDate(date) {
		return nil, errf(KindValidation, "invalid date format, use YYYY-MM-DD")
	}
	if cached, ok := e.avail.get(date); ok {
		return cached, nil
	}

	apts, err := e.store.AppointmentsByDate(ctx, date)
	if err != nil {
		return nil, storeErr("availability scan", err)
	}
	counts := make(map[string]int, len(model.TimeSlots))
	for _, a := range apts {
		if a.Status != model.StatusCancelled {
			counts[a.TimeSlot]++
		}
	}

	slots := make([]Availability, 0, len(model.TimeSlots))
	for _, slot := range model.TimeSlots {
		booked := counts[slot]
		remaining := model.SlotCapacity - booked
		if remaining < 0 {
			remaining = 0
		}
		slots = append(slots, Availability{
			TimeSlot:    slot,
			BookedCount: booked,
			Remaining:   remaining,
			IsFull:      booked >= model.SlotCapacity,
		})
	}

	e.avail.put(date, slots)
	return slots, nil
}
