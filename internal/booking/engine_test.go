package booking_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"aadhaarqms/internal/auth"
	"aadhaarqms/internal/booking"
	"aadhaarqms/internal/model"
	"aadhaarqms/internal/store"
	"aadhaarqms/pkg/metrics"
)

func setup(t *testing.T) (*booking.Engine, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	met := metrics.New("test", prometheus.NewRegistry())
	eng := booking.NewEngine(st, zap.NewNop().Sugar(), met, 16, time.Minute)
	return eng, st
}

func citizen(n int) auth.Principal {
	return auth.Principal{
		ID:    fmt.Sprintf("USER_%04d", n),
		Email: fmt.Sprintf("citizen%d@test.com", n),
		Role:  model.RoleUser,
	}
}

func admin() auth.Principal {
	return auth.Principal{ID: "ADMIN_0001", Email: "admin@test.com", Role: model.RoleAdmin}
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format(model.DateFormat)
}

func bookReq(date, slot string) booking.BookRequest {
	return booking.BookRequest{
		Name:          "Asha",
		Email:         "asha@test.com",
		Phone:         "9876543210",
		AadhaarNumber: "123456789012",
		ServiceType:   "Aadhaar Update",
		Date:          date,
		TimeSlot:      slot,
	}
}

func mustBook(t *testing.T, eng *booking.Engine, p auth.Principal, req booking.BookRequest) *booking.BookingSummary {
	t.Helper()
	s, err := eng.Book(context.Background(), p, req)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	return s
}

func wantKind(t *testing.T, err error, kind booking.ErrKind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := booking.KindOf(err); got != kind {
		t.Fatalf("expected kind %v, got %v (%v)", kind, got, err)
	}
}

// seed writes a record straight into the store, bypassing the engine.
func seed(t *testing.T, st *store.Memory, userID, date, slot, token string, status model.Status) *model.Appointment {
	t.Helper()
	now := time.Now()
	a := &model.Appointment{
		ID:            "apt-" + token + "-" + userID,
		UserID:        userID,
		Name:          "Seeded",
		Email:         "seed@test.com",
		Phone:         "9000000000",
		AadhaarNumber: "111122223333",
		ServiceType:   "Aadhaar Update",
		Date:          date,
		TimeSlot:      slot,
		TokenNumber:   token,
		Status:        status,
		QueuePosition: 1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := st.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return a
}

// ----- booking -----

func TestBookFirstOfDay(t *testing.T) {
	eng, _ := setup(t)

	s := mustBook(t, eng, citizen(1), bookReq(tomorrow(), "10:00 - 11:00"))
	if s.TokenNumber != "TKN-001" {
		t.Errorf("expected TKN-001, got %s", s.TokenNumber)
	}
	if s.QueuePosition != 1 {
		t.Errorf("expected queue position 1, got %d", s.QueuePosition)
	}
	if s.Status != model.StatusPending {
		t.Errorf("expected Pending, got %s", s.Status)
	}
}

func TestBookValidation(t *testing.T) {
	eng, _ := setup(t)
	date := tomorrow()

	mod := func(f func(*booking.BookRequest)) booking.BookRequest {
		r := bookReq(date, "10:00 - 11:00")
		f(&r)
		return r
	}

	tests := []struct {
		name string
		req  booking.BookRequest
	}{
		{"missing name", mod(func(r *booking.BookRequest) { r.Name = "" })},
		{"missing slot", mod(func(r *booking.BookRequest) { r.TimeSlot = "" })},
		{"bad email", mod(func(r *booking.BookRequest) { r.Email = "not-an-email" })},
		{"bad phone", mod(func(r *booking.BookRequest) { r.Phone = "1234567890" })},
		{"short aadhaar", mod(func(r *booking.BookRequest) { r.AadhaarNumber = "12345" })},
		{"unknown service", mod(func(r *booking.BookRequest) { r.ServiceType = "Passport Renewal" })},
		{"bad date format", mod(func(r *booking.BookRequest) { r.Date = "31-12-2026" })},
		{"impossible date", mod(func(r *booking.BookRequest) { r.Date = "2026-13-45" })},
		{"past date", mod(func(r *booking.BookRequest) { r.Date = "2020-01-01" })},
		{"unknown slot", mod(func(r *booking.BookRequest) { r.TimeSlot = "05:00 - 06:00" })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.Book(context.Background(), citizen(1), tt.req)
			wantKind(t, err, booking.KindValidation)
		})
	}
}

func TestBookTodayAllowed(t *testing.T) {
	eng, _ := setup(t)
	if _, err := eng.Book(context.Background(), citizen(1), bookReq(model.Today(), "10:00 - 11:00")); err != nil {
		t.Fatalf("booking for today should be allowed: %v", err)
	}
}

func TestBookAdminForbidden(t *testing.T) {
	eng, _ := setup(t)
	_, err := eng.Book(context.Background(), admin(), bookReq(tomorrow(), "10:00 - 11:00"))
	wantKind(t, err, booking.KindForbidden)
}

func TestSlotCapacity(t *testing.T) {
	eng, _ := setup(t)
	date, slot := tomorrow(), "10:00 - 11:00"

	for i := 1; i <= model.SlotCapacity; i++ {
		s := mustBook(t, eng, citizen(i), bookReq(date, slot))
		if s.QueuePosition != i {
			t.Errorf("booking %d: expected queue position %d, got %d", i, i, s.QueuePosition)
		}
	}

	_, err := eng.Book(context.Background(), citizen(11), bookReq(date, slot))
	wantKind(t, err, booking.KindCapacity)

	// a different slot on the same date still has room
	if _, err := eng.Book(context.Background(), citizen(11), bookReq(date, "11:00 - 12:00")); err != nil {
		t.Fatalf("other slot should accept: %v", err)
	}
}

func TestCancelledBookingFreesCapacity(t *testing.T) {
	eng, _ := setup(t)
	date, slot := tomorrow(), "10:00 - 11:00"

	first := mustBook(t, eng, citizen(1), bookReq(date, slot))
	for i := 2; i <= model.SlotCapacity; i++ {
		mustBook(t, eng, citizen(i), bookReq(date, slot))
	}
	if err := eng.Cancel(context.Background(), citizen(1), first.AppointmentID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	s := mustBook(t, eng, citizen(11), bookReq(date, slot))
	// the freed seat is reusable but the token sequence moves on
	if s.TokenNumber != model.FormatToken(model.SlotCapacity+1) {
		t.Errorf("expected %s, got %s", model.FormatToken(model.SlotCapacity+1), s.TokenNumber)
	}
}

func TestDuplicatePending(t *testing.T) {
	eng, _ := setup(t)
	date := tomorrow()

	mustBook(t, eng, citizen(1), bookReq(date, "10:00 - 11:00"))

	_, err := eng.Book(context.Background(), citizen(1), bookReq(date, "11:00 - 12:00"))
	wantKind(t, err, booking.KindConflict)

	// other citizens and other dates are unaffected
	mustBook(t, eng, citizen(2), bookReq(date, "11:00 - 12:00"))
	other := time.Now().AddDate(0, 0, 2).Format(model.DateFormat)
	mustBook(t, eng, citizen(1), bookReq(other, "10:00 - 11:00"))
}

func TestTokensUniqueAndIncreasing(t *testing.T) {
	eng, _ := setup(t)
	date := tomorrow()

	var prev int
	for i := 1; i <= 12; i++ {
		slot := model.TimeSlots[i%len(model.TimeSlots)]
		s := mustBook(t, eng, citizen(i), bookReq(date, slot))
		seq, ok := model.TokenSeq(s.TokenNumber)
		if !ok {
			t.Fatalf("unparseable token %s", s.TokenNumber)
		}
		if seq != prev+1 {
			t.Fatalf("token %d: expected seq %d, got %d", i, prev+1, seq)
		}
		prev = seq
	}
}

// ----- lifecycle -----

func TestCancelPending(t *testing.T) {
	eng, st := setup(t)
	s := mustBook(t, eng, citizen(1), bookReq(tomorrow(), "10:00 - 11:00"))

	if err := eng.Cancel(context.Background(), citizen(1), s.AppointmentID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	apt, err := st.AppointmentByID(context.Background(), s.AppointmentID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if apt.Status != model.StatusCancelled {
		t.Errorf("expected Cancelled, got %s", apt.Status)
	}
	if !apt.UpdatedAt.After(apt.CreatedAt) {
		t.Error("updatedAt not refreshed")
	}
	if apt.TokenNumber != s.TokenNumber {
		t.Error("token must not be reassigned on cancel")
	}
}

func TestCancelServedFails(t *testing.T) {
	eng, _ := setup(t)
	s := mustBook(t, eng, citizen(1), bookReq(tomorrow(), "10:00 - 11:00"))

	if _, err := eng.UpdateStatus(context.Background(), admin(), s.AppointmentID, model.StatusServed); err != nil {
		t.Fatalf("update status: %v", err)
	}
	err := eng.Cancel(context.Background(), citizen(1), s.AppointmentID)
	wantKind(t, err, booking.KindInvalidState)
}

func TestCancelTwiceFails(t *testing.T) {
	eng, _ := setup(t)
	s := mustBook(t, eng, citizen(1), bookReq(tomorrow(), "10:00 - 11:00"))

	if err := eng.Cancel(context.Background(), citizen(1), s.AppointmentID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	err := eng.Cancel(context.Background(), citizen(1), s.AppointmentID)
	wantKind(t, err, booking.KindInvalidState)
}

func TestCancelAuthorization(t *testing.T) {
	eng, _ := setup(t)
	s := mustBook(t, eng, citizen(1), bookReq(tomorrow(), "10:00 - 11:00"))

	err := eng.Cancel(context.Background(), citizen(2), s.AppointmentID)
	wantKind(t, err, booking.KindForbidden)

	err = eng.Cancel(context.Background(), citizen(1), "no-such-id")
	wantKind(t, err, booking.KindNotFound)
}

func TestUpdateStatus(t *testing.T) {
	eng, _ := setup(t)
	s := mustBook(t, eng, citizen(1), bookReq(tomorrow(), "10:00 - 11:00"))

	for _, st := range []model.Status{model.StatusInProgress, model.StatusServed, model.StatusNoShow} {
		apt, err := eng.UpdateStatus(context.Background(), admin(), s.AppointmentID, st)
		if err != nil {
			t.Fatalf("update to %s: %v", st, err)
		}
		if apt.Status != st {
			t.Errorf("expected %s, got %s", st, apt.Status)
		}
	}

	_, err := eng.UpdateStatus(context.Background(), admin(), s.AppointmentID, model.Status("Done"))
	wantKind(t, err, booking.KindValidation)

	_, err = eng.UpdateStatus(context.Background(), citizen(1), s.AppointmentID, model.StatusServed)
	wantKind(t, err, booking.KindForbidden)

	_, err = eng.UpdateStatus(context.Background(), admin(), "no-such-id", model.StatusServed)
	wantKind(t, err, booking.KindNotFound)
}

func TestGetAuthorization(t *testing.T) {
	eng, _ := setup(t)
	s := mustBook(t, eng, citizen(1), bookReq(tomorrow(), "10:00 - 11:00"))

	if _, err := eng.Get(context.Background(), citizen(1), s.AppointmentID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := eng.Get(context.Background(), admin(), s.AppointmentID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	_, err := eng.Get(context.Background(), citizen(2), s.AppointmentID)
	wantKind(t, err, booking.KindForbidden)
}

func TestListForUser(t *testing.T) {
	eng, _ := setup(t)
	d1 := tomorrow()
	d2 := time.Now().AddDate(0, 0, 2).Format(model.DateFormat)

	mustBook(t, eng, citizen(1), bookReq(d1, "10:00 - 11:00"))
	time.Sleep(5 * time.Millisecond)
	mustBook(t, eng, citizen(1), bookReq(d2, "10:00 - 11:00"))
	mustBook(t, eng, citizen(2), bookReq(d1, "11:00 - 12:00"))

	apts, err := eng.ListForUser(context.Background(), citizen(1))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(apts) != 2 {
		t.Fatalf("expected 2, got %d", len(apts))
	}
	// newest first
	if apts[0].Date != d2 || apts[1].Date != d1 {
		t.Errorf("wrong order: %s, %s", apts[0].Date, apts[1].Date)
	}
}

func TestAdminListFilters(t *testing.T) {
	eng, st := setup(t)
	today := model.Today()
	tmrw := tomorrow()

	seed(t, st, "u1", today, "10:00 - 11:00", "TKN-001", model.StatusPending)
	seed(t, st, "u2", today, "11:00 - 12:00", "TKN-002", model.StatusServed)
	seed(t, st, "u3", tmrw, "10:00 - 11:00", "TKN-001", model.StatusPending)

	all, err := eng.AdminList(context.Background(), admin(), store.AppointmentFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	if all[0].Date != tmrw {
		t.Errorf("expected newest date first, got %s", all[0].Date)
	}

	pending, err := eng.AdminList(context.Background(), admin(), store.AppointmentFilter{Status: model.StatusPending})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("expected 2 pending, got %d", len(pending))
	}

	_, err = eng.AdminList(context.Background(), admin(), store.AppointmentFilter{Status: "Whatever"})
	wantKind(t, err, booking.KindValidation)

	_, err = eng.AdminList(context.Background(), citizen(1), store.AppointmentFilter{})
	wantKind(t, err, booking.KindForbidden)
}

// ----- availability -----

func TestAvailability(t *testing.T) {
	eng, _ := setup(t)
	date, slot := tomorrow(), "10:00 - 11:00"

	av, err := eng.CheckAvailability(context.Background(), date, slot)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if av.BookedCount != 0 || av.Remaining != model.SlotCapacity || av.IsFull {
		t.Errorf("empty slot wrong: %+v", av)
	}

	mustBook(t, eng, citizen(1), bookReq(date, slot))

	// the cache entry for the date must have been invalidated by the write
	av, err = eng.CheckAvailability(context.Background(), date, slot)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if av.BookedCount != 1 || av.Remaining != model.SlotCapacity-1 {
		t.Errorf("after booking: %+v", av)
	}

	_, err = eng.CheckAvailability(context.Background(), date, "07:00 - 08:00")
	wantKind(t, err, booking.KindValidation)
	_, err = eng.CheckAvailability(context.Background(), "not-a-date", slot)
	wantKind(t, err, booking.KindValidation)
}

func TestAvailabilityExcludesCancelled(t *testing.T) {
	eng, st := setup(t)
	date, slot := tomorrow(), "10:00 - 11:00"

	seed(t, st, "u1", date, slot, "TKN-001", model.StatusCancelled)
	seed(t, st, "u2", date, slot, "TKN-002", model.StatusPending)
	seed(t, st, "u3", date, slot, "TKN-003", model.StatusServed)

	av, err := eng.CheckAvailability(context.Background(), date, slot)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if av.BookedCount != 2 {
		t.Errorf("expected 2 booked (cancelled excluded), got %d", av.BookedCount)
	}
}

func TestDayAvailabilityOrder(t *testing.T) {
	eng, _ := setup(t)
	slots, err := eng.DayAvailability(context.Background(), tomorrow())
	if err != nil {
		t.Fatalf("day availability: %v", err)
	}
	if len(slots) != len(model.TimeSlots) {
		t.Fatalf("expected %d slots, got %d", len(model.TimeSlots), len(slots))
	}
	for i, s := range slots {
		if s.TimeSlot != model.TimeSlots[i] {
			t.Errorf("slot %d: expected %s, got %s", i, model.TimeSlots[i], s.TimeSlot)
		}
	}
}

// ----- queue view -----

func TestTodayQueueFilters(t *testing.T) {
	eng, st := setup(t)
	today := model.Today()

	seed(t, st, "u1", today, "10:00 - 11:00", "TKN-001", model.StatusPending)
	seed(t, st, "u2", today, "10:00 - 11:00", "TKN-002", model.StatusInProgress)
	seed(t, st, "u3", today, "10:00 - 11:00", "TKN-003", model.StatusServed)
	seed(t, st, "u4", today, "11:00 - 12:00", "TKN-004", model.StatusCancelled)
	seed(t, st, "u5", today, "11:00 - 12:00", "TKN-005", model.StatusNoShow)
	seed(t, st, "u6", tomorrow(), "10:00 - 11:00", "TKN-001", model.StatusPending)

	view, err := eng.TodayQueue(context.Background())
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if view.Date != today {
		t.Errorf("expected date %s, got %s", today, view.Date)
	}
	if view.QueueLength != 2 || len(view.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(view.Items))
	}
	for _, item := range view.Items {
		if item.Status != model.StatusPending && item.Status != model.StatusInProgress {
			t.Errorf("unexpected status %s in queue", item.Status)
		}
	}
}

func TestTodayQueueTokenOrder(t *testing.T) {
	eng, st := setup(t)
	today := model.Today()

	// insertion order deliberately scrambled, including a 4-digit token
	for i, tok := range []string{"TKN-100", "TKN-002", "TKN-1000", "TKN-099", "TKN-010"} {
		seed(t, st, fmt.Sprintf("u%d", i), today, "10:00 - 11:00", tok, model.StatusPending)
	}

	view, err := eng.TodayQueue(context.Background())
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	want := []string{"TKN-002", "TKN-010", "TKN-099", "TKN-100", "TKN-1000"}
	if len(view.Items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(view.Items))
	}
	for i, item := range view.Items {
		if item.TokenNumber != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], item.TokenNumber)
		}
	}
}

// ----- analytics -----

func TestOverview(t *testing.T) {
	eng, st := setup(t)
	date := tomorrow()

	n := 0
	add := func(count int, status model.Status) {
		for i := 0; i < count; i++ {
			n++
			slot := model.TimeSlots[n%len(model.TimeSlots)]
			seed(t, st, fmt.Sprintf("u%d", n), date, slot, model.FormatToken(n), status)
		}
	}
	add(5, model.StatusPending)
	add(3, model.StatusServed)
	add(2, model.StatusCancelled)

	out, err := eng.Overview(context.Background(), admin())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	got := out.Overall
	if got.Total != 10 || got.Pending != 5 || got.Served != 3 || got.Cancelled != 2 ||
		got.InProgress != 0 || got.NoShow != 0 {
		t.Errorf("wrong counts: %+v", got)
	}
	if out.Today.Total != 0 {
		t.Errorf("expected no appointments today, got %d", out.Today.Total)
	}
	if out.ServiceTypes["Aadhaar Update"] != 10 {
		t.Errorf("service histogram: %+v", out.ServiceTypes)
	}

	_, err = eng.Overview(context.Background(), citizen(1))
	wantKind(t, err, booking.KindForbidden)
}

// ----- concurrency -----

func TestConcurrentBookingHoldsInvariants(t *testing.T) {
	eng, st := setup(t)
	date, slot := tomorrow(), "10:00 - 11:00"

	done := make(chan error, 20)
	for i := 1; i <= 20; i++ {
		go func(i int) {
			_, err := eng.Book(context.Background(), citizen(i), bookReq(date, slot))
			done <- err
		}(i)
	}
	var okCount, fullCount int
	for i := 0; i < 20; i++ {
		err := <-done
		switch {
		case err == nil:
			okCount++
		case booking.KindOf(err) == booking.KindCapacity:
			fullCount++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if okCount != model.SlotCapacity || fullCount != 20-model.SlotCapacity {
		t.Fatalf("expected %d booked / %d rejected, got %d / %d",
			model.SlotCapacity, 20-model.SlotCapacity, okCount, fullCount)
	}

	count, err := st.CountSlot(context.Background(), date, slot)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != model.SlotCapacity {
		t.Fatalf("capacity invariant broken: %d records in slot", count)
	}

	apts, _ := st.AppointmentsByDate(context.Background(), date)
	tokens := make(map[string]bool)
	for _, a := range apts {
		if tokens[a.TokenNumber] {
			t.Fatalf("duplicate token %s", a.TokenNumber)
		}
		tokens[a.TokenNumber] = true
	}
}
