package model

import "testing"

func TestFormatToken(t *testing.T) {
	tests := []struct {
		seq  int
		want string
	}{
		{1, "TKN-001"},
		{42, "TKN-042"},
		{999, "TKN-999"},
		{1000, "TKN-1000"},
		{12345, "TKN-12345"},
	}
	for _, tt := range tests {
		if got := FormatToken(tt.seq); got != tt.want {
			t.Errorf("FormatToken(%d) = %s, want %s", tt.seq, got, tt.want)
		}
	}
}

func TestTokenSeq(t *testing.T) {
	for _, tt := range []struct {
		token string
		seq   int
		ok    bool
	}{
		{"TKN-001", 1, true},
		{"TKN-099", 99, true},
		{"TKN-1000", 1000, true},
		{"TKN-", 0, false},
		{"TKN-abc", 0, false},
		{"XYZ-001", 0, false},
		{"", 0, false},
	} {
		seq, ok := TokenSeq(tt.token)
		if ok != tt.ok || seq != tt.seq {
			t.Errorf("TokenSeq(%q) = (%d, %v), want (%d, %v)", tt.token, seq, ok, tt.seq, tt.ok)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	for _, seq := range []int{1, 9, 10, 99, 100, 999, 1000, 9999} {
		got, ok := TokenSeq(FormatToken(seq))
		if !ok || got != seq {
			t.Errorf("round trip %d -> %s -> %d (%v)", seq, FormatToken(seq), got, ok)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range Statuses {
		if !ValidStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []Status{"", "pending", "Done", "PENDING"} {
		if ValidStatus(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestTerminal(t *testing.T) {
	if !StatusCancelled.Terminal() || !StatusNoShow.Terminal() {
		t.Error("Cancelled and No Show are terminal")
	}
	if StatusPending.Terminal() || StatusInProgress.Terminal() || StatusServed.Terminal() {
		t.Error("Pending, In Progress and Served are not terminal")
	}
}

func TestSlotIndex(t *testing.T) {
	for i, slot := range TimeSlots {
		if got := SlotIndex(slot); got != i {
			t.Errorf("SlotIndex(%q) = %d, want %d", slot, got, i)
		}
	}
	if SlotIndex("09:00 - 10:00") != -1 {
		t.Error("unknown slot should index -1")
	}
}

func TestValidators(t *testing.T) {
	if !ValidEmail("asha@example.com") || ValidEmail("not an email") || ValidEmail("a@b") {
		t.Error("email validator")
	}
	if !ValidPhone("9876543210") || ValidPhone("1876543210") || ValidPhone("98765") {
		t.Error("phone validator")
	}
	if !ValidAadhaar("123456789012") || ValidAadhaar("12345678901") || ValidAadhaar("12345678901a") {
		t.Error("aadhaar validator")
	}
	if !ValidPassword("Secret123") || ValidPassword("alllower1") || ValidPassword("Sh0rt") {
		t.Error("password validator")
	}
	if !ValidDate("2026-09-01") || ValidDate("01-09-2026") || ValidDate("2026-13-45") {
		t.Error("date validator")
	}
}

func TestPastDate(t *testing.T) {
	if !PastDate("2020-01-01") {
		t.Error("2020 is in the past")
	}
	if PastDate(Today()) {
		t.Error("today is not past")
	}
	if PastDate("2099-12-31") {
		t.Error("2099 is not past")
	}
}
