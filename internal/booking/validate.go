package booking

import "aadhaarqms/internal/model"

// BookRequest is the citizen-supplied booking payload. The snapshot fields
// are copied onto the appointment record and never re-synced.
type BookRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	AadhaarNumber string `json:"aadhaarNumber"`
	ServiceType   string `json:"serviceType"`
	Date          string `json:"date"`
	TimeSlot      string `json:"timeSlot"`
}

func validateBookRequest(req BookRequest) *Error {
	if req.Name == "" || req.Email == "" || req.Phone == "" || req.AadhaarNumber == "" ||
		req.ServiceType == "" || req.Date == "" || req.TimeSlot == "" {
		return errf(KindValidation, "all fields are required")
	}
	if !model.ValidEmail(req.Email) {
		return errf(KindValidation, "invalid email format")
	}
	if !model.ValidPhone(req.Phone) {
		return errf(KindValidation, "invalid phone number, must be 10 digits starting with 6-9")
	}
	if !model.ValidAadhaar(req.AadhaarNumber) {
		return errf(KindValidation, "invalid Aadhaar number, must be 12 digits")
	}
	if !model.ValidServiceType(req.ServiceType) {
		return errf(KindValidation, "unknown service type %q", req.ServiceType)
	}
	if !model.ValidDate(req.Date) {
		return errf(KindValidation, "invalid date format, use YYYY-MM-DD")
	}
	if model.PastDate(req.Date) {
		return errf(KindValidation, "appointment date must be today or in the future")
	}
	if !model.ValidTimeSlot(req.TimeSlot) {
		return errf(KindValidation, "unknown time slot %q", req.TimeSlot)
	}
	return nil
}

func validateDateSlot(date, slot string) *Error {
	if !model.ValidDate(date) {
		return errf(KindValidation, "invalid date format, use YYYY-MM-DD")
	}
	if !model.ValidTimeSlot(slot) {
		return errf(KindValidation, "unknown time slot %q", slot)
	}
	return nil
}
