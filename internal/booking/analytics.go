package booking

import (
	"context"

	"aadhaarqms/internal/auth"
	"aadhaarqms/internal/model"
	"aadhaarqms/internal/store"
)

type StatusCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Served     int `json:"served"`
	Cancelled  int `json:"cancelled"`
	NoShow     int `json:"noShow"`
}

type Overview struct {
	Overall      StatusCounts   `json:"overall"`
	Today        StatusCounts   `json:"today"`
	ServiceTypes map[string]int `json:"serviceTypes"`
}

func (c *StatusCounts) add(st model.Status) {
	c.Total++
	switch st {
	case model.StatusPending:
		c.Pending++
	case model.StatusInProgress:
		c.InProgress++
	case model.StatusServed:
		c.Served++
	case model.StatusCancelled:
		c.Cancelled++
	case model.StatusNoShow:
		c.NoShow++
	}
}

// Overview aggregates the whole appointment collection on every call.
func (e *Engine) Overview(ctx context.Context, p auth.Principal) (*Overview, error) {
	if !p.IsAdmin() {
		return nil, errf(KindForbidden, "admin privileges required")
	}

	apts, err := e.store.ScanAppointments(ctx, store.AppointmentFilter{})
	if err != nil {
		return nil, storeErr("analytics scan", err)
	}

	out := &Overview{ServiceTypes: make(map[string]int)}
	today := model.Today()
	for _, a := range apts {
		out.Overall.add(a.Status)
		if a.Date == today {
			out.Today.add(a.Status)
		}
		out.ServiceTypes[a.ServiceType]++
	}
	return out, nil
}
