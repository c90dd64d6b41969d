package booking

import (
	"context"
	"sort"

	"aadhaarqms/internal/model"
)

// QueueItem carries no personally identifying fields; the queue view is
// public.
type QueueItem struct {
	TokenNumber string       `json:"tokenNumber"`
	TimeSlot    string       `json:"timeSlot"`
	Status      model.Status `json:"status"`
}

type QueueView struct {
	Date        string      `json:"date"`
	QueueLength int         `json:"queueLength"`
	Items       []QueueItem `json:"items"`
}

// TodayQueue projects today's Pending and In Progress appointments in token
// order. Tokens sort by their numeric suffix, so TKN-1000 follows TKN-999
// even though the strings would not.
func (e *Engine) TodayQueue(ctx context.Context) (*QueueView, error) {
	today := model.Today()
	apts, err := e.store.AppointmentsByDate(ctx, today)
	if err != nil {
		return nil, storeErr("queue scan", err)
	}

	items := make([]QueueItem, 0, len(apts))
	for _, a := range apts {
		if a.Status != model.StatusPending && a.Status != model.StatusInProgress {
			continue
		}
		items = append(items, QueueItem{
			TokenNumber: a.TokenNumber,
			TimeSlot:    a.TimeSlot,
			Status:      a.Status,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		a, _ := model.TokenSeq(items[i].TokenNumber)
		b, _ := model.TokenSeq(items[j].TokenNumber)
		return a < b
	})

	e.met.QueueRequests.Inc()
	return &QueueView{Date: today, QueueLength: len(items), Items: items}, nil
}
