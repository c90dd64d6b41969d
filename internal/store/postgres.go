package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"aadhaarqms/internal/model"
)

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const uniqueViolation = "23505"

func (s *Postgres) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Serializes bookings for one date across server instances; the count
	// below is stable until commit.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, a.Date); err != nil {
		return err
	}

	var booked int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments
		 WHERE date = $1 AND time_slot = $2 AND status <> $3`,
		a.Date, a.TimeSlot, model.StatusCancelled,
	).Scan(&booked)
	if err != nil {
		return err
	}
	if booked >= model.SlotCapacity {
		return ErrSlotFull
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO appointments
		   (id, user_id, name, email, phone, aadhaar_number, service_type,
		    date, time_slot, token_number, status, queue_position, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		a.ID, a.UserID, a.Name, a.Email, a.Phone, a.AadhaarNumber, a.ServiceType,
		a.Date, a.TimeSlot, a.TokenNumber, a.Status, a.QueuePosition, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case "appointments_pending_user_date":
				return ErrDuplicatePending
			case "appointments_date_token_key":
				return ErrTokenTaken
			}
		}
		return err
	}

	return tx.Commit(ctx)
}

const appointmentCols = `id, user_id, name, email, phone, aadhaar_number, service_type,
	date, time_slot, token_number, status, queue_position, created_at, updated_at`

func scanAppointment(row pgx.Row, a *model.Appointment) error {
	return row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Email, &a.Phone, &a.AadhaarNumber, &a.ServiceType,
		&a.Date, &a.TimeSlot, &a.TokenNumber, &a.Status, &a.QueuePosition, &a.CreatedAt, &a.UpdatedAt,
	)
}

func (s *Postgres) AppointmentByID(ctx context.Context, id string) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := scanAppointment(s.pool.QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id), a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Postgres) SetAppointmentStatus(ctx context.Context, id string, st model.Status, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`,
		st, at, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) AppointmentsByUser(ctx context.Context, userID string) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (s *Postgres) AppointmentsByDate(ctx context.Context, date string) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE date = $1`, date)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (s *Postgres) ScanAppointments(ctx context.Context, f AppointmentFilter) ([]model.Appointment, error) {
	q := `SELECT ` + appointmentCols + ` FROM appointments WHERE 1=1`
	args := []any{}
	if f.Date != "" {
		args = append(args, f.Date)
		q += ` AND date = $` + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		q += ` AND status = $` + strconv.Itoa(len(args))
	}
	if f.ServiceType != "" {
		args = append(args, f.ServiceType)
		q += ` AND service_type = $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func collectAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	defer rows.Close()
	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Postgres) CountSlot(ctx context.Context, date, slot string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments
		 WHERE date = $1 AND time_slot = $2 AND status <> $3`,
		date, slot, model.StatusCancelled,
	).Scan(&n)
	return n, err
}

func (s *Postgres) HasPending(ctx context.Context, userID, date string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(
		   SELECT 1 FROM appointments
		   WHERE user_id = $1 AND date = $2 AND status = $3)`,
		userID, date, model.StatusPending,
	).Scan(&exists)
	return exists, err
}

func (s *Postgres) MaxTokenSeq(ctx context.Context, date string) (int, error) {
	// Cancelled tokens stay reserved, so no status filter here.
	var seq int
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(split_part(token_number, '-', 2)::int), 0)
		 FROM appointments WHERE date = $1`, date,
	).Scan(&seq)
	return seq, err
}
