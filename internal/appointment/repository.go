package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/academy-console/internal/timeslot"
)

// Repository is the storage collaborator for appointments.
type Repository interface {
	// List returns matching appointments ordered by date, then start time.
	List(ctx context.Context, filter Filter) ([]*Appointment, error)
	// Create persists a new appointment and assigns its ID and CreatedAt.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var selectColumns = []string{
	"a.id", "a.student_id", "a.instructor_id", "a.service_id", "a.location_id",
	"a.appointment_date::text", "a.start_time::text", "a.end_time::text",
	"a.status", "COALESCE(a.notes, '')", "a.created_at",
	"COALESCE(st.full_name, '')", "COALESCE(i.name, '')", "COALESCE(s.name, '')",
	"l.name", "l.address", "l.phone",
}

func selectAppointments() squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(selectColumns...).
		From("public.appointments a").
		Join("public.locations l ON a.location_id = l.id").
		LeftJoin("public.students st ON a.student_id = st.id").
		LeftJoin("public.instructors i ON a.instructor_id = i.id").
		LeftJoin("public.services s ON a.service_id = s.id")
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var start, end string
	if err := row.Scan(
		&a.ID, &a.StudentID, &a.InstructorID, &a.ServiceID, &a.LocationID,
		&a.Date, &start, &end,
		&a.Status, &a.Notes, &a.CreatedAt,
		&a.StudentName, &a.InstructorName, &a.ServiceName,
		&a.LocationName, &a.LocationAddress, &a.LocationPhone,
	); err != nil {
		return nil, err
	}

	var err error
	if a.StartTime, err = timeslot.ParseClock(start); err != nil {
		return nil, fmt.Errorf("appointment %s: %w", a.ID, err)
	}
	if a.EndTime, err = timeslot.ParseClock(end); err != nil {
		return nil, fmt.Errorf("appointment %s: %w", a.ID, err)
	}
	return &a, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Appointment, error) {
	query := selectAppointments()

	if filter.Date != "" {
		query = query.Where(squirrel.Eq{"a.appointment_date": filter.Date})
	}
	if filter.DateFrom != "" {
		query = query.Where(squirrel.GtOrEq{"a.appointment_date": filter.DateFrom})
	}
	if filter.DateTo != "" {
		query = query.Where(squirrel.LtOrEq{"a.appointment_date": filter.DateTo})
	}
	if filter.LocationID != "" {
		query = query.Where(squirrel.Eq{"a.location_id": filter.LocationID})
	}
	if filter.LocationName != "" {
		query = query.Where(squirrel.Eq{"l.name": filter.LocationName})
	}
	if filter.StudentID != "" {
		query = query.Where(squirrel.Eq{"a.student_id": filter.StudentID})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		// squirrel expands a slice in Eq into an IN list.
		query = query.Where(squirrel.Eq{"a.status": statuses})
	}

	query = query.OrderBy("a.appointment_date ASC", "a.start_time ASC", "a.created_at ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list appointments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		if isInvalidText(err) {
			return nil, ErrInvalidInput
		}
		return nil, fmt.Errorf("list appointments failed: %w", err)
	}
	defer rows.Close()

	var appointments []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment failed: %w", err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		if isInvalidText(err) {
			return nil, ErrInvalidInput
		}
		return nil, fmt.Errorf("list appointments failed: %w", err)
	}
	return appointments, nil
}

func (r *pgxRepository) Create(ctx context.Context, a *Appointment) error {
	var notes any
	if a.Notes != "" {
		notes = a.Notes
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.appointments").
		Columns(
			"student_id", "instructor_id", "service_id", "location_id",
			"appointment_date", "start_time", "end_time", "status", "notes",
		).
		Values(
			a.StudentID, a.InstructorID, a.ServiceID, a.LocationID,
			a.Date, a.StartTime.String(), a.EndTime.String(), a.Status, notes,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create appointment query failed: %w", err)
	}

	// Postgres casts the "YYYY-MM-DD" and "HH:MM" strings to DATE and TIME.
	err = r.pool.QueryRow(ctx, query, args...).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ExclusionViolation:
				// appointments_no_overlap: another active appointment holds the slot.
				return ErrSlotConflict
			case pgerrcode.CheckViolation:
				return ErrInvalidTimeRange
			case pgerrcode.ForeignKeyViolation, pgerrcode.InvalidTextRepresentation:
				return ErrInvalidInput
			}
		}
		return fmt.Errorf("create appointment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	sql, args, err := selectAppointments().
		Where(squirrel.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get appointment query failed: %w", err)
	}

	a, err := scanAppointment(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isInvalidText(err) {
			// Not a UUID, so it cannot exist.
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment failed: %w", err)
	}
	return a, nil
}

// isInvalidText reports a value Postgres could not cast, such as an ID that is not a UUID.
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}
