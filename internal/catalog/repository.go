package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository defines read access to the service catalog and the branch list.
type Repository interface {
	GetServiceByID(ctx context.Context, id string) (*Service, error)
	ListServices(ctx context.Context, filter ServiceFilter) ([]*Service, error)
	GetLocationByID(ctx context.Context, id string) (*Location, error)
	ListLocations(ctx context.Context) ([]*Location, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var serviceColumns = []string{
	"s.id", "s.name", "s.duration_hours::float8", "s.duration_label",
	"s.price::text", "s.category", "s.description", "s.created_at",
}

func scanService(row pgx.Row) (*Service, error) {
	var s Service
	var price string
	if err := row.Scan(
		&s.ID, &s.Name, &s.DurationHours, &s.DurationLabel,
		&price, &s.Category, &s.Description, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price of service %s: %w", s.ID, err)
	}
	s.Price = p
	return &s, nil
}

func (r *pgxRepository) GetServiceByID(ctx context.Context, id string) (*Service, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(serviceColumns...).
		From("public.services s").
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get service query failed: %w", err)
	}

	s, err := scanService(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service failed: %w", err)
	}
	return s, nil
}

func (r *pgxRepository) ListServices(ctx context.Context, filter ServiceFilter) ([]*Service, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(serviceColumns...).
		From("public.services s")

	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"s.category": filter.Category})
	}

	// Same ordering as the console's service picker.
	query = query.OrderBy("s.category ASC", "s.price DESC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list services query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list services failed: %w", err)
	}
	defer rows.Close()

	var services []*Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service failed: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list services failed: %w", err)
	}
	return services, nil
}

var locationColumns = []string{
	"l.id", "l.name", "l.address", "l.phone",
	"COALESCE(i.id::text, '')", "COALESCE(i.name, '')", "COALESCE(i.phone, '')",
	"l.created_at",
}

func scanLocation(row pgx.Row) (*Location, error) {
	var l Location
	if err := row.Scan(
		&l.ID, &l.Name, &l.Address, &l.Phone,
		&l.InstructorID, &l.InstructorName, &l.InstructorPhone,
		&l.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *pgxRepository) GetLocationByID(ctx context.Context, id string) (*Location, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(locationColumns...).
		From("public.locations l").
		LeftJoin("public.instructors i ON l.manager_id = i.id").
		Where(squirrel.Eq{"l.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get location query failed: %w", err)
	}

	l, err := scanLocation(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("get location failed: %w", err)
	}
	return l, nil
}

func (r *pgxRepository) ListLocations(ctx context.Context) ([]*Location, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(locationColumns...).
		From("public.locations l").
		LeftJoin("public.instructors i ON l.manager_id = i.id").
		OrderBy("l.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list locations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations failed: %w", err)
	}
	defer rows.Close()

	var locations []*Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location failed: %w", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations failed: %w", err)
	}
	return locations, nil
}

// isNoRows also treats a malformed UUID as a missing row.
func isNoRows(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}
