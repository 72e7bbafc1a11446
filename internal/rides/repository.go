package rides

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasafe/tasafe-api/pkg/models"
)

// Shared column list for ride queries, driver summary included
const rideColumns = `
	r.id, r.driver_id, r.type, r.origin, r.destination, r.meeting_point,
	r.departure_time, r.available_seats, r.status, r.description,
	r.created_at, r.updated_at,
	u.name, u.email, u.role, u.course, u.photo_url`

// acceptedCount annotates rides with how many requests were accepted
const acceptedCount = `
	(SELECT COUNT(*) FROM ride_requests q WHERE q.ride_id = r.id AND q.status = 'ACCEPTED')`

// scanRide scans a row produced with rideColumns (+ accepted count when withCount)
func scanRide(scan func(dest ...interface{}) error, withCount bool) (Ride, error) {
	r := Ride{}
	driver := models.UserSummary{}

	dest := []interface{}{
		&r.ID, &r.DriverID, &r.Type, &r.Origin, &r.Destination, &r.MeetingPoint,
		&r.DepartureTime, &r.AvailableSeats, &r.Status, &r.Description,
		&r.CreatedAt, &r.UpdatedAt,
		&driver.Name, &driver.Email, &driver.Role, &driver.Course, &driver.PhotoURL,
	}
	if withCount {
		dest = append(dest, &r.AcceptedRequests)
	}

	if err := scan(dest...); err != nil {
		return Ride{}, err
	}

	driver.ID = r.DriverID
	r.Driver = &driver
	return r, nil
}

// Repository handles ride data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new ride repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts the ride and attaches the driver summary
func (r *Repository) Create(ctx context.Context, ride *Ride) error {
	query := `
		INSERT INTO rides (id, driver_id, type, origin, destination, meeting_point,
			departure_time, available_seats, status, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		ride.ID,
		ride.DriverID,
		ride.Type,
		ride.Origin,
		ride.Destination,
		ride.MeetingPoint,
		ride.DepartureTime,
		ride.AvailableSeats,
		ride.Status,
		ride.Description,
	).Scan(&ride.CreatedAt, &ride.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ride: %w", err)
	}

	driver := models.UserSummary{ID: ride.DriverID}
	err = r.db.QueryRow(ctx,
		`SELECT name, email, role, course, photo_url FROM users WHERE id = $1`,
		ride.DriverID,
	).Scan(&driver.Name, &driver.Email, &driver.Role, &driver.Course, &driver.PhotoURL)
	if err != nil {
		return fmt.Errorf("failed to load driver summary: %w", err)
	}
	ride.Driver = &driver

	return nil
}

// List returns ACTIVE upcoming rides matching the filters, soonest first.
// A date filter replaces the >= now lower bound with that calendar day.
func (r *Repository) List(ctx context.Context, filters ListFilters, now time.Time) ([]Ride, error) {
	where := []string{"r.status = 'ACTIVE'"}
	args := []interface{}{}
	argIdx := 1

	if filters.Date != nil {
		day := filters.Date.Truncate(24 * time.Hour)
		where = append(where, fmt.Sprintf("r.departure_time >= $%d AND r.departure_time < $%d", argIdx, argIdx+1))
		args = append(args, day, day.AddDate(0, 0, 1))
		argIdx += 2
	} else {
		where = append(where, fmt.Sprintf("r.departure_time >= $%d", argIdx))
		args = append(args, now)
		argIdx++
	}

	if filters.Type != nil {
		where = append(where, fmt.Sprintf("r.type = $%d", argIdx))
		args = append(args, *filters.Type)
		argIdx++
	}

	if filters.Destination != nil {
		where = append(where, fmt.Sprintf("r.destination ILIKE '%%' || $%d || '%%'", argIdx))
		args = append(args, *filters.Destination)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM rides r
		JOIN users u ON u.id = r.driver_id
		WHERE %s
		ORDER BY r.departure_time ASC`,
		rideColumns, acceptedCount, strings.Join(where, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Ride
	for rows.Next() {
		ride, err := scanRide(rows.Scan, true)
		if err != nil {
			return nil, err
		}
		result = append(result, ride)
	}
	return result, rows.Err()
}

// GetByID returns the ride with driver summary and its full request list
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Ride, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM rides r
		JOIN users u ON u.id = r.driver_id
		WHERE r.id = $1`, rideColumns, acceptedCount)

	ride, err := scanRide(func(dest ...interface{}) error {
		return r.db.QueryRow(ctx, query, id).Scan(dest...)
	}, true)
	if err != nil {
		return nil, err
	}

	requests, err := r.listRequests(ctx, id)
	if err != nil {
		return nil, err
	}
	ride.Requests = requests

	return &ride, nil
}

func (r *Repository) listRequests(ctx context.Context, rideID uuid.UUID) ([]RequestInfo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT q.id, q.user_id, q.message, q.status, q.created_at,
			u.name, u.email, u.photo_url
		FROM ride_requests q
		JOIN users u ON u.id = q.user_id
		WHERE q.ride_id = $1
		ORDER BY q.created_at ASC`, rideID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []RequestInfo
	for rows.Next() {
		info := RequestInfo{}
		if err := rows.Scan(
			&info.ID, &info.UserID, &info.Message, &info.Status, &info.CreatedAt,
			&info.User.Name, &info.User.Email, &info.User.PhotoURL,
		); err != nil {
			return nil, err
		}
		info.User.ID = info.UserID
		requests = append(requests, info)
	}
	return requests, rows.Err()
}

// Update applies the non-nil patch fields and returns the updated ride
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch *UpdateRideRequest) (*Ride, error) {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argIdx := 1

	addSet := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if patch.Origin != nil {
		addSet("origin", *patch.Origin)
	}
	if patch.Destination != nil {
		addSet("destination", *patch.Destination)
	}
	if patch.MeetingPoint != nil {
		addSet("meeting_point", *patch.MeetingPoint)
	}
	if patch.DepartureTime != nil {
		addSet("departure_time", *patch.DepartureTime)
	}
	if patch.AvailableSeats != nil {
		addSet("available_seats", *patch.AvailableSeats)
	}
	if patch.Description != nil {
		addSet("description", *patch.Description)
	}
	if patch.Status != nil {
		addSet("status", *patch.Status)
	}

	query := fmt.Sprintf(`UPDATE rides SET %s WHERE id = $%d`, strings.Join(set, ", "), argIdx)
	args = append(args, id)

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update ride: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Delete removes the ride; requests go with it via FK cascade
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM rides WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ride: %w", err)
	}
	return nil
}

// ListByDriver returns the driver's rides, newest departure first
func (r *Repository) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]Ride, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM rides r
		JOIN users u ON u.id = r.driver_id
		WHERE r.driver_id = $1
		ORDER BY r.departure_time DESC`, rideColumns, acceptedCount)

	rows, err := r.db.Query(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Ride
	for rows.Next() {
		ride, err := scanRide(rows.Scan, true)
		if err != nil {
			return nil, err
		}
		result = append(result, ride)
	}
	return result, rows.Err()
}
