package requests

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasafe/tasafe-api/pkg/models"
)

// Repository handles ride request data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new ride request repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert stores a new request. A unique violation on (ride_id, user_id)
// is returned raw so the service can map it to a conflict.
func (r *Repository) Insert(ctx context.Context, request *RideRequest) error {
	query := `
		INSERT INTO ride_requests (id, ride_id, user_id, message, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRow(ctx, query,
		request.ID,
		request.RideID,
		request.UserID,
		request.Message,
		request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
}

// GetByID returns the request with its ride and requester summaries attached
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*RideRequest, error) {
	query := `
		SELECT q.id, q.ride_id, q.user_id, q.message, q.status, q.created_at, q.updated_at,
			r.driver_id, r.type, r.origin, r.destination, r.meeting_point,
			r.departure_time, r.status,
			d.id, d.name, d.email, d.photo_url,
			p.id, p.name, p.email, p.photo_url
		FROM ride_requests q
		JOIN rides r ON r.id = q.ride_id
		JOIN users d ON d.id = r.driver_id
		JOIN users p ON p.id = q.user_id
		WHERE q.id = $1
	`

	request := RideRequest{Ride: &RideSummary{}, User: &models.UserSummary{}}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&request.ID, &request.RideID, &request.UserID, &request.Message,
		&request.Status, &request.CreatedAt, &request.UpdatedAt,
		&request.Ride.DriverID, &request.Ride.Type, &request.Ride.Origin,
		&request.Ride.Destination, &request.Ride.MeetingPoint,
		&request.Ride.DepartureTime, &request.Ride.Status,
		&request.Ride.Driver.ID, &request.Ride.Driver.Name,
		&request.Ride.Driver.Email, &request.Ride.Driver.PhotoURL,
		&request.User.ID, &request.User.Name,
		&request.User.Email, &request.User.PhotoURL,
	)
	if err != nil {
		return nil, err
	}
	request.Ride.ID = request.RideID

	return &request, nil
}

// GetRideMeta returns just enough ride state to admit a request
func (r *Repository) GetRideMeta(ctx context.Context, rideID uuid.UUID) (*RideMeta, error) {
	meta := RideMeta{}
	err := r.db.QueryRow(ctx,
		`SELECT driver_id, status, destination FROM rides WHERE id = $1`,
		rideID,
	).Scan(&meta.DriverID, &meta.Status, &meta.Destination)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// ListByUser returns the user's requests with ride summaries, newest first
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]RideRequest, error) {
	query := `
		SELECT q.id, q.ride_id, q.user_id, q.message, q.status, q.created_at, q.updated_at,
			r.driver_id, r.type, r.origin, r.destination, r.meeting_point,
			r.departure_time, r.status,
			d.id, d.name, d.email, d.photo_url
		FROM ride_requests q
		JOIN rides r ON r.id = q.ride_id
		JOIN users d ON d.id = r.driver_id
		WHERE q.user_id = $1
		ORDER BY q.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RideRequest
	for rows.Next() {
		request := RideRequest{Ride: &RideSummary{}}
		if err := rows.Scan(
			&request.ID, &request.RideID, &request.UserID, &request.Message,
			&request.Status, &request.CreatedAt, &request.UpdatedAt,
			&request.Ride.DriverID, &request.Ride.Type, &request.Ride.Origin,
			&request.Ride.Destination, &request.Ride.MeetingPoint,
			&request.Ride.DepartureTime, &request.Ride.Status,
			&request.Ride.Driver.ID, &request.Ride.Driver.Name,
			&request.Ride.Driver.Email, &request.Ride.Driver.PhotoURL,
		); err != nil {
			return nil, err
		}
		request.Ride.ID = request.RideID
		result = append(result, request)
	}
	return result, rows.Err()
}

// UpdateStatusIfPending transitions the request out of PENDING. Returns
// false when the request was already decided, so concurrent accept and
// reject cannot both win.
func (r *Repository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE ride_requests SET status = $1, updated_at = NOW() WHERE id = $2 AND status = 'PENDING'`,
		status, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update request status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes the request
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM ride_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return nil
}
