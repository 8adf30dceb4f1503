package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meetscribe/meetscribe/internal/repository"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

// InsertMeeting generates the record ID client-side so storage stays
// keyed on an identifier that cannot collide even when two sessions save
// within the same second.
func (r *PostgresRepository) InsertMeeting(ctx context.Context, input repository.InsertMeetingInput) (string, error) {
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO meetings (id, filename, transcript, summary, meeting_type, "timestamp")
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, input.Filename, input.Transcript, input.Summary, input.MeetingType, input.Timestamp)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *PostgresRepository) GetMeetingByFilename(ctx context.Context, filename string) (*repository.Meeting, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, filename, transcript, summary, meeting_type, "timestamp", updated_at
		 FROM meetings WHERE filename = $1
		 ORDER BY "timestamp" DESC LIMIT 1`,
		filename)
	return scanMeeting(row)
}

func (r *PostgresRepository) GetLatestMeeting(ctx context.Context) (*repository.Meeting, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, filename, transcript, summary, meeting_type, "timestamp", updated_at
		 FROM meetings
		 ORDER BY "timestamp" DESC LIMIT 1`)
	return scanMeeting(row)
}

func (r *PostgresRepository) UpdateMeetingByFilename(ctx context.Context, input repository.UpdateMeetingInput) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE meetings SET transcript = $2, summary = $3, updated_at = $4 WHERE filename = $1`,
		input.Filename, input.Transcript, input.Summary, input.UpdatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) ListMeetings(ctx context.Context) ([]repository.Meeting, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, filename, transcript, summary, meeting_type, "timestamp", updated_at
		 FROM meetings
		 ORDER BY "timestamp" DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.Meeting
	for rows.Next() {
		var m repository.Meeting
		var updatedAt *time.Time
		if err := rows.Scan(&m.ID, &m.Filename, &m.Transcript, &m.Summary, &m.MeetingType, &m.Timestamp, &updatedAt); err != nil {
			return nil, err
		}
		m.UpdatedAt = updatedAt
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMeeting(row pgx.Row) (*repository.Meeting, error) {
	var m repository.Meeting
	var updatedAt *time.Time
	err := row.Scan(&m.ID, &m.Filename, &m.Transcript, &m.Summary, &m.MeetingType, &m.Timestamp, &updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	m.UpdatedAt = updatedAt
	return &m, nil
}
