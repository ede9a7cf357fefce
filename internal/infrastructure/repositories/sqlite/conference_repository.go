package sqlite

import (
	"context"
	"fmt"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"
	"confbot/pkg/tracing"
)

type ConferenceRepository struct {
	store *Store
}

func NewConferenceRepository(store *Store) ports.ConferenceRepository {
	return &ConferenceRepository{store: store}
}

// Create is a single atomic insert. The stored date is whatever was validated
// at dialog time; it is not re-checked here.
func (r *ConferenceRepository) Create(ctx context.Context, conf *domain.Conference) error {
	ctx, span := tracing.TraceStoreOperation(ctx, "insert", "conferences")
	defer span.End()

	res, err := r.store.sqlDB.ExecContext(ctx,
		"INSERT INTO conferences (topic, conf_date, conf_time, link, group_id) VALUES (?, ?, ?, ?, ?)",
		conf.Topic, conf.Date, conf.Time, conf.Link, conf.Group)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return domain.ErrGroupNotFound
		case isBusy(err):
			return fmt.Errorf("insert conference: %w", domain.ErrStoreBusy)
		}
		return fmt.Errorf("insert conference: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("conference insert id: %w", err)
	}
	conf.ID = domain.ConferenceID(id)
	return nil
}

func (r *ConferenceRepository) ListByGroup(ctx context.Context, group domain.GroupID) ([]*domain.Conference, error) {
	rows, err := r.store.sqlDB.QueryContext(ctx,
		`SELECT id, topic, conf_date, conf_time, link, group_id
		 FROM conferences WHERE group_id = ? ORDER BY id`, group)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	defer rows.Close()

	var confs []*domain.Conference
	for rows.Next() {
		var c domain.Conference
		if err := rows.Scan(&c.ID, &c.Topic, &c.Date, &c.Time, &c.Link, &c.Group); err != nil {
			return nil, fmt.Errorf("scan conference: %w", err)
		}
		confs = append(confs, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	return confs, nil
}
