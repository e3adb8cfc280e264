package postgres

import (
	"context"
	"database/sql"
	"errors"

	"placementcell/internal/common"
	"placementcell/internal/domain/notice"
)

const (
	noticeColumns = `id, title, description, posted_at, posted_by, is_active`
	eventColumns  = `id, title, description, event_date, month, day, posted_at, posted_by, is_active`
)

type NoticeRepository struct {
	db *sql.DB
}

func NewNoticeRepository(db *sql.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

func (r *NoticeRepository) GetAll(ctx context.Context) ([]notice.Notice, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+noticeColumns+` FROM notices ORDER BY posted_at DESC, id`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list notices", err)
	}
	defer rows.Close()
	var items []notice.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan notice", err)
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list notices", err)
	}
	return items, nil
}

func (r *NoticeRepository) Get(ctx context.Context, id common.UUID) (*notice.Notice, error) {
	n, err := scanNotice(r.db.QueryRowContext(ctx, `SELECT `+noticeColumns+` FROM notices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "notice not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load notice", err)
	}
	return n, nil
}

func (r *NoticeRepository) Save(ctx context.Context, n notice.Notice) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO notices (`+noticeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, description = EXCLUDED.description, posted_at = EXCLUDED.posted_at,
			posted_by = EXCLUDED.posted_by, is_active = EXCLUDED.is_active`,
		n.ID, n.Title, n.Description, n.PostedAt, n.PostedBy, n.IsActive)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to save notice", err)
	}
	return nil
}

func (r *NoticeRepository) Delete(ctx context.Context, id common.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notices WHERE id = $1`, id); err != nil {
		return common.NewError(common.CodeInternal, "failed to delete notice", err)
	}
	return nil
}

func scanNotice(row scanner) (*notice.Notice, error) {
	var n notice.Notice
	if err := row.Scan(&n.ID, &n.Title, &n.Description, &n.PostedAt, &n.PostedBy, &n.IsActive); err != nil {
		return nil, err
	}
	return &n, nil
}

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetAll(ctx context.Context) ([]notice.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY event_date, id`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list events", err)
	}
	defer rows.Close()
	var items []notice.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan event", err)
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list events", err)
	}
	return items, nil
}

func (r *EventRepository) Get(ctx context.Context, id common.UUID) (*notice.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "event not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load event", err)
	}
	return e, nil
}

func (r *EventRepository) Save(ctx context.Context, e notice.Event) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO events (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, description = EXCLUDED.description, event_date = EXCLUDED.event_date,
			month = EXCLUDED.month, day = EXCLUDED.day, posted_at = EXCLUDED.posted_at,
			posted_by = EXCLUDED.posted_by, is_active = EXCLUDED.is_active`,
		e.ID, e.Title, e.Description, e.Date, e.Month, e.Day, e.PostedAt, e.PostedBy, e.IsActive)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to save event", err)
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id common.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return common.NewError(common.CodeInternal, "failed to delete event", err)
	}
	return nil
}

func scanEvent(row scanner) (*notice.Event, error) {
	var e notice.Event
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Month, &e.Day, &e.PostedAt, &e.PostedBy, &e.IsActive); err != nil {
		return nil, err
	}
	return &e, nil
}
