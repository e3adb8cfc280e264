package memory

import (
	"context"
	"sort"
	"sync"

	"placementcell/internal/common"
	"placementcell/internal/domain/notice"
)

type NoticeRepository struct {
	mu    sync.RWMutex
	items map[common.UUID]notice.Notice
}

func NewNoticeRepository() *NoticeRepository {
	return &NoticeRepository{items: make(map[common.UUID]notice.Notice)}
}

func (r *NoticeRepository) GetAll(_ context.Context) ([]notice.Notice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]notice.Notice, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PostedAt.Equal(out[j].PostedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].PostedAt.After(out[j].PostedAt)
	})
	return out, nil
}

func (r *NoticeRepository) Get(_ context.Context, id common.UUID) (*notice.Notice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewNotFoundError("notice")
	}
	return &item, nil
}

func (r *NoticeRepository) Save(_ context.Context, n notice.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[n.ID] = n
	return nil
}

func (r *NoticeRepository) Delete(_ context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type EventRepository struct {
	mu    sync.RWMutex
	items map[common.UUID]notice.Event
}

func NewEventRepository() *EventRepository {
	return &EventRepository{items: make(map[common.UUID]notice.Event)}
}

func (r *EventRepository) GetAll(_ context.Context) ([]notice.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]notice.Event, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].ID < out[j].ID
		}
		return out[i].Date < out[j].Date
	})
	return out, nil
}

func (r *EventRepository) Get(_ context.Context, id common.UUID) (*notice.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewNotFoundError("event")
	}
	return &item, nil
}

func (r *EventRepository) Save(_ context.Context, e notice.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[e.ID] = e
	return nil
}

func (r *EventRepository) Delete(_ context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}
