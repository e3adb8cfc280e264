package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"placementcell/internal/common"
	"placementcell/internal/domain/notice"
	"placementcell/internal/domain/user"
	"placementcell/internal/eligibility"
)

// NoticeService manages the notice board and the events calendar. Only
// admins write; students see active entries.
type NoticeService struct {
	notices notice.NoticeRepository
	events  notice.EventRepository
	clock   clock
	logSink
}

func NewNoticeService(notices notice.NoticeRepository, events notice.EventRepository, logger Logger) *NoticeService {
	return &NoticeService{notices: notices, events: events, logSink: logSink{logger: logger}}
}

type NoticeInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type EventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	IsActive    *bool  `json:"is_active"`
}

func (s *NoticeService) CreateNotice(ctx context.Context, identity user.Identity, input NoticeInput) (*notice.Notice, error) {
	return s.saveNotice(ctx, identity, notice.Notice{ID: common.NewUUID(), PostedAt: s.clock.now(), IsActive: true}, input)
}

// UpdateNotice replaces the text and flag of a notice. The first posting
// time is kept.
func (s *NoticeService) UpdateNotice(ctx context.Context, identity user.Identity, id common.UUID, input NoticeInput) (*notice.Notice, error) {
	current, err := s.notices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.saveNotice(ctx, identity, *current, input)
}

func (s *NoticeService) saveNotice(ctx context.Context, identity user.Identity, record notice.Notice, input NoticeInput) (*notice.Notice, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, common.NewValidationError("invalid notice", map[string]string{"title": "title is required"})
	}
	record.Title = title
	record.Description = strings.TrimSpace(input.Description)
	record.PostedBy = updatedBy(identity)
	if input.IsActive != nil {
		record.IsActive = *input.IsActive
	}
	if err := s.notices.Save(ctx, record); err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("notice saved notice_id=%s active=%t", record.ID, record.IsActive))
	return &record, nil
}

func (s *NoticeService) SetNoticeActive(ctx context.Context, identity user.Identity, id common.UUID, active bool) (*notice.Notice, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	current, err := s.notices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	current.IsActive = active
	if err := s.notices.Save(ctx, *current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *NoticeService) DeleteNotice(ctx context.Context, identity user.Identity, id common.UUID) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	if _, err := s.notices.Get(ctx, id); err != nil {
		return err
	}
	if err := s.notices.Delete(ctx, id); err != nil {
		return err
	}
	s.logInfo(fmt.Sprintf("notice deleted notice_id=%s", id))
	return nil
}

// ListNotices returns notices newest first, optionally only the active ones.
func (s *NoticeService) ListNotices(ctx context.Context, activeOnly bool) ([]notice.Notice, error) {
	items, err := s.notices.GetAll(ctx)
	if err != nil || !activeOnly {
		return items, err
	}
	active := make([]notice.Notice, 0, len(items))
	for _, item := range items {
		if item.IsActive {
			active = append(active, item)
		}
	}
	return active, nil
}

func (s *NoticeService) CreateEvent(ctx context.Context, identity user.Identity, input EventInput) (*notice.Event, error) {
	return s.saveEvent(ctx, identity, notice.Event{ID: common.NewUUID(), PostedAt: s.clock.now(), IsActive: true}, input)
}

func (s *NoticeService) UpdateEvent(ctx context.Context, identity user.Identity, id common.UUID, input EventInput) (*notice.Event, error) {
	current, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.saveEvent(ctx, identity, *current, input)
}

func (s *NoticeService) saveEvent(ctx context.Context, identity user.Identity, record notice.Event, input EventInput) (*notice.Event, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		fields["title"] = "title is required"
	}
	day, ok := eligibility.ParseDeadline(input.Date, time.UTC)
	if !ok {
		fields["date"] = "date must be YYYY-MM-DD or RFC3339"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid event", fields)
	}
	record.Title = title
	record.Description = strings.TrimSpace(input.Description)
	record.Date = day.Format(time.DateOnly)
	record.Month = day.Format("Jan")
	record.Day = day.Format("02")
	record.PostedBy = updatedBy(identity)
	if input.IsActive != nil {
		record.IsActive = *input.IsActive
	}
	if err := s.events.Save(ctx, record); err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("event saved event_id=%s date=%s active=%t", record.ID, record.Date, record.IsActive))
	return &record, nil
}

func (s *NoticeService) SetEventActive(ctx context.Context, identity user.Identity, id common.UUID, active bool) (*notice.Event, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	current, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	current.IsActive = active
	if err := s.events.Save(ctx, *current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *NoticeService) DeleteEvent(ctx context.Context, identity user.Identity, id common.UUID) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	if _, err := s.events.Get(ctx, id); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}
	s.logInfo(fmt.Sprintf("event deleted event_id=%s", id))
	return nil
}

// ListEvents returns events by date, optionally only the active ones.
func (s *NoticeService) ListEvents(ctx context.Context, activeOnly bool) ([]notice.Event, error) {
	items, err := s.events.GetAll(ctx)
	if err != nil || !activeOnly {
		return items, err
	}
	active := make([]notice.Event, 0, len(items))
	for _, item := range items {
		if item.IsActive {
			active = append(active, item)
		}
	}
	return active, nil
}

func requireAdmin(identity user.Identity) error {
	if !identity.IsAdmin() {
		return common.NewError(common.CodeForbidden, "admin access required", nil)
	}
	return nil
}
