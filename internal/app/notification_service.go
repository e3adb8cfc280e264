package app

import (
	"context"
	"fmt"
	"strings"

	"placementcell/internal/common"
	"placementcell/internal/domain/company"
	"placementcell/internal/domain/drive"
	"placementcell/internal/domain/notification"
	"placementcell/internal/domain/student"
	"placementcell/internal/eligibility"
)

type Mailer interface {
	Send(ctx context.Context, msg notification.Message) error
}

// Drafter writes announcement text from a prompt.
type Drafter interface {
	Draft(ctx context.Context, prompt string) (string, error)
}

type NotificationService struct {
	students student.Repository
	mailer   Mailer
	drafter  Drafter
	logSink
}

func NewNotificationService(students student.Repository, mailer Mailer, drafter Drafter, logger Logger) *NotificationService {
	return &NotificationService{students: students, mailer: mailer, drafter: drafter, logSink: logSink{logger: logger}}
}

// AnnounceDrive mails every verified, non-blacklisted student who meets the
// drive's academic bar. It returns the number of recipients.
func (s *NotificationService) AnnounceDrive(ctx context.Context, d drive.Drive, c company.Company) (int, error) {
	students, err := s.students.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	to := recipients(eligibility.EligibleStudentsForDrive(d, students))
	if len(to) == 0 {
		return 0, nil
	}
	msg := notification.Message{
		Recipients: to,
		Subject:    fmt.Sprintf("New placement drive: %s - %s", c.Name, d.Role),
		Body:       s.driveBody(ctx, d, c),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to send drive announcement", err)
	}
	return len(msg.Recipients), nil
}

func (s *NotificationService) driveBody(ctx context.Context, d drive.Drive, c company.Company) string {
	if s.drafter != nil {
		prompt := fmt.Sprintf("Write a short, professional email announcing a campus placement drive to eligible students. "+
			"Company: %s. Role: %s. CTC: %s. Minimum CGPA: %.2f. Maximum backlogs: %d. Branches: %s. Apply by: %s. "+
			"Details: %s. Plain text only, no subject line.",
			c.Name, d.Role, d.CTC, d.MinCGPA, d.MaxBacklogs, strings.Join(d.EligibleBranches, ", "), d.Deadline, d.Description)
		body, err := s.drafter.Draft(ctx, prompt)
		if err == nil && strings.TrimSpace(body) != "" {
			return body
		}
		if err != nil {
			s.logError(fmt.Sprintf("drive draft failed drive_id=%s error=%v", d.ID, err))
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s is hiring for %s.\n\n", c.Name, d.Role)
	if d.CTC != "" {
		fmt.Fprintf(&b, "CTC: %s\n", d.CTC)
	}
	fmt.Fprintf(&b, "Minimum CGPA: %.2f\nMaximum backlogs: %d\n", d.MinCGPA, d.MaxBacklogs)
	fmt.Fprintf(&b, "Branches: %s\n", strings.Join(d.EligibleBranches, ", "))
	fmt.Fprintf(&b, "Rounds: %s\n", strings.Join(d.Rounds, ", "))
	fmt.Fprintf(&b, "Apply by: %s\n", d.Deadline)
	if d.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", d.Description)
	}
	return b.String()
}

type CustomNotification struct {
	StudentIDs []common.UUID `json:"student_ids"`
	Subject    string        `json:"subject"`
	Body       string        `json:"body"`
}

// SendCustom mails an admin-written message to the selected students.
// Unknown ids are skipped.
func (s *NotificationService) SendCustom(ctx context.Context, input CustomNotification) (int, error) {
	fields := map[string]string{}
	if strings.TrimSpace(input.Subject) == "" {
		fields["subject"] = "subject is required"
	}
	if strings.TrimSpace(input.Body) == "" {
		fields["body"] = "body is required"
	}
	if len(input.StudentIDs) == 0 {
		fields["student_ids"] = "at least one student is required"
	}
	if len(fields) > 0 {
		return 0, common.NewValidationError("invalid notification", fields)
	}
	selected := make([]student.Student, 0, len(input.StudentIDs))
	for _, id := range input.StudentIDs {
		st, err := s.students.Get(ctx, id)
		if err != nil {
			if common.Is(err, common.CodeNotFound) {
				s.logInfo(fmt.Sprintf("notification skipped unknown student_id=%s", id))
				continue
			}
			return 0, err
		}
		selected = append(selected, *st)
	}
	if len(selected) == 0 {
		return 0, common.NewValidationError("invalid notification", map[string]string{"student_ids": "no known students selected"})
	}
	msg := notification.Message{Recipients: recipients(selected), Subject: input.Subject, Body: input.Body}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to send notification", err)
	}
	return len(msg.Recipients), nil
}

func recipients(students []student.Student) []notification.Recipient {
	out := make([]notification.Recipient, 0, len(students))
	for _, st := range students {
		if st.Email == "" {
			continue
		}
		out = append(out, notification.Recipient{Email: st.Email, Name: st.Name})
	}
	return out
}
