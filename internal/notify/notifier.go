package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sync"
	"time"

	"datefinder/backend/internal/relationship"
)

const sendTimeout = 10 * time.Second

// EmailNotifier mails users about date proposals and decisions. Sending
// happens in the background so Notify never waits on the mail provider.
type EmailNotifier struct {
	sender EmailSender
	log    *slog.Logger
	wg     sync.WaitGroup
}

func NewEmailNotifier(sender EmailSender, log *slog.Logger) *EmailNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &EmailNotifier{sender: sender, log: log}
}

func (n *EmailNotifier) Notify(ctx context.Context, ev relationship.Event) {
	if ev.Email == "" {
		return
	}
	subject, body, ok := renderEmail(ev)
	if !ok {
		return
	}

	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, sendTimeout)
		defer cancel()
		if err := n.sender.Send(ctx, ev.Email, subject, body); err != nil {
			n.log.Error("failed to send notification email", "type", ev.Type, "user", ev.UserID, "error", err)
		}
	}()
}

// Wait blocks until every queued e-mail has been attempted.
func (n *EmailNotifier) Wait() {
	n.wg.Wait()
}

func renderEmail(ev relationship.Event) (subject, body string, ok bool) {
	sched, isSchedule := ev.Payload.(relationship.Schedule)
	if !isSchedule {
		return "", "", false
	}
	where := html.EscapeString(sched.Restaurant.Name)
	when := sched.MeetTime.UTC().Format("Mon Jan 2, 15:04 MST")

	switch ev.Type {
	case relationship.EventDateProposed:
		subject = "You have a new date proposal"
		body = fmt.Sprintf("<p>You were invited to %s on %s (dress: %s).</p>", where, when, html.EscapeString(string(sched.DressType)))
		if sched.Message != "" {
			body += fmt.Sprintf("<blockquote>%s</blockquote>", html.EscapeString(sched.Message))
		}
	case relationship.EventDateApproved:
		subject = "Your date was accepted"
		body = fmt.Sprintf("<p>Your date at %s on %s was accepted.</p>", where, when)
	case relationship.EventDateRejected:
		subject = "Your date was declined"
		body = fmt.Sprintf("<p>Your date at %s on %s was declined.</p>", where, when)
	default:
		return "", "", false
	}
	return subject, body, true
}

// Fanout forwards every event to each notifier in order.
type Fanout []relationship.Notifier

func (f Fanout) Notify(ctx context.Context, ev relationship.Event) {
	for _, n := range f {
		n.Notify(ctx, ev)
	}
}
