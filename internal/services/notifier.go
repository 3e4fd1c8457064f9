// Package services – Notifier
//
// This file implements the Notifier, the call-site gate in front of
// NotificationService: it checks the user's delivery preferences before any
// record is created (a disabled toggle suppresses creation entirely) and
// renders title/body copy from the i18n catalog in the stored language.
// Handlers invoke it after job, offer, and chat mutations.
package services

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/homefix/go-homefix-backend/internal/domain"
	"github.com/homefix/go-homefix-backend/internal/i18n"
)

// Notifier fans marketplace events out to the notification feed.
type Notifier struct {
	Notifications *NotificationService
	Profiles      *ProfileService
}

// NewNotifier constructs a Notifier over the given services.
func NewNotifier(ns *NotificationService, ps *ProfileService) *Notifier {
	return &Notifier{Notifications: ns, Profiles: ps}
}

// language resolves the stored UI language, falling back to the default on
// error: broken prefs should not block the triggering user action.
func (n *Notifier) language(ctx context.Context) string {
	lang, err := n.Profiles.Language(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("notifier: falling back to default language")
		return i18n.DefaultLanguage
	}
	return lang
}

// NotifyNewOffer tells the client a quote arrived. Gated by the new-offer
// toggle.
func (n *Notifier) NotifyNewOffer(ctx context.Context, clientID, jobID, jobTitle, fixerName string, price float64) error {
	st, err := n.Notifications.Settings(ctx)
	if err != nil {
		return err
	}
	if !st.NewOfferNotifications {
		return nil
	}
	lang := n.language(ctx)
	_, err = n.Notifications.Send(ctx, clientID, domain.NotificationNewOffer,
		i18n.T(lang, i18n.KeyNewOfferTitle, nil),
		i18n.T(lang, i18n.KeyNewOfferBody, map[string]string{
			"fixer": fixerName,
			"price": strconv.FormatFloat(price, 'f', -1, 64),
			"job":   jobTitle,
		}),
		map[string]any{"job_id": jobID},
	)
	return err
}

// NotifyOfferAccepted tells the fixer their quote was accepted. Gated by
// the job-status toggle.
func (n *Notifier) NotifyOfferAccepted(ctx context.Context, fixerID, jobID, jobTitle string) error {
	st, err := n.Notifications.Settings(ctx)
	if err != nil {
		return err
	}
	if !st.JobStatusNotifications {
		return nil
	}
	lang := n.language(ctx)
	_, err = n.Notifications.Send(ctx, fixerID, domain.NotificationOfferAccepted,
		i18n.T(lang, i18n.KeyOfferAcceptedTitle, nil),
		i18n.T(lang, i18n.KeyOfferAcceptedBody, map[string]string{"job": jobTitle}),
		map[string]any{"job_id": jobID},
	)
	return err
}

// NotifyOfferDeclined tells the fixer their quote was declined. Gated by
// the job-status toggle.
func (n *Notifier) NotifyOfferDeclined(ctx context.Context, fixerID, jobID, jobTitle string) error {
	st, err := n.Notifications.Settings(ctx)
	if err != nil {
		return err
	}
	if !st.JobStatusNotifications {
		return nil
	}
	lang := n.language(ctx)
	_, err = n.Notifications.Send(ctx, fixerID, domain.NotificationOfferDeclined,
		i18n.T(lang, i18n.KeyOfferDeclinedTitle, nil),
		i18n.T(lang, i18n.KeyOfferDeclinedBody, map[string]string{"job": jobTitle}),
		map[string]any{"job_id": jobID},
	)
	return err
}

// NotifyNewMessage tells the other participant a chat message arrived.
// Gated by the message toggle.
func (n *Notifier) NotifyNewMessage(ctx context.Context, recipientID, jobID, jobTitle, senderName string) error {
	st, err := n.Notifications.Settings(ctx)
	if err != nil {
		return err
	}
	if !st.MessageNotifications {
		return nil
	}
	lang := n.language(ctx)
	_, err = n.Notifications.Send(ctx, recipientID, domain.NotificationNewMessage,
		i18n.T(lang, i18n.KeyNewMessageTitle, nil),
		i18n.T(lang, i18n.KeyNewMessageBody, map[string]string{
			"sender": senderName,
			"job":    jobTitle,
		}),
		map[string]any{"job_id": jobID},
	)
	return err
}

// NotifyJobCompleted tells the fixer the job was marked completed. Gated
// by the job-status toggle.
func (n *Notifier) NotifyJobCompleted(ctx context.Context, fixerID, jobID, jobTitle string) error {
	st, err := n.Notifications.Settings(ctx)
	if err != nil {
		return err
	}
	if !st.JobStatusNotifications {
		return nil
	}
	lang := n.language(ctx)
	_, err = n.Notifications.Send(ctx, fixerID, domain.NotificationJobCompleted,
		i18n.T(lang, i18n.KeyJobCompletedTitle, nil),
		i18n.T(lang, i18n.KeyJobCompletedBody, map[string]string{"job": jobTitle}),
		map[string]any{"job_id": jobID},
	)
	return err
}
