// Package i18n provides the translation catalog for user-facing copy
// (currently notification titles and bodies). Message keys are a closed,
// statically checked enumeration: every supported locale must translate
// every key, which the package tests enforce, so there is no runtime
// fallback to raw key strings.
//
// Locale negotiation uses golang.org/x/text/language so stored codes like
// "en-GB" resolve to the nearest supported catalog.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Key identifies one translatable message.
type Key string

// Notification copy keys.
const (
	KeyNewOfferTitle      Key = "notification.new_offer.title"
	KeyNewOfferBody       Key = "notification.new_offer.body"
	KeyOfferAcceptedTitle Key = "notification.offer_accepted.title"
	KeyOfferAcceptedBody  Key = "notification.offer_accepted.body"
	KeyOfferDeclinedTitle Key = "notification.offer_declined.title"
	KeyOfferDeclinedBody  Key = "notification.offer_declined.body"
	KeyNewMessageTitle    Key = "notification.new_message.title"
	KeyNewMessageBody     Key = "notification.new_message.body"
	KeyJobCompletedTitle  Key = "notification.job_completed.title"
	KeyJobCompletedBody   Key = "notification.job_completed.body"
)

// Keys lists every message key; tests use it to verify catalog coverage.
var Keys = []Key{
	KeyNewOfferTitle, KeyNewOfferBody,
	KeyOfferAcceptedTitle, KeyOfferAcceptedBody,
	KeyOfferDeclinedTitle, KeyOfferDeclinedBody,
	KeyNewMessageTitle, KeyNewMessageBody,
	KeyJobCompletedTitle, KeyJobCompletedBody,
}

// DefaultLanguage is the code used when nothing is stored.
const DefaultLanguage = "en"

// Supported is the ordered list of locales carried by the catalog; the
// first entry doubles as the negotiation fallback.
var Supported = []language.Tag{
	language.English,
	language.Spanish,
	language.Greek,
}

var matcher = language.NewMatcher(Supported)

var catalog = map[string]map[Key]string{
	"en": {
		KeyNewOfferTitle:      "New Quote Received",
		KeyNewOfferBody:       `{{fixer}} sent you a quote of €{{price}} for "{{job}}"`,
		KeyOfferAcceptedTitle: "Quote Accepted",
		KeyOfferAcceptedBody:  `Your quote for "{{job}}" was accepted!`,
		KeyOfferDeclinedTitle: "Quote Declined",
		KeyOfferDeclinedBody:  `Your quote for "{{job}}" was declined`,
		KeyNewMessageTitle:    "New Message",
		KeyNewMessageBody:     `{{sender}} sent you a message about "{{job}}"`,
		KeyJobCompletedTitle:  "Job Completed",
		KeyJobCompletedBody:   `"{{job}}" has been marked as completed!`,
	},
	"es": {
		KeyNewOfferTitle:      "Nuevo presupuesto recibido",
		KeyNewOfferBody:       `{{fixer}} te envió un presupuesto de €{{price}} por "{{job}}"`,
		KeyOfferAcceptedTitle: "Presupuesto aceptado",
		KeyOfferAcceptedBody:  `¡Tu presupuesto para "{{job}}" fue aceptado!`,
		KeyOfferDeclinedTitle: "Presupuesto rechazado",
		KeyOfferDeclinedBody:  `Tu presupuesto para "{{job}}" fue rechazado`,
		KeyNewMessageTitle:    "Mensaje nuevo",
		KeyNewMessageBody:     `{{sender}} te envió un mensaje sobre "{{job}}"`,
		KeyJobCompletedTitle:  "Trabajo completado",
		KeyJobCompletedBody:   `¡"{{job}}" se ha marcado como completado!`,
	},
	"el": {
		KeyNewOfferTitle:      "Νέα προσφορά",
		KeyNewOfferBody:       `Ο/Η {{fixer}} σου έστειλε προσφορά €{{price}} για "{{job}}"`,
		KeyOfferAcceptedTitle: "Η προσφορά έγινε δεκτή",
		KeyOfferAcceptedBody:  `Η προσφορά σου για "{{job}}" έγινε δεκτή!`,
		KeyOfferDeclinedTitle: "Η προσφορά απορρίφθηκε",
		KeyOfferDeclinedBody:  `Η προσφορά σου για "{{job}}" απορρίφθηκε`,
		KeyNewMessageTitle:    "Νέο μήνυμα",
		KeyNewMessageBody:     `Ο/Η {{sender}} σου έστειλε μήνυμα για "{{job}}"`,
		KeyJobCompletedTitle:  "Η εργασία ολοκληρώθηκε",
		KeyJobCompletedBody:   `Η εργασία "{{job}}" ολοκληρώθηκε!`,
	},
}

// Normalize resolves an arbitrary BCP 47 code (e.g. "en-GB", "es-MX") to a
// supported catalog code. It reports false when the code cannot be parsed
// or matches no supported locale closely enough.
func Normalize(code string) (string, bool) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return "", false
	}
	_, idx, conf := matcher.Match(tag)
	if conf < language.High {
		return "", false
	}
	base, _ := Supported[idx].Base()
	return base.String(), true
}

// T renders the message for key in lang, substituting {{name}} parameters.
// Unknown languages fall back to the default locale; keys are a closed set
// verified by tests, so lookup cannot miss.
func T(lang string, key Key, params map[string]string) string {
	msgs, ok := catalog[lang]
	if !ok {
		if norm, match := Normalize(lang); match {
			msgs = catalog[norm]
		} else {
			msgs = catalog[DefaultLanguage]
		}
	}
	out := msgs[key]
	for k, v := range params {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}
