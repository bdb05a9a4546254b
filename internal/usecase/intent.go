package usecase

import (
	"regexp"
	"strings"

	kb "vk-ticket-bot/internal/infra/vk/keyboard"
)

// Intent tags what the inbound text matched, decoupled from what to do
// about it. Classification is a prioritized rule table evaluated
// top-to-bottom; the first predicate that fires wins.
type Intent int

const (
	IntentNone Intent = iota
	IntentMenu        // return to main menu, escape hatch from every state
	IntentBack        // one step back
	IntentPay
	IntentDateButton
	IntentSessionButton
	IntentAdult
	IntentChild
	IntentTickets
	IntentLoad
	IntentHours
	IntentContacts
	IntentLocation
	IntentInfo
)

var dateRe = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)

type intentRule struct {
	match  func(string) bool
	intent Intent
}

// Matching is case-insensitive containment over normalized text; emoji
// prefixes from our own keyboards count as triggers too.
var intentRules = []intentRule{
	{containsAny("главное меню", "начать", "/start", "старт"), IntentMenu},
	{equalsAny("меню", "start"), IntentMenu},
	{containsAny("⬅", "назад"), IntentBack},
	{containsAny("💳", "оплат"), IntentPay},
	{func(s string) bool { return dateRe.MatchString(s) }, IntentDateButton},
	{containsAny("🕐"), IntentSessionButton},
	{containsAny("👤", "взрос"), IntentAdult},
	{containsAny("🧒", "детск"), IntentChild},
	{containsAny("🎟", "билет"), IntentTickets},
	{containsAny("📊", "загруж"), IntentLoad},
	{containsAny("🕒", "режим", "часы работы"), IntentHours},
	{containsAny("☎", "контакт"), IntentContacts},
	{containsAny("📍", "добраться", "адрес"), IntentLocation},
	{containsAny("ℹ", "инфо"), IntentInfo},
}

func classifyIntent(text string) Intent {
	norm := normalize(text)
	if norm == "" {
		return IntentNone
	}
	for _, r := range intentRules {
		if r.match(norm) {
			return r.intent
		}
	}
	return IntentNone
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

func equalsAny(values ...string) func(string) bool {
	return func(s string) bool {
		for _, v := range values {
			if s == v {
				return true
			}
		}
		return false
	}
}

// extractDate pulls the dd.MM.yyyy part out of a date-button label.
func extractDate(text string) string {
	return dateRe.FindString(text)
}

// extractSession strips the clock emoji prefix from a session-button label.
func extractSession(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, strings.TrimSpace(kb.SessionPrefix))
	return strings.TrimSpace(s)
}
