// File: internal/usecase/intent_test.go
package usecase

import (
	"testing"

	kb "vk-ticket-bot/internal/infra/vk/keyboard"
)

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Intent
	}{
		{"empty", "", IntentNone},
		{"whitespace only", "   ", IntentNone},
		{"free text", "когда у вас обед?", IntentNone},

		{"menu button", kb.BtnBackToMain, IntentMenu},
		{"menu word exact", "меню", IntentMenu},
		{"start command", "/start", IntentMenu},
		{"start word exact", "Start", IntentMenu},
		{"menu word inside text stays unmatched", "покажи меню заведения", IntentNone},

		{"back button", kb.BtnBack, IntentBack},
		{"back word", "НАЗАД", IntentBack},

		{"pay button", kb.BtnPay, IntentPay},
		{"pay word", "как оплатить?", IntentPay},

		{"date button", kb.DatePrefix + "05.09.2026", IntentDateButton},
		{"bare date", "05.09.2026", IntentDateButton},

		{"session button", kb.SessionPrefix + "10:00", IntentSessionButton},

		{"adult button", kb.BtnAdult, IntentAdult},
		{"adult word", "взрослый", IntentAdult},
		{"child button", kb.BtnChild, IntentChild},
		{"child word", "детский", IntentChild},

		{"tickets button", kb.BtnTickets, IntentTickets},
		{"tickets word", "хочу купить билет", IntentTickets},

		{"load button", kb.BtnLoad, IntentLoad},
		{"load word", "какая загруженность?", IntentLoad},

		{"hours button", kb.BtnHours, IntentHours},
		{"hours phrase", "какие часы работы?", IntentHours},

		{"contacts button", kb.BtnContacts, IntentContacts},
		{"location button", kb.BtnLocation, IntentLocation},
		{"location word", "как до вас добраться", IntentLocation},

		{"info button", kb.BtnInfo, IntentInfo},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyIntent(tc.text); got != tc.want {
				t.Errorf("classifyIntent(%q) = %d, want %d", tc.text, got, tc.want)
			}
		})
	}
}

// Rule order matters: earlier rules must win over later ones when a text
// matches both.
func TestClassifyIntentPriority(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Intent
	}{
		{"back outranks tickets", "назад к билетам", IntentBack},
		{"pay outranks tickets", "оплатить билет", IntentPay},
		{"adult outranks tickets", "взрослый билет", IntentAdult},
		{"menu outranks everything", "начать покупку билета", IntentMenu},
		{"date outranks session time text", "📅 05.09.2026 в 10:00", IntentDateButton},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyIntent(tc.text); got != tc.want {
				t.Errorf("classifyIntent(%q) = %d, want %d", tc.text, got, tc.want)
			}
		})
	}
}

func TestExtractDate(t *testing.T) {
	if got := extractDate(kb.DatePrefix + "07.09.2026"); got != "07.09.2026" {
		t.Errorf("extractDate = %q, want 07.09.2026", got)
	}
	if got := extractDate("никакой даты"); got != "" {
		t.Errorf("extractDate = %q, want empty", got)
	}
}

func TestExtractSession(t *testing.T) {
	if got := extractSession(kb.SessionPrefix + "14:30"); got != "14:30" {
		t.Errorf("extractSession = %q, want 14:30", got)
	}
	if got := extractSession("  🕐 9:00  "); got != "9:00" {
		t.Errorf("extractSession = %q, want 9:00", got)
	}
}
