// Package keyboard builds serialized VK keyboard payloads. Builders are pure
// functions of their arguments; which keyboard to show is always the dialog
// engine's decision.
package keyboard

import (
	"encoding/json"
	"time"
)

// Button labels double as the match targets for inbound text, so the dialog
// engine and the builders share them.
const (
	BtnTickets    = "🎟 Купить билет"
	BtnLoad       = "📊 Загруженность"
	BtnInfo       = "ℹ️ Информация"
	BtnHours      = "🕒 Режим работы"
	BtnContacts   = "☎️ Контакты"
	BtnLocation   = "📍 Как добраться"
	BtnBackToMain = "🏠 Главное меню"
	BtnBack       = "⬅️ Назад"
	BtnAdult      = "👤 Взрослые"
	BtnChild      = "🧒 Детские"
	BtnPay        = "💳 Оплатить"

	DatePrefix    = "📅 "
	SessionPrefix = "🕐 "

	DateLayout = "02.01.2006"
)

// VK button colors.
const (
	colorPrimary   = "primary"
	colorSecondary = "secondary"
	colorPositive  = "positive"
	colorNegative  = "negative"
)

type action struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

type button struct {
	Action action `json:"action"`
	Color  string `json:"color"`
}

type layout struct {
	OneTime bool       `json:"one_time"`
	Buttons [][]button `json:"buttons"`
}

func btn(label, color string) button {
	return button{Action: action{Type: "text", Label: label}, Color: color}
}

func serialize(rows [][]button) string {
	b, _ := json.Marshal(layout{OneTime: false, Buttons: rows})
	return string(b)
}

// MainMenu is the idle-state keyboard.
func MainMenu() string {
	return serialize([][]button{
		{btn(BtnTickets, colorPrimary)},
		{btn(BtnLoad, colorSecondary), btn(BtnInfo, colorSecondary)},
	})
}

// InfoMenu lists the static info sections.
func InfoMenu() string {
	return serialize([][]button{
		{btn(BtnHours, colorSecondary)},
		{btn(BtnContacts, colorSecondary), btn(BtnLocation, colorSecondary)},
		{btn(BtnBackToMain, colorNegative)},
	})
}

// BackToInfo is shown under a single info block.
func BackToInfo() string {
	return serialize([][]button{
		{btn(BtnBack, colorSecondary), btn(BtnBackToMain, colorNegative)},
	})
}

// BackToMain is a lone escape hatch.
func BackToMain() string {
	return serialize([][]button{
		{btn(BtnBackToMain, colorNegative)},
	})
}

// TicketDates offers today and the next two days as 📅 dd.MM.yyyy buttons.
func TicketDates(now time.Time) string {
	rows := make([][]button, 0, 4)
	for i := 0; i < 3; i++ {
		label := DatePrefix + now.AddDate(0, 0, i).Format(DateLayout)
		rows = append(rows, []button{btn(label, colorPrimary)})
	}
	rows = append(rows, []button{btn(BtnBackToMain, colorNegative)})
	return serialize(rows)
}

// Sessions renders one button per session time label.
func Sessions(labels []string) string {
	rows := make([][]button, 0, len(labels)+1)
	for _, l := range labels {
		rows = append(rows, []button{btn(SessionPrefix+l, colorPrimary)})
	}
	rows = append(rows, []button{btn(BtnBack, colorSecondary), btn(BtnBackToMain, colorNegative)})
	return serialize(rows)
}

// Categories renders the adult/child choice. A previously selected category
// is recolored; that is a display nuance, not state.
func Categories(selected string) string {
	adultColor, childColor := colorPrimary, colorPrimary
	switch selected {
	case "adult":
		adultColor = colorPositive
	case "child":
		childColor = colorPositive
	}
	return serialize([][]button{
		{btn(BtnAdult, adultColor), btn(BtnChild, childColor)},
		{btn(BtnBack, colorSecondary), btn(BtnBackToMain, colorNegative)},
	})
}

// Payment shows the pay button for the collected order.
func Payment() string {
	return serialize([][]button{
		{btn(BtnPay, colorPositive)},
		{btn(BtnBack, colorSecondary), btn(BtnBackToMain, colorNegative)},
	})
}
