package usecase

// User-facing texts. Kept in one place so the dialog handlers read as
// control flow, not copywriting.
const (
	// MsgTechError is the catch-all reply; the dispatcher sends it when the
	// pipeline fails in a way no handler classified.
	MsgTechError = "Произошла техническая ошибка 😔 Попробуйте ещё раз чуть позже."

	msgMainMenu = "Вы в главном меню 🏠 Выберите, что вас интересует 👇"
	msgUnknown  = "Я вас не понял 🙈 Воспользуйтесь кнопками ниже 👇"

	msgInfoMenu = "Что именно вас интересует? ℹ️"
	msgHours    = "🕒 Режим работы:\nежедневно с 9:00 до 22:00.\nКассы закрываются за час до конца последнего сеанса."
	msgContacts = "☎️ Контакты:\nтелефон: +7 (800) 555-35-35\nпочта: info@aqua.example"
	msgLocation = "📍 Как добраться:\nул. Набережная, 1. От метро «Речной вокзал» автобусы 123 и 456 до остановки «Аквапарк»."

	msgLoad       = "Сейчас в комплексе %d чел., загруженность %d%% 📊"
	msgLoadFailed = "Не получилось узнать загруженность 😔 Попробуйте чуть позже."

	msgChooseDate      = "Выберите дату посещения 📅"
	msgChooseDateAgain = "Пожалуйста, выберите дату кнопкой на клавиатуре 📅"
	msgNoSessions      = "На эту дату свободных сеансов нет 😔 Выберите другую дату."
	msgSessionsFailed  = "Не получилось загрузить сеансы 😔 Попробуйте выбрать дату ещё раз."

	msgChooseSessionAgain = "Пожалуйста, выберите сеанс кнопкой на клавиатуре 🕐"

	msgChooseCategoryAgain = "Пожалуйста, выберите категорию кнопкой на клавиатуре 👇"
	msgNoTariffs           = "В этой категории билетов на выбранную дату нет 😔 Попробуйте другую категорию."
	msgTariffsFailed       = "Не получилось загрузить тарифы 😔 Попробуйте выбрать категорию ещё раз."

	msgChoosePayAgain = "Для оплаты нажмите кнопку 💳 на клавиатуре."
)
