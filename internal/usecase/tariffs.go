package usecase

import (
	"fmt"
	"sort"
	"strings"

	"vk-ticket-bot/internal/domain/model"
)

// filterTariffs turns the venue's raw rate list into the offers shown for
// one category: duplicates removed, foreign-category and ambiguous entries
// excluded, names normalized for display, most expensive first.
func filterTariffs(raw []model.Tariff, category model.TariffCategory) []model.Tariff {
	// Exact duplicates first: same name (case-insensitive) at the same price.
	seen := make(map[string]struct{}, len(raw))
	deduped := make([]model.Tariff, 0, len(raw))
	for _, t := range raw {
		key := fmt.Sprintf("%s|%d", strings.ToLower(t.Name), t.Price)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, t)
	}

	// Keep only entries that clearly belong to the requested category.
	// Matching both markers or neither means the entry is unclassifiable.
	filtered := deduped[:0]
	for _, t := range deduped {
		lower := strings.ToLower(t.Name)
		isAdult := strings.Contains(lower, "взрос") || strings.Contains(lower, "adult")
		isChild := strings.Contains(lower, "детск") || strings.Contains(lower, "child") ||
			strings.Contains(lower, "kids")
		if isAdult == isChild {
			continue
		}
		if (category == model.TariffAdult) != isAdult {
			continue
		}
		filtered = append(filtered, t)
	}

	// Cosmetic dedup: entries that collapse to the same display name keep
	// only their first occurrence.
	byDisplay := make(map[string]struct{}, len(filtered))
	out := make([]model.Tariff, 0, len(filtered))
	for _, t := range filtered {
		name := displayName(t.Name)
		if _, ok := byDisplay[name]; ok {
			continue
		}
		byDisplay[name] = struct{}{}
		out = append(out, model.Tariff{Name: name, Price: t.Price})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	return out
}

// displayName strips filler words and normalizes casing quirks so
// "Взрослый билет VIP" and "взрослый Vip билет" render the same.
func displayName(name string) string {
	fields := strings.Fields(name)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		lower := strings.ToLower(f)
		if strings.HasPrefix(lower, "билет") {
			continue
		}
		if lower == "vip" {
			f = "VIP"
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// priceEmoji marks the price tier of an offer.
func priceEmoji(price int) string {
	switch {
	case price > 2000:
		return "💎"
	case price > 1000:
		return "🎫"
	default:
		return "🎟"
	}
}

// renderTariffs formats the offer list for the payment step.
func renderTariffs(tariffs []model.Tariff) string {
	var sb strings.Builder
	for _, t := range tariffs {
		sb.WriteString(fmt.Sprintf("%s %s — %d ₽\n", priceEmoji(t.Price), t.Name, t.Price))
	}
	return strings.TrimRight(sb.String(), "\n")
}
