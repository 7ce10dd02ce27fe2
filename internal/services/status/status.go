// Package status вычисляет статус события по датам начала и окончания.
//
// Это чистая функция без побочных эффектов: результат зависит от "сегодня"
// и поэтому пересчитывается при каждом чтении, а не хранится.
package status

import (
	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// Compute возвращает expired, ongoing или upcoming. Правила проверяются строго по порядку.
// Нулевая дата означает, что дата не задана.
func Compute(start, end, today dateops.Date) models.Status {
	hasStart, hasEnd := !start.IsZero(), !end.IsZero()

	if hasEnd && end.Before(today) {
		return models.StatusExpired
	}
	// Окончание включительно: событие идёт до конца дня end.
	if hasStart && hasEnd && !start.After(today) && !today.After(end) {
		return models.StatusOngoing
	}
	if hasStart && !start.After(today) && (!hasEnd || !end.Before(today)) {
		return models.StatusOngoing
	}
	return models.StatusUpcoming
}

// Of вычисляет статус одного события.
func Of(e models.Event, today dateops.Date) models.Status {
	return Compute(e.StartDate, e.EndDate, today)
}

// Apply возвращает копию списка с пересчитанным Status.
func Apply(events []models.Event, today dateops.Date) []models.Event {
	out := make([]models.Event, len(events))
	for i, e := range events {
		e.Status = Of(e, today)
		out[i] = e
	}
	return out
}
