package dateops

import (
	"math"
	"time"
)

// Clock отдаёт текущий момент. Подменяется в тестах.
type Clock interface {
	Now() time.Time
}

// SystemClock реальные часы в едином для приложения часовом поясе.
type SystemClock struct {
	Location *time.Location
}

// Now возвращает текущее время в поясе Location (или Local, если он не задан).
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock всегда возвращает один и тот же момент.
type FixedClock struct {
	At time.Time
}

// Now возвращает зафиксированный момент.
func (c FixedClock) Now() time.Time {
	return c.At
}

// Today возвращает текущую календарную дату по часам clock.
func Today(clock Clock) Date {
	return Of(clock.Now())
}

// DaysUntil количество дней от today до d: ceil((d - today) / 1 день).
// Для прошедших дат результат отрицательный.
func DaysUntil(d, today Date) int {
	diff := d.Time().Sub(today.Time())
	return int(math.Ceil(diff.Hours() / 24))
}
