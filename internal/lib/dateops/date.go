// Package dateops содержит календарную дату без времени и часового пояса,
// а также операции над ней: "сегодня", "дней до даты", строгий разбор YYYY-MM-DD.
//
// Все вычисления статусов и окон продления выполняются только над Date,
// часовой пояс применяется один раз, при получении "сегодня" из Clock.
package dateops

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Layout единственный допустимый формат календарной даты.
const Layout = "2006-01-02"

// Date календарная дата (год, месяц, день). Нулевое значение означает "дата не задана".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New нормализует переданные компоненты (32 января -> 1 февраля).
func New(year int, month time.Month, day int) Date {
	return Of(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Of берёт календарную дату из t в его собственном часовом поясе.
func Of(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Parse разбирает строку строго в формате YYYY-MM-DD.
func Parse(s string) (Date, error) {
	const op = "dateops.Parse"
	if len(s) != len(Layout) {
		return Date{}, fmt.Errorf("%s: %q is not in YYYY-MM-DD format", op, s)
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%s: %w", op, err)
	}
	return Of(t), nil
}

// MustParse как Parse, но паникует. Только для тестов и констант.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero сообщает, что дата не задана.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time возвращает полночь даты в UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// In возвращает полночь даты в заданном поясе.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays сдвигает дату на n дней.
func (d Date) AddDays(n int) Date {
	return Of(d.Time().AddDate(0, 0, n))
}

// Compare возвращает -1, 0 или +1.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmp(d.Year, other.Year)
	case d.Month != other.Month:
		return cmp(int(d.Month), int(other.Month))
	default:
		return cmp(d.Day, other.Day)
	}
}

func cmp(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Before сообщает, что d строго раньше other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After сообщает, что d строго позже other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// String возвращает YYYY-MM-DD или пустую строку для незаданной даты.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(Layout)
}

// MarshalJSON кодирует дату строкой, незаданную: как null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON принимает строку YYYY-MM-DD, пустую строку или null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value реализует driver.Valuer: дата уходит в базу строкой, незаданная: NULL.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan реализует sql.Scanner для колонок DATE и TEXT.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = Of(v)
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("dateops.Scan: unsupported type %T", src)
	}
	return nil
}

func (d *Date) scanString(s string) error {
	if s == "" {
		*d = Date{}
		return nil
	}
	if len(s) > len(Layout) {
		s = s[:len(Layout)]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
