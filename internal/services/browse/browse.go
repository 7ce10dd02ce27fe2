// Package browse фильтрует опубликованные события и отдаёт их порциями:
// первая страница длиннее, последующие "показать ещё" короче.
package browse

import (
	"math"
	"strings"

	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/services/status"
)

// All отключает фильтр по категории или статусу.
const All = "all"

const (
	DefaultPageSize     = 6
	DefaultLoadMoreSize = 5
)

// Query фильтры списка. Пустые поля, как и "all", не ограничивают выборку.
type Query struct {
	Text     string       `json:"q,omitempty"`
	Category string       `json:"category,omitempty"`
	Status   string       `json:"status,omitempty"`
	From     dateops.Date `json:"from"`
	To       dateops.Date `json:"to"`
}

// Sizes задаёт длину первой страницы и последующих порций.
type Sizes struct {
	PageSize     int
	LoadMoreSize int
}

// DefaultSizes 6 событий на первой странице, затем по 5.
var DefaultSizes = Sizes{PageSize: DefaultPageSize, LoadMoreSize: DefaultLoadMoreSize}

// Result порция событий и сведения о выборке целиком.
type Result struct {
	Items   []models.Event `json:"items"`
	Page    int            `json:"page"`
	Total   int            `json:"total"`
	HasMore bool           `json:"has_more"`
}

// Matches проверяет событие по всем фильтрам запроса. Статус берётся из e.Status.
func (q Query) Matches(e models.Event) bool {
	if !e.Visible() {
		return false
	}
	if text := strings.ToLower(strings.TrimSpace(q.Text)); text != "" {
		haystack := e.Name + " " + e.Description + " " + strings.Join(e.Tags, " ")
		if !strings.Contains(strings.ToLower(haystack), text) {
			return false
		}
	}
	if active(q.Category) && !e.HasTag(q.Category) {
		return false
	}
	if active(q.Status) && string(e.Status) != q.Status {
		return false
	}
	if !q.From.IsZero() && e.StartDate.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && e.EndDate.After(q.To) {
		return false
	}
	return true
}

func active(filter string) bool {
	return filter != "" && filter != All
}

// Apply возвращает опубликованные события, подходящие под запрос, в исходном порядке.
func Apply(events []models.Event, q Query) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if q.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Window возвращает смещение и длину страницы page (нумерация с 1).
// Смещение, не помещающееся в int, насыщается до math.MaxInt.
func (s Sizes) Window(page int) (offset, limit int) {
	if page <= 1 {
		return 0, s.PageSize
	}
	if s.LoadMoreSize > 0 && page-2 > (math.MaxInt-s.PageSize)/s.LoadMoreSize {
		return math.MaxInt, s.LoadMoreSize
	}
	return s.PageSize + (page-2)*s.LoadMoreSize, s.LoadMoreSize
}

// Page вырезает страницу page из уже отфильтрованного списка.
func (s Sizes) Page(items []models.Event, page int) Result {
	if page < 1 {
		page = 1
	}
	offset, limit := s.Window(page)

	res := Result{Items: []models.Event{}, Page: page, Total: len(items)}
	if offset < 0 || offset >= len(items) {
		return res
	}
	end := offset + limit
	if end > len(items) || end < offset {
		end = len(items)
	}
	res.Items = items[offset:end]
	res.HasMore = end < len(items)
	return res
}

// Browse пересчитывает статусы на today, фильтрует и отдаёт страницу.
func Browse(events []models.Event, q Query, page int, sizes Sizes, today dateops.Date) Result {
	return sizes.Page(Apply(status.Apply(events, today), q), page)
}

// Cursor хранит состояние ленты между запросами "показать ещё".
type Cursor struct {
	Query Query `json:"query"`
	Page  int   `json:"page"`
}

// NewCursor начинает ленту с первой страницы.
func NewCursor(q Query) Cursor {
	return Cursor{Query: q, Page: 1}
}

// WithQuery сбрасывает ленту на первую страницу, если изменился хотя бы один фильтр.
func (c Cursor) WithQuery(q Query) Cursor {
	if c.Query == q && c.Page >= 1 {
		return c
	}
	return NewCursor(q)
}

// Next переходит к следующей порции.
func (c Cursor) Next() Cursor {
	if c.Page < 1 {
		c.Page = 1
	}
	c.Page++
	return c
}
