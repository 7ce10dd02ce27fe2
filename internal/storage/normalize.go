package storage

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// Варианты написания полей, встречавшиеся в разных версиях схем.
var (
	idKeys             = []string{ColID, "_id"}
	ownerKeys          = []string{ColOwnerID, "ownerId", "owner_id", "owner"}
	nameKeys           = []string{ColName, "name", "title"}
	descriptionKeys    = []string{ColDescription, "desc"}
	locationKeys       = []string{ColLocation}
	startKeys          = []string{ColStartDate, "startDate", "start_date", "start"}
	endKeys            = []string{ColEndDate, "endDate", "end_date", "end"}
	tagsKeys           = []string{ColTags}
	contactKeys        = []string{ColContactEmail, "contactEmail"}
	renewalKeys        = []string{ColRenewal, "renewalEnabled", "renewal_enabled"}
	publishedKeys      = []string{ColPublished}
	draftKeys          = []string{ColDraft}
	lastPublishedKeys  = []string{ColLastPublishedAt, "lastPublishedAt", "_lastPublishedAt"}
	createdKeys        = []string{ColCreatedAt, "createdAt"}
	subEventKeys       = []string{ColSubEventName, "eventRef", "event_ref"}
	subEmailKeys       = []string{ColSubEmail, "susbscriber_email", "subscriberEmail"}
	subPrincipalKeys   = []string{ColSubPrincipalID, "subscriber_NTID", "subscriber_principal_id", "subscriberPrincipalId", "subscriber"}
	subAutoRenewalKeys = []string{ColSubAutoRenewal, "autoRenewal"}
)

// NormalizeEvent приводит строку любого хранилища к models.Event.
// Отсутствующие поля получают значения по умолчанию; функция никогда не падает.
// Хранимый статус игнорируется: он вычисляется заново.
func NormalizeEvent(r Row) models.Event {
	e := models.Event{
		ID:             toString(pick(r, idKeys...)),
		OwnerID:        toString(pick(r, ownerKeys...)),
		Name:           toString(pick(r, nameKeys...)),
		Description:    toString(pick(r, descriptionKeys...)),
		Location:       toString(pick(r, locationKeys...)),
		StartDate:      toDate(pick(r, startKeys...)),
		EndDate:        toDate(pick(r, endKeys...)),
		Tags:           toTags(pick(r, tagsKeys...)),
		ContactEmail:   toString(pick(r, contactKeys...)),
		RenewalEnabled: toBool(pick(r, renewalKeys...)),
		Published:      toBool(pick(r, publishedKeys...)),
		Draft:          toBool(pick(r, draftKeys...)),
		CreatedAt:      toTime(pick(r, createdKeys...)),
	}
	if t := toTime(pick(r, lastPublishedKeys...)); !t.IsZero() {
		e.LastPublishedAt = &t
	}
	return e
}

// NormalizeSubscription приводит строку подписки к models.Subscription.
func NormalizeSubscription(r Row) models.Subscription {
	return models.Subscription{
		ID:                    toString(pick(r, idKeys...)),
		EventRef:              toString(pick(r, subEventKeys...)),
		SubscriberEmail:       toString(pick(r, subEmailKeys...)),
		SubscriberPrincipalID: toString(pick(r, subPrincipalKeys...)),
		AutoRenewal:           toBool(pick(r, subAutoRenewalKeys...)),
		CreatedAt:             toTime(pick(r, createdKeys...)),
	}
}

// DenormalizeEvent формирует строку только из переданных полей.
// Непереданное поле никогда не превращается в NULL или пустую строку.
func DenormalizeEvent(f models.EventFields) Row {
	row := Row{}
	if f.Name != nil {
		row[ColName] = *f.Name
	}
	if f.Description != nil {
		row[ColDescription] = *f.Description
	}
	if f.Location != nil {
		row[ColLocation] = *f.Location
	}
	if f.StartDate != nil {
		row[ColStartDate] = dateValue(*f.StartDate)
	}
	if f.EndDate != nil {
		row[ColEndDate] = dateValue(*f.EndDate)
	}
	if f.Tags != nil {
		row[ColTags] = JoinTags(*f.Tags)
	}
	if f.ContactEmail != nil {
		row[ColContactEmail] = *f.ContactEmail
	}
	if f.RenewalEnabled != nil {
		row[ColRenewal] = *f.RenewalEnabled
	}
	if f.Published != nil {
		row[ColPublished] = *f.Published
	}
	if f.Draft != nil {
		row[ColDraft] = *f.Draft
	}
	if f.LastPublishedAt != nil {
		row[ColLastPublishedAt] = f.LastPublishedAt.UTC()
	}
	return row
}

// DenormalizeNewEvent формирует полную строку для вставки.
func DenormalizeNewEvent(e models.Event) Row {
	row := Row{
		ColOwnerID:      e.OwnerID,
		ColName:         e.Name,
		ColDescription:  e.Description,
		ColLocation:     e.Location,
		ColStartDate:    dateValue(e.StartDate),
		ColEndDate:      dateValue(e.EndDate),
		ColTags:         JoinTags(e.Tags),
		ColContactEmail: e.ContactEmail,
		ColRenewal:      e.RenewalEnabled,
		ColPublished:    e.Published,
		ColDraft:        e.Draft,
		ColCreatedAt:    e.CreatedAt.UTC(),
	}
	if e.ID != "" {
		row[ColID] = e.ID
	}
	if e.LastPublishedAt != nil {
		row[ColLastPublishedAt] = e.LastPublishedAt.UTC()
	} else {
		row[ColLastPublishedAt] = nil
	}
	return row
}

// SortedKeys возвращает ключи строки в стабильном порядке (для построения SQL).
func (r Row) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// JoinTags сериализует метки в CSV, как их хранит удалённая схема.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// SplitTags разбирает CSV меток, отбрасывая пустые элементы.
func SplitTags(csv string) []string {
	out := []string{}
	for _, part := range strings.Split(csv, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func dateValue(d dateops.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func pick(r Row, keys ...string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int:
		return b != 0
	case int64:
		return b != 0
	case float64:
		return b != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "t", "1", "yes", "on":
			return true
		}
	case []byte:
		return toBool(string(b))
	}
	return false
}

func toDate(v any) dateops.Date {
	var d dateops.Date
	if v == nil {
		return d
	}
	if err := d.Scan(v); err != nil {
		return dateops.Date{}
	}
	return d
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	dateops.Layout,
}

func toTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	case []byte:
		return toTime(string(t))
	}
	return time.Time{}
}

func toTags(v any) []string {
	switch t := v.(type) {
	case string:
		return SplitTags(t)
	case []byte:
		return SplitTags(string(t))
	case []string:
		return SplitTags(strings.Join(t, ","))
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, toString(p))
		}
		return SplitTags(strings.Join(parts, ","))
	}
	return []string{}
}
