// Package ics выгружает опубликованные события в формате iCalendar.
package ics

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// ProductID PRODID календаря.
const ProductID = "-//event-notifier//events//EN"

// Calendar строит календарь из видимых событий. События без даты начала пропускаются.
// Все события целодневные, DTEND не включается в событие (конец + 1 день).
func Calendar(events []models.Event, name string, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, e := range events {
		if !e.Visible() || e.StartDate.IsZero() {
			continue
		}
		end := e.EndDate
		if end.IsZero() {
			end = e.StartDate
		}

		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(now.UTC())
		ve.SetAllDayStartAt(e.StartDate.Time())
		ve.SetAllDayEndAt(end.AddDays(1).Time())
		ve.SetSummary(e.Name)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if len(e.Tags) > 0 {
			ve.AddProperty(ical.ComponentPropertyCategories, strings.Join(e.Tags, ","))
		}
		if e.ContactEmail != "" {
			ve.SetOrganizer("mailto:" + e.ContactEmail)
		}
	}

	return cal.Serialize()
}
