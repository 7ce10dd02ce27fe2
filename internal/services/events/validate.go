package events

import (
	"strings"

	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// draft проверенные и приведённые к типам поля формы.
type draft struct {
	name         string
	description  string
	location     string
	contactEmail string
	start        dateops.Date
	end          dateops.Date
	tags         []string
	renewal      bool
}

// Validate проверяет форму события и возвращает первую найденную ошибку.
// Обязательные поля проверяются в порядке формы, затем email и даты.
func Validate(in models.EventInput) error {
	_, err := validate(in)
	return err
}

func validate(in models.EventInput) (draft, error) {
	d := draft{
		name:         strings.TrimSpace(in.Name),
		description:  strings.TrimSpace(in.Description),
		location:     strings.TrimSpace(in.Location),
		contactEmail: strings.TrimSpace(in.ContactEmail),
		tags:         cleanTags(in.Tags),
		renewal:      in.RenewalEnabled,
	}
	startRaw := strings.TrimSpace(in.StartDate)
	endRaw := strings.TrimSpace(in.EndDate)

	required := []struct {
		field, label, value string
	}{
		{"name", "Event name", d.name},
		{"description", "Description", d.description},
		{"start_date", "Start date", startRaw},
		{"end_date", "End date", endRaw},
		{"location", "Location", d.location},
		{"contact_email", "Contact email", d.contactEmail},
	}
	for _, r := range required {
		if r.value == "" {
			return draft{}, models.NewValidationError(r.field, r.label+" is required")
		}
	}

	if !models.ValidEmail(d.contactEmail) {
		return draft{}, models.NewValidationError("contact_email", "Enter a valid contact email")
	}

	var err error
	if d.start, err = dateops.Parse(startRaw); err != nil {
		return draft{}, models.NewValidationError("start_date", "Start date must be YYYY-MM-DD")
	}
	if d.end, err = dateops.Parse(endRaw); err != nil {
		return draft{}, models.NewValidationError("end_date", "End date must be YYYY-MM-DD")
	}
	if d.start.After(d.end) {
		return draft{}, models.NewValidationError("start_date", "Start date cannot be after end date")
	}
	if err := checkTags(d.tags); err != nil {
		return draft{}, err
	}
	return d, nil
}

// validateFields проверяет частичное обновление на фоне текущей записи.
func validateFields(current models.Event, fields models.EventFields) error {
	if fields.Name != nil && strings.TrimSpace(*fields.Name) == "" {
		return models.NewValidationError("name", "Event name is required")
	}
	if fields.ContactEmail != nil && !models.ValidEmail(strings.TrimSpace(*fields.ContactEmail)) {
		return models.NewValidationError("contact_email", "Enter a valid contact email")
	}
	if fields.Tags != nil {
		if err := checkTags(*fields.Tags); err != nil {
			return err
		}
	}
	merged := fields.Apply(current)
	if !merged.StartDate.IsZero() && !merged.EndDate.IsZero() && merged.StartDate.After(merged.EndDate) {
		return models.NewValidationError("start_date", "Start date cannot be after end date")
	}
	return nil
}

// cleanTags обрезает пробелы и выбрасывает пустые метки, сохраняя порядок.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// checkTags запрещает запятую внутри метки: хранилища держат метки одной строкой через запятую.
func checkTags(tags []string) error {
	for _, t := range tags {
		if strings.Contains(t, ",") {
			return models.NewValidationError("tags", "Tags cannot contain commas")
		}
	}
	return nil
}

// fields превращает проверенную форму в полный набор полей для UpdateEvent.
func (d draft) fields() models.EventFields {
	return models.EventFields{
		Name:           &d.name,
		Description:    &d.description,
		Location:       &d.location,
		StartDate:      &d.start,
		EndDate:        &d.end,
		Tags:           &d.tags,
		ContactEmail:   &d.contactEmail,
		RenewalEnabled: &d.renewal,
	}
}

func (d draft) event(ownerID string) models.Event {
	return models.Event{
		OwnerID:        ownerID,
		Name:           d.name,
		Description:    d.description,
		Location:       d.location,
		StartDate:      d.start,
		EndDate:        d.end,
		Tags:           d.tags,
		ContactEmail:   d.contactEmail,
		RenewalEnabled: d.renewal,
	}
}
