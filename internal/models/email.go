package models

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail проверяет форму local@domain.tld.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// EmailKey ключ сравнения адресов: регистр не учитывается, включая не-ASCII буквы.
func EmailKey(email string) string {
	return strings.ToLower(email)
}
