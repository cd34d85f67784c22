package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"alcyxob/training-app/internal/domain"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{2,255}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const (
	passwordMinLen = 10
	passwordMaxLen = 256
	nameMaxLen     = 256
	emailMaxLen    = 254
)

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return invalid("username must start with a letter and contain 3-256 letters, digits, '_' or '-'")
	}
	return nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < passwordMinLen {
		return invalid("the password must be at least %d characters", passwordMinLen)
	}
	if n > passwordMaxLen {
		return invalid("the password cannot be longer than %d characters", passwordMaxLen)
	}
	return nil
}

func validateName(field, value string) error {
	n := utf8.RuneCountInString(value)
	if n < 1 || n > nameMaxLen {
		return invalid("%s must be 1-%d characters", field, nameMaxLen)
	}
	return nil
}

func validateEmail(email string) error {
	if utf8.RuneCountInString(email) > emailMaxLen || !emailPattern.MatchString(email) {
		return invalid("please provide a valid email address")
	}
	return nil
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

func validateSteps(steps []string) error {
	if len(steps) == 0 {
		return invalid("steps must contain at least one step")
	}
	for i, s := range steps {
		if strings.TrimSpace(s) == "" {
			return invalid("step %d is empty", i+1)
		}
	}
	return nil
}

func validateRepetitions(field string, n int) error {
	if n < 0 {
		return invalid("%s cannot be negative", field)
	}
	return nil
}

func validateRepetitionMethod(m domain.RepetitionMethod) error {
	if m.Number < 0 {
		return invalid("repetitionMethod.number cannot be negative")
	}
	return nil
}
