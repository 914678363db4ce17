// Package accounts parses the email:password account list pasted by the operator.
package accounts

import (
	"strings"

	"botfarm/internal/tasks"
	"botfarm/pkg/models"
)

// Parse reads one account per line as "email:password", splitting on the
// first colon. Lines without both parts or without an @ in the email are
// skipped. Device ids follow the position among accepted accounts.
func Parse(text string) []models.Account {
	accounts := []models.Account{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		email, password, _ := strings.Cut(line, ":")
		email = strings.TrimSpace(email)
		password = strings.TrimSpace(password)
		if email == "" || password == "" || !strings.Contains(email, "@") {
			continue
		}

		accounts = append(accounts, models.Account{
			Email:    email,
			Password: password,
			DeviceID: tasks.DeviceID(len(accounts)),
		})
	}

	return accounts
}

// Sample is the example account list shown to new operators.
const Sample = "example1@gmail.com:password1\nexample2@gmail.com:password2\nexample3@gmail.com:password3"
