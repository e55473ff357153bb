package auth

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

type identifierOption struct {
	column string
	value  string
}

// resolveUserIdentifier classifies a free-form login identifier into the
// columns it could match, in probe order: phone first when the value parses
// as a number, then email, then username as the catch-all.
func resolveUserIdentifier(identifier string) []identifierOption {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil
	}

	options := make([]identifierOption, 0, 4)

	if isUUID(trimmed) {
		options = append(options, identifierOption{
			column: "id",
			value:  trimmed,
		})
	}

	if phone, ok := normalizePhone(trimmed); ok {
		options = append(options, identifierOption{
			column: "phone_number",
			value:  phone,
		})
	}

	if isEmail(trimmed) {
		options = append(options, identifierOption{
			column: "email",
			value:  trimmed,
		})
	}

	options = append(options, identifierOption{
		column: "username",
		value:  trimmed,
	})

	return options
}

func isEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isUUID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}

// normalizePhone parses the value as a phone number and returns its E.164
// form. Numbers without a country code are resolved against the US region,
// matching how accounts are provisioned.
func normalizePhone(value string) (string, bool) {
	num, err := phonenumbers.Parse(value, "US")
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}
