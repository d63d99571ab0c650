// Package normalize maps an extracted lead onto HubSpot contact properties.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"voice2crm-service/internal/models"
	"voice2crm-service/internal/observability/logging"
	"voice2crm-service/internal/observability/metrics"
)

// FallbackPhone is the placeholder used when no valid phone was extracted.
const FallbackPhone = "+33601020304"

// MissingFieldError reports a contact missing a property HubSpot requires.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// Normalize converts a Lead into HubSpot contact properties.
//
// Missing email and phone are synthesized so partial extractions still
// produce a contact HubSpot accepts; a missing lastname cannot be papered
// over and fails with *MissingFieldError.
func Normalize(lead models.Lead) (map[string]string, error) {
	m := metrics.DefaultMetrics
	props := map[string]string{}

	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			props[key] = value
		}
	}
	set("firstname", lead.FirstName)
	set("lastname", lead.LastName)
	set("jobtitle", lead.JobTitle)
	set("company", lead.Company)
	set("email", lead.Email)

	if phone := strings.TrimSpace(lead.Phone); phone != "" {
		if phoneValid(phone) {
			props["phone"] = phone
		} else {
			lg := logging.WithComponent("normalizer")
			lg.Warn().
				Str("phone", phone).
				Msg("Dropping invalid phone value")
			m.PhonesDropped.Inc()
		}
	}

	if _, ok := props["email"]; !ok {
		props["email"] = synthesizeEmail(props["firstname"], props["lastname"])
		m.EmailsSynthesized.Inc()
	}

	if _, ok := props["phone"]; !ok {
		props["phone"] = FallbackPhone
		m.PhonesSynthesized.Inc()
	}

	if _, ok := props["lastname"]; !ok {
		m.RecordLeadRejected("missing_lastname")
		return nil, &MissingFieldError{Field: "lastname"}
	}

	m.RecordLeadNormalized()
	return props, nil
}

// phoneValid accepts only digits, spaces, hyphens, plus signs and
// parentheses.
func phoneValid(phone string) bool {
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
		case r == ' ' || r == '-' || r == '+' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return true
}

// synthesizeEmail builds a unique placeholder address from whatever name
// parts exist. The unix timestamp keeps addresses unique per submission
// instant.
func synthesizeEmail(firstname, lastname string) string {
	if firstname == "" {
		firstname = "contact"
	}
	if lastname == "" {
		lastname = "inconnu"
	}
	return fmt.Sprintf("%s.%s+%d@gmail.com",
		strings.ToLower(firstname), strings.ToLower(lastname), time.Now().Unix())
}
