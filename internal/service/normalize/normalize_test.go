package normalize

import (
	"errors"
	"regexp"
	"testing"

	"voice2crm-service/internal/models"
)

func TestNormalize_FullLead(t *testing.T) {
	lead := models.Lead{
		FirstName: "  Sophie ",
		LastName:  "Martin",
		JobTitle:  "CMO",
		Company:   "Acme",
		Email:     "sophie.martin@acme.fr",
		Phone:     "+33 6 01 02 03 04",
	}

	props, err := Normalize(lead)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	want := map[string]string{
		"firstname": "Sophie",
		"lastname":  "Martin",
		"jobtitle":  "CMO",
		"company":   "Acme",
		"email":     "sophie.martin@acme.fr",
		"phone":     "+33 6 01 02 03 04",
	}
	for k, v := range want {
		if props[k] != v {
			t.Errorf("property %s: expected %q, got %q", k, v, props[k])
		}
	}
}

func TestNormalize_SynthesizesEmailAndPhone(t *testing.T) {
	props, err := Normalize(models.Lead{LastName: "Martin"})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if props["lastname"] != "Martin" {
		t.Errorf("expected lastname Martin, got %q", props["lastname"])
	}

	emailPattern := regexp.MustCompile(`^contact\.martin\+\d+@gmail\.com$`)
	if !emailPattern.MatchString(props["email"]) {
		t.Errorf("synthesized email %q does not match expected pattern", props["email"])
	}

	if props["phone"] != FallbackPhone {
		t.Errorf("expected fallback phone %q, got %q", FallbackPhone, props["phone"])
	}
}

func TestNormalize_SynthesizedEmailUsesFirstname(t *testing.T) {
	props, err := Normalize(models.Lead{FirstName: "Paul", LastName: "Durand"})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	emailPattern := regexp.MustCompile(`^paul\.durand\+\d+@gmail\.com$`)
	if !emailPattern.MatchString(props["email"]) {
		t.Errorf("synthesized email %q does not match expected pattern", props["email"])
	}
}

func TestNormalize_MissingLastname(t *testing.T) {
	_, err := Normalize(models.Lead{})
	if err == nil {
		t.Fatal("expected error for missing lastname")
	}

	var merr *MissingFieldError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *MissingFieldError, got %T", err)
	}
	if merr.Field != "lastname" {
		t.Errorf("expected field 'lastname', got %s", merr.Field)
	}
}

func TestNormalize_WhitespaceLastnameRejected(t *testing.T) {
	_, err := Normalize(models.Lead{LastName: "   "})

	var merr *MissingFieldError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *MissingFieldError for blank lastname, got %v", err)
	}
}

func TestNormalize_InvalidPhoneDropped(t *testing.T) {
	props, err := Normalize(models.Lead{LastName: "Martin", Phone: "call me maybe"})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if props["phone"] != FallbackPhone {
		t.Errorf("expected invalid phone to be dropped and replaced with fallback, got %q", props["phone"])
	}
}

func TestPhoneValid(t *testing.T) {
	tests := []struct {
		phone    string
		expected bool
	}{
		{"+33 6 01 02 03 04", true},
		{"0601020304", true},
		{"(06) 01-02-03-04", true},
		{"call me maybe", false},
		{"06.01.02.03.04", false},
		{"+33x601020304", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			if got := phoneValid(tt.phone); got != tt.expected {
				t.Errorf("phoneValid(%q) = %v, want %v", tt.phone, got, tt.expected)
			}
		})
	}
}
