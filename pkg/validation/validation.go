// Package validation checks entity inputs at the HTTP boundary before
// they reach the persistence layer. Each function returns field-keyed
// messages; an empty map means the input is acceptable.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"asset-registry-api/internal/model"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail validates an email address shape
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateRequired checks if a string field is not empty
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateProviderInput validates and normalizes a provider before it is
// stored. A missing tax identifier is synthesized rather than rejected.
func ValidateProviderInput(provider *model.Provider) map[string]string {
	errors := make(map[string]string)

	if err := ValidateRequired("name", provider.Name); err != nil {
		errors["name"] = err.Error()
	}
	if provider.ContactEmail != "" {
		if err := ValidateEmail(provider.ContactEmail); err != nil {
			errors["contact_email"] = err.Error()
		}
	}

	provider.EnsureTaxID()

	return errors
}

// ValidatePersonInput validates a person before it is stored.
func ValidatePersonInput(person *model.Person) map[string]string {
	errors := make(map[string]string)

	if err := ValidateRequired("fullname", person.FullName); err != nil {
		errors["fullname"] = err.Error()
	}
	if err := ValidateRequired("document", person.Document); err != nil {
		errors["document"] = err.Error()
	}
	if _, err := model.ParseRole(string(person.Role)); err != nil {
		errors["role"] = err.Error()
	}

	return errors
}

// validateEquipmentFields collects the checks shared by the base and
// specialized equipment kinds.
func validateEquipmentFields(equipment *model.Equipment, errors map[string]string) {
	if err := ValidateRequired("serial", equipment.Serial); err != nil {
		errors["serial"] = err.Error()
	}
	if _, err := model.ParseEquipmentType(string(equipment.Type)); err != nil {
		errors["type"] = err.Error()
	}
	if _, err := model.ParseEquipmentStatus(string(equipment.State)); err != nil {
		errors["state"] = err.Error()
	}
	if equipment.Provider == nil || equipment.Provider.ID == uuid.Nil {
		errors["provider"] = "provider reference with an identifier is required"
	}
}

// ValidateEquipmentInput validates a base equipment entity.
func ValidateEquipmentInput(equipment *model.Equipment) map[string]string {
	errors := make(map[string]string)
	validateEquipmentFields(equipment, errors)
	return errors
}

// ValidateTechEquipmentInput validates a tech equipment entity.
func ValidateTechEquipmentInput(equipment *model.TechEquipment) map[string]string {
	errors := make(map[string]string)
	validateEquipmentFields(&equipment.Equipment, errors)

	if err := ValidateRequired("os", equipment.OS); err != nil {
		errors["os"] = err.Error()
	}
	if equipment.RAMGB <= 0 {
		errors["ram_gb"] = "ram_gb must be a positive number of gibibytes"
	}

	return errors
}

// ValidateBiomedicalEquipmentInput validates a biomedical equipment
// entity. The calibration certificate is an opaque reference and is not
// checked.
func ValidateBiomedicalEquipmentInput(equipment *model.BiomedicalEquipment) map[string]string {
	errors := make(map[string]string)
	validateEquipmentFields(&equipment.Equipment, errors)

	if _, err := model.ParseRiskClass(string(equipment.RiskClass)); err != nil {
		errors["risk_class"] = err.Error()
	}

	return errors
}

// ValidateEntryRequestInput validates an entry request. References must
// already be identified; this layer never cascade-creates them.
func ValidateEntryRequestInput(request *model.EntryRequest) map[string]string {
	errors := make(map[string]string)

	if request.Equipment == nil || request.Equipment.ID == uuid.Nil {
		errors["equipment"] = "equipment reference with an identifier is required"
	}
	if request.Requester == nil || request.Requester.ID == uuid.Nil {
		errors["requester"] = "requester reference with an identifier is required"
	}
	if request.InternalResponsible == nil || request.InternalResponsible.ID == uuid.Nil {
		errors["internal_responsible"] = "internal responsible reference with an identifier is required"
	}
	if err := ValidateRequired("purpose", request.Purpose); err != nil {
		errors["purpose"] = err.Error()
	}
	if _, err := model.ParseRequestStatus(string(request.Status)); err != nil {
		errors["status"] = err.Error()
	}

	return errors
}
