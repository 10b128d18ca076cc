package model

import (
	"fmt"

	"github.com/google/uuid"
)

// EquipmentType classifies what kind of asset a piece of equipment is.
type EquipmentType string

const (
	TypeComputing      EquipmentType = "COMPUTING"
	TypeMedical        EquipmentType = "MEDICAL"
	TypeLaboratory     EquipmentType = "LABORATORY"
	TypeOffice         EquipmentType = "OFFICE"
	TypeInfrastructure EquipmentType = "INFRASTRUCTURE"
	TypeOther          EquipmentType = "OTHER"
)

// ParseEquipmentType converts the stored text form into an EquipmentType.
func ParseEquipmentType(s string) (EquipmentType, error) {
	switch t := EquipmentType(s); t {
	case TypeComputing, TypeMedical, TypeLaboratory, TypeOffice, TypeInfrastructure, TypeOther:
		return t, nil
	}
	return "", fmt.Errorf("unknown equipment type: %q", s)
}

// EquipmentStatus is the lifecycle state of a piece of equipment.
type EquipmentStatus string

const (
	StatusNew               EquipmentStatus = "NEW"
	StatusInUse             EquipmentStatus = "IN_USE"
	StatusUnderMaintenance  EquipmentStatus = "UNDER_MAINTENANCE"
	StatusDamaged           EquipmentStatus = "DAMAGED"
	StatusLost              EquipmentStatus = "LOST"
	StatusDecommissioned    EquipmentStatus = "DECOMMISSIONED"
	StatusInStorage         EquipmentStatus = "IN_STORAGE"
	StatusReserved          EquipmentStatus = "RESERVED"
	StatusPendingInspection EquipmentStatus = "PENDING_INSPECTION"
	StatusReplacementNeeded EquipmentStatus = "REPLACEMENT_NEEDED"
	StatusRecovered         EquipmentStatus = "RECOVERED"
	StatusDonated           EquipmentStatus = "DONATED"
	StatusDisposed          EquipmentStatus = "DISPOSED"
)

// ParseEquipmentStatus converts the stored text form into an EquipmentStatus.
func ParseEquipmentStatus(s string) (EquipmentStatus, error) {
	switch st := EquipmentStatus(s); st {
	case StatusNew, StatusInUse, StatusUnderMaintenance, StatusDamaged, StatusLost,
		StatusDecommissioned, StatusInStorage, StatusReserved, StatusPendingInspection,
		StatusReplacementNeeded, StatusRecovered, StatusDonated, StatusDisposed:
		return st, nil
	}
	return "", fmt.Errorf("unknown equipment status: %q", s)
}

// Equipment represents a registered asset. The ID is assigned by the
// storage layer on creation and is immutable afterwards; a zero ID marks
// a transient (not yet persisted) entity.
type Equipment struct {
	ID        uuid.UUID       `json:"id"`
	Serial    string          `json:"serial"`
	Brand     string          `json:"brand"`
	Model     string          `json:"model"`
	Type      EquipmentType   `json:"type"`
	State     EquipmentStatus `json:"state"`
	Provider  *Provider       `json:"provider"`
	ImagePath string          `json:"image_path,omitempty"`
}

// RiskClass is the regulatory risk classification of a biomedical device.
type RiskClass string

const (
	RiskClassI   RiskClass = "CLASS_I"
	RiskClassIIA RiskClass = "CLASS_IIA"
	RiskClassIIB RiskClass = "CLASS_IIB"
	RiskClassIII RiskClass = "CLASS_III"
)

// ParseRiskClass converts the stored text form into a RiskClass.
func ParseRiskClass(s string) (RiskClass, error) {
	switch r := RiskClass(s); r {
	case RiskClassI, RiskClassIIA, RiskClassIIB, RiskClassIII:
		return r, nil
	}
	return "", fmt.Errorf("unknown risk class: %q", s)
}

// TechEquipment is a technology asset. It shares its identifier with the
// embedded base Equipment row (table-per-subtype).
type TechEquipment struct {
	Equipment
	OS    string `json:"os"`
	RAMGB int    `json:"ram_gb"`
}

// BiomedicalEquipment is a biomedical asset sharing its identifier with
// the embedded base Equipment row.
type BiomedicalEquipment struct {
	Equipment
	RiskClass       RiskClass `json:"risk_class"`
	CalibrationCert string    `json:"calibration_cert"`
}
