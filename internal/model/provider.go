package model

import (
	"github.com/google/uuid"

	"asset-registry-api/internal/identity"
)

// Provider represents a supplier of equipment. Providers live
// independently of the equipment referencing them.
type Provider struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	TaxID        string    `json:"tax_id"`
	ContactEmail string    `json:"contact_email"`
}

// NewProvider builds a transient Provider, synthesizing the tax
// identifier when absent.
func NewProvider(name, taxID, contactEmail string) Provider {
	p := Provider{
		Name:         name,
		TaxID:        taxID,
		ContactEmail: contactEmail,
	}
	p.EnsureTaxID()
	return p
}

// EnsureTaxID synthesizes a tax identifier when none was supplied. The
// tax identifier is a business field, not an identity field, so this
// never touches ID.
func (p *Provider) EnsureTaxID() {
	if p.TaxID == "" {
		p.TaxID = "NIT-" + identity.New().String()
	}
}
