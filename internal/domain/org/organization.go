package org

import (
	"regexp"
	"strings"

	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
)

// OrganizationStatus represents the lifecycle state of an organization
type OrganizationStatus string

const (
	// OrganizationStatusActive means the organization can be used normally
	OrganizationStatusActive OrganizationStatus = "ACTIVE"
	// OrganizationStatusSuspended blocks all write operations for the organization
	OrganizationStatusSuspended OrganizationStatus = "SUSPENDED"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Organization is the tenant boundary. Every other aggregate in the system
// is scoped to exactly one organization.
type Organization struct {
	shared.BaseAggregateRoot
	Name         string               `gorm:"type:varchar(100);not null"`
	Slug         string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	BaseCurrency valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	Status       OrganizationStatus   `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

// NewOrganization creates a new active organization
func NewOrganization(name, slug string, baseCurrency valueobject.Currency) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase letters, digits and hyphens")
	}
	if baseCurrency == "" {
		baseCurrency = valueobject.DefaultCurrency
	}

	o := &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		BaseCurrency:      baseCurrency,
		Status:            OrganizationStatusActive,
	}
	o.AddDomainEvent(NewOrganizationCreatedEvent(o))
	return o, nil
}

// Rename changes the display name
func (o *Organization) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	o.Name = name
	o.Touch()
	o.IncrementVersion()
	return nil
}

// Suspend blocks write operations for the organization
func (o *Organization) Suspend() error {
	if o.Status == OrganizationStatusSuspended {
		return shared.ErrInvalidState
	}
	o.Status = OrganizationStatusSuspended
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrganizationSuspendedEvent(o))
	return nil
}

// Activate re-enables a suspended organization
func (o *Organization) Activate() error {
	if o.Status == OrganizationStatusActive {
		return shared.ErrInvalidState
	}
	o.Status = OrganizationStatusActive
	o.Touch()
	o.IncrementVersion()
	return nil
}

// IsActive returns true if the organization accepts writes
func (o *Organization) IsActive() bool {
	return o.Status == OrganizationStatusActive
}
