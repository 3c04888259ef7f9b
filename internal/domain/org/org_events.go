package org

import (
	"github.com/ledgerline/backend/internal/domain/shared"
)

// Event types for the org context
const (
	EventTypeOrganizationCreated   = "org.organization.created"
	EventTypeOrganizationSuspended = "org.organization.suspended"
	EventTypeProjectCreated        = "org.project.created"
	EventTypeProjectArchived       = "org.project.archived"
)

// OrganizationCreatedEvent is emitted when a new organization is created
type OrganizationCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewOrganizationCreatedEvent creates a new OrganizationCreatedEvent
func NewOrganizationCreatedEvent(o *Organization) *OrganizationCreatedEvent {
	return &OrganizationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrganizationCreated, "Organization", o.ID, o.ID),
		Name:            o.Name,
		Slug:            o.Slug,
	}
}

// OrganizationSuspendedEvent is emitted when an organization is suspended
type OrganizationSuspendedEvent struct {
	shared.BaseDomainEvent
}

// NewOrganizationSuspendedEvent creates a new OrganizationSuspendedEvent
func NewOrganizationSuspendedEvent(o *Organization) *OrganizationSuspendedEvent {
	return &OrganizationSuspendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrganizationSuspended, "Organization", o.ID, o.ID),
	}
}

// ProjectCreatedEvent is emitted when a new project is created
type ProjectCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewProjectCreatedEvent creates a new ProjectCreatedEvent
func NewProjectCreatedEvent(p *Project) *ProjectCreatedEvent {
	return &ProjectCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectCreated, "Project", p.ID, p.OrgID),
		Code:            p.Code,
		Name:            p.Name,
	}
}

// ProjectArchivedEvent is emitted when a project is archived
type ProjectArchivedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewProjectArchivedEvent creates a new ProjectArchivedEvent
func NewProjectArchivedEvent(p *Project) *ProjectArchivedEvent {
	return &ProjectArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectArchived, "Project", p.ID, p.OrgID),
		Code:            p.Code,
	}
}
