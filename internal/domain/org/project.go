package org

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
)

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	// ProjectStatusActive means the project accepts new cycles and documents
	ProjectStatusActive ProjectStatus = "ACTIVE"
	// ProjectStatusArchived means the project is read-only
	ProjectStatusArchived ProjectStatus = "ARCHIVED"
)

// Project groups budget cycles, inventory, sales and expenses under an
// organization. The code is unique per organization.
type Project struct {
	shared.OrgAggregateRoot
	Name        string        `gorm:"type:varchar(100);not null"`
	Code        string        `gorm:"type:varchar(30);not null;uniqueIndex:idx_project_org_code,priority:2"`
	Description string        `gorm:"type:varchar(500)"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new active project under an organization
func NewProject(orgID uuid.UUID, name, code, description string) (*Project, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORG", "Organization ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Project code cannot be empty")
	}

	p := &Project{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             name,
		Code:             code,
		Description:      description,
		Status:           ProjectStatusActive,
	}
	p.AddDomainEvent(NewProjectCreatedEvent(p))
	return p, nil
}

// Update changes the mutable project fields
func (p *Project) Update(name, description string) error {
	if p.Status == ProjectStatusArchived {
		return shared.NewDomainError("PROJECT_ARCHIVED", "Archived projects cannot be modified")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	p.Name = name
	p.Description = description
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Archive makes the project read-only
func (p *Project) Archive() error {
	if p.Status == ProjectStatusArchived {
		return shared.ErrInvalidState
	}
	p.Status = ProjectStatusArchived
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewProjectArchivedEvent(p))
	return nil
}

// IsActive returns true if the project accepts new documents
func (p *Project) IsActive() bool {
	return p.Status == ProjectStatusActive
}
