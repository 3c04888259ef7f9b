package org

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/org"
)

// CreateOrganizationRequest is the request to register a new organization
type CreateOrganizationRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Slug         string `json:"slug" binding:"required,max=50"`
	BaseCurrency string `json:"base_currency" binding:"omitempty,len=3"`
}

// UpdateOrganizationRequest is the request to rename an organization
type UpdateOrganizationRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// OrganizationListFilter contains filter options for organization queries
type OrganizationListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
	Search   string `form:"search"`
}

// OrganizationResponse is the response representation of an organization
type OrganizationResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	BaseCurrency string    `json:"base_currency"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToOrganizationResponse converts a domain organization to its response representation
func ToOrganizationResponse(o *org.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:           o.ID,
		Name:         o.Name,
		Slug:         o.Slug,
		BaseCurrency: string(o.BaseCurrency),
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// ToOrganizationResponses converts a slice of organizations
func ToOrganizationResponses(organizations []org.Organization) []OrganizationResponse {
	responses := make([]OrganizationResponse, len(organizations))
	for i := range organizations {
		responses[i] = ToOrganizationResponse(&organizations[i])
	}
	return responses
}

// CreateProjectRequest is the request to create a project
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Code        string `json:"code" binding:"required,max=30"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateProjectRequest is the request to update a project
type UpdateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// ProjectListFilter contains filter options for project queries
type ProjectListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
}

// ProjectResponse is the response representation of a project
type ProjectResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProjectResponse converts a domain project to its response representation
func ToProjectResponse(p *org.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProjectResponses converts a slice of projects
func ToProjectResponses(projects []org.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = ToProjectResponse(&projects[i])
	}
	return responses
}
