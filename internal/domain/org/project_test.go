package org

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/backend/internal/domain/shared"
)

func TestNewProject(t *testing.T) {
	p, err := NewProject(uuid.New(), " Workshop ", "wrk", "the main workshop")
	require.NoError(t, err)

	assert.Equal(t, "Workshop", p.Name)
	assert.Equal(t, "WRK", p.Code, "code is normalized to upper case")
	assert.Equal(t, ProjectStatusActive, p.Status)
	assert.True(t, p.IsActive())
	assert.Len(t, p.GetDomainEvents(), 1)
}

func TestNewProject_Validation(t *testing.T) {
	_, err := NewProject(uuid.Nil, "Workshop", "WRK", "")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_ORG", domainErr.Code)

	_, err = NewProject(uuid.New(), "  ", "WRK", "")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_NAME", domainErr.Code)

	_, err = NewProject(uuid.New(), "Workshop", "  ", "")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CODE", domainErr.Code)
}

func TestProject_Update(t *testing.T) {
	p, err := NewProject(uuid.New(), "Workshop", "WRK", "")
	require.NoError(t, err)

	require.NoError(t, p.Update("Workshop North", "moved premises"))
	assert.Equal(t, "Workshop North", p.Name)
	assert.Equal(t, "moved premises", p.Description)

	assert.Error(t, p.Update("", ""))
}

func TestProject_Archive(t *testing.T) {
	p, err := NewProject(uuid.New(), "Workshop", "WRK", "")
	require.NoError(t, err)

	require.NoError(t, p.Archive())
	assert.False(t, p.IsActive())
	assert.ErrorIs(t, p.Archive(), shared.ErrInvalidState)

	// Archived projects are read-only
	err = p.Update("Workshop South", "")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PROJECT_ARCHIVED", domainErr.Code)
}
