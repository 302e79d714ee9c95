// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the lifecycle status of a bond project.
type ProjectStatus string

const (
	ProjectStatusDraft  ProjectStatus = "draft"
	ProjectStatusOpen   ProjectStatus = "open"
	ProjectStatusClosed ProjectStatus = "closed"
)

// Project represents a bond issuance ("projet") split into tranches.
type Project struct {
	ID          uuid.UUID
	Name        string
	Issuer      string // emetteur
	Description string
	Status      ProjectStatus
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProject creates a new draft Project.
func NewProject(name, issuer, description string, createdBy uuid.UUID) *Project {
	now := time.Now().UTC()

	return &Project{
		ID:          uuid.New(),
		Name:        name,
		Issuer:      issuer,
		Description: description,
		Status:      ProjectStatusDraft,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ProjectWithTranches represents a project with its tranches.
type ProjectWithTranches struct {
	Project  *Project
	Tranches []*Tranche
}
