package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// InvestorType distinguishes individuals from legal entities, which are taxed differently.
type InvestorType string

const (
	InvestorTypeIndividual InvestorType = "personne_physique"
	InvestorTypeCompany    InvestorType = "personne_morale"
)

// IsValid checks if the investor type is valid.
func (t InvestorType) IsValid() bool {
	return t == InvestorTypeIndividual || t == InvestorTypeCompany
}

// Investor represents a subscriber to one or more tranches.
type Investor struct {
	ID          uuid.UUID
	Type        InvestorType
	FirstName   string
	LastName    string
	CompanyName string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewInvestor creates a new Investor. The email is stored lowercase.
func NewInvestor(investorType InvestorType, firstName, lastName, companyName, email string) *Investor {
	now := time.Now().UTC()

	return &Investor{
		ID:          uuid.New(),
		Type:        investorType,
		FirstName:   strings.TrimSpace(firstName),
		LastName:    strings.TrimSpace(lastName),
		CompanyName: strings.TrimSpace(companyName),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// DisplayName returns the name expected on payment proofs.
func (i *Investor) DisplayName() string {
	if i.Type == InvestorTypeCompany {
		return i.CompanyName
	}
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// IsIndividual reports whether coupons are subject to withholding tax.
func (i *Investor) IsIndividual() bool {
	return i.Type == InvestorTypeIndividual
}
