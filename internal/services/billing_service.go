package services

import (
	"context"
	"fmt"

	"motoride/internal/apperrors"
	"motoride/internal/models"
)

// CompanyProvider is the read-only view onto the corporate billing system.
// This service never mutates used credit; reconciliation belongs to the
// billing cycle.
type CompanyProvider interface {
	GetCompany(ctx context.Context, companyID string) (*models.Company, error)
}

type BillingService struct {
	companies CompanyProvider
}

func NewBillingService(companies CompanyProvider) *BillingService {
	return &BillingService{companies: companies}
}

// CanBook reports whether the company may book a ride at the estimated
// price. Exact exhaustion of the remaining credit is allowed.
func (s *BillingService) CanBook(company *models.Company, estimatedPrice float64) bool {
	if company == nil {
		return false
	}
	if company.Status != models.CompanyStatusActive {
		return false
	}
	return company.CreditLimit-company.UsedCredit >= estimatedPrice
}

// AuthorizeBooking resolves the company and applies the credit gate.
func (s *BillingService) AuthorizeBooking(ctx context.Context, companyID string, estimatedPrice float64) error {
	if s.companies == nil {
		return apperrors.NewValidationError("company_id", "corporate booking is not configured")
	}

	company, err := s.companies.GetCompany(ctx, companyID)
	if err != nil {
		return apperrors.NewTransientError("load company", err)
	}
	if company == nil {
		return apperrors.NewValidationError("company_id", fmt.Sprintf("unknown company %q", companyID))
	}

	if company.Status != models.CompanyStatusActive {
		return apperrors.NewValidationError("company_id", fmt.Sprintf("company is %s", company.Status))
	}
	if !s.CanBook(company, estimatedPrice) {
		return apperrors.NewValidationError("company_id", "insufficient corporate credit")
	}

	return nil
}
