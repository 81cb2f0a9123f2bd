package finance

import (
	"strings"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashRequestStatus represents the lifecycle state of a cash request
type CashRequestStatus string

const (
	CashRequestStatusPending   CashRequestStatus = "PENDING"
	CashRequestStatusApproved  CashRequestStatus = "APPROVED"
	CashRequestStatusRejected  CashRequestStatus = "REJECTED"
	CashRequestStatusDisbursed CashRequestStatus = "DISBURSED"
)

// CashRequestStatuses returns the facet options in display order
func CashRequestStatuses() []CashRequestStatus {
	return []CashRequestStatus{
		CashRequestStatusPending,
		CashRequestStatusApproved,
		CashRequestStatusRejected,
		CashRequestStatusDisbursed,
	}
}

// IsValid checks if the status is a valid CashRequestStatus
func (s CashRequestStatus) IsValid() bool {
	switch s {
	case CashRequestStatusPending, CashRequestStatusApproved,
		CashRequestStatusRejected, CashRequestStatusDisbursed:
		return true
	}
	return false
}

func (s CashRequestStatus) String() string {
	return string(s)
}

// CanDecide returns true if the request can be approved or rejected
func (s CashRequestStatus) CanDecide() bool {
	return s == CashRequestStatusPending
}

// CanDisburse returns true if funds can be released
func (s CashRequestStatus) CanDisburse() bool {
	return s == CashRequestStatusApproved
}

// IsTerminal returns true if no further transition is possible
func (s CashRequestStatus) IsTerminal() bool {
	return s == CashRequestStatusRejected || s == CashRequestStatusDisbursed
}

const maxPurposeLength = 500

var (
	ErrInvalidCashAmount  = shared.NewDomainError("INVALID_INPUT", "Amount must be positive")
	ErrPurposeTooLong     = shared.NewDomainError("INVALID_INPUT", "Purpose cannot exceed 500 characters")
	ErrCashRequestDecided = shared.NewDomainError("INVALID_STATE", "Only pending cash requests can be approved or rejected")
	ErrCashNotApproved    = shared.NewDomainError("INVALID_STATE", "Only approved cash requests can be disbursed")
	ErrCashDecisionDenied = shared.NewDomainError("FORBIDDEN", "Only FINANCE users can approve, reject or disburse cash requests")
	ErrCashDeleteDenied   = shared.NewDomainError("FORBIDDEN", "You can only delete your own pending cash requests")
)

// CashRequest is a request for funds, optionally drawn against a budget
type CashRequest struct {
	shared.OwnedEntity
	BudgetID *uuid.UUID        `json:"budget_id"`
	Amount   decimal.Decimal   `json:"amount"`
	Purpose  *string           `json:"purpose"`
	Status   CashRequestStatus `json:"status"`
}

// NewCashRequest creates a pending request owned by createdBy.
// A blank purpose is stored as nil.
func NewCashRequest(createdBy uuid.UUID, budgetID *uuid.UUID, amount decimal.Decimal, purpose string) (*CashRequest, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidCashAmount
	}
	purpose = strings.TrimSpace(purpose)
	if len(purpose) > maxPurposeLength {
		return nil, ErrPurposeTooLong
	}
	cr := &CashRequest{
		OwnedEntity: shared.NewOwnedEntity(createdBy),
		BudgetID:    budgetID,
		Amount:      amount,
		Status:      CashRequestStatusPending,
	}
	if purpose != "" {
		cr.Purpose = &purpose
	}
	return cr, nil
}

// PurposeOrEmpty returns the purpose text, "" when unset
func (cr *CashRequest) PurposeOrEmpty() string {
	if cr.Purpose == nil {
		return ""
	}
	return *cr.Purpose
}

// Approve moves a pending request to APPROVED
func (cr *CashRequest) Approve(by *identity.Principal) error {
	return cr.decide(by, CashRequestStatusApproved)
}

// Reject moves a pending request to REJECTED
func (cr *CashRequest) Reject(by *identity.Principal) error {
	return cr.decide(by, CashRequestStatusRejected)
}

func (cr *CashRequest) decide(by *identity.Principal, to CashRequestStatus) error {
	if !by.Is(identity.RoleFinance) {
		return ErrCashDecisionDenied
	}
	if !cr.Status.CanDecide() {
		return ErrCashRequestDecided
	}
	cr.Status = to
	cr.Touch()
	return nil
}

// Disburse releases the funds of an approved request
func (cr *CashRequest) Disburse(by *identity.Principal) error {
	if !by.Is(identity.RoleFinance) {
		return ErrCashDecisionDenied
	}
	if !cr.Status.CanDisburse() {
		return ErrCashNotApproved
	}
	cr.Status = CashRequestStatusDisbursed
	cr.Touch()
	return nil
}

// CanDelete reports whether p may delete the request:
// FINANCE may delete any request, STAFF only their own pending ones.
func (cr *CashRequest) CanDelete(p *identity.Principal) bool {
	switch {
	case p.Is(identity.RoleFinance):
		return true
	case p.Is(identity.RoleStaff):
		return cr.IsOwnedBy(p.ID) && cr.Status == CashRequestStatusPending
	}
	return false
}

// CanView reports whether p may see the request in listings
func (cr *CashRequest) CanView(p *identity.Principal) bool {
	return p.Is(identity.RoleFinance) || (p.HasRole() && cr.IsOwnedBy(p.ID))
}
