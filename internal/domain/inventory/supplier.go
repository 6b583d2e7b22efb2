package inventory

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/shared"
)

// Supplier is a vendor that provides inventory items
type Supplier struct {
	shared.BaseAggregateRoot
	Name     string
	Code     string
	Contact  string
	Phone    string
	Email    string
	Address  string
	Notes    string
	IsActive bool
}

// SupplierDetails holds the editable contact fields of a supplier
type SupplierDetails struct {
	Contact string
	Phone   string
	Email   string
	Address string
	Notes   string
}

// NewSupplier creates an active supplier
func NewSupplier(createdBy uuid.UUID, name, code string, details SupplierDetails) (*Supplier, error) {
	s := &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(createdBy),
		IsActive:          true,
	}
	if err := s.SetName(name); err != nil {
		return nil, err
	}
	if err := s.SetCode(code); err != nil {
		return nil, err
	}
	if err := s.SetDetails(details); err != nil {
		return nil, err
	}
	return s, nil
}

// SetName sets the supplier name
func (s *Supplier) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.InvalidInput("Supplier name cannot be empty")
	}
	if len([]rune(name)) > 100 {
		return shared.InvalidInput("Supplier name cannot exceed 100 characters")
	}
	s.Name = name
	s.Touch()
	return nil
}

// SetCode sets the supplier code. Codes are stored upper case.
func (s *Supplier) SetCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return shared.InvalidInput("Supplier code cannot be empty")
	}
	if len(code) > 50 {
		return shared.InvalidInput("Supplier code cannot exceed 50 characters")
	}
	s.Code = code
	s.Touch()
	return nil
}

// SetDetails replaces the contact fields
func (s *Supplier) SetDetails(d SupplierDetails) error {
	email := strings.ToLower(strings.TrimSpace(d.Email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.InvalidInput("Invalid supplier email %q", d.Email)
		}
	}
	s.Contact = strings.TrimSpace(d.Contact)
	s.Phone = strings.TrimSpace(d.Phone)
	s.Email = email
	s.Address = strings.TrimSpace(d.Address)
	s.Notes = strings.TrimSpace(d.Notes)
	s.Touch()
	return nil
}

// Details returns the current contact fields
func (s *Supplier) Details() SupplierDetails {
	return SupplierDetails{Contact: s.Contact, Phone: s.Phone, Email: s.Email, Address: s.Address, Notes: s.Notes}
}

// SetActive enables or disables the supplier
func (s *Supplier) SetActive(active bool) {
	s.IsActive = active
	s.Touch()
}
