package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/card-scanner/internal/contact"
)

// Contact is a stored business card contact.
type Contact struct {
	ID        uuid.UUID  `json:"id"`
	ScanID    *uuid.UUID `json:"scan_id,omitempty"`
	Name      string     `json:"name"`
	Company   string     `json:"company"`
	Title     string     `json:"title"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Website   string     `json:"website"`
	Address   string     `json:"address"`
	Notes     string     `json:"notes"`
	Raw       string     `json:"raw"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Record returns the contact fields as an extraction record.
func (c Contact) Record() contact.Record {
	return contact.Record{
		Name:    c.Name,
		Company: c.Company,
		Title:   c.Title,
		Phone:   c.Phone,
		Email:   c.Email,
		Website: c.Website,
		Address: c.Address,
		Notes:   c.Notes,
		Raw:     c.Raw,
	}
}

// SetRecord overwrites the contact fields from r.
func (c *Contact) SetRecord(r contact.Record) {
	c.Name = r.Name
	c.Company = r.Company
	c.Title = r.Title
	c.Phone = r.Phone
	c.Email = r.Email
	c.Website = r.Website
	c.Address = r.Address
	c.Notes = r.Notes
	c.Raw = r.Raw
}

// ContactPatch carries user edits; nil fields are left unchanged.
type ContactPatch struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=160"`
	Company *string `json:"company,omitempty" validate:"omitempty,max=160"`
	Title   *string `json:"title,omitempty" validate:"omitempty,max=160"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=64"`
	Email   *string `json:"email,omitempty" validate:"omitempty,max=254"`
	Website *string `json:"website,omitempty" validate:"omitempty,max=512"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=1024"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=4096"`
}

// Apply copies the set fields of p onto c.
func (p ContactPatch) Apply(c *Contact) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.Name, p.Name)
	set(&c.Company, p.Company)
	set(&c.Title, p.Title)
	set(&c.Phone, p.Phone)
	set(&c.Email, p.Email)
	set(&c.Website, p.Website)
	set(&c.Address, p.Address)
	set(&c.Notes, p.Notes)
}

// IsEmpty reports whether the patch changes nothing.
func (p ContactPatch) IsEmpty() bool {
	return p.Name == nil && p.Company == nil && p.Title == nil && p.Phone == nil &&
		p.Email == nil && p.Website == nil && p.Address == nil && p.Notes == nil
}
