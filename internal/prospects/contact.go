// Package prospects implements the contact domain: prospective tenants
// and buyers mentioned in tagged messages. A new prospect that matches
// an existing person merges into their record, filling gaps and
// appending notes, never replacing what a researcher already captured.
package prospects

import (
	"strings"
	"time"
)

// Contact represents a stored prospect. It mirrors the contacts table
// schema.
type Contact struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Company     string    `json:"company"`
	Title       string    `json:"title"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Requirement string    `json:"requirement"`
	Notes       string    `json:"notes"`
	SourceRef   string    `json:"source_ref"`
	Confidence  float64   `json:"confidence"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// merge copies candidate values into existing gaps and appends novel
// notes. Populated fields are never overwritten; in particular an
// existing email survives any later submission. Returns the names of
// changed fields.
func merge(existing, candidate *Contact) []string {
	var changed []string

	fill := func(name string, dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
			changed = append(changed, name)
		}
	}

	fill("company", &existing.Company, candidate.Company)
	fill("title", &existing.Title, candidate.Title)
	fill("email", &existing.Email, candidate.Email)
	fill("phone", &existing.Phone, candidate.Phone)
	fill("requirement", &existing.Requirement, candidate.Requirement)

	if appendNotes(existing, candidate.Notes) {
		changed = append(changed, "notes")
	}

	return changed
}

// appendNotes adds note text the existing record does not already
// contain. Reports whether the notes changed.
func appendNotes(existing *Contact, notes string) bool {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return false
	}
	if strings.Contains(existing.Notes, notes) {
		return false
	}

	if existing.Notes == "" {
		existing.Notes = notes
	} else {
		existing.Notes += "\n" + notes
	}
	return true
}
