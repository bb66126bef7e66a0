// Package directory resolves escalation recipients. The production rollout
// reads the on-call roster from configuration; a paging-provider lookup can
// replace it behind the same port.
package directory

import (
	"context"

	"hatid/internal/pkg/errs"
)

// StaticAdminDirectory serves a fixed list of admin contacts loaded at
// startup.
type StaticAdminDirectory struct {
	contacts []string
}

// NewStaticAdminDirectory creates a directory over the given contacts.
// At least one contact is required: escalations with nobody to page are a
// deployment mistake worth failing fast on.
func NewStaticAdminDirectory(contacts []string) (*StaticAdminDirectory, error) {
	if len(contacts) == 0 {
		return nil, errs.NewValueIsRequiredError("contacts")
	}

	copied := make([]string, len(contacts))
	copy(copied, contacts)

	return &StaticAdminDirectory{contacts: copied}, nil
}

// Contacts returns the configured admin contacts.
func (d *StaticAdminDirectory) Contacts(_ context.Context) ([]string, error) {
	copied := make([]string, len(d.contacts))
	copy(copied, d.contacts)

	return copied, nil
}
