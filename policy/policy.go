package policy

import (
	"errors"

	"horeca-compliance-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrForbidden signals a role check failure. Controllers translate it into a
// 403 (staff surfaces) or a generic not-found (row-scoped reads), so clients
// cannot distinguish "exists but forbidden" from "absent".
var ErrForbidden = errors.New("forbidden")

// Actor is a fully resolved principal. Client is non-nil exactly when the
// user logged in through a portal account. It is never partially populated:
// the identity resolver finishes both lookups before an Actor is constructed.
type Actor struct {
	User   *models.User
	Client *models.ClientOrganization
}

func (a Actor) IsClient() bool {
	return a.Client != nil
}

// IsStaff reports an internal employee or admin. A user with a portal account
// is a client actor regardless of role.
func (a Actor) IsStaff() bool {
	return a.User != nil && a.Client == nil
}

func (a Actor) IsAdmin() bool {
	return a.IsStaff() && a.User.Role == models.AdminRole
}

// Admin-only surfaces.

func (a Actor) CanDeleteClient() bool   { return a.IsAdmin() }
func (a Actor) CanDeleteCase() bool     { return a.IsAdmin() }
func (a Actor) CanManageUsers() bool    { return a.IsAdmin() }
func (a Actor) CanEditSettings() bool   { return a.IsAdmin() }
func (a Actor) CanViewActivityLog() bool { return a.IsAdmin() }

// Staff surfaces.

func (a Actor) CanCreateCase() bool     { return a.IsStaff() }
func (a Actor) CanEditCase() bool       { return a.IsStaff() }
func (a Actor) CanManageTasks() bool    { return a.IsStaff() }
func (a Actor) CanReviewRequests() bool { return a.IsStaff() }

// CanCreateRequest: clients submit permit requests; staff may also raise one
// on a client's behalf.
func (a Actor) CanCreateRequest() bool {
	return a.User != nil
}

func (a Actor) CanUploadDocument() bool {
	return a.User != nil
}

// OwnsRow reports whether a client actor owns the given row. Staff own
// everything.
func (a Actor) OwnsRow(clientID uuid.UUID) bool {
	if a.IsStaff() {
		return true
	}
	return a.Client != nil && a.Client.ID == clientID
}

// ScopeByClient applies the row-level filter for the actor to a query over a
// table with a client_id column. Every list and get on cases, documents and
// client requests goes through here so no call site can forget the filter.
func ScopeByClient(query *gorm.DB, actor Actor) *gorm.DB {
	if actor.IsStaff() {
		return query
	}
	if actor.Client == nil {
		// Unresolved actor: match nothing rather than leak rows.
		return query.Where("1 = 0")
	}
	return query.Where("client_id = ?", actor.Client.ID)
}

// ClientEditableOrgFields is the allow-list for a client editing its own
// organization. Email, KVK registration number and status stay staff-managed.
var ClientEditableOrgFields = map[string]bool{
	"company_name": true,
	"contact_name": true,
	"phone":        true,
	"street":       true,
	"postal_code":  true,
	"city":         true,
}

// FilterClientOrgUpdate strips disallowed columns from a client-submitted
// organization update.
func FilterClientOrgUpdate(updates map[string]interface{}) map[string]interface{} {
	filtered := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		if ClientEditableOrgFields[k] {
			filtered[k] = v
		}
	}
	return filtered
}
