package models

// Actor roles as supplied by the identity provider.
const (
	RoleClient = "client"
	RoleStaff  = "staff"
	RoleAdmin  = "admin"
)

// OrganizationContext identifies the authenticated actor on every call into
// the engine. It is supplied by the identity middleware; the engine trusts
// it and never authenticates on its own.
type OrganizationContext struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
}

// CanManageBookings reports whether the actor may mutate bookings it does
// not own (reschedule, cancel, check-in on behalf of clients).
func (c OrganizationContext) CanManageBookings() bool {
	return c.Role == RoleStaff || c.Role == RoleAdmin
}
