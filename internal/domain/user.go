package domain

import "time"

// Roles a user can hold within a tenant. Managers can mutate finances;
// players can only see their own ledger.
const (
	RoleManager = "Manager"
	RolePlayer  = "Player"
)

// User maps an identity-provider subject (e.g. "auth0|5e1234...") to an
// internal account. The subject string is the unique natural key; ID is a
// uuid assigned on first sight.
type User struct {
	ID          string
	Subject     string
	DisplayName string
	Role        string
	Tenant      string
	CreatedAt   time.Time
}
