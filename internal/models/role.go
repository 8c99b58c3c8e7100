package models

// Roles as reported by the user service.
const (
	RoleAdmin         = "admin"
	RoleManager       = "manager"
	RoleSubcontractor = "subcontractor"
	RoleTenant        = "tenant"
)
