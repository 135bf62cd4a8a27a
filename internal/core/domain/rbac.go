package domain

import "strings"

// Protected role names. "Admin" cannot be deleted and admin accounts cannot
// be removed; "User" is the fallback role and can be neither deleted nor
// revoked from a user.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Role defines a named set of permissions. Name is stored in canonical
// title-cased form and is unique case-insensitively.
type Role struct {
	ID   string
	Name string
}

// Permission defines a named capability. Task is unique case-insensitively.
type Permission struct {
	ID          string
	Task        string
	Description *string
}

// RolePermission links a role with a permission. A given pair appears at
// most once.
type RolePermission struct {
	RoleID       string
	PermissionID string
}

// CanonicalRoleName normalizes a role name to its title-cased canonical form:
// "eDItor" becomes "Editor", "content manager" becomes "Content Manager".
func CanonicalRoleName(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	for i, field := range fields {
		fields[i] = strings.ToUpper(field[:1]) + field[1:]
	}
	return strings.Join(fields, " ")
}

// SameRoleName reports whether two role names are equal ignoring case.
func SameRoleName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// IsProtectedRole reports whether the role is structurally protected from
// deletion.
func IsProtectedRole(name string) bool {
	return SameRoleName(name, RoleAdmin) || SameRoleName(name, RoleUser)
}

// IsAdminRole reports whether the name addresses the Admin role.
func IsAdminRole(name string) bool {
	return SameRoleName(name, RoleAdmin)
}

// IsFallbackRole reports whether the name addresses the default "User" role.
func IsFallbackRole(name string) bool {
	return SameRoleName(name, RoleUser)
}

// HasPermission reports whether any permission in the set carries the given
// task. Task matching is case-sensitive.
func HasPermission(permissions []Permission, task string) bool {
	for _, permission := range permissions {
		if permission.Task == task {
			return true
		}
	}
	return false
}
