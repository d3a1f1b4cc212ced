package auth

// Staff is a restaurant employee allowed into the admin routes.
type Staff struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
}

const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)
