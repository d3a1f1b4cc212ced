package auth

// StaffRepository defines the data-access contract.
// Service depends ONLY on this interface.
type StaffRepository interface {
	FindByUsername(username string) (*Staff, error)
}
