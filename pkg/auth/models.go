package auth

// Identity is the backend account the dashboard acts as when it reads the
// admin API.
type Identity struct {
	UserID int
	Email  string
	Role   string
}

const RoleAdmin = "admin"
