package schema

// UserRevokedTokenTable represents the 'users.revokedtoken' table
type UserRevokedTokenTable struct {
	Table     string
	JTI       string
	Kind      string
	Subject   string
	ExpiresAt string
	RevokedAt string
}

// UserRevokedToken is the schema definition for users.revokedtoken
var UserRevokedToken = UserRevokedTokenTable{
	Table:     "users.revokedtoken",
	JTI:       "jti",
	Kind:      "kind",
	Subject:   "subject",
	ExpiresAt: "expiresat",
	RevokedAt: "revokedat",
}

// Columns returns all standard column names
func (t UserRevokedTokenTable) Columns() []string {
	return []string{t.JTI, t.Kind, t.Subject, t.ExpiresAt, t.RevokedAt}
}
