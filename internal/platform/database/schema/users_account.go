package schema

// UserAccountTable represents the 'users.account' table.
//
// Accounts are written by the external identity service; the trust engine
// only reads them to resolve moderation targets and label histories.
type UserAccountTable struct {
	Table       string
	ID          string
	Username    string
	DisplayName string
	Role        string
	CreatedAt   string
	DeletedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	DisplayName: "displayname",
	Role:        "role",
	CreatedAt:   "createdat",
	DeletedAt:   "deletedat",
}
