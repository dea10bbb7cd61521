package registry

// UserInput is the payload of the createUser mutation.
type UserInput struct {
	// ID is the identity provider's user ID.
	ID string `json:"id"`
	// FirstName is the user's given name.
	FirstName string `json:"firstName"`
	// LastName is the user's family name.
	LastName string `json:"lastName"`
	// Email is the account email.
	Email string `json:"email"`
}

// UserRecord is the user record stored by the backend.
type UserRecord struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// createUserResponse is the data object returned by the createUser mutation.
type createUserResponse struct {
	CreateUser *UserRecord `json:"createUser"`
}

// registeredUser is a cached registration: the payload that was sent and the record it produced.
type registeredUser struct {
	input  UserInput
	record *UserRecord
}
