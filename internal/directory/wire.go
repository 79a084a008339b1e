package directory

import "encoding/json"

// AdminSecretHeader carries the shared admin secret on every directory
// request.
const AdminSecretHeader = "x-hasura-admin-secret"

// CodeConstraintViolation is the extension code the directory reports for
// uniqueness violations.
const CodeConstraintViolation = "constraint-violation"

// The two operations the gateway performs, as fixed query documents. Each
// document pairs with a typed Variables struct below, keeping the contract
// statically checkable on both sides.
const (
	CreateUserDocument = `mutation CreateUser($username: String!, $email: String!, $password_hash: String!) {
  insert_users_one(object: {username: $username, email: $email, password_hash: $password_hash}) {
    username
    email
  }
}`

	GetUserDocument = `query GetUser($username: String!) {
  users_by_pk(username: $username) {
    username
    email
    password_hash
  }
}`
)

// Request is the wire envelope for a directory query.
type Request struct {
	Query     string          `json:"query"`
	Variables json.RawMessage `json:"variables,omitempty"`
}

// Error is a single backend-reported error.
type Error struct {
	Message    string          `json:"message"`
	Extensions ErrorExtensions `json:"extensions,omitempty"`
}

type ErrorExtensions struct {
	Code string `json:"code,omitempty"`
}

// CreateUserVariables are the inputs of CreateUserDocument.
type CreateUserVariables struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// GetUserVariables are the inputs of GetUserDocument.
type GetUserVariables struct {
	Username string `json:"username"`
}

// UserRow is the row shape both operations select.
type UserRow struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"`
}

// CreateUserData is the data shape of a CreateUserDocument response.
type CreateUserData struct {
	InsertUsersOne *UserRow `json:"insert_users_one"`
}

// GetUserData is the data shape of a GetUserDocument response.
type GetUserData struct {
	UsersByPK *UserRow `json:"users_by_pk"`
}
