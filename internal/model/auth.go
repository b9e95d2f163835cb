package model

// AccessToken is the object carried by the access token of a user.
type AccessToken struct {
	ID string `json:"id"`
}
