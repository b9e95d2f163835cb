package entity

type User struct {
	Base

	Name string

	// ExternalRewardID identifies the user at the external reward marketplace.
	ExternalRewardID string
}
