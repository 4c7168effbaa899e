package model

// Settings holds the admin-mutable runtime toggles. They live in a store with
// explicit read/write ownership rather than as ambient package state.
type Settings struct {
	// Quiet suppresses direct messages to members on grant/revoke/expiry.
	// Staff notifications are always sent.
	Quiet bool `json:"quiet"`
	// RoleSync allows the bot to mutate the external VIP flag. When off,
	// reconciliation reports drift but touches nothing.
	RoleSync bool `json:"role_sync"`
	// AutoCheck enables the periodic reconciliation pass.
	AutoCheck bool `json:"auto_check"`
}
