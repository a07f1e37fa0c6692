// Package routepath holds the HTTP paths served or linked by the service.
package routepath

const (
	Health  = "/health"
	Ready   = "/ready"
	Metrics = "/metrics"

	AccountProfile       = "/account/profile/"
	AccountPassword      = "/account/password/"
	AccountPasswordReset = "/account/password/reset/"

	APIV1           = "/api/v1"
	APIUser         = "/users/:id"
	APIUsersProfile = "/users/profile"
)
