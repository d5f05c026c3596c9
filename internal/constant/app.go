package constant

import "time"

const (
	QUERY_TIMEOUT_DURATION = 10 * time.Second

	DefaultPageSize = 10
	MaxPageSize     = 100
)

const (
	REQUEST_SUCCESSFUL   = "Request successful"
	REQUEST_UNSUCCESSFUL = "Request unsuccessful"
)

const (
	AUTH_USER_CONTEXT_KEY = "user"
	OAUTH_STATE_COOKIE    = "oauth_state"
	OAUTH_PROVIDER_GOOGLE = "google"
)
