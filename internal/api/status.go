package api

// Remote status codes carried inside response payloads.
const (
	StatusSuccess            = 200
	StatusAuthorizationError = 401
	StatusNoSubscription     = 402
	StatusNoUnits            = 403
	StatusBrowserLimit       = 404
)

// Kind is the domain outcome of a call.
type Kind int

const (
	KindUnknownError Kind = iota
	KindSuccess
	KindAuthorizationError
	KindNoSubscription
	KindNoUnits
	KindBrowserLimit
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindAuthorizationError:
		return "authorization_error"
	case KindNoSubscription:
		return "no_subscription"
	case KindNoUnits:
		return "no_units"
	case KindBrowserLimit:
		return "browser_limit"
	default:
		return "unknown_error"
	}
}

// MapStatus maps a remote status code to its Kind. Codes outside the known
// set, including zero, are KindUnknownError.
func MapStatus(status int) Kind {
	switch status {
	case StatusSuccess:
		return KindSuccess
	case StatusAuthorizationError:
		return KindAuthorizationError
	case StatusNoSubscription:
		return KindNoSubscription
	case StatusNoUnits:
		return KindNoUnits
	case StatusBrowserLimit:
		return KindBrowserLimit
	default:
		return KindUnknownError
	}
}
