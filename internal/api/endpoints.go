package api

import "net/http"

// PathPrefix is the route of every endpoint relative to the service origin.
const PathPrefix = "api/v1/browser/"

// Endpoint is one remote operation.
type Endpoint struct {
	Name    string
	Method  string
	HasBody bool
}

// Path returns the route of the endpoint relative to the service origin.
func (e Endpoint) Path() string {
	return PathPrefix + e.Name
}

// Endpoints of the service.
var (
	EndpointOpen               = Endpoint{Name: "Open", Method: http.MethodPost, HasBody: true}
	EndpointOpenAdvanced       = Endpoint{Name: "OpenAdvanced", Method: http.MethodPost, HasBody: true}
	EndpointClose              = Endpoint{Name: "Close", Method: http.MethodPost, HasBody: true}
	EndpointGet                = Endpoint{Name: "Get", Method: http.MethodGet}
	EndpointStartRemoteDesktop = Endpoint{Name: "StartRemoteDesktop", Method: http.MethodPost, HasBody: true}
	EndpointStopRemoteDesktop  = Endpoint{Name: "StopRemoteDesktop", Method: http.MethodPost, HasBody: true}
)

// Endpoints lists every endpoint in a fixed order.
func Endpoints() []Endpoint {
	return []Endpoint{
		EndpointOpen,
		EndpointOpenAdvanced,
		EndpointClose,
		EndpointGet,
		EndpointStartRemoteDesktop,
		EndpointStopRemoteDesktop,
	}
}
