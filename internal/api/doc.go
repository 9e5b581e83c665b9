// Package api is the typed operation client of the CloudBrowser service.
//
// Every operation runs through the transport pipeline and returns a
// Result whose Kind is the remote status mapped to a domain outcome. The
// returned error is reserved for codec, transport and timeout failures;
// a remote refusal such as an invalid token is a Result with a non-Success
// Kind, and Result.Err turns it into a *DomainError.
package api
