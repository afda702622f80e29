// Package services exposes the Passbolt operations wrench needs in domain
// terms: callers get models, never wire records.
//
// Functions take an API, which *passbolt.Client satisfies. The adapters
// Directory and ShareBackend plug the API into the session cache and the
// sharing engine.
package services
