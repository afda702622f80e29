// Package translators converts between wrench's domain models and the
// records exchanged with the Passbolt API.
//
// Local translators (ToLocal*) decode server records into models; foreign
// translators (ToForeign*) build the records the server expects. Nothing
// outside this package and internal/services needs to know the wire shape.
package translators
