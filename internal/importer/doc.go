// Package importer reads resources to import into Passbolt.
//
// Two formats are understood. Tab separated files carry a header line
// followed by one resource per line:
//
//	host<TAB>username<TAB>password<TAB>description<TAB>product
//
// Files ending in .json hold an array of resource objects, checked against
// a JSON schema before anything is imported.
//
// A whole file is parsed and validated before any resource is returned, so
// a single bad line means nothing gets imported.
package importer
