// Package passbolt is a client for the Passbolt JSON API.
//
// Every request carries api-version=v2 and every response is decoded from
// the {header, body} envelope the server wraps its payloads in. Only the
// body reaches callers; a non-2xx status is reported as *HTTPRequestError
// with the message from the envelope header when the server sent one.
//
// Idempotent GET requests are retried on connection errors and 5xx
// responses. POST and PUT requests are sent exactly once.
//
// Authentication uses the GPGAuth handshake (see Login). The session cookie
// it yields is kept in the client's cookie jar, and the CSRF token cookie is
// echoed on every write request.
package passbolt
