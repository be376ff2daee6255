// Package query keeps one page of a server-side collection in sync with the
// current filters.
//
// A Controller is gated on the session: it issues no request while the
// session is loading or unauthenticated. Every input change (page, limit,
// search, status, reference type) starts a new fetch, and every fetch
// captures the controller's generation at issue time. A response is applied
// only if its generation is still the latest; otherwise it is dropped and
// counted in Discarded. Logging out bumps the generation and clears the
// page, so responses still in flight at that moment are dropped too.
//
// Fetch failures never escape the controller: the previous page stays in
// place, Err reports the failure and the notice sink receives it.
package query
