// Package backoffice drives the pricing and supplier integration forms of
// the back office.
//
// A form session owns a draft, a Selection that cascades product to
// variation (and platform to commission on the pricing form), and a
// validation Schema. Reference data and record persistence come from
// collaborators defined in collaborators.go; the application services of
// the catalog, partner, pricing and integration packages satisfy them.
//
// Session lifecycle:
//
//	Open: loading -> ready (edit mode fetches the record first)
//	Submit: ready -> submitting -> closed on success, back to ready on failure
//	Cancel: any -> closed
package backoffice
