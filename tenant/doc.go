// Package tenant defines the multi-tenancy domain model: companies, the
// directory contract that resolves slugs and access grants, and the session
// payload carrying the caller's selected company.
//
// Every dashboard URL is rooted at a company slug (/acme-corp/reports), and
// the session remembers which company the caller last acted as. The tenant
// middleware keeps those two in sync; this package supplies the types and
// the Directory interface it reconciles against.
package tenant
