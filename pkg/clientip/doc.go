// Package clientip extracts real client IP addresses from HTTP requests.
//
// Requests reaching the gateway typically pass through a load balancer or
// CDN, so RemoteAddr alone is not the caller's address. The package checks
// forwarding headers in priority order and validates every candidate:
//
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For (leftmost entry)
//  4. X-Real-IP (nginx)
//  5. RemoteAddr (direct connection)
//
// All values are parsed with net.ParseIP and normalized; invalid or
// unspecified addresses are skipped.
package clientip
