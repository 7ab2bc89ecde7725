// Package auth defines the identity model for the gateway: typed principals,
// role sets, and the resolver contract that turns a session's user binding
// into a Principal.
//
// Roles are an explicit enum carried in a bitmask set. Identity is never
// recovered by inspecting object internals, and the admin/super-admin
// relationship is evaluated where it is needed (Principal.IsAdmin) rather
// than baked into storage. The package also holds the salted-hash password
// check used by the login flow; everything else about credential storage
// lives behind the user store.
package auth
