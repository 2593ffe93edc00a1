// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides caller identity primitives for the election API.

The administrator key is an HMAC of the election ID under a server-side
salt, so it can be re-derived and verified without storing a secret per
election. Voter identities are opaque strings supplied by the caller or
generated here when the administrator enrolls a voter without one. HashIP
produces the salted one-way hash recorded with cast ballots.
*/
package auth
