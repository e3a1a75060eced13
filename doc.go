// Package blog implements the account and content core of a small blog
// platform: bcrypt credential hashing, JWT access/refresh token issuance
// and verification, role and ownership based authorization, and Bun
// backed repositories for users and posts.
//
// Access tokens are short lived and carry identity claims; claims are
// trusted as of issuance, so a role change only takes effect once a new
// token is minted. Refresh tokens are long lived, travel only in an
// HttpOnly cookie, and carry an explicit purpose claim so they can never
// be replayed where an access token is expected.
package blog
