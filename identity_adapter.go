package blog

// claimsIdentity adapts validated claims back into an Identity so a
// refresh token can mint a new access token without a store round trip.
// The staleness trade-off is deliberate: profile or role changes take
// effect when the refresh token itself expires and the user logs in again.
type claimsIdentity struct {
	claims AuthClaims
}

// IdentityFromClaims wraps validated claims as an Identity
func IdentityFromClaims(claims AuthClaims) Identity {
	return claimsIdentity{claims: claims}
}

func (c claimsIdentity) ID() string {
	return c.claims.UserID()
}

func (c claimsIdentity) Name() string {
	return c.claims.Name()
}

func (c claimsIdentity) Email() string {
	return c.claims.Email()
}

func (c claimsIdentity) Role() string {
	return c.claims.Role()
}

var _ Identity = claimsIdentity{}
