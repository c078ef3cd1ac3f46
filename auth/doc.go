// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, session tokens, and ID generation.

# Passwords

Passwords are stored as salted bcrypt hashes with cost 10:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password) // ErrPasswordMismatch on mismatch

# Session Tokens

Tokens are HS256-signed JWTs whose subject is the account ID:

	issuer := auth.NewTokenIssuer(secret, 30*24*time.Hour)
	token, err := issuer.Issue(accountID)
	accountID, err := issuer.Verify(token)

Verify rejects bad signatures, expired tokens, and anything that is not a
token (including a bare account ID) with ErrInvalidToken.

# Authorization Header

	credential, err := auth.ParseAuthorization(r.Header.Get("Authorization"))

Expects "<scheme> <credential>". Returns ErrMissingCredential for an empty
header and ErrInvalidToken when the credential part is missing.

# ID Generation

Random UUIDs for stored records:

	id := auth.GenerateID()
*/
package auth
