// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

/*
Package auth hashes passwords, issues bearer tokens and tracks login sessions.

Key Components:

  - Hasher: SHA256Hasher (hex digest, the persisted default) and BcryptHasher.
    VerifyPassword recognizes either format.
  - TokenManager: HS256 JWTs carrying the username and a login session id.
  - SessionStore: login sessions in memory or in BadgerDB.
  - Manager: ties tokens to sessions so logging out revokes a token before
    it expires.

Usage Example:

	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
	    return err
	}
	sessions, err := auth.NewSessionStore(&cfg.Security)
	if err != nil {
	    return err
	}
	manager := auth.NewManager(tokens, sessions, cfg.Security.SessionTimeout)

	token, login, err := manager.Issue(ctx, "", "ana")
	claims, err := manager.Authenticate(ctx, token)
	err = manager.Revoke(ctx, login.ID)
*/
package auth
