/*
Package auth provides API key authentication for operator endpoints.

Chat endpoints are public. Endpoints that expose aggregate session data or
remove sessions can be restricted to holders of an operator key:

	validator := auth.NewValidator([]*auth.KeyInfo{
		{Name: "ops", Key: os.Getenv("AYA_OPS_KEY"), Enabled: true},
	})
	mw := auth.NewMiddleware(validator, nil, nil)
	r.With(mw.Handle).Get("/api/session/stats", handleStats)

Keys are read from "Authorization: Bearer <key>" or "X-API-Key: <key>".
Handlers can retrieve the authenticated key with GetKeyInfo.
*/
package auth
