// Package authclient orchestrates login, logout and session verification
// against the remote authentication service.
//
// Login posts the credentials without a bearer token and, on success, stores
// token and profile in the request's session. Logout clears the session and
// requests a single navigation to the login page; it only needs a context, so
// the request pipeline can call it from its reject hook:
//
//	var auth *authclient.Client
//	api, _ := apiclient.New(baseURL, apiclient.WithRejectHandler(func(ctx context.Context) {
//		auth.Logout(ctx)
//	}))
//	auth = authclient.New(api)
//
// VerifySession is the only way to turn an optimistic admission into a
// verified one. HasRole, IsAdmin and CurrentUser read the cached profile and
// never touch the network.
package authclient
