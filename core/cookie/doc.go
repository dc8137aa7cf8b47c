// Package cookie wraps HTTP cookie handling with HMAC signing, AES-256-GCM
// encryption, key rotation and one-shot flash values.
//
//	m, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")},
//		cookie.WithSecure(true),
//	)
//
//	// Tamper-evident value
//	_ = m.SetSigned(w, "token", token, cookie.WithMaxAge(7*24*3600))
//	token, err := m.GetSigned(r, "token")
//
//	// Confidential value
//	_ = m.SetEncrypted(w, "profile", string(data))
//
//	// Flash message shown on the next page
//	_ = m.SetFlash(w, "toast", Toast{Kind: "success", Message: "Saved"})
//
// Secrets must be at least 32 characters. The first secret writes; all of them
// are tried when reading, so a new secret can be prepended without logging
// everybody out.
package cookie
