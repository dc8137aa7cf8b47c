// Package clientip extracts the client IP address from HTTP requests.
//
// Headers are checked in this order, the first valid address winning:
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For (leftmost entry)
//  4. X-Real-IP
//  5. RemoteAddr
//
// Addresses are normalized with net.IP.String. Malformed values and 0.0.0.0
// are skipped. When nothing parses, the raw RemoteAddr is returned.
package clientip
