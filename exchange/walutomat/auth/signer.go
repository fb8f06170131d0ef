//
// Package auth implements the request signature used by the Walutomat v1 API.
//
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

//
// Sign computes the signature of a request: the lowercase hex encoding of an HMAC-SHA256, keyed with
// the secret, over the request's path and query immediately followed by the timestamp (no
// separator). The output is always 64 characters long.
//
// NOTE ~> The path and query must be byte-for-byte what goes out on the request line, query
//  parameters included and in the same order. The server recomputes the signature over the literal
//  string it receives, so any difference only shows up as a rejected request.
//
func Sign(pathAndQuery string, timestamp string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(pathAndQuery))
	mac.Write([]byte(timestamp))

	return hex.EncodeToString(mac.Sum(nil))
}

//
// Nonce renders the provided instant as milliseconds since the Unix epoch. It must be captured
// fresh for every request, since the server rejects stale and reused nonces.
//
func Nonce(t time.Time) string {
	return strconv.FormatInt(t.UnixNano()/int64(time.Millisecond), 10)
}
