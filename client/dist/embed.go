// Package clientdist holds the thin client bundle served at
// "/_login/client.js".
package clientdist

import _ "embed"

// LoginJS is the thin client JavaScript.
//
//go:embed login.js
var LoginJS []byte
