// Package security carries the legacy reversible password obfuscation the
// backend expects on the wire.
//
// This is base64, not hashing, and is not a security control. It exists
// only so passwords are not readable at a glance in transport logs and
// must never be mistaken for cryptographic protection.
package security

import "encoding/base64"

// Obfuscate encodes a password the way the backend expects it.
func Obfuscate(password string) string {
	return base64.StdEncoding.EncodeToString([]byte(password))
}

// Deobfuscate reverses Obfuscate.
func Deobfuscate(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
