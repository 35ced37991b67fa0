// Package keygen generates and validates SSH keys for the stream server's
// key pair.
//
// A stack either imports an existing OpenSSH public key, which is validated
// here, or lets "stackplan init" generate an RSA pair.
package keygen
