// Package app wires the identity provider, the user registry and the session coordinator
// together and runs the command-line operations on top of them.
package app
