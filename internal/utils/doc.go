// Package utils provides small helpers shared by the clients and transports:
// content type detection, secret redaction for debug dumps, email normalization,
// and the User-Agent provider used by outgoing HTTP requests.
package utils
