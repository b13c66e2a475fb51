// Package shared holds helpers used by more than one package. Its testutil
// subpackage provides the slog capture handler used by the tests.
package shared
