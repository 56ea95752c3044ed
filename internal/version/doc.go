// Package version reports asnmap build metadata. Values come from -ldflags
// when set, otherwise from runtime/debug.BuildInfo.
package version
