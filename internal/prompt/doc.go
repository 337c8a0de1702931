// Package prompt provides the interactive confirmation gate that stands
// between a reviewed build and any state-mutating remote call.
package prompt
