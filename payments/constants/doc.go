// Package constant provides shared constant values used across the payment engine.
//
// Keep this package free of runtime behavior.
package constant
