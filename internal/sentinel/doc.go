// Package sentinel defines a string-backed error type so that package-level
// sentinel errors can be declared as constants instead of reassignable vars.
package sentinel
