package sentinel

var _ error = Error("")

// Error is a sentinel error whose identity is its text. Two Error values with
// the same text compare equal, so errors.Is matches them through any number
// of %w wrappers.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}
