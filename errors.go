package lingo

import "errors"

// ErrMalformedContent indicates that a payload obtained from the chain, or
// the bundled baseline itself, could not be decoded as a JSON object. This is
// a hard failure: once content has been obtained a parse error means bundle
// corruption, not source unavailability, so no further fallback is attempted.
var ErrMalformedContent = errors.New("malformed translation content")

// ErrUnknownLocale indicates a locale that is not part of the bundled set.
// The bundled defaults are the floor for every supported locale, so asking
// for one they do not cover is a configuration error rather than a runtime
// fallback case.
var ErrUnknownLocale = errors.New("locale is not part of the bundled set")
