package htmlsanitizer

import "errors"

// ErrDocumentState is returned by Session's Open/Feed/Close when they are
// called out of order — Open twice without an intervening Close, or
// Feed/Close before Open. Sanitize and SanitizeWithContext drive a
// Session correctly internally, so they never return it; it is only
// reachable through the low-level Session API.
var ErrDocumentState = errors.New("htmlsanitizer: invalid document session state")
