// Package sanitizer normalizes catalog input before validation and storage.
//
// All functions are idempotent and never fail: input that cannot be
// normalized is returned trimmed or empty, and validation decides whether it
// is acceptable.
//
// Normalization includes:
//   - Titles and names: collapse whitespace, trim leading/trailing spaces
//   - ISBNs: drop hyphens and spaces, upper-case the check digit X
//   - Dewey indexes: drop inner spaces
//   - URLs: enforce HTTPS, drop the www. prefix and utm_ tracking parameters
//   - Numbers: clamp to valid ranges
package sanitizer
