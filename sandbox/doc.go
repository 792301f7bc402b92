// Package sandbox is the HTTP client for the external code judge. CODE
// submissions cannot be graded locally; the engine hands them to a
// Client, which posts the source to the judge and maps its verdict onto
// a pass/fail answer.
//
// Transient transport failures are retried with exponential backoff
// before an error surfaces (hashicorp/go-retryablehttp under the hood).
package sandbox
