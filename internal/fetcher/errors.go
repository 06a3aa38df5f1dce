package fetcher

import "fmt"

// NetworkError wraps a DNS/TCP/TLS-level failure from the HTTP fetcher.
type NetworkError struct{ Cause error }

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Cause) }
func (e *NetworkError) Unwrap() error { return e.Cause }

// HTTPStatusError is returned by the HTTP fetcher for responses >= 400.
type HTTPStatusError struct{ Code int }

func (e *HTTPStatusError) Error() string { return fmt.Sprintf("http status %d", e.Code) }

// TimeoutError is returned by either fetcher variant when its deadline
// expires before the fetch completes.
type TimeoutError struct{}

func (e *TimeoutError) Error() string { return "fetch timed out" }

// BrowserUnavailableError is returned by the Browser fetcher when no
// browser process could be obtained from the Browser Pool.
type BrowserUnavailableError struct{ Cause error }

func (e *BrowserUnavailableError) Error() string {
	return fmt.Sprintf("browser unavailable: %v", e.Cause)
}
func (e *BrowserUnavailableError) Unwrap() error { return e.Cause }

// NavigationError is returned by the Browser fetcher for any CDP-level
// navigation failure that isn't a timeout or pool unavailability.
type NavigationError struct{ Cause error }

func (e *NavigationError) Error() string { return fmt.Sprintf("navigation error: %v", e.Cause) }
func (e *NavigationError) Unwrap() error { return e.Cause }
