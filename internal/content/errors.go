package content

import "fmt"

type fetchError struct {
	url    string
	status string
}

func (e fetchError) Error() string {
	return fmt.Sprintf("content fetch failed: %s: %s", e.url, e.status)
}

func errFetch(url, status string) error {
	return fetchError{url: url, status: status}
}

type noMatchesError struct {
	pattern string
}

func (e noMatchesError) Error() string {
	return fmt.Sprintf("no files match %s", e.pattern)
}

func errNoMatches(pattern string) error {
	return noMatchesError{pattern: pattern}
}
