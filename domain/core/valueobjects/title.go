package valueobjects

import (
	"encoding/json"
	"errors"
	"strings"
)

// DefaultSeparators are the structural separator characters used to flag
// technical, non-substantive titles (subpages, namespaced pages).
const DefaultSeparators = "/:"

// PageTitle is a value object wrapping the natural lookup key of a corpus page
type PageTitle struct {
	value string
}

// NewPageTitle creates a PageTitle from a raw string
func NewPageTitle(title string) (PageTitle, error) {
	if title == "" {
		return PageTitle{}, errors.New("page title cannot be empty")
	}
	return PageTitle{value: title}, nil
}

// String returns the string representation of the title
func (t PageTitle) String() string {
	return t.value
}

// Equals checks if two titles are equal
func (t PageTitle) Equals(other PageTitle) bool {
	return t.value == other.value
}

// IsZero checks if the title is the zero value
func (t PageTitle) IsZero() bool {
	return t.value == ""
}

// IsStructural reports whether every character of the title belongs to the
// separator set. A title made up solely of separators denotes a technical
// page rather than an article. The empty title is vacuously structural.
// Note the rule is deliberately "all characters are separators", not
// "contains a separator": separator-containing link titles are filtered at
// the provider, while a looked-up title is only rejected when it carries no
// substantive characters at all.
func (t PageTitle) IsStructural(separators string) bool {
	return IsStructural(t.value, separators)
}

// IsStructural reports whether every character of a raw title string is a
// structural separator. Exposed for callers that validate titles before a
// PageTitle can be constructed.
func IsStructural(title, separators string) bool {
	for _, r := range title {
		if !strings.ContainsRune(separators, r) {
			return false
		}
	}
	return true
}

// ContainsSeparator reports whether the title carries any separator character
func (t PageTitle) ContainsSeparator(separators string) bool {
	return ContainsSeparator(t.value, separators)
}

// ContainsSeparator reports whether a raw title string carries any separator
// character. Link providers use it to filter technical link targets.
func ContainsSeparator(title, separators string) bool {
	return strings.ContainsAny(title, separators)
}

// MarshalJSON implements json.Marshaler
func (t PageTitle) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (t *PageTitle) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("PageTitle must be a string")
	}
	t.value = s
	return nil
}
