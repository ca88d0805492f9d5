package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrUnknownSource = errors.New("unknown source")

// Source is a distribution service a film can be streamed from.
type Source string

const (
	SourceNetflix    Source = "netflix"
	SourcePrime      Source = "prime"
	SourceDisneyPlus Source = "disney_plus"
)

func KnownSources() []Source {
	return []Source{SourceNetflix, SourcePrime, SourceDisneyPlus}
}

func ParseSource(s string) (Source, error) {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(KnownSources(), src) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
	}
	return src, nil
}

type Availability map[Source]bool

// Any reports whether at least one of the filter's sources is available.
func (a Availability) Any(filter ServiceFilter) bool {
	for _, src := range filter {
		if a[src] {
			return true
		}
	}
	return false
}

func (a Availability) Clone() Availability {
	if a == nil {
		return nil
	}
	out := make(Availability, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

type ServiceFilter []Source

// NewServiceFilter validates names and drops duplicates.
// No names means every known source.
func NewServiceFilter(names ...string) (ServiceFilter, error) {
	if len(names) == 0 {
		return ServiceFilter(KnownSources()), nil
	}

	filter := make(ServiceFilter, 0, len(names))
	for _, name := range names {
		src, err := ParseSource(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(filter, src) {
			filter = append(filter, src)
		}
	}
	return filter, nil
}

func (f ServiceFilter) Strings() []string {
	out := make([]string, len(f))
	for i, src := range f {
		out[i] = string(src)
	}
	return out
}
