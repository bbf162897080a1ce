package fuel

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rubiojr/gasfinder/internal/query"
)

// Suggest completes a locality prefix with up to MaxSuggestions unique
// locality names in lexicographic order. Prefixes shorter than
// MinSuggestionLength return an empty list without touching the store.
func (s *Service) Suggest(ctx context.Context, prefix string) ([]string, error) {
	if utf8.RuneCountInString(strings.TrimSpace(prefix)) < MinSuggestionLength {
		return []string{}, nil
	}

	localities, err := s.store.Localities(ctx, query.Suggestions(prefix), suggestionScanLimit)
	if err != nil {
		return nil, err
	}

	out := slices.Clone(localities)
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
