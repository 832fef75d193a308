// Package query keeps a history of search queries and offers suggestions.
package query

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"

	"github.com/anitrack-cli/anitrack/filesystem"
	"github.com/anitrack-cli/anitrack/key"
	"github.com/anitrack-cli/anitrack/where"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var history = gache.New[map[string]*record](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// memo caches suggestion lookups for the lifetime of the process.
var memo = make(map[string][]*record)

// Remember records a search query or bumps its popularity by weight.
// Queries that led to a tracked show are worth more than plain searches.
func Remember(q string, weight int) error {
	q = sanitize(q)

	known, expired, err := history.Get()
	if expired || err != nil || known == nil {
		known = make(map[string]*record)
	}

	if r, ok := known[q]; ok {
		r.Rank += weight
	} else {
		known[q] = &record{Rank: weight, Query: q}
	}

	return history.Set(known)
}

// Suggest returns the best historical match for a partial input.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}

	return mo.Some(suggestions[0])
}

// SuggestMany returns historical queries fuzzy-matching the partial input,
// most popular first. Disabled by the search.show_query_suggestions setting.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	q = sanitize(q)

	records, ok := memo[q]
	if !ok {
		known, expired, err := history.Get()
		if err != nil || expired || known == nil {
			return []string{}
		}

		for _, r := range known {
			if fuzzy.Match(q, r.Query) {
				records = append(records, r)
			}
		}

		slices.SortFunc(records, func(a, b *record) int {
			if a.Rank != b.Rank {
				return b.Rank - a.Rank
			}

			// stable order for equal ranks
			return strings.Compare(a.Query, b.Query)
		})

		memo[q] = records
	}

	return lo.Map(records, func(r *record, _ int) string {
		return r.Query
	})
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
