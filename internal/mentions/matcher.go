// Package mentions counts ticker mentions in comment text.
//
// Each comment is split on whitespace and its tokens deduplicated. Every
// token is matched once: as a company name if the lexicon has that name,
// otherwise as a ticker symbol. A comment contributes once for every ticker
// reached by name and once for every ticker reached by symbol, so "apple and
// aapl" adds two to aapl while "meta" for Meta,META adds one.
package mentions

import (
	"sort"
	"strings"

	"mentionscli/internal/lexicon"
)

// Tally maps ticker symbol to mention count
type Tally map[string]int

// Total returns the sum of all counts
func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Entry is one row of a sorted Tally
type Entry struct {
	Ticker   string
	Mentions int
}

// Sorted returns the entries by count descending, then ticker ascending
func (t Tally) Sorted() []Entry {
	entries := make([]Entry, 0, len(t))
	for ticker, n := range t {
		entries = append(entries, Entry{Ticker: ticker, Mentions: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Mentions != entries[j].Mentions {
			return entries[i].Mentions > entries[j].Mentions
		}
		return entries[i].Ticker < entries[j].Ticker
	})
	return entries
}

// Aggregator accumulates a Tally over a sequence of comments
type Aggregator struct {
	lex     *lexicon.Lexicon
	tally   Tally
	scanned int
	matched int
}

// NewAggregator creates an empty aggregator over lex
func NewAggregator(lex *lexicon.Lexicon) *Aggregator {
	return &Aggregator{lex: lex, tally: make(Tally)}
}

// Add scans one comment and returns the tickers it contributed to. A ticker
// appears twice when reached by a name token and a separate symbol token.
func (a *Aggregator) Add(comment string) []string {
	a.scanned++

	byName := make(map[string]struct{})
	bySymbol := make(map[string]struct{})
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(comment) {
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}

		if ticker, ok := a.lex.TickerForName(token); ok {
			byName[ticker] = struct{}{}
		} else if a.lex.IsTicker(token) {
			bySymbol[token] = struct{}{}
		}
	}

	if len(byName) == 0 && len(bySymbol) == 0 {
		return nil
	}
	a.matched++

	contributed := make([]string, 0, len(byName)+len(bySymbol))
	for ticker := range byName {
		a.tally[ticker]++
		contributed = append(contributed, ticker)
	}
	for ticker := range bySymbol {
		a.tally[ticker]++
		contributed = append(contributed, ticker)
	}
	sort.Strings(contributed)
	return contributed
}

// Tally returns a copy of the counts so far
func (a *Aggregator) Tally() Tally {
	out := make(Tally, len(a.tally))
	for k, v := range a.tally {
		out[k] = v
	}
	return out
}

// Scanned returns the number of comments added
func (a *Aggregator) Scanned() int { return a.scanned }

// Matched returns the number of comments that mentioned at least one ticker
func (a *Aggregator) Matched() int { return a.matched }

// Count tallies mentions across comments in a single pass
func Count(lex *lexicon.Lexicon, comments []string) Tally {
	agg := NewAggregator(lex)
	for _, c := range comments {
		agg.Add(c)
	}
	return agg.Tally()
}
