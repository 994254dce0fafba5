package lexicon

import (
	"sort"
	"strings"
)

// Lexicon maps lowercase company names to lowercase ticker symbols and
// knows the set of valid tickers. It is read-only once built.
type Lexicon struct {
	nameToTicker map[string]string
	tickers      map[string]struct{}
}

// New builds a Lexicon from name → ticker pairs. Keys and values are
// lowercased and trimmed; empty names or tickers are skipped.
func New(pairs map[string]string) *Lexicon {
	b := newBuilder()
	for name, ticker := range pairs {
		b.add(name, ticker)
	}
	return b.build()
}

// TickerForName returns the ticker for a lowercase company name
func (l *Lexicon) TickerForName(name string) (string, bool) {
	ticker, ok := l.nameToTicker[name]
	return ticker, ok
}

// IsTicker reports whether token is a valid ticker symbol
func (l *Lexicon) IsTicker(token string) bool {
	_, ok := l.tickers[token]
	return ok
}

// Len returns the number of company names
func (l *Lexicon) Len() int {
	return len(l.nameToTicker)
}

// Tickers returns the valid ticker symbols, sorted
func (l *Lexicon) Tickers() []string {
	out := make([]string, 0, len(l.tickers))
	for t := range l.tickers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Names returns a copy of the name → ticker mapping
func (l *Lexicon) Names() map[string]string {
	out := make(map[string]string, len(l.nameToTicker))
	for k, v := range l.nameToTicker {
		out[k] = v
	}
	return out
}

// builder accumulates rows in source order so a repeated name keeps the
// last ticker seen.
type builder struct {
	nameToTicker map[string]string
	duplicates   int
}

func newBuilder() *builder {
	return &builder{nameToTicker: make(map[string]string)}
}

func (b *builder) add(name, ticker string) bool {
	name = normalize(name)
	ticker = normalize(ticker)
	if name == "" || ticker == "" {
		return false
	}
	if _, seen := b.nameToTicker[name]; seen {
		b.duplicates++
	}
	b.nameToTicker[name] = ticker
	return true
}

// build derives the ticker set from the surviving mappings, so a ticker
// whose only name was overwritten is no longer valid.
func (b *builder) build() *Lexicon {
	tickers := make(map[string]struct{}, len(b.nameToTicker))
	for _, t := range b.nameToTicker {
		tickers[t] = struct{}{}
	}
	return &Lexicon{nameToTicker: b.nameToTicker, tickers: tickers}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
