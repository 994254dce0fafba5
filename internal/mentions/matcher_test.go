package mentions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mentionscli/internal/lexicon"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name     string
		lexicon  map[string]string
		comments []string
		want     Tally
	}{
		{
			name:     "empty comment list",
			lexicon:  map[string]string{"apple": "aapl"},
			comments: nil,
			want:     Tally{},
		},
		{
			name:     "single company name",
			lexicon:  map[string]string{"apple": "aapl"},
			comments: []string{"buying apple calls"},
			want:     Tally{"aapl": 1},
		},
		{
			name:     "repeated name counts once per comment",
			lexicon:  map[string]string{"apple": "aapl"},
			comments: []string{"apple apple stock"},
			want:     Tally{"aapl": 1},
		},
		{
			name:     "name and own ticker in one comment count twice",
			lexicon:  map[string]string{"apple": "aapl"},
			comments: []string{"apple and aapl both up"},
			want:     Tally{"aapl": 2},
		},
		{
			name:     "name spelled like its ticker counts once",
			lexicon:  map[string]string{"meta": "meta"},
			comments: []string{"meta calls printing"},
			want:     Tally{"meta": 1},
		},
		{
			name:     "distinct tickers across comments",
			lexicon:  map[string]string{"apple": "aapl", "tesla": "tsla"},
			comments: []string{"apple up", "tsla down"},
			want:     Tally{"aapl": 1, "tsla": 1},
		},
		{
			name:     "raw ticker only",
			lexicon:  map[string]string{"gamestop": "gme"},
			comments: []string{"gme to the moon", "gme gme gme"},
			want:     Tally{"gme": 2},
		},
		{
			name:     "two names for one ticker count once by name",
			lexicon:  map[string]string{"alphabet": "goog", "google": "goog"},
			comments: []string{"google is alphabet"},
			want:     Tally{"goog": 1},
		},
		{
			name:     "no substring or punctuation matching",
			lexicon:  map[string]string{"apple": "aapl"},
			comments: []string{"pineapple", "apple's", "aapl!", "applesauce"},
			want:     Tally{},
		},
		{
			name:     "multi-word names never match a single token",
			lexicon:  map[string]string{"johnson & johnson": "jnj"},
			comments: []string{"johnson & johnson", "jnj"},
			want:     Tally{"jnj": 1},
		},
		{
			name:     "whitespace of any kind separates tokens",
			lexicon:  map[string]string{"tesla": "tsla"},
			comments: []string{"\ttesla\n\ntsla  "},
			want:     Tally{"tsla": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(lexicon.New(tt.lexicon), tt.comments)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCount_Properties(t *testing.T) {
	lex := lexicon.New(map[string]string{
		"apple":     "aapl",
		"tesla":     "tsla",
		"nvidia":    "nvda",
		"microsoft": "msft",
	})
	comments := []string{
		"nvda nvidia nvda",
		"tesla tsla apple",
		"nothing to see here",
		"",
		"msft msft apple aapl tesla",
		"spy puts",
	}

	first := Count(lex, comments)
	second := Count(lex, comments)

	// Idempotent over identical inputs
	assert.Equal(t, first, second)

	for ticker, n := range first {
		assert.True(t, lex.IsTicker(ticker), "tally contains unknown ticker %q", ticker)
		assert.Positive(t, n)
	}

	assert.Equal(t, Tally{"nvda": 2, "tsla": 3, "aapl": 3, "msft": 1}, first)
}

func TestAggregator(t *testing.T) {
	agg := NewAggregator(lexicon.New(map[string]string{"apple": "aapl", "tesla": "tsla"}))

	assert.Equal(t, []string{"aapl", "aapl"}, agg.Add("apple aapl"))
	assert.Nil(t, agg.Add("no tickers"))
	assert.Equal(t, []string{"aapl", "tsla"}, agg.Add("tesla apple"))

	assert.Equal(t, 3, agg.Scanned())
	assert.Equal(t, 2, agg.Matched())

	tally := agg.Tally()
	assert.Equal(t, Tally{"aapl": 3, "tsla": 1}, tally)

	// Returned tally is a snapshot
	tally["aapl"] = 100
	assert.Equal(t, 3, agg.Tally()["aapl"])
}

func TestTally_TotalAndSorted(t *testing.T) {
	tally := Tally{"tsla": 2, "aapl": 5, "amd": 2, "gme": 1}

	assert.Equal(t, 10, tally.Total())
	assert.Equal(t, []Entry{
		{Ticker: "aapl", Mentions: 5},
		{Ticker: "amd", Mentions: 2},
		{Ticker: "tsla", Mentions: 2},
		{Ticker: "gme", Mentions: 1},
	}, tally.Sorted())

	assert.Empty(t, Tally{}.Sorted())
	assert.Zero(t, Tally{}.Total())
}
