// Package lexicon loads the equities reference table (company name and
// ticker symbol columns) from CSV or Excel into an immutable Lexicon used for
// mention matching.
//
// Both names and tickers are lowercased. When a company name appears more
// than once the last row wins, and the set of valid tickers is derived from
// the surviving rows.
package lexicon
