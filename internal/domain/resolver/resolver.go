// Package resolver reconstructs an identifier from a birth date and its last
// four characters.
//
// The two unknown digits after the birth year are brute forced over 00..99.
// Checksum-valid completions are then ranked by how close their sequence
// number is to an estimate of how many births in the same year preceded the
// birth date, derived from monthly live-birth counts.
package resolver

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/okian/nric/internal/domain/nric"
	"github.com/okian/nric/pkg/logger"
)

// Enumeration and layout constants.
const (
	guessCount     = 100
	birthDateLen   = 8
	centuryPrefix  = "19"
	sequenceStart  = 3
	sequenceEnd    = nric.Length - 1
	monthsInYear   = 12
	prefixPre2000  = "S"
	prefixPost2000 = "T"
)

// BirthCounter supplies live-birth counts for a calendar year, one entry per
// month in calendar order. year is the four-digit year as written in the
// birth date.
type BirthCounter interface {
	MonthlyBirths(ctx context.Context, year string) ([]int, error)
}

// Candidate is a checksum-valid completion together with its score.
type Candidate struct {
	NRIC      string  `json:"nric"`
	Guess     int     `json:"guess"`
	Sequence  int     `json:"sequence"`
	Deviation float64 `json:"deviation"`
}

// Result is the outcome of a resolution.
type Result struct {
	// NRIC is the selected candidate.
	NRIC string `json:"nric"`
	// Estimate is the interpolated number of births in the year before the birth date.
	Estimate float64 `json:"estimate"`
	// Candidates lists every checksum-valid completion in ascending guess order.
	Candidates []Candidate `json:"candidates"`
}

// BirthDate is a parsed DDMMYYYY date.
type BirthDate struct {
	Day   int
	Month int
	Year  int
	// YearText keeps the four year characters as given.
	YearText string
}

// ParseBirthDate parses a DDMMYYYY string. Only the month is range checked;
// the day is used as-is for interpolation.
func ParseBirthDate(s string) (BirthDate, error) {
	if len(s) != birthDateLen {
		return BirthDate{}, fmt.Errorf("%w: got %q", ErrInvalidBirthDate, s)
	}
	day, err := parseDigits(s[0:2])
	if err != nil {
		return BirthDate{}, fmt.Errorf("%w: day: %w", ErrInvalidBirthDate, err)
	}
	month, err := parseDigits(s[2:4])
	if err != nil {
		return BirthDate{}, fmt.Errorf("%w: month: %w", ErrInvalidBirthDate, err)
	}
	if month < 1 || month > monthsInYear {
		return BirthDate{}, fmt.Errorf("%w: month %d out of range", ErrInvalidBirthDate, month)
	}
	year, err := parseDigits(s[4:8])
	if err != nil {
		return BirthDate{}, fmt.Errorf("%w: year: %w", ErrInvalidBirthDate, err)
	}
	return BirthDate{Day: day, Month: month, Year: year, YearText: s[4:8]}, nil
}

// Prefix returns S for years written as 19xx and T for everything else.
func (d BirthDate) Prefix() string {
	if d.YearText[:2] == centuryPrefix {
		return prefixPre2000
	}
	return prefixPost2000
}

// DaysInMonth returns the Gregorian length of the birth month.
func (d BirthDate) DaysInMonth() int {
	return time.Date(d.Year, time.Month(d.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Resolver selects the most likely identifier for a birth date.
type Resolver struct {
	counter BirthCounter
	logger  logger.Logger
}

// New creates a Resolver backed by counter.
func New(counter BirthCounter, opts ...Option) *Resolver {
	r := &Resolver{
		counter: counter,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the best-guess identifier for birthDate (DDMMYYYY) and the
// last four characters of the identifier.
func (r *Resolver) Resolve(ctx context.Context, birthDate, lastFour string) (string, error) {
	res, err := r.Evaluate(ctx, birthDate, lastFour)
	if err != nil {
		return "", err
	}
	return res.NRIC, nil
}

// Evaluate runs a resolution and returns the selected identifier together
// with the estimate and every scored candidate. Statistics are fetched once.
func (r *Resolver) Evaluate(ctx context.Context, birthDate, lastFour string) (Result, error) {
	date, err := ParseBirthDate(birthDate)
	if err != nil {
		return Result{}, err
	}

	counts, err := r.counter.MonthlyBirths(ctx, date.YearText)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrStatistics, err)
	}
	if len(counts) < date.Month {
		return Result{}, fmt.Errorf("%w: %d monthly counts for %s, need %d", ErrStatistics, len(counts), date.YearText, date.Month)
	}

	candidates := Enumerate(date, lastFour)
	if len(candidates) == 0 {
		return Result{}, fmt.Errorf("%w: %s%s??%s", ErrNoCandidate, date.Prefix(), date.YearText[2:], lastFour)
	}

	estimate := EstimateBirthsBefore(date, counts)
	best := 0
	for i := range candidates {
		candidates[i].Deviation = math.Abs(estimate - float64(candidates[i].Sequence))
		if candidates[i].Deviation < candidates[best].Deviation {
			best = i
		}
	}

	r.logger.Debug(ctx, "resolved identifier",
		logger.String("year", date.YearText),
		logger.Int("candidates", len(candidates)),
		logger.Float64("estimate", estimate),
		logger.Float64("deviation", candidates[best].Deviation),
	)

	return Result{
		NRIC:       candidates[best].NRIC,
		Estimate:   estimate,
		Candidates: candidates,
	}, nil
}

// Enumerate fills the two digits after the birth year with 00..99 and keeps
// the completions that pass the checksum, in ascending guess order.
func Enumerate(date BirthDate, lastFour string) []Candidate {
	head := date.Prefix() + date.YearText[2:]
	var out []Candidate
	for guess := 0; guess < guessCount; guess++ {
		id := fmt.Sprintf("%s%02d%s", head, guess, lastFour)
		if !nric.Validate(id) {
			continue
		}
		// Validate guarantees the body is all digits.
		seq, _ := strconv.Atoi(id[sequenceStart:sequenceEnd])
		out = append(out, Candidate{NRIC: id, Guess: guess, Sequence: seq})
	}
	return out
}

// EstimateBirthsBefore sums the counts of the months before the birth month
// and adds the birth month's count pro rata to the day of month.
func EstimateBirthsBefore(date BirthDate, counts []int) float64 {
	var total float64
	for i := 0; i < date.Month-1; i++ {
		total += float64(counts[i])
	}
	perDay := float64(counts[date.Month-1]) / float64(date.DaysInMonth())
	return total + perDay*float64(date.Day)
}

func parseDigits(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%q is not numeric", s)
		}
	}
	return strconv.Atoi(s)
}
