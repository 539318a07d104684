package resumeparser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// maxPlausibleYears discards matches such as "100 years of history".
const maxPlausibleYears = 50

var (
	yearsPattern = regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d+)?|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)\s*(?:\+|(?:-|–|to)\s*\d{1,2}(?:\.\d+)?\s*\+?)?\s*(?:years?|yrs?)\b`)

	datePart       = `(?:(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s*|(\d{1,2})/)?((?:19|20)\d{2})`
	dateRangeRegex = regexp.MustCompile(`(?i)\b` + datePart + `\s*(?:-|–|—|to|until)\s*(?:` + datePart + `|(present|current|now|today|date))\b`)
)

var wordNumbers = map[string]float64{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// YearsMentioned returns the largest plausible "<N>+ years" style figure in
// text. Ranges such as "3-5 years" count as their lower bound.
func YearsMentioned(text string) float64 {
	best := 0.0
	for _, m := range yearsPattern.FindAllStringSubmatch(text, -1) {
		v, ok := parseYears(m[1])
		if ok && v <= maxPlausibleYears && v > best {
			best = v
		}
	}
	return best
}

func parseYears(s string) (float64, bool) {
	if v, ok := wordNumbers[strings.ToLower(s)]; ok {
		return v, true
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

type interval struct{ start, end int } // months since year 0, end exclusive

// YearsFromDateRanges sums the employment date ranges found in the
// Experience section of text, merging overlaps. An end month that is named
// counts in full, so "Jan 2020 - Dec 2020" is one year. Open ranges
// ("- Present") end at now.
func YearsFromDateRanges(text string, now time.Time) float64 {
	lines := sectionLines(splitLines(text), sectionExperience)
	if len(lines) == 0 {
		return 0
	}
	nowMonth := now.Year()*12 + int(now.Month()) - 1

	var spans []interval
	for _, m := range dateRangeRegex.FindAllStringSubmatch(strings.Join(lines, "\n"), -1) {
		start, ok := monthIndex(m[1], m[2], m[3])
		if !ok {
			continue
		}
		end := nowMonth
		if m[7] == "" {
			if end, ok = monthIndex(m[4], m[5], m[6]); !ok {
				continue
			}
			if m[4] != "" || m[5] != "" {
				end++
			}
		}
		if end > nowMonth {
			end = nowMonth
		}
		if end <= start {
			continue
		}
		spans = append(spans, interval{start, end})
	}
	return float64(mergedMonths(spans)) / 12
}

func monthIndex(name, numeric, year string) (int, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0, false
	}
	month := 1
	switch {
	case name != "":
		month = months[strings.ToLower(name)[:3]]
	case numeric != "":
		n, err := strconv.Atoi(numeric)
		if err != nil || n < 1 || n > 12 {
			return 0, false
		}
		month = n
	}
	return y*12 + month - 1, true
}

func mergedMonths(spans []interval) int {
	if len(spans) == 0 {
		return 0
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	total := 0
	cur := spans[0]
	for _, s := range spans[1:] {
		if s.start <= cur.end {
			if s.end > cur.end {
				cur.end = s.end
			}
			continue
		}
		total += cur.end - cur.start
		cur = s
	}
	return total + cur.end - cur.start
}
