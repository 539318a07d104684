package resumeparser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-workers/internal/ats/skills"
	"ats-workers/internal/models"
)

var fixedNow = time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

func newTestParser() *Parser {
	return New(nil, WithClock(func() time.Time { return fixedNow }))
}

func TestParse_ScenarioResume(t *testing.T) {
	text := "5 years experience in Java, Spring Boot, and AWS. Projects: Inventory System, Payment Gateway."

	got := newTestParser().Parse(text)

	assert.True(t, got.Skills.Has("java"))
	assert.True(t, got.Skills.Has("aws"))
	assert.True(t, got.Skills.Has("spring boot"))
	assert.InDelta(t, 5.0, got.YearsOfExperience, 1e-9)
	assert.Equal(t, []string{"Inventory System", "Payment Gateway"}, got.Projects)
	assert.Equal(t, 14, got.WordCount)
	assert.False(t, got.FullName.Found)
	assert.False(t, got.Email.Found)
	assert.Equal(t, models.UnknownName, got.DisplayName())
	assert.Equal(t, models.UnknownEmail, got.DisplayEmail())
}

func TestParse_FullResume(t *testing.T) {
	text := strings.Join([]string{
		"Jane Doe",
		"Senior Software Engineer | jane.doe@example.com | +1 (555) 123-4567",
		"SUMMARY",
		"Backend engineer with 6+ years building Golang and Python services on Kubernetes.",
		"EXPERIENCE",
		"Acme Corp, Jan 2016 - Dec 2019",
		"Globex, 03/2019 - Present",
		"EDUCATION",
		"BSc Computer Science, 2010 - 2014",
		"PROJECTS",
		"• Ledger Service • Billing Pipeline",
		"- Search Indexer.",
		"SKILLS",
		"PostgreSQL, Redis, Docker",
	}, "\n")

	got := newTestParser().Parse(text)

	assert.Equal(t, models.Found("Jane Doe"), got.FullName)
	assert.Equal(t, models.Found("jane.doe@example.com"), got.Email)
	for _, s := range []string{"golang", "python", "kubernetes", "postgresql", "redis", "docker"} {
		assert.True(t, got.Skills.Has(s), s)
	}
	// Jan 2016 to Jul 2024 with the overlap merged; education dates are ignored.
	assert.InDelta(t, 8.5, got.YearsOfExperience, 1e-9)
	assert.Equal(t, []string{"Ledger Service", "Billing Pipeline", "Search Indexer"}, got.Projects)
}

func TestParse_NeverFails(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n\t",
		"!!!@@@###",
		"projects:",
		"Projects:\n",
		"EXPERIENCE\n2025 - 2010",
		"\xff\xfe invalid utf8",
		strings.Repeat("word ", 10000),
	}
	p := newTestParser()
	for _, in := range inputs {
		require.NotPanics(t, func() {
			got := p.Parse(in)
			assert.GreaterOrEqual(t, got.YearsOfExperience, 0.0)
			assert.GreaterOrEqual(t, got.WordCount, 0)
			assert.NotNil(t, got.Projects)
			assert.NotNil(t, got.Skills)
		})
	}
}

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		text string
		want models.Field
	}{
		{"contact: a.b+c@mail.example.org, other@x.io", models.Found("a.b+c@mail.example.org")},
		{"Reach me at jane@example.com.", models.Found("jane@example.com")},
		{"no address here @ all", models.NotFound()},
		{"", models.NotFound()},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractEmail(tt.text), tt.text)
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Field
	}{
		{"first line", "John Smith\nDeveloper", models.Found("John Smith")},
		{"three words", "Mary Anne O'Neil\n...", models.Found("Mary Anne O'Neil")},
		{"separator", "Ravi Kumar | Bangalore", models.Found("Ravi Kumar")},
		{"all caps", "JANE DOE\nENGINEER", models.Found("JANE DOE")},
		{"skips heading", "Curriculum Vitae\nAna Lima", models.Found("Ana Lima")},
		{"skips contact line", "jane@example.com\nJane Roe", models.Found("Jane Roe")},
		{"lower case", "john smith", models.NotFound()},
		{"digits", "Room 101 Building", models.NotFound()},
		{"one word", "Madonna", models.NotFound()},
		{"too long", "The Quick Brown Fox Jumps", models.NotFound()},
		{"beyond scan window", "a\nb\nc\nd\ne\nJohn Smith", models.NotFound()},
		{"empty", "", models.NotFound()},
		{"skips title and skill lines", "Java Developer\nSpring Boot\nJohn Smith", models.Found("John Smith")},
		{"skips skill pair", "Java Kafka\nAna Lima", models.Found("Ana Lima")},
		{"name sharing a skill word", "Ruby Smith\nDeveloper", models.Found("Ruby Smith")},
	}
	taxonomy := skills.Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractName(tt.text, taxonomy))
		})
	}
}

func TestYearsMentioned(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"5 years experience", 5},
		{"3+ years of Go", 3},
		{"10+ yrs", 10},
		{"3-5 years", 3},
		{"2 to 4 years", 2},
		{"2.5 years at Initech and 4 years at Acme", 4},
		{"seven years in retail", 7},
		{"company with 120 years of history", 0},
		{"graduated 2015", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, YearsMentioned(tt.text), 1e-9, tt.text)
	}
}

func TestYearsFromDateRanges(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"year only", "Experience\nAcme 2015 - 2020", 5},
		{"months", "Work Experience:\nAcme, Mar 2020 – Sep 2021", 19.0 / 12},
		{"end month inclusive", "Experience\nAcme Jan 2020 - Dec 2020", 1},
		{"single month", "Experience\nAcme 06/2021 - 06/2021", 1.0 / 12},
		{"end month capped at now", "Experience\nAcme Jan 2024 - Dec 2024", 0.5},
		{"present", "EXPERIENCE\nAcme Jan 2023 to Present", 1.5},
		{"overlap merged", "Experience\nA 2018 - 2021\nB 2020 - 2022", 4},
		{"disjoint summed", "Experience\nA 2010 - 2012\nB 2015 - 2016", 3},
		{"ends at next section", "Experience\nA 2018 - 2020\nEducation\nUni 2010 - 2014", 2},
		{"no section", "Acme 2015 - 2020", 0},
		{"reversed ignored", "Experience\nA 2020 - 2015", 0},
		{"invalid numeric month skipped", "Experience\n13/2019 - 2020", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, YearsFromDateRanges(tt.text, fixedNow), 1e-9)
		})
	}
}

func TestParse_TakesLargerExperienceSignal(t *testing.T) {
	text := "Over 2 years of experience.\nExperience\nAcme 2015 - 2020"
	assert.InDelta(t, 5.0, newTestParser().Parse(text).YearsOfExperience, 1e-9)
}

func TestExtractProjects(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"inline", "Projects: Inventory System, Payment Gateway.", []string{"Inventory System", "Payment Gateway"}},
		{"inline semicolons", "Key projects: A; B;", []string{"A", "B"}},
		{"inline stops at label", "Projects: Chat App, Wiki Education: BSc", []string{"Chat App", "Wiki"}},
		{"inline stops at two word heading", "Projects: Chat App, Wiki Work Experience: Acme", []string{"Chat App", "Wiki"}},
		{"inline stops at one word label", "Projects: Chat App, Wiki Stack: Go", []string{"Chat App", "Wiki"}},
		{"inline keeps lowercase colon", "Projects: Cache (hit ratio: 90%), Wiki", []string{"Cache (hit ratio: 90%)", "Wiki"}},
		{"section lines", "Projects\n1. Alpha\n2) Beta\n* Gamma\nSkills\nJava", []string{"Alpha", "Beta", "Gamma"}},
		{"section bullets on one line", "PROJECTS:\n• One • Two\nAwards:", []string{"One", "Two"}},
		{"heading with nothing after", "Projects", []string{}},
		{"none", "Experience\nAcme", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractProjects(tt.text))
		})
	}
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 3, WordCount("  one\ttwo\nthree "))
}
