package services

import (
	"regexp"
	"strconv"
	"strings"
)

// TermStatus is the evaluation state of a transcript term.
type TermStatus string

const (
	TermEvaluated  TermStatus = "Evaluated"
	TermInProgress TermStatus = "In Progress"
	TermTransfer   TermStatus = "Transfer"
)

// TranscriptCourse is one course observation parsed from a transcript row.
type TranscriptCourse struct {
	Code     string  `json:"code"`
	Title    string  `json:"title"`
	Credits  float64 `json:"credits"`
	Grade    string  `json:"grade"`
	Transfer bool    `json:"transfer"`
}

// TranscriptTerm groups the courses observed under one term header.
type TranscriptTerm struct {
	Label   string             `json:"label"`
	Status  TermStatus         `json:"status"`
	Courses []TranscriptCourse `json:"courses"`
}

// SectionTotals holds one summary row of the transcript totals block.
type SectionTotals struct {
	EarnedHours   float64 `json:"earned_hours"`
	GPAHours      float64 `json:"gpa_hours"`
	QualityPoints float64 `json:"quality_points"`
	GPA           float64 `json:"gpa"`
}

// SummaryTotals carries the institution/transfer/overall totals when the
// transcript includes them.
type SummaryTotals struct {
	Institution *SectionTotals `json:"institution,omitempty"`
	Transfer    *SectionTotals `json:"transfer,omitempty"`
	Overall     *SectionTotals `json:"overall,omitempty"`
}

// ParseResult is the full output of one pass over the transcript lines.
type ParseResult struct {
	Terms  []TranscriptTerm `json:"terms"`
	Totals SummaryTotals    `json:"totals"`
}

var (
	termHeaderRe = regexp.MustCompile(`\b(Fall|Winter|Spring|Summer)\s*-?\s*(20\d{2})\b`)

	// Administrative rows that carry no course data. Skipped without
	// touching parser state.
	noiseRe = regexp.MustCompile(`(?i)COURSES\s*IN\s*PROGRESS|Overall\s*Totals|^Semester$|Subj\s+No\.?\s+Course\s*Title|^(College|Department|Curriculum):?`)

	summaryRowRe = regexp.MustCompile(`(?i)^(TOTAL\s*INSTITUTION|TOTAL\s*TRANSFER|OVERALL)\b(.*)$`)
	termTotalsRe = regexp.MustCompile(`(?i)^Term\s*Totals`)
	numberRe     = regexp.MustCompile(`\d+(?:\.\d+)?`)

	strictRowRe   = regexp.MustCompile(`^([A-Z]{2,4})\s+(\d{3})\s+(.+?)\s+(\d+\.\d{3})\s+(\S+)$`)
	looseCodeRe   = regexp.MustCompile(`^([A-Z]{2,4})\s?(\d{3})\b`)
	looseCreditRe = regexp.MustCompile(`(\d+(?:\.\d)?)\s*$`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// gradeVocabulary is the closed set of grade tokens the parser recognizes.
// "IP" marks in-progress work, "TA" transfer-accepted credit, "S"/"P"
// satisfactory completion.
var gradeVocabulary = map[string]bool{
	"A": true, "A-": true,
	"B+": true, "B": true, "B-": true,
	"C+": true, "C": true, "C-": true,
	"D+": true, "D": true, "D-": true,
	"F": true, "S": true, "U": true, "P": true, "W": true,
	"IP": true, "TA": true,
}

// RowResult is the tagged outcome of one row parser. Matched is false when
// the line is not a course row for that tier.
type RowResult struct {
	Course  TranscriptCourse
	Matched bool
}

// StrictRowParser recognizes fully structured transcript rows:
// SUBJECT NUMBER TITLE CREDITS(three decimals) GRADE.
type StrictRowParser struct{}

// Parse attempts the strict pattern against a cleaned line.
func (StrictRowParser) Parse(line string) RowResult {
	m := strictRowRe.FindStringSubmatch(line)
	if m == nil {
		return RowResult{}
	}
	grade := m[5]
	if !gradeVocabulary[grade] {
		return RowResult{}
	}
	credits, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return RowResult{}
	}
	return RowResult{
		Matched: true,
		Course: TranscriptCourse{
			Code:     m[1] + " " + m[2],
			Title:    strings.TrimSpace(m[3]),
			Credits:  credits,
			Grade:    grade,
			Transfer: grade == "TA",
		},
	}
}

// LooseRowParser recovers course rows that carry a leading course code but
// lost the strict column structure (common in OCR output). It locates a
// grade token anywhere in the line and a trailing integer or one-decimal
// credit token; whatever text remains becomes the title.
type LooseRowParser struct{}

// Parse attempts the loose extraction against a cleaned line.
func (LooseRowParser) Parse(line string) RowResult {
	codeMatch := looseCodeRe.FindStringSubmatch(line)
	if codeMatch == nil {
		return RowResult{}
	}
	code := codeMatch[1] + " " + codeMatch[2]
	rest := strings.TrimSpace(line[len(codeMatch[0]):])

	grade := ""
	for _, tok := range strings.Fields(rest) {
		if gradeVocabulary[tok] {
			grade = tok
			break
		}
	}

	credits := 0.0
	creditText := ""
	if m := looseCreditRe.FindStringSubmatch(rest); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			credits = v
			creditText = m[1]
		}
	}

	title := rest
	if creditText != "" {
		title = strings.TrimSpace(strings.TrimSuffix(title, creditText))
	}
	if grade != "" {
		title = strings.TrimSpace(strings.Replace(" "+title+" ", " "+grade+" ", " ", 1))
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = code
	}

	return RowResult{
		Matched: true,
		Course: TranscriptCourse{
			Code:     code,
			Title:    title,
			Credits:  credits,
			Grade:    grade,
			Transfer: grade == "TA",
		},
	}
}

// TranscriptParser turns ordered transcript text lines into Term records.
// The same parser handles both direct text-layer rows and OCR output; the
// loose tier absorbs the difference.
type TranscriptParser struct {
	strict StrictRowParser
	loose  LooseRowParser
}

// NewTranscriptParser creates a transcript line parser.
func NewTranscriptParser() *TranscriptParser {
	return &TranscriptParser{}
}

// ParseText splits raw extracted text into lines and parses them.
func (p *TranscriptParser) ParseText(text string) *ParseResult {
	return p.ParseLines(strings.Split(text, "\n"))
}

// termBlock is a run of course rows under at most one term header. Blocks
// that lost their header keep an empty label until inference runs.
type termBlock struct {
	label   string
	courses []TranscriptCourse
}

// ParseLines scans the lines in order, grouping course rows into term
// blocks. A term header opens a block and a term-totals row closes one;
// blocks without a header get their label inferred from their neighbors
// before terms are assembled. Repeated labels merge into one term, so the
// output never contains two terms with the same label. Lines matching no
// recognized pattern are skipped; that is normal transcript noise, not an
// error.
func (p *TranscriptParser) ParseLines(lines []string) *ParseResult {
	result := &ParseResult{}
	var blocks []termBlock
	var current *termBlock

	flush := func() {
		if current != nil && (current.label != "" || len(current.courses) > 0) {
			blocks = append(blocks, *current)
		}
		current = nil
	}

	for _, raw := range lines {
		line := strings.TrimSpace(spaceRe.ReplaceAllString(raw, " "))
		if line == "" {
			continue
		}

		if m := termHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			current = &termBlock{label: m[1] + " " + m[2]}
			continue
		}

		if m := summaryRowRe.FindStringSubmatch(line); m != nil {
			p.recordTotals(result, m[1], m[2])
			continue
		}

		if termTotalsRe.MatchString(line) {
			flush()
			continue
		}

		if noiseRe.MatchString(line) {
			continue
		}

		row := p.strict.Parse(line)
		if !row.Matched {
			row = p.loose.Parse(line)
		}
		if !row.Matched {
			continue
		}
		if current == nil {
			current = &termBlock{}
		}
		current.courses = append(current.courses, row.Course)
	}
	flush()

	inferBlockLabels(blocks)

	byLabel := make(map[string]int)
	for _, block := range blocks {
		if block.label == "" {
			continue
		}
		idx, seen := byLabel[block.label]
		if !seen {
			result.Terms = append(result.Terms, TranscriptTerm{Label: block.label, Status: TermEvaluated})
			idx = len(result.Terms) - 1
			byLabel[block.label] = idx
		}
		term := &result.Terms[idx]
		for _, course := range block.courses {
			term.Courses = append(term.Courses, course)
			p.promoteStatus(term, course)
		}
	}

	return result
}

// inferBlockLabels fills in labels for blocks whose term header was lost,
// a common casualty of page breaks and OCR. A block sits one primary term
// before its next labeled neighbor, or one after its previous one. Blocks
// with no labeled neighbor in either direction stay unlabeled and are
// dropped during assembly.
func inferBlockLabels(blocks []termBlock) {
	for i := range blocks {
		if blocks[i].label != "" {
			continue
		}
		if next := nearestLabel(blocks, i, 1); next != "" {
			if season, year, err := ParseTermLabel(next); err == nil {
				season, year = prevPrimaryTerm(season, year)
				blocks[i].label = TermLabel(season, year)
				continue
			}
		}
		if prev := nearestLabel(blocks, i, -1); prev != "" {
			if season, year, err := ParseTermLabel(prev); err == nil {
				season, year = nextPrimaryTerm(season, year)
				blocks[i].label = TermLabel(season, year)
			}
		}
	}
}

func nearestLabel(blocks []termBlock, from, step int) string {
	for j := from + step; j >= 0 && j < len(blocks); j += step {
		if blocks[j].label != "" {
			return blocks[j].label
		}
	}
	return ""
}

// prevPrimaryTerm steps back one primary term. The Winter minimester is
// never inferred; a missing header always resolves to Fall, Spring or
// Summer.
func prevPrimaryTerm(season string, year int) (string, int) {
	switch season {
	case SeasonSpring:
		return SeasonFall, year - 1
	case SeasonSummer:
		return SeasonSpring, year
	case SeasonWinter:
		return SeasonFall, year
	default:
		return SeasonSummer, year
	}
}

// nextPrimaryTerm steps forward one primary term.
func nextPrimaryTerm(season string, year int) (string, int) {
	switch season {
	case SeasonFall:
		return SeasonSpring, year + 1
	case SeasonSpring:
		return SeasonFall, year
	case SeasonWinter:
		return SeasonSpring, year + 1
	default:
		return SeasonFall, year
	}
}

// promoteStatus applies the monotonic term-status rules: any IP course
// promotes the term to In Progress and it never reverts; a transfer course
// promotes an Evaluated term to Transfer.
func (p *TranscriptParser) promoteStatus(term *TranscriptTerm, course TranscriptCourse) {
	if course.Grade == "IP" {
		term.Status = TermInProgress
		return
	}
	if course.Transfer && term.Status != TermInProgress {
		term.Status = TermTransfer
	}
}

// recordTotals parses one summary row. The columns run earned hours, GPA
// hours, quality points, GPA; rows with fewer numeric tokens keep zeroes
// for the missing columns.
func (p *TranscriptParser) recordTotals(result *ParseResult, section, rest string) {
	tokens := numberRe.FindAllString(rest, -1)
	if len(tokens) == 0 {
		return
	}
	totals := &SectionTotals{}
	fields := []*float64{&totals.EarnedHours, &totals.GPAHours, &totals.QualityPoints, &totals.GPA}
	for i, tok := range tokens {
		if i >= len(fields) {
			break
		}
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			*fields[i] = v
		}
	}

	key := strings.ToUpper(spaceRe.ReplaceAllString(section, " "))
	switch {
	case strings.Contains(key, "INSTITUTION"):
		result.Totals.Institution = totals
	case strings.Contains(key, "TRANSFER"):
		result.Totals.Transfer = totals
	default:
		result.Totals.Overall = totals
	}
}
