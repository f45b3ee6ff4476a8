package services

import (
	"testing"
)

func TestParseLinesStrictRows(t *testing.T) {
	parser := NewTranscriptParser()
	result := parser.ParseLines([]string{
		"Fall 2023",
		"CSCE 221 Data Structures 4.000 A",
		"MATH 151 Engineering Math I 4.000 B",
	})

	if len(result.Terms) != 1 {
		t.Fatalf("expected 1 term, got %d", len(result.Terms))
	}
	term := result.Terms[0]
	if term.Label != "Fall 2023" {
		t.Errorf("expected label Fall 2023, got %q", term.Label)
	}
	if term.Status != TermEvaluated {
		t.Errorf("expected status Evaluated, got %q", term.Status)
	}
	if len(term.Courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(term.Courses))
	}

	first := term.Courses[0]
	if first.Code != "CSCE 221" || first.Title != "Data Structures" || first.Credits != 4 || first.Grade != "A" {
		t.Errorf("unexpected first course: %+v", first)
	}
	if first.Transfer {
		t.Error("graded course should not be marked transfer")
	}
}

func TestParseLinesRepeatedHeaderResumesTerm(t *testing.T) {
	parser := NewTranscriptParser()
	lines := []string{
		"Fall 2023",
		"CSCE 221 Data Structures 4.000 A",
		"Fall 2023",
		"MATH 151 Calc I 4.000 B",
	}

	result := parser.ParseLines(lines)
	if len(result.Terms) != 1 {
		t.Fatalf("repeated header must not duplicate the term: got %d terms", len(result.Terms))
	}
	if len(result.Terms[0].Courses) != 2 {
		t.Fatalf("expected both courses under one term, got %d", len(result.Terms[0].Courses))
	}

	// Parsing the same sequence again yields the identical structure.
	again := parser.ParseLines(lines)
	if len(again.Terms) != 1 || len(again.Terms[0].Courses) != 2 {
		t.Fatalf("re-parse diverged: %+v", again.Terms)
	}
}

func TestParseLinesTermOrderIsFirstAppearance(t *testing.T) {
	parser := NewTranscriptParser()
	result := parser.ParseLines([]string{
		"Spring 2024",
		"CSCE 121 Intro to Program Design 4.000 A",
		"Fall 2023",
		"MATH 151 Calc I 4.000 B",
		"Spring 2024",
		"CSCE 222 Discrete Structures 3.000 A",
	})

	if len(result.Terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(result.Terms))
	}
	if result.Terms[0].Label != "Spring 2024" || result.Terms[1].Label != "Fall 2023" {
		t.Errorf("terms must keep first-appearance order, got %q then %q",
			result.Terms[0].Label, result.Terms[1].Label)
	}
	if len(result.Terms[0].Courses) != 2 {
		t.Errorf("resumed Spring 2024 should hold 2 courses, got %d", len(result.Terms[0].Courses))
	}
}

func TestParseLinesInProgressPromotesTerm(t *testing.T) {
	parser := NewTranscriptParser()
	result := parser.ParseLines([]string{
		"Spring 2025",
		"CSCE 312 Computer Organization 4.000 IP",
		"CSCE 314 Programming Languages 3.000 A",
	})

	if len(result.Terms) != 1 {
		t.Fatalf("expected 1 term, got %d", len(result.Terms))
	}
	if result.Terms[0].Status != TermInProgress {
		t.Errorf("IP course must promote term to In Progress, got %q", result.Terms[0].Status)
	}
}

func TestParseLinesTransferStatus(t *testing.T) {
	parser := NewTranscriptParser()
	result := parser.ParseLines([]string{
		"Fall 2020",
		"CHEM 119 Fund of Chemistry I 4.000 TA",
	})

	term := result.Terms[0]
	if term.Status != TermTransfer {
		t.Errorf("TA course should promote term to Transfer, got %q", term.Status)
	}
	if !term.Courses[0].Transfer {
		t.Error("TA grade must set the transfer flag")
	}
}

func TestParseLinesSkipsNoise(t *testing.T) {
	parser := NewTranscriptParser()
	result := parser.ParseLines([]string{
		"Fall 2023",
		"Subj No. Course Title",
		"CSCE 221 Data Structures 4.000 A",
		"COURSES IN PROGRESS",
		"Term Totals",
		"Overall Totals",
		"Semester",
		"random page footer text",
	})

	if len(result.Terms) != 1 {
		t.Fatalf("expected 1 term, got %d", len(result.Terms))
	}
	if len(result.Terms[0].Courses) != 1 {
		t.Fatalf("noise lines must not become courses: got %d", len(result.Terms[0].Courses))
	}
}

func TestLooseRowParserRecoversOCRLine(t *testing.T) {
	var loose LooseRowParser

	row := loose.Parse("CSCE313 Intro to Computer Systems B+ 4")
	if !row.Matched {
		t.Fatal("expected loose match")
	}
	c := row.Course
	if c.Code != "CSCE 313" {
		t.Errorf("expected code CSCE 313, got %q", c.Code)
	}
	if c.Grade != "B+" {
		t.Errorf("expected grade B+, got %q", c.Grade)
	}
	if c.Credits != 4 {
		t.Errorf("expected 4 credits, got %v", c.Credits)
	}
	if c.Title != "Intro to Computer Systems" {
		t.Errorf("unexpected title %q", c.Title)
	}
}

func TestLooseRowParserTitleFallsBackToCode(t *testing.T) {
	var loose LooseRowParser

	row := loose.Parse("MATH 151 A 4")
	if !row.Matched {
		t.Fatal("expected loose match")
	}
	if row.Course.Title != "MATH 151" {
		t.Errorf("empty title should fall back to the code, got %q", row.Course.Title)
	}
}

func TestLooseRowParserRequiresLeadingCode(t *testing.T) {
	var loose LooseRowParser
	if row := loose.Parse("College of Engineering 4.0"); row.Matched {
		t.Fatalf("line without leading course code must not match: %+v", row.Course)
	}
}

func TestStrictRowParserRejectsUnknownGrade(t *testing.T) {
	var strict StrictRowParser
	if row := strict.Parse("CSCE 221 Data Structures 4.000 ZZ"); row.Matched {
		t.Fatalf("unknown grade token must not match strict: %+v", row.Course)
	}
	if row := strict.Parse("CSCE 221 Data Structures 4.0 A"); row.Matched {
		t.Fatalf("credits without three decimals must not match strict: %+v", row.Course)
	}
}

func TestParseLinesInfersLabelForHeaderlessLeadingBlock(t *testing.T) {
	parser := NewTranscriptParser()
	result := parser.ParseLines([]string{
		"CSCE 121 Intro to Program Design 4.000 A",
		"Fall 2023",
		"MATH 151 Calc I 4.000 B",
	})

	if len(result.Terms) != 2 {
		t.Fatalf("expected inferred term plus Fall 2023, got %+v", result.Terms)
	}
	// The block before Fall 2023 is one primary term earlier.
	if result.Terms[0].Label != "Summer 2023" {
		t.Errorf("leading block should infer Summer 2023, got %q", result.Terms[0].Label)
	}
	if len(result.Terms[0].Courses) != 1 || result.Terms[0].Courses[0].Code != "CSCE 121" {
		t.Errorf("unexpected inferred-term courses: %+v", result.Terms[0].Courses)
	}
	if result.Terms[1].Label != "Fall 2023" || len(result.Terms[1].Courses) != 1 {
		t.Errorf("labeled term must keep its own courses: %+v", result.Terms[1])
	}
}

func TestParseLinesInfersLabelAfterTermTotals(t *testing.T) {
	parser := NewTranscriptParser()
	result := parser.ParseLines([]string{
		"Fall 2023",
		"CSCE 221 Data Structures 4.000 A",
		"Term Totals",
		"CSCE 222 Discrete Structures 3.000 A",
	})

	if len(result.Terms) != 2 {
		t.Fatalf("expected Fall 2023 plus inferred trailing term, got %+v", result.Terms)
	}
	// No labeled block follows, so the trailing block sits one primary
	// term after Fall 2023.
	if result.Terms[1].Label != "Spring 2024" {
		t.Errorf("trailing block should infer Spring 2024, got %q", result.Terms[1].Label)
	}
	if len(result.Terms[1].Courses) != 1 || result.Terms[1].Courses[0].Code != "CSCE 222" {
		t.Errorf("unexpected trailing-term courses: %+v", result.Terms[1].Courses)
	}
}

func TestParseLinesDropsCoursesWithNoTermAnchor(t *testing.T) {
	parser := NewTranscriptParser()
	result := parser.ParseLines([]string{
		"CSCE 221 Data Structures 4.000 A",
		"MATH 151 Calc I 4.000 B",
	})

	if len(result.Terms) != 0 {
		t.Fatalf("with no labeled term anywhere there is nothing to infer from: %+v", result.Terms)
	}
}

func TestParseLinesSummaryTotals(t *testing.T) {
	parser := NewTranscriptParser()
	result := parser.ParseLines([]string{
		"Fall 2023",
		"CSCE 221 Data Structures 4.000 A",
		"TOTAL INSTITUTION 45.000 45.000 153.00 3.40",
		"TOTAL TRANSFER 16.000 0.000 0.00 0.00",
		"OVERALL 61.000 45.000 153.00 3.40",
	})

	inst := result.Totals.Institution
	if inst == nil {
		t.Fatal("expected institution totals")
	}
	if inst.EarnedHours != 45 || inst.GPAHours != 45 || inst.QualityPoints != 153 || inst.GPA != 3.4 {
		t.Errorf("unexpected institution totals: %+v", inst)
	}
	if result.Totals.Transfer == nil || result.Totals.Transfer.EarnedHours != 16 {
		t.Errorf("unexpected transfer totals: %+v", result.Totals.Transfer)
	}
	if result.Totals.Overall == nil || result.Totals.Overall.GPA != 3.4 {
		t.Errorf("unexpected overall totals: %+v", result.Totals.Overall)
	}
	if len(result.Terms[0].Courses) != 1 {
		t.Errorf("summary rows must not be parsed as courses: %+v", result.Terms[0].Courses)
	}
}

func TestParseTextHandlesHyphenatedHeader(t *testing.T) {
	parser := NewTranscriptParser()
	result := parser.ParseText("Fall-2023\nCSCE 221 Data Structures 4.000 A\n")
	if len(result.Terms) != 1 || result.Terms[0].Label != "Fall 2023" {
		t.Fatalf("hyphenated header should normalize to a plain label: %+v", result.Terms)
	}
}
