package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/howdyplanner/api/services"
)

// Offline transcript inspection tool. Parses a PDF exactly the way the
// API does and prints the result as JSON, so parser changes can be
// checked against real transcripts without a running server.
func main() {
	file := flag.String("file", "", "path to a transcript PDF")
	useOCR := flag.Bool("ocr", false, "fall back to the OCR service when the text layer has no terms")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: parsetranscript -file transcript.pdf [-ocr]")
		os.Exit(2)
	}

	content, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	extractor := services.NewPDFExtractor()
	parser := services.NewTranscriptParser()

	lines, err := extractor.ExtractLines(content)
	if err != nil {
		log.Fatalf("Unable to read this file: %v", err)
	}

	result := parser.ParseLines(lines)
	if len(result.Terms) == 0 && *useOCR {
		log.Println("No terms in text layer, trying OCR service...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		ocrResp, err := services.NewOCRClient().ProcessPDFFile(ctx, content, *file)
		if err != nil {
			log.Fatalf("OCR fallback failed: %v", err)
		}
		result = parser.ParseText(ocrResp.Text)
	}

	if len(result.Terms) == 0 {
		log.Fatal("No terms detected in transcript")
	}

	out := map[string]interface{}{
		"terms":          result.Terms,
		"totals":         result.Totals,
		"academic_years": services.NormalizeTranscript(result.Terms),
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(encoded))
}
