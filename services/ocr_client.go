package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

// OCRClient talks to the rasterizing OCR sidecar service. It is the slow
// path: used only when the PDF text layer yields no recognizable terms
// (scanned or image-only transcripts).
type OCRClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// OCRResponse represents the response from the OCR service.
type OCRResponse struct {
	Text      string `json:"text"`
	PageCount int    `json:"page_count"`
	Filename  string `json:"filename,omitempty"`
}

// NewOCRClient creates a new OCR client.
func NewOCRClient() *OCRClient {
	baseURL := os.Getenv("OCR_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8081"
	}

	return &OCRClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Minute, // multi-page rasterize+recognize is slow
		},
	}
}

// ProcessPDFFile sends a transcript PDF through the OCR service and
// returns the recognized plain text.
func (c *OCRClient) ProcessPDFFile(ctx context.Context, pdfBytes []byte, filename string) (*OCRResponse, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(pdfBytes); err != nil {
		return nil, fmt.Errorf("failed to write file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/ocr/file", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OCR service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("OCR service returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var ocrResp OCRResponse
	if err := json.NewDecoder(resp.Body).Decode(&ocrResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &ocrResp, nil
}

// HealthCheck checks if the OCR service is reachable.
func (c *OCRClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OCR service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
