package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const ocrSpaceEndpoint = "https://api.ocr.space/parse/image"

// OCRSpaceClient extracts text from images through the OCR.space HTTP API.
// It implements ImageTextExtractor.
type OCRSpaceClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewOCRSpaceClient(apiKey string) *OCRSpaceClient {
	return &OCRSpaceClient{
		apiKey:   apiKey,
		endpoint: ocrSpaceEndpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type ocrSpaceResult struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

// ExtractText uploads the image and returns the recognized text.
func (c *OCRSpaceClient) ExtractText(ctx context.Context, image []byte, language string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoOCRBackend
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("language", language); err != nil {
		return "", fmt.Errorf("failed to build ocr request: %w", err)
	}
	if err := writer.WriteField("scale", "true"); err != nil {
		return "", fmt.Errorf("failed to build ocr request: %w", err)
	}
	part, err := writer.CreateFormFile("file", "document.png")
	if err != nil {
		return "", fmt.Errorf("failed to build ocr request: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("failed to build ocr request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ocr request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var result ocrSpaceResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode ocr response: %w", err)
	}

	if result.IsErroredOnProcessing {
		return "", fmt.Errorf("ocr processing failed: %s", string(result.ErrorMessage))
	}
	if len(result.ParsedResults) == 0 {
		return "", errors.New("ocr returned no results")
	}

	var text strings.Builder
	for _, parsed := range result.ParsedResults {
		text.WriteString(parsed.ParsedText)
		text.WriteString("\n")
	}
	return text.String(), nil
}
