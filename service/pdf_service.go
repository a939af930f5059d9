package service

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const (
	// Primary extraction below this length triggers the OCR fallback.
	minPrimaryTextLen = 50
	// Best text below this length after the fallback means the document
	// has no usable text at all.
	minUsableTextLen = 30
)

// ErrNoUsableText means both pdftotext and OCR produced too little text to
// chunk. The document is skipped; nothing is written to the store.
var ErrNoUsableText = errors.New("no usable text extracted")

var pagesLine = regexp.MustCompile(`Pages:\s+(\d+)`)

// TextExtractor produces raw text from a document file. Implementations
// must not leak internal extraction failures: they either return text or
// ErrNoUsableText.
type TextExtractor interface {
	ExtractText(ctx context.Context, filePath string) (string, error)
}

// PopplerExtractor extracts PDF text with pdftotext and falls back to
// page-by-page tesseract OCR when the primary pass comes back empty or
// too short.
type PopplerExtractor struct {
	ocrLanguages string
}

func NewPopplerExtractor() *PopplerExtractor {
	return &PopplerExtractor{
		ocrLanguages: "fra+eng",
	}
}

// ExtractText runs the extraction strategies in order: pdftotext first,
// OCR when the result is insufficient. Command failures inside a strategy
// downgrade to empty text so the next strategy still runs.
func (e *PopplerExtractor) ExtractText(ctx context.Context, filePath string) (string, error) {
	text := e.extractWithPdftotext(ctx, filePath)
	if len(text) >= minPrimaryTextLen {
		return text, nil
	}
	log.Printf("primary extraction insufficient for %s (%d chars), trying OCR", filePath, len(text))
	if ocrText := e.extractWithTesseract(ctx, filePath); len(ocrText) > len(text) {
		text = ocrText
	}
	if len(text) < minUsableTextLen {
		return "", ErrNoUsableText
	}
	return text, nil
}

// extractWithPdftotext extracts the whole document in one pass. Failures
// are logged and reported as empty text.
func (e *PopplerExtractor) extractWithPdftotext(ctx context.Context, filePath string) string {
	cmd := exec.CommandContext(ctx, "pdftotext",
		"-enc", "UTF-8", "-nopgbrk",
		filePath, "-")
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		log.Printf("pdftotext failed for %s: %v", filePath, err)
		return ""
	}
	return strings.TrimSpace(out.String())
}

// extractWithTesseract renders each page to PNG with pdftoppm and OCRs it.
// Pages that fail are skipped; the surviving pages are joined in order.
func (e *PopplerExtractor) extractWithTesseract(ctx context.Context, pdfPath string) string {
	totalPages, err := getNumPages(ctx, pdfPath)
	if err != nil {
		log.Printf("pdfinfo failed for %s: %v", pdfPath, err)
		return ""
	}

	tempFolder, err := os.MkdirTemp("", "ocr-"+GetFileNameWithoutExt(pdfPath))
	if err != nil {
		log.Printf("failed to create temp directory: %v", err)
		return ""
	}
	defer os.RemoveAll(tempFolder)

	var pages []string
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		text, err := e.ocrPage(ctx, pdfPath, tempFolder, pageNum)
		if err != nil {
			log.Printf("OCR failed for page %d of %s: %v", pageNum, pdfPath, err)
			continue
		}
		if text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n")
}

func (e *PopplerExtractor) ocrPage(ctx context.Context, pdfPath, tempFolder string, pageNum int) (string, error) {
	prefix := filepath.Join(tempFolder, fmt.Sprintf("page-%d", pageNum))
	convertCmd := exec.CommandContext(ctx, "pdftoppm",
		"-f", strconv.Itoa(pageNum),
		"-l", strconv.Itoa(pageNum),
		"-png", pdfPath, prefix)
	if err := convertCmd.Run(); err != nil {
		return "", fmt.Errorf("failed to convert page to image: %w", err)
	}

	files, err := filepath.Glob(prefix + "-*.png")
	if err != nil || len(files) == 0 {
		return "", fmt.Errorf("no rendered image found for page %d", pageNum)
	}

	ocrCmd := exec.CommandContext(ctx, "tesseract",
		files[0],
		"stdout",
		"-l", e.ocrLanguages,
		"--oem", "3",
		"--psm", "3",
	)
	var ocrOut bytes.Buffer
	ocrCmd.Stdout = &ocrOut
	if err := ocrCmd.Run(); err != nil {
		return "", fmt.Errorf("failed to run tesseract: %w", err)
	}
	return strings.TrimSpace(ocrOut.String()), nil
}

// getNumPages uses pdfinfo to get the total number of pages in a PDF file
func getNumPages(ctx context.Context, pdfPath string) (int, error) {
	cmd := exec.CommandContext(ctx, "pdfinfo", pdfPath)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("error running pdfinfo: %v", err)
	}

	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		if matches := pagesLine.FindStringSubmatch(scanner.Text()); len(matches) == 2 {
			return strconv.Atoi(matches[1])
		}
	}
	return 0, fmt.Errorf("unable to determine page count from pdfinfo")
}

// GetFileNameWithoutExt extracts the filename without extension from a path
func GetFileNameWithoutExt(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx != -1 {
		base = base[:idx]
	}
	return base
}
