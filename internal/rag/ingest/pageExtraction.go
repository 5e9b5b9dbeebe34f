package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

const pageExtractTimeout = 10 * time.Second

type rawPage struct {
	Number  int
	Content string
}

func getDocType(docPath string) commonModels.DocType {
	switch strings.ToLower(filepath.Ext(docPath)) {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".odt", ".txt", ".rtf":
		return commonModels.DOCX
	default:
		return commonModels.ERR
	}
}

// IsSupported reports whether a file with this name can be ingested.
func IsSupported(name string) bool {
	return getDocType(name) != commonModels.ERR
}

func extractText(path string, contentType commonModels.DocType) ([]rawPage, error) {
	switch contentType {
	case commonModels.PDF:
		return extractPDF(path)
	case commonModels.DOCX:
		return extractDocxTxtRtf(path)
	default:
		return nil, errorModel.New(errorModel.KindValidation, fmt.Sprintf("unsupported content type: %s", contentType))
	}
}

func extractPDF(path string) ([]rawPage, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return nil, errorModel.Wrap(errorModel.KindDataIntegrity, "Could not read the PDF file", err)
	}

	var pages []rawPage
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			logger.Warn("Skipping unreadable page", "page", i, "error", err)
			continue
		}
		pages = append(pages, rawPage{Number: i, Content: content})
	}
	return pages, nil
}

// Word-processor formats carry no page boundaries, so everything lands on
// page 1 and chunks get no page number.
func extractDocxTxtRtf(path string) ([]rawPage, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, errorModel.Wrap(errorModel.KindDataIntegrity, "Could not read the document file", err)
	}
	return []rawPage{{Number: 1, Content: text}}, nil
}

// protectExtract bounds the time spent in the PDF text decoder, which can
// spin on malformed content streams.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("pdf decoder panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(pageExtractTimeout):
		return "", errors.New("page extraction timed out")
	}
}
