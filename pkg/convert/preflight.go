package convert

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// PageCount opens the PDF locally and returns its number of pages
func PageCount(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	return doc.NumPage(), nil
}
