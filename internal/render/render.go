// =============================================================================
// Mail Merge - Template Renderer
// =============================================================================
//
// This module binds a render context (column name -> text) into a Word
// template. Placeholders in the template are written as {Column Name} and
// are replaced in the body, headers and footers by go-docx, which also
// handles placeholders split across formatting runs.
//
// Every Render call starts from the template file on disk, so each record
// gets a fresh document and a template that disappears mid-run is reported
// as ErrTemplateNotFound at the record that hit it.
//
// =============================================================================

package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/lukasjarosch/go-docx"
)

var (
	// ErrTemplateNotFound is returned when the template file does not exist.
	ErrTemplateNotFound = errors.New("template file not found")

	// ErrRender is returned when the template cannot be opened or filled.
	ErrRender = errors.New("template render failed")
)

// Document is a rendered document that can be persisted.
type Document interface {
	// Save writes the document to path.
	Save(path string) error
}

// Renderer renders one document per context.
type Renderer interface {
	Render(data map[string]string) (Document, error)
}

// =============================================================================
// DOCX RENDERER
// =============================================================================

// DocxRenderer renders .docx templates.
type DocxRenderer struct {
	// TemplatePath is the .docx template.
	TemplatePath string
}

// NewDocxRenderer creates a renderer for the template at path.
func NewDocxRenderer(path string) *DocxRenderer {
	return &DocxRenderer{TemplatePath: path}
}

// Check verifies the template exists and is readable.
func (r *DocxRenderer) Check() error {
	_, err := r.readTemplate()
	return err
}

// Render fills the template with data.
//
// RETURNS:
//   - The rendered document, not yet written anywhere.
//   - ErrTemplateNotFound if the template is missing, ErrRender if it is
//     not a valid .docx or replacement fails.
func (r *DocxRenderer) Render(data map[string]string) (Document, error) {
	raw, err := r.readTemplate()
	if err != nil {
		return nil, err
	}

	doc, err := docx.OpenBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrRender, r.TemplatePath, err)
	}

	placeholders := make(docx.PlaceholderMap, len(data))
	for k, v := range data {
		placeholders[k] = v
	}

	if err := doc.ReplaceAll(placeholders); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRender, r.TemplatePath, err)
	}

	return &docxDocument{doc: doc}, nil
}

func (r *DocxRenderer) readTemplate() ([]byte, error) {
	raw, err := os.ReadFile(r.TemplatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, r.TemplatePath)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrRender, r.TemplatePath, err)
	}
	return raw, nil
}

// docxDocument adapts *docx.Document to Document.
type docxDocument struct {
	doc *docx.Document
}

func (d *docxDocument) Save(path string) error {
	if err := d.doc.WriteToFile(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
