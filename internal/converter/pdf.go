package converter

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu otherwise creates a config directory under the user's home.
	api.DisableConfigDir()
}

// InspectPDF validates the PDF at path and returns its page count.
func InspectPDF(path string) (int, error) {
	conf := model.NewDefaultConfiguration()

	if err := api.ValidateFile(path, conf); err != nil {
		return 0, fmt.Errorf("invalid pdf: %w", err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return pages, nil
}
