package export

import (
	"bytes"
	"fmt"
)

// Service renders answer tables into downloadable documents.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Export renders the table in the requested format and returns the file
// bytes, content type and file extension.
func (s *Service) Export(t *Table, format Format) ([]byte, string, string, error) {
	var buf bytes.Buffer
	switch format {
	case FormatExcel:
		if err := writeExcel(t, &buf); err != nil {
			return nil, "", "", err
		}
		return buf.Bytes(), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ".xlsx", nil
	case FormatPDF:
		if err := writePDF(t, &buf); err != nil {
			return nil, "", "", err
		}
		return buf.Bytes(), "application/pdf", ".pdf", nil
	default:
		return nil, "", "", fmt.Errorf("unsupported export format: %s", format)
	}
}
