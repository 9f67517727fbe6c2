package export

import "fmt"

// Format names a supported output encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Column maps a row key to its printed label.
type Column struct {
	Key   string
	Label string
}

// Table is the tabular content handed to a renderer.
type Table struct {
	Title   string
	Columns []Column
	Rows    []map[string]string
}

// Renderer encodes a table into a downloadable document.
type Renderer interface {
	Render(Table) ([]byte, error)
	ContentType() string
	Extension() string
}

// ParseFormat normalises user input, defaulting to CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// RendererFor returns the renderer registered for the format.
func RendererFor(format Format) (Renderer, error) {
	switch format {
	case FormatCSV:
		return CSVRenderer{}, nil
	case FormatPDF:
		return PDFRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func (t Table) validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table requires at least one column")
	}
	return nil
}
