package parser

// NewUnreadablePDFPage returns a PDF page whose content failed to decode.
func NewUnreadablePDFPage(err error) Page {
	return &pdfPage{laidOut: true, err: err}
}
