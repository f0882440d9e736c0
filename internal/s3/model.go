package s3

// Document is a stored object together with the routing metadata that
// decides its key and content type.
type Document struct {
	// Key is the object name without the configured prefix, extension
	// included for logos. Invoice documents use the invoice id.
	Key         string       `json:"key"`
	Data        []byte       `json:"data"`
	Kind        DocumentKind `json:"kind"`
	Type        DocumentType `json:"type"`
	ContentType string       `json:"content_type,omitempty"`
}

type DocumentKind string

const (
	DocumentKindPdf   DocumentKind = "pdf"
	DocumentKindImage DocumentKind = "image"
)

type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "invoice"
	DocumentTypeLogo    DocumentType = "logo"
)

func NewPdfDocument(id string, data []byte) *Document {
	return &Document{
		Key:  id,
		Data: data,
		Kind: DocumentKindPdf,
		Type: DocumentTypeInvoice,
	}
}

func NewLogoDocument(key string, data []byte, contentType string) *Document {
	return &Document{
		Key:         key,
		Data:        data,
		Kind:        DocumentKindImage,
		Type:        DocumentTypeLogo,
		ContentType: contentType,
	}
}
