package dto

// UploadLogoResponse carries the hosted location of an uploaded logo. The
// returned URL is what clients put on invoices.
type UploadLogoResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
