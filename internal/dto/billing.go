package dto

// CreateCheckoutSessionResponse carries the hosted checkout redirect.
type CreateCheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CustomerPortalResponse carries the hosted billing portal redirect.
type CustomerPortalResponse struct {
	URL string `json:"url"`
}
