package request

// TestPrintRequest is the optional body of a test print.
type TestPrintRequest struct {
	LocationID string `json:"location_id"`
}
