package dto

// StatusResponse is one entry of a status vocabulary.
type StatusResponse struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Label string `json:"label"`
}
