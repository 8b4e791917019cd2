package common

// CreatorResult is the minimal user descriptor embedded in post payloads.
type CreatorResult struct {
	Id   string `json:"_id"`
	Name string `json:"name,omitempty"`
}
