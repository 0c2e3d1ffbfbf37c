package models

import "strconv"

// NetContract represents a contract instance deployed on the network
type NetContract struct {
	// Identification
	Label   string `json:"label"`
	ID      string `json:"id"` // Numeric code id, kept as a string to match daemon output
	Address string `json:"address"`

	// Code verification
	CodeHash string `json:"code_hash"`
}

// Resolved reports whether store/instantiate output populated every field.
// Helpers leave fields empty when an attribute is missing, so callers are
// responsible for checking completeness.
func (c *NetContract) Resolved() bool {
	return c.ID != "" && c.Address != "" && c.CodeHash != ""
}

// ListCodeResponse is one entry of `query compute list-code`
type ListCodeResponse struct {
	ID       uint64 `json:"id"`
	Creator  string `json:"creator"`
	DataHash string `json:"data_hash"`
	Source   string `json:"source,omitempty"`
	Builder  string `json:"builder,omitempty"`
}

// CodeID returns the code id in the string form NetContract uses
func (l *ListCodeResponse) CodeID() string {
	return strconv.FormatUint(l.ID, 10)
}

// ListContractCode is one entry of `query compute list-contract-by-code`
type ListContractCode struct {
	Address string `json:"address"`
	CodeID  uint64 `json:"code_id"`
	Creator string `json:"creator"`
	Label   string `json:"label"`
}
