package models

import "encoding/json"

// TxResponse is the immediate result of submitting a transaction
// (store/instantiate/execute). Only the hash is meaningful to the harness;
// full results are fetched later by querying the hash.
type TxResponse struct {
	Height    string `json:"height,omitempty"`
	TxHash    string `json:"txhash"`
	Code      int    `json:"code,omitempty"`
	RawLog    string `json:"raw_log,omitempty"`
	GasWanted string `json:"gas_wanted,omitempty"`
	GasUsed   string `json:"gas_used,omitempty"`
}

// TxQuery is the full on-chain result of a transaction, fetched with `q tx`
type TxQuery struct {
	TxHash string `json:"txhash"`
	RawLog string `json:"raw_log"`
	Logs   []Log  `json:"logs"`

	// Execution metadata
	Height    string `json:"height,omitempty"`
	GasWanted string `json:"gas_wanted,omitempty"`
	GasUsed   string `json:"gas_used,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Log groups the events emitted by one message in a transaction
type Log struct {
	MsgIndex int     `json:"msg_index,omitempty"`
	Events   []Event `json:"events"`
}

// Event is a single side-effect record in a transaction log
type Event struct {
	Type       string      `json:"type,omitempty"`
	Attributes []Attribute `json:"attributes"`
}

// Attribute is a key/value pair inside an event (e.g. the assigned
// code_id or contract_address)
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FirstEventAttribute scans logs[0].events[0] for the given key and returns
// the first matching value. This is the slot the daemon reports compute
// attributes in; a different slot leaves the caller's field empty rather
// than erroring.
func (q *TxQuery) FirstEventAttribute(key string) (string, bool) {
	if len(q.Logs) == 0 || len(q.Logs[0].Events) == 0 {
		return "", false
	}
	for _, attr := range q.Logs[0].Events[0].Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// AttributeAcrossLogs scans every log and event for the given key, first
// match wins. Robust alternative to FirstEventAttribute for daemons that
// spread attributes over multiple events.
func (q *TxQuery) AttributeAcrossLogs(key string) (string, bool) {
	for _, l := range q.Logs {
		for _, ev := range l.Events {
			for _, attr := range ev.Attributes {
				if attr.Key == key {
					return attr.Value, true
				}
			}
		}
	}
	return "", false
}

// TxCompute is the decrypted execution result returned by the privileged
// `q compute tx` endpoint
type TxCompute struct {
	Type               string          `json:"type,omitempty"`
	Input              string          `json:"input,omitempty"`
	OutputData         string          `json:"output_data,omitempty"`
	OutputDataAsString string          `json:"output_data_as_string,omitempty"`
	OutputLog          string          `json:"output_log,omitempty"`
	OutputError        json.RawMessage `json:"output_error,omitempty"`
	PlaintextError     string          `json:"plaintext_error,omitempty"`
}

// PubKey identifies the key that produced a signature
type PubKey struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// SignedTx is the signed-document output of `tx sign-doc`, used for
// off-chain-verifiable permits
type SignedTx struct {
	PubKey    PubKey `json:"pub_key"`
	Signature string `json:"signature"`
}
