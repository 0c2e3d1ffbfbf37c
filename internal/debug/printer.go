package debug

import (
	"encoding/json"
	"log/slog"

	"secretharness/internal/models"
)

// PrintNetContract prints the resolved contract in JSON format
func PrintNetContract(contract *models.NetContract) {
	jsonData, err := json.MarshalIndent(contract, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal contract to JSON", "error", err)
		return
	}

	slog.Debug("Deployed contract details", "json", string(jsonData))
}

// PrintTxQuery prints the full transaction result in JSON format
func PrintTxQuery(query *models.TxQuery) {
	jsonData, err := json.MarshalIndent(query, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal tx query to JSON", "error", err)
		return
	}

	slog.Debug("Transaction query details", "json", string(jsonData))
}
