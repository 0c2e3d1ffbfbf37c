package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"secretharness/internal/models"
)

// Lists the deployments in a contract cache directory and flags entries
// that never fully resolved.
func main() {
	dir := flag.String("dir", "cached_contracts", "contract cache directory")
	flag.Parse()

	entries, err := os.ReadDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read cache dir %s: %v\n", *dir, err)
		os.Exit(1)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("%-20s unreadable: %v\n", entry.Name(), err)
			continue
		}

		var contract models.NetContract
		if err := json.Unmarshal(data, &contract); err != nil {
			fmt.Printf("%-20s corrupt: %v\n", entry.Name(), err)
			continue
		}

		status := "resolved"
		if !contract.Resolved() {
			status = "INCOMPLETE"
		}
		fmt.Printf("%-20s %-10s id=%s address=%s code_hash=%s\n",
			entry.Name(), status, contract.ID, contract.Address, contract.CodeHash)
	}
}
