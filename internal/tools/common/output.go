package common

import (
	"encoding/json"
	"os"
)

// CIResult is the JSON shape printed by ops subcommands in --ci mode,
// meant to be consumed by deployment pipelines rather than humans.
type CIResult struct {
	OK      bool     `json:"ok"`
	Task    string   `json:"task"`
	Details []string `json:"details,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func PrintCIResult(ok bool, task string, details []string, err error) {
	result := CIResult{OK: ok, Task: task, Details: details}
	if err != nil {
		result.Error = err.Error()
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
}
