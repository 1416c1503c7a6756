package poly

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// bankFileName is the patch bank file expected under the engine data path.
const bankFileName = "patches.json"

type patch struct {
	Name   string             `json:"name"`
	Values map[string]float32 `json:"values"`
}

type patchBank struct {
	Patches []patch `json:"patches"`
}

// loadBank reads the patch bank from dir and returns the patches in raw
// (on-disk) order.
func loadBank(dir string) ([]patch, error) {
	path := filepath.Join(dir, bankFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patch bank: %w", err)
	}

	var bank patchBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse patch bank %s: %w", path, err)
	}
	return bank.Patches, nil
}

// displayOrdering maps display positions to raw catalog indices, sorting
// patches by name. Raw order is whatever the bank file says.
func displayOrdering(patches []patch) []int {
	order := make([]int, len(patches))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return strings.ToLower(patches[order[a]].Name) < strings.ToLower(patches[order[b]].Name)
	})
	return order
}
