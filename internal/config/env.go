package config

import (
	"fmt"
	"os"
	"strconv"
)

// envInt reads an integer variable, returning def when it is unset or blank.
func envInt(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, nil
}
