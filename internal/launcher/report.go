package launcher

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Report keys holding the cluster master address, in lookup order.
var reportEndpointKeys = []string{"gearpump.masters", "masters"}

// readReport returns the cluster endpoint recorded in the launch report.
func readReport(path string) (string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("properties")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read launch report %s: %w", path, err)
	}

	for _, key := range reportEndpointKeys {
		if endpoint := cleanEndpoint(v.GetString(key)); endpoint != "" {
			return endpoint, nil
		}
	}
	return "", nil
}

func cleanEndpoint(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `[]"'`)
	return strings.TrimSpace(s)
}
