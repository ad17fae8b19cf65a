// Package prerequisites checks that the programs the broker shells out to
// are installed.
package prerequisites

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Tool is a program that may be required.
type Tool struct {
	// Name is a binary name looked up in PATH, or a path to the binary.
	Name string

	// Dir resolves a relative Name containing a slash.
	Dir string

	// Required marks the tool as mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string
}

// BrokerTools returns the tools needed to launch clusters: the scheduler
// command, resolved against workDir, and java.
func BrokerTools(schedulerCommand, workDir string) []Tool {
	return []Tool{
		{
			Name:        schedulerCommand,
			Dir:         workDir,
			Required:    true,
			Description: "Launches Gearpump clusters on YARN",
		},
		{
			Name:        "java",
			Required:    true,
			Description: "Runs the scheduler client",
		},
	}
}

// CheckResult is the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults collects the results of checking several tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors reports whether a required tool is missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error naming every missing required tool, or nil.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.Description))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the given tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(resolve(tool))
		if err == nil {
			result.Found = true
			result.Path = path
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

func resolve(tool Tool) string {
	if tool.Dir == "" || filepath.IsAbs(tool.Name) || !strings.ContainsRune(tool.Name, filepath.Separator) {
		return tool.Name
	}
	return filepath.Join(tool.Dir, tool.Name)
}
