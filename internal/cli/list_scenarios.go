package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listScenariosCmd = &cobra.Command{
	Use:   "list-scenarios",
	Short: "List available journey scenarios",
	Long: `Lists the built-in journey scenarios plus any YAML scenarios found in a
local ./scenarios directory. Pass a name to 'monitor --scenario'.`,
	RunE: runListScenarios,
}

func runListScenarios(cmd *cobra.Command, args []string) error {
	registry, err := loadScenarios()
	if err != nil {
		return fmt.Errorf("failed to load scenarios: %w", err)
	}

	descriptions := registry.ListWithDescriptions()
	if len(descriptions) == 0 {
		fmt.Println("No scenarios available")
		return nil
	}

	fmt.Printf("Available scenarios (%d):\n\n", len(descriptions))
	for _, name := range registry.List() {
		fmt.Printf("  %-20s %s\n", name, descriptions[name])
	}
	fmt.Println("\nRun a scenario with: yatriguard monitor --scenario <name>")
	return nil
}
