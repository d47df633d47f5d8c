package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var doctorServer string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local environment and service reachability",
	Long: `Runs quick checks: whether scenarios load, what configuration will be
used, and whether the analysis service answers its health endpoint.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorServer, "server", serverURLFromEnv(), "Analysis service base URL to probe")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("YatriGuard environment check")
	fmt.Println()

	ok := true

	registry, err := loadScenarios()
	if err != nil {
		fmt.Printf("  [FAIL] scenarios: %v\n", err)
		ok = false
	} else {
		fmt.Printf("  [ OK ] scenarios: %d available\n", len(registry.List()))
	}

	fmt.Printf("  [ OK ] server URL: %s\n", doctorServer)
	fmt.Printf("  [ OK ] user ID: %s\n", userIDFromEnv())

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(httpBase(doctorServer) + "/health")
	if err != nil {
		fmt.Printf("  [FAIL] service health: %v\n", err)
		fmt.Println("         (start one locally with: yatriguard serve)")
		ok = false
	} else {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			fmt.Printf("  [ OK ] service health: %s responded %d\n", httpBase(doctorServer), resp.StatusCode)
		} else {
			fmt.Printf("  [WARN] service health: %s responded %d\n", httpBase(doctorServer), resp.StatusCode)
		}
	}

	fmt.Println()
	if !ok {
		return fmt.Errorf("some checks failed")
	}
	fmt.Println("All checks passed")
	return nil
}
