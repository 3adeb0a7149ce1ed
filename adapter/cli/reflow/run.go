package reflow

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stefan123292/schedule-reflow/internal/reflow/application"
	"github.com/stefan123292/schedule-reflow/internal/reflow/application/cache"
	"github.com/stefan123292/schedule-reflow/internal/reflow/application/publish"
	"github.com/stefan123292/schedule-reflow/internal/reflow/engine"
	"github.com/stefan123292/schedule-reflow/internal/reflow/transport"
)

var (
	inputPath         string
	timezoneFlag      string
	allowEarlierStart bool

	service = application.NewService(cache.NoopCache{}, publish.NewNoopPublisher(nil), nil)
)

// SetService wires the application service subcommands invoke. Call this
// from main before cli.Execute to share the process's Redis/RabbitMQ
// collaborators; otherwise a plain no-op service is used.
func SetService(s *application.Service) {
	service = s
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a reflow over a work order/work center JSON file",
	Long: `Reads the POST /reflow request shape from a file (or stdin when
--input is "-") and prints the response as JSON.

Examples:
  reflow reflow run --input orders.json
  cat orders.json | reflow reflow run --input -
  reflow reflow run --input orders.json --timezone America/Chicago --allow-earlier-start`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(inputPath)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		var req transport.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			return fmt.Errorf("parse input: %w", err)
		}

		cfg := engine.Config{AllowEarlierStart: allowEarlierStart || req.AllowEarlierStart}
		zone := timezoneFlag
		if zone == "" {
			zone = req.Timezone
		}
		if zone != "" {
			loc, err := time.LoadLocation(zone)
			if err != nil {
				return fmt.Errorf("unknown timezone %q: %w", zone, err)
			}
			cfg.Timezone = loc
		}

		out, err := service.Reflow(cmd.Context(), transport.ToWorkOrders(req.WorkOrders), transport.ToWorkCenters(req.WorkCenters), cfg)
		if err != nil {
			return err
		}

		encoded, err := json.MarshalIndent(transport.FromOutput(out), "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		fmt.Println(string(encoded))
		return nil
	},
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("--input is required")
	}
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func init() {
	runCmd.Flags().StringVar(&inputPath, "input", "", `path to the request JSON file, or "-" for stdin`)
	runCmd.Flags().StringVar(&timezoneFlag, "timezone", "", "IANA timezone name overriding the request body's")
	runCmd.Flags().BoolVar(&allowEarlierStart, "allow-earlier-start", false, "allow scheduling earlier than the original start")
}
