// Command watchdog is the watchdog half of a mutual-supervision pair. It is
// never launched directly by an operator; mutualwd.Start spawns it (or its
// counterpart) via the path recorded in Config.WatchdogPath, re-execing with
// the user process's own argv so both halves see the same command line.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kornnellio/mutualwd"
)

var (
	configPath  string
	stopTimeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "watchdog:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchdog",
		Short: "Watchdog half of a mutual-supervision pair",
		RunE:  runWatchdog,
		// The user's own argv is re-exec'd verbatim on revival, so this
		// binary must accept and silently ignore arguments that belong to
		// the user process rather than to itself.
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	}
	cmd.Flags().StringVar(&configPath, "watchdog-config", "", "path to watchdog.yaml (defaults to ./watchdog.yaml or /etc/watchdog)")
	cmd.Flags().DurationVar(&stopTimeout, "stop-timeout", 5*time.Second, "how long Stop waits for the partner to acknowledge STOP")
	cmd.AddCommand(newStatusCmd())
	return cmd
}

// newStatusCmd is only meaningful when run from a signal handler or hook
// inside the same process as an active Supervision Context; as a
// standalone CLI invocation there is never an active context in this
// process, so it exists mainly for embedders that wire a status endpoint
// around mutualwd.Active.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current partner's /proc status, if supervision is active in this process",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := mutualwd.Active()
			if err != nil {
				return err
			}
			fmt.Println(h.PartnerStatus().String())
			return nil
		},
	}
}

func runWatchdog(cmd *cobra.Command, args []string) error {
	argv := os.Args

	var opts []mutualwd.Option
	if configPath != "" {
		opts = append(opts, mutualwd.WithConfigFile(configPath))
	}

	h, err := mutualwd.Start(mutualwd.RoleWatchdog, argv, opts...)
	if err != nil {
		return fmt.Errorf("start supervision: %w", err)
	}

	// Start blocks on RoleWatchdog until the task engine stops (partner
	// requested shutdown, or Stop was called from a handler). By the time
	// it returns here, the engine has already wound down; Stop is still
	// called to release the semaphore and any remaining state cleanly.
	return h.Stop(stopTimeout)
}
