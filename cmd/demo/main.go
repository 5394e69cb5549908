// Command demo is a runnable illustration of mutual supervision: it forks
// itself, lets the child bring up a Supervision Context as the user
// process, then kills that child out from under its watchdog to show the
// watchdog reviving it. It carries forward the demonstration
// flow that accompanied the original watchdog implementation, translated
// into the Go API this repository exposes.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kornnellio/mutualwd"
)

// demoChildEnv distinguishes the outer harness process, which only forks
// and kills, from the inner process, which actually exercises
// mutualwd.Start. It is independent of mutualwd's own WD_ON bookkeeping.
const demoChildEnv = "MUTUALWD_DEMO_CHILD"

func main() {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Demonstrate mutual-supervision revival",
		RunE:  runDemo,
	}
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	if os.Getenv(demoChildEnv) == "" {
		return runHarness()
	}
	return runChild()
}

// runHarness launches the child, waits long enough for it to establish
// supervision, then kills it to demonstrate the watchdog reviving it.
func runHarness() error {
	child := exec.Command(os.Args[0])
	child.Env = append(os.Environ(), demoChildEnv+"=1")
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	if err := child.Start(); err != nil {
		return fmt.Errorf("launch child: %w", err)
	}

	fmt.Println(" ~ demo harness running ~")
	time.Sleep(5 * time.Second)
	fmt.Println(" ~ demo harness killing child ~")
	if err := child.Process.Signal(syscall.SIGKILL); err != nil {
		return fmt.Errorf("kill child: %w", err)
	}
	_ = child.Wait()
	return nil
}

// runChild is the process that actually starts supervision, observes its
// own watchdog long enough to log a beat or two, then asks the watchdog to
// stop. If the harness kills this process first, the watchdog revives it;
// a freshly-revived child prints the "revived" banner below and then exits
// after shutting its watchdog down cleanly, same as a normal run.
func runChild() error {
	argv := os.Args

	if os.Getenv("WD_ON") != "" {
		fmt.Println(" ~ user process revived by its watchdog ~")
	} else {
		fmt.Println(" ~ user process starting ~")
	}

	h, err := mutualwd.Start(mutualwd.RoleUser, argv)
	if err != nil {
		return fmt.Errorf("start supervision: %w", err)
	}

	for i := 0; i < 10; i++ {
		fmt.Printf("user process alive, watchdog pid %d, tick %d\n", h.Partner(), i)
		time.Sleep(time.Second)
	}

	fmt.Println(" ~ user process stopping its watchdog ~")
	if err := h.Stop(5 * time.Second); err != nil {
		return fmt.Errorf("stop supervision: %w", err)
	}
	fmt.Println(" ~ user process finished ~")
	return nil
}
