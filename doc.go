// Package mutualwd is a mutual-supervision watchdog: two cooperating
// processes, a user process and a watchdog process, continuously prove
// liveness to each other over SIGUSR1/SIGUSR2. If either dies, the
// survivor revives it by re-executing its original command line. Either
// side can request a clean joint shutdown.
//
// A typical user process looks like:
//
//	h, err := mutualwd.Start(mutualwd.RoleUser, os.Args)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer h.Stop(5 * time.Second)
//	runApplication()
//
// A dedicated watchdog binary's main does the mirror image with
// mutualwd.RoleWatchdog, and nothing else — the task engine takes over
// its main goroutine for the life of the process.
//
// The package only detects death, not hangs: a partner that stops
// servicing signals because it crashed will be revived; a partner stuck
// in an infinite loop that still services signals will not be. It
// supervises exactly one peer, on one host, and makes no promise about
// the revived process's application-level state — only that the same
// binary is restarted with the same argv.
package mutualwd
