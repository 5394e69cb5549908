package mutualwd

import "os"

// spawnPartner starts a fresh process running the binary at path with the
// given argv, inheriting this process's environment (which already
// carries WD_ON=1 from the very first Start call). This is the Go
// analogue of "fork(); in the child, execv(path, argv)": Go's runtime is
// multi-threaded, and a bare fork() without an immediate exec() in the
// child is unsupported in a live Go process, so os.StartProcess — fork
// and exec performed atomically by the OS on our behalf — is the correct
// substitute. The result is observationally identical: a new PID running
// path with the original argv.
func spawnPartner(path string, argv []string) (*os.Process, error) {
	attr := &os.ProcAttr{
		Env:   os.Environ(),
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	return os.StartProcess(path, argv, attr)
}
