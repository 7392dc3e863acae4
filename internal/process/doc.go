// Package process starts and stops the sidecar executable.
//
// BaseProcess owns one *exec.Cmd from Start to Stop: it redirects the
// child's stdout and stderr into log files in the data directory, runs the
// single cmd.Wait goroutine, and terminates the child with SIGTERM followed
// by SIGKILL after a grace period. ExecSpawner builds on it to implement the
// Spawner capability the supervisor consumes, and WaitReady polls a started
// child until its health endpoint answers.
package process
