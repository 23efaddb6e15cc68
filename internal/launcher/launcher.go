// Package launcher starts and tracks the child process under enforcement.
package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	log "github.com/charmbracelet/log"
)

// Process is a spawned child tracked for exit.
type Process struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	waitCh  chan error
	done    bool
	waitErr error
}

// Spawn starts the executable at path with the given working directory and
// arguments. The child's stdout and stderr pass through to ours.
func Spawn(path, dir string, args []string) (*Process, error) {
	cmd := exec.Command(path, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	configureCmd(cmd)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("launcher: start %s: %w", path, err)
	}
	log.Infof("spawned %s (pid %d)", path, cmd.Process.Pid)

	p := &Process{cmd: cmd, waitCh: make(chan error, 1)}
	go func() {
		p.waitCh <- cmd.Wait()
	}()
	return p, nil
}

// PID returns the child's process id.
func (p *Process) PID() uint32 { return uint32(p.cmd.Process.Pid) }

// Exited reports without blocking whether the child has exited.
func (p *Process) Exited() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return true
	}
	select {
	case err := <-p.waitCh:
		p.done = true
		p.waitErr = err
		return true
	default:
		return false
	}
}

// Wait blocks until the child exits and returns its exit error.
func (p *Process) Wait() error {
	p.mu.Lock()
	if p.done {
		defer p.mu.Unlock()
		return p.waitErr
	}
	p.mu.Unlock()

	err := <-p.waitCh
	p.mu.Lock()
	p.done = true
	p.waitErr = err
	p.mu.Unlock()
	return err
}

// Stop kills the child if it is still running and waits for it to exit.
// The child's exit status is discarded: after a deliberate kill it only
// reports the signal.
func (p *Process) Stop() error {
	if p.Exited() {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("launcher: kill pid %d: %w", p.cmd.Process.Pid, err)
	}
	_ = p.Wait()
	return nil
}
