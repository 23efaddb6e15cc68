//go:build !windows

package launcher

import "os/exec"

// configureCmd is a no-op outside Windows.
func configureCmd(cmd *exec.Cmd) {
	_ = cmd
}
