package adapters

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"upgrade-guard/internal/ports"
	"upgrade-guard/internal/shared"
)

// PipExecAdapter drives a pip-compatible installer through its command
// line. Every invocation gets its own timeout so one hung subprocess
// cannot stall a whole batch.
type PipExecAdapter struct {
	Binary  string
	Timeout time.Duration
}

func NewPipExecAdapter(binary string, timeout time.Duration) PipExecAdapter {
	if binary == "" {
		binary = "pip"
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return PipExecAdapter{Binary: binary, Timeout: timeout}
}

func (a PipExecAdapter) Upgrade(ctx context.Context, name string, version string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(version) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("upgrade needs a package name and a target version")
	}
	_, err := a.run(ctx, "install", fmt.Sprintf("%s==%s", shared.NormalizePipName(name), version))
	return err
}

func (a PipExecAdapter) InstalledVersion(ctx context.Context, name string) (string, error) {
	output, err := a.run(ctx, "show", shared.NormalizePipName(name))
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "Version:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "Version:")), nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("installed version of %s not reported", name))
}

func (a PipExecAdapter) SnapshotLock(ctx context.Context) ([]byte, error) {
	output, err := a.run(ctx, "freeze")
	if err != nil {
		return nil, err
	}
	return []byte(output), nil
}

// RestoreLock reinstalls the exact versions recorded in a frozen lock.
func (a PipExecAdapter) RestoreLock(ctx context.Context, lock []byte) error {
	tmp, err := os.CreateTemp("", "upgrade-guard-restore-*.txt")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stage lock for restore").
			WithCause(err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(lock); err != nil {
		tmp.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stage lock for restore").
			WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stage lock for restore").
			WithCause(err)
	}
	_, err = a.run(ctx, "install", "--force-reinstall", "-r", tmp.Name())
	return err
}

func (a PipExecAdapter) run(ctx context.Context, args ...string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()
	cmd := exec.CommandContext(runCtx, a.Binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg(fmt.Sprintf("%s %s failed", a.Binary, strings.Join(args, " "))).
			WithCause(shared.CommandError(output, err))
	}
	return string(output), nil
}

var _ ports.PackageManagerPort = PipExecAdapter{}
