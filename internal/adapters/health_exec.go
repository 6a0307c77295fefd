package adapters

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"upgrade-guard/internal/core"
	"upgrade-guard/internal/shared"
)

// NewExecHealthCheck wraps a subprocess invocation as a post-upgrade
// health check. The check passes when the command exits zero.
func NewExecHealthCheck(binary string, args []string, timeout time.Duration) core.HealthCheck {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return func(ctx context.Context) error {
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		cmd := exec.CommandContext(runCtx, binary, args...)
		output, err := cmd.CombinedOutput()
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeUnavailable).
				WithMsg(fmt.Sprintf("%s %s failed", binary, strings.Join(args, " "))).
				WithCause(shared.CommandError(output, err))
		}
		return nil
	}
}
