package sync

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/pkg/errors"

	"github.com/jobsync/jobsync/common/gerror"
	"github.com/jobsync/jobsync/common/logger"
	"github.com/jobsync/jobsync/common/models"
)

// notFoundMarker is the phrase the control executable prints on stderr when
// asked for a job the server does not know.
const notFoundMarker = "No such job"

type CLIStoreConfig struct {
	// Command is the control executable and any leading arguments, e.g.
	// ["java", "-jar", "jenkins-cli.jar"]. Resolution of the executable is
	// the caller's concern.
	Command []string
	// Endpoint is the server URL, passed to the executable via -s.
	Endpoint string
}

// CLIStore is a Store implementation that manages jobs by invoking the CI
// server's control executable once per operation, writing configuration
// documents to the process's stdin. Each invocation is fully scoped: the
// process is started, fed, awaited and reaped before the call returns, even
// when feeding stdin fails.
type CLIStore struct {
	config CLIStoreConfig
	log    logger.Log
}

func NewCLIStore(config CLIStoreConfig, logFactory logger.LogFactory) (*CLIStore, error) {
	if len(config.Command) == 0 {
		return nil, gerror.NewErrValidationFailed("error control command must be set")
	}
	if config.Endpoint == "" {
		return nil, gerror.NewErrValidationFailed("error server endpoint must be set")
	}
	return &CLIStore{
		config: config,
		log:    logFactory("CLIStore"),
	}, nil
}

func (s *CLIStore) Exists(ctx context.Context, name models.JobName) (bool, error) {
	stderr, err := s.run(ctx, nil, "get-job", name.String())
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && strings.Contains(stderr, notFoundMarker) {
		// Confirmed absent: the executable reached the server and the server
		// reported the job unknown.
		return false, nil
	}
	return false, errors.Wrapf(err, "error checking existence of job %q", name)
}

func (s *CLIStore) Create(ctx context.Context, name models.JobName, config []byte) error {
	if _, err := s.run(ctx, config, "create-job", name.String()); err != nil {
		return errors.Wrapf(err, "error creating job %q", name)
	}
	return nil
}

func (s *CLIStore) Update(ctx context.Context, name models.JobName, config []byte) error {
	if _, err := s.run(ctx, config, "update-job", name.String()); err != nil {
		return errors.Wrapf(err, "error updating job %q", name)
	}
	return nil
}

// run invokes the control executable with the given operation arguments,
// feeding stdin when a payload is supplied. It returns the captured stderr
// output alongside any error so callers can inspect the server's message.
func (s *CLIStore) run(ctx context.Context, stdin []byte, args ...string) (string, error) {
	argv := append([]string{}, s.config.Command[1:]...)
	argv = append(argv, "-s", s.config.Endpoint)
	argv = append(argv, args...)

	cmd := exec.CommandContext(ctx, s.config.Command[0], argv...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	s.log.Debugf("running %s", shellescape.QuoteCommand(append([]string{s.config.Command[0]}, argv...)))
	err := cmd.Run()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stderr.String(), fmt.Errorf("%w: %s", err, msg)
		}
		return stderr.String(), err
	}
	return stderr.String(), nil
}
