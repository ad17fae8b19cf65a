package launcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/gearpump-broker/internal/credentials"
	"github.com/imamik/gearpump-broker/internal/platform/yarn"
	"github.com/imamik/gearpump-broker/internal/util/naming"
)

// Status is the outcome of a launch.
type Status int

const (
	StatusOK Status = iota
	StatusError
)

func (s Status) String() string {
	if s == StatusOK {
		return "OK"
	}
	return "ERROR"
}

// SpawnResult is returned by Launch. Credentials is populated as far as the
// launch got, so a failed launch with a JobID can be rolled back.
type SpawnResult struct {
	Status      Status
	Credentials credentials.ClusterCredentials
	Err         error
}

// Killer terminates YARN applications.
type Killer interface {
	KillApplication(ctx context.Context, id yarn.ApplicationID) error
}

// Config describes the scheduler command.
type Config struct {
	Command      string
	WorkDir      string
	PackURI      string
	ReportDir    string
	WorkerMemory string
	// JavaOpts are appended to JAVA_OPTS after the worker options.
	JavaOpts []string
}

// KerberosJavaOpts returns the JVM options pointing the scheduler client at a KDC.
func KerberosJavaOpts(kdc, realm string) []string {
	return []string{
		"-Djava.security.krb5.kdc=" + kdc,
		"-Djava.security.krb5.realm=" + realm,
	}
}

// Launcher launches and terminates clusters.
type Launcher struct {
	cfg    Config
	runner Runner
	killer Killer
	log    logr.Logger
	now    func() time.Time
}

// New creates a Launcher.
func New(cfg Config, runner Runner, killer Killer, log logr.Logger) *Launcher {
	return &Launcher{cfg: cfg, runner: runner, killer: killer, log: log, now: time.Now}
}

// Launch starts a cluster with the given number of workers and blocks until
// the scheduler command exits.
func (l *Launcher) Launch(ctx context.Context, workers int) SpawnResult {
	reportPath := naming.ReportFile(l.cfg.ReportDir, l.now())
	defer l.removeReport(reportPath)

	cmd := Command{
		Path: l.cfg.Command,
		Args: []string{"launch", "-package", l.cfg.PackURI, "-output", reportPath},
		Dir:  l.cfg.WorkDir,
		Env:  []string{"JAVA_OPTS=" + strings.Join(l.javaOpts(workers), " ")},
	}

	l.log.Info("launching cluster", "workers", workers, "package", l.cfg.PackURI)
	res := l.runner.Run(ctx, cmd)

	jobID, err := extractJobID(res.Output)
	if err != nil {
		return failed(credentials.ClusterCredentials{}, &Error{Op: "launch", Err: err, Output: tail(res.Output)})
	}
	creds := credentials.ClusterCredentials{JobID: jobID}

	if res.Err != nil {
		l.log.Info("scheduler command failed", "exitCode", res.ExitCode, "jobId", jobID)
		return failed(creds, &Error{Op: "launch", Err: fmt.Errorf("scheduler command exited with code %d: %w", res.ExitCode, res.Err), Output: tail(res.Output)})
	}

	endpoint, err := readReport(reportPath)
	if err != nil {
		l.log.Error(err, "launch report unreadable", "jobId", jobID)
	}
	creds.ClusterEndpoint = endpoint

	if creds.JobID == "" || creds.ClusterEndpoint == "" {
		return failed(creds, &Error{Op: "launch", Err: ErrCredentialsMissing, Output: tail(res.Output)})
	}

	l.log.Info("cluster launched", "jobId", creds.JobID, "endpoint", creds.ClusterEndpoint)
	return SpawnResult{Status: StatusOK, Credentials: creds}
}

// Terminate kills the YARN application jobID. Failures are logged and not returned.
func (l *Launcher) Terminate(ctx context.Context, jobID string) {
	if jobID == "" {
		l.log.Info("no job id recorded, nothing to terminate")
		return
	}

	id, err := yarn.ParseApplicationID(jobID)
	if err != nil {
		l.log.Error(err, "cannot terminate job", "jobId", jobID)
		return
	}

	if err := l.killer.KillApplication(ctx, id); err != nil {
		l.log.Error(err, "failed to terminate job", "jobId", jobID)
		return
	}
	l.log.Info("job terminated", "jobId", jobID)
}

func (l *Launcher) javaOpts(workers int) []string {
	opts := []string{fmt.Sprintf("-Dgearpump.yarn.worker.containers=%d", workers)}
	if l.cfg.WorkerMemory != "" {
		opts = append(opts, "-Dgearpump.yarn.worker.memory="+l.cfg.WorkerMemory)
	}
	return append(opts, l.cfg.JavaOpts...)
}

func (l *Launcher) removeReport(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		l.log.Error(err, "failed to remove launch report", "path", path)
	}
}

func failed(creds credentials.ClusterCredentials, err error) SpawnResult {
	return SpawnResult{Status: StatusError, Credentials: creds, Err: err}
}
