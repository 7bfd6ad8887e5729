package gwt

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultTermGrace is how long a cancelled JVM gets between SIGTERM and SIGKILL.
const DefaultTermGrace = 5 * time.Second

// CommandLine forks the toolchain JVM.
type CommandLine struct {
	// JVM is an explicit java executable. It wins over JavaHome.
	JVM      string
	JavaHome string
	// WorkingDir is the process directory, normally the project build dir.
	WorkingDir string
	// Env is overlaid on the current environment.
	Env       map[string]string
	Log       *zap.Logger
	TermGrace time.Duration
}

// Executable resolves the java binary: JVM, then JavaHome/bin/java, then
// $JAVA_HOME/bin/java, then java on PATH.
func (c *CommandLine) Executable() string {
	if strings.TrimSpace(c.JVM) != "" {
		return c.JVM
	}
	if c.JavaHome != "" {
		return filepath.Join(c.JavaHome, "bin", "java")
	}
	if home := os.Getenv("JAVA_HOME"); home != "" {
		return filepath.Join(home, "bin", "java")
	}
	return "java"
}

// Command returns the argv Execute would run.
func (c *CommandLine) Command(args []string) []string {
	return append([]string{c.Executable()}, args...)
}

func (c *CommandLine) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

// Execute runs the JVM with CLASSPATH set to classpath. Output lines are
// logged, stdout at info and stderr at warn unless the line carries a GWT
// level marker. A non-zero exit is reported as *ExitError. Cancelling ctx
// terminates the whole process group.
func (c *CommandLine) Execute(ctx context.Context, classpath, args []string) error {
	log := c.logger()
	program := c.Executable()
	cp := strings.Join(classpath, string(os.PathListSeparator))

	env := map[string]string{}
	for k, v := range c.Env {
		env[k] = v
	}
	env["CLASSPATH"] = cp

	cmd := exec.Command(program, args...)
	cmd.Dir = c.WorkingDir
	cmd.Env = applyEnvOverlay(os.Environ(), env)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}

	log.Debug("classpath", zap.String("classpath", cp))
	log.Debug("arguments", zap.String("program", program), zap.String("args", strings.Join(args, " ")))

	if c.WorkingDir != "" {
		if err := os.MkdirAll(c.WorkingDir, 0o755); err != nil {
			return err
		}
	}
	if err := cmd.Start(); err != nil {
		return &StartError{Program: program, Err: err}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		pumpLines(stdout, log, zapcore.InfoLevel)
	}()
	go func() {
		defer wg.Done()
		pumpLines(stderr, log, zapcore.WarnLevel)
	}()

	done := make(chan error, 1)
	go func() {
		wg.Wait()
		done <- cmd.Wait()
	}()

	var runErr error
	select {
	case runErr = <-done:
	case <-ctx.Done():
		signalProcess(cmd, syscall.SIGTERM)
		grace := c.TermGrace
		if grace <= 0 {
			grace = DefaultTermGrace
		}
		timer := time.NewTimer(grace)
		select {
		case <-done:
			timer.Stop()
		case <-timer.C:
			signalProcess(cmd, syscall.SIGKILL)
			<-done
		}
		return ctx.Err()
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode()}
		}
		return runErr
	}
	return nil
}

func signalProcess(cmd *exec.Cmd, sig syscall.Signal) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	pid := cmd.Process.Pid
	if pid > 0 {
		if err := syscall.Kill(-pid, sig); err == nil {
			return
		}
	}
	_ = cmd.Process.Signal(sig)
}

func applyEnvOverlay(base []string, overlay map[string]string) []string {
	if len(overlay) == 0 {
		return append([]string(nil), base...)
	}
	m := map[string]string{}
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		m[kv[:i]] = kv[i+1:]
	}
	for k, v := range overlay {
		m[k] = v
	}
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
