package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// Dev sunucusu kaynak betiklerdeki gibi arka planda çalışır ama başıboş
// bırakılmaz: handle üzerinden durdurulabilir, çökmesi fark edilir ve
// pipeline başarıyla biterse Detach ile ayrılır.

var (
	// ErrTokenNotFound, token tarama bütçesi tükendiğinde döner.
	ErrTokenNotFound = errors.New("root token did not appear in server output")
	// ErrServerExited, sunucu daha hazır olmadan sonlandığında döner.
	ErrServerExited = errors.New("vault dev server exited prematurely")

	errTokenNotYet = errors.New("root token not in output yet")

	// "Root Token: hvs...." satırı dev modda bir kez basılır.
	rootTokenRe = regexp.MustCompile(`Root Token:\s+(\S+)`)
)

// DevServer, `vault server -dev` sürecinin denetimli sahibidir. Çıktı
// log dosyasına yönlendirilir; süreç Detach sonrasında da dosyaya
// yazmaya devam edebilir.
type DevServer struct {
	ListenAddr string
	LogPath    string

	cmd     *exec.Cmd
	logFile *os.File

	mu       sync.Mutex
	detached bool
	exited   bool
	waitErr  error
	done     chan struct{}
}

func NewDevServer(listenAddr, logPath string) *DevServer {
	return &DevServer{
		ListenAddr: listenAddr,
		LogPath:    logPath,
		done:       make(chan struct{}),
	}
}

// Start launches the dev server with its output captured in LogPath.
// The log file holds the generated root token, so it is created 0600.
func (s *DevServer) Start() error {
	logFile, err := os.OpenFile(s.LogPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create vault log %s: %w", s.LogPath, err)
	}

	cmd := exec.Command("vault", "server", "-dev", "-dev-listen-address="+s.ListenAddr)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return fmt.Errorf("start vault dev server: %w", err)
	}

	s.cmd = cmd
	s.logFile = logFile

	// Reaper: erken ölümü done kanalıyla görünür kılar.
	go func() {
		err := cmd.Wait()
		s.mu.Lock()
		s.exited = true
		s.waitErr = err
		s.mu.Unlock()
		close(s.done)
	}()

	return nil
}

// PID returns the server's process id.
func (s *DevServer) PID() int {
	if s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// Exited reports whether the process has already terminated.
func (s *DevServer) Exited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exited
}

// WaitToken polls the captured output for the generated root token with
// a bounded budget. An exited server is fatal immediately; exhausting
// the budget returns ErrTokenNotFound.
func (s *DevServer) WaitToken(ctx context.Context, attempts int, delay time.Duration, clk clock.Clock, logger core.Logger) (string, error) {
	var token string

	err := retry.Call(retry.CallArgs{
		Func: func() error {
			if s.Exited() {
				return fmt.Errorf("%w: %s", ErrServerExited, s.logTail())
			}
			data, err := os.ReadFile(s.LogPath)
			if err != nil {
				return fmt.Errorf("%w (%v)", errTokenNotYet, err)
			}
			m := rootTokenRe.FindSubmatch(data)
			if m == nil {
				return errTokenNotYet
			}
			token = string(m[1])
			return nil
		},
		IsFatalError: func(err error) bool {
			return !errors.Is(err, errTokenNotYet)
		},
		NotifyFunc: func(err error, attempt int) {
			logger.Debug(fmt.Sprintf("waiting for vault root token (attempt %d): %v", attempt, err))
		},
		Attempts: attempts,
		Delay:    delay,
		Clock:    clk,
		Stop:     ctx.Done(),
	})

	switch {
	case err == nil:
		return token, nil
	case retry.IsAttemptsExceeded(err):
		return "", fmt.Errorf("%w after %d attempts", ErrTokenNotFound, attempts)
	case retry.IsRetryStopped(err):
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	default:
		return "", err
	}
}

// Stop terminates the server. Interrupt first so vault can clean up,
// kill after a grace period. Detached servers are left alone.
func (s *DevServer) Stop() error {
	s.mu.Lock()
	if s.cmd == nil || s.detached {
		s.mu.Unlock()
		return nil
	}
	if s.exited {
		s.mu.Unlock()
		return s.closeLog()
	}
	s.mu.Unlock()

	if err := s.cmd.Process.Signal(os.Interrupt); err != nil {
		s.cmd.Process.Kill()
	}

	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
		s.cmd.Process.Kill()
		<-s.done
	}

	return s.closeLog()
}

// Detach leaves the server running past the pipeline's lifetime and
// returns its PID. Stop becomes a no-op afterwards.
func (s *DevServer) Detach() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil {
		return 0, fmt.Errorf("server not started")
	}
	if s.exited {
		return 0, fmt.Errorf("%w: %v", ErrServerExited, s.waitErr)
	}
	s.detached = true
	return s.cmd.Process.Pid, nil
}

func (s *DevServer) closeLog() error {
	if s.logFile == nil {
		return nil
	}
	err := s.logFile.Close()
	s.logFile = nil
	return err
}

// logTail, hata mesajlarına eklenecek son log satırlarını döner.
func (s *DevServer) logTail() string {
	data, err := os.ReadFile(s.LogPath)
	if err != nil {
		return "(no log captured)"
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, " | ")
}
