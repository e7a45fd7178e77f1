package bridge

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Runner executes the external bridge binary. Injected so tests can record
// invocations instead of spawning processes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

// Homebrew installs adb outside the default PATH on some setups.
var extraSearchPaths = []string{
	"/opt/homebrew/bin/adb",
	"/usr/local/bin/adb",
}

// FindADB locates the adb binary in PATH or the usual Homebrew locations.
func FindADB() (string, error) {
	if p, err := exec.LookPath("adb"); err == nil {
		return p, nil
	}
	for _, p := range extraSearchPaths {
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", ErrBridgeNotFound
}

// ADB implements Bridge by shelling out to the adb tool.
type ADB struct {
	cmd string
	run Runner
}

// NewADB wraps the adb binary at cmd. A nil runner uses real processes.
func NewADB(cmd string, run Runner) *ADB {
	if run == nil {
		run = execRunner{}
	}
	return &ADB{cmd: cmd, run: run}
}

func (a *ADB) Push(ctx context.Context, localPath, remoteDir string) error {
	abs, err := filepath.Abs(localPath)
	if err != nil {
		return err
	}
	if st, err := os.Stat(abs); err != nil || !st.Mode().IsRegular() {
		return fmt.Errorf("local file %s: %w", localPath, os.ErrNotExist)
	}
	if remoteDir == "" {
		remoteDir = DefaultRemoteDir
	}
	if !strings.HasSuffix(remoteDir, "/") {
		remoteDir += "/"
	}
	dest := remoteDir + filepath.Base(abs)

	logrus.WithFields(logrus.Fields{"src": abs, "dest": dest}).Info("pushing file to device")
	out, err := a.run.Run(ctx, a.cmd, "push", abs, dest)
	if err != nil {
		return fmt.Errorf("push failed: %w: %s", err, strings.TrimSpace(out))
	}
	return nil
}

func (a *ADB) Pull(ctx context.Context, remotePath, localDest string) error {
	if localDest == "" {
		localDest = "."
	}
	dest, err := filepath.Abs(localDest)
	if err != nil {
		return err
	}
	if st, err := os.Stat(dest); err == nil && st.IsDir() {
		dest = filepath.Join(dest, filepath.Base(strings.TrimSuffix(remotePath, "/")))
	}

	logrus.WithFields(logrus.Fields{"src": remotePath, "dest": dest}).Info("pulling file from device")
	out, err := a.run.Run(ctx, a.cmd, "pull", remotePath, dest)
	if err != nil {
		return fmt.Errorf("pull failed: %w: %s", err, strings.TrimSpace(out))
	}
	return nil
}

func (a *ADB) List(ctx context.Context, remoteDir string) (string, error) {
	if remoteDir == "" {
		remoteDir = DefaultRemoteDir
	}
	out, err := a.run.Run(ctx, a.cmd, "shell", "ls", "-la", remoteDir)
	if err != nil {
		return "", fmt.Errorf("list failed: %w: %s", err, strings.TrimSpace(out))
	}
	return out, nil
}

func (a *ADB) Status(ctx context.Context) (bool, string) {
	out, err := a.run.Run(ctx, a.cmd, "devices")
	if err != nil {
		return false, fmt.Sprintf("adb not responding: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) > 0 {
		lines = lines[1:] // "List of devices attached" header
	}
	unauthorized := false
	for _, line := range lines {
		fields := strings.Split(strings.TrimSpace(line), "\t")
		if len(fields) < 2 {
			continue
		}
		switch fields[1] {
		case "device":
			return true, fields[0]
		case "unauthorized":
			unauthorized = true
		}
	}
	if unauthorized {
		return false, "device unauthorized - check your phone for the USB debugging prompt"
	}
	return false, "no device connected"
}
