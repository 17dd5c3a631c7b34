// Package notifier delivers desktop notifications through the companion
// tray application's local webhook.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/studystreak/internal/constants"
	"github.com/julianstephens/studystreak/internal/milestone"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess

	ErrTrayNotRunning = errors.New(constants.TrayExecutablePrefix + " is not running")
)

type Notifier struct {
	client *http.Client
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: constants.NotifyTimeout}}
}

// Notify sends text to the running tray app.
func (n *Notifier) Notify(text string) error {
	lock, err := locateTray()
	if err != nil {
		return err
	}
	return n.send(lock, WebhookPayload{Text: text, DurationMs: constants.NotificationDurationMs})
}

// Celebrate implements milestone.Sink.
func (n *Notifier) Celebrate(c milestone.Celebration) error {
	return n.Notify(c.Message())
}

// TrayRunning reports whether a live tray process owns the lockfile.
func TrayRunning() error {
	_, err := locateTray()
	return err
}

// GetTrayAppConfigDir returns the directory holding the tray lockfile.
// The tray's settings.json may point it elsewhere via lockfile_dir.
func GetTrayAppConfigDir() (string, error) {
	base, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	dir := filepath.Join(base, constants.TrayAppIdentifier)

	var settings struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if data, err := os.ReadFile(filepath.Join(dir, "settings.json")); err == nil {
		if json.Unmarshal(data, &settings) == nil && settings.Settings.LockfileDir != "" {
			return settings.Settings.LockfileDir, nil
		}
	}
	return dir, nil
}

// trayLock is the "port|pid|secret" record the tray app writes on start.
type trayLock struct {
	port   int
	pid    int
	secret string
}

func (l trayLock) endpoint() string {
	return "http://127.0.0.1:" + strconv.Itoa(l.port)
}

func locateTray() (trayLock, error) {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return trayLock{}, err
	}
	return readTrayLock(filepath.Join(dir, constants.NotifierLockfileName))
}

// readTrayLock parses the lockfile and confirms its pid still belongs to
// the tray executable.
func readTrayLock(path string) (trayLock, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return trayLock{}, ErrTrayNotRunning
	}
	lock, err := parseTrayLock(string(raw))
	if err != nil {
		return trayLock{}, err
	}

	proc, err := findProcessFunc(lock.pid)
	if err != nil || proc == nil {
		return trayLock{}, ErrTrayNotRunning
	}
	if exe := proc.Executable(); !strings.HasPrefix(exe, constants.TrayExecutablePrefix) {
		return trayLock{}, fmt.Errorf("pid %d belongs to %s, not %s", lock.pid, exe, constants.TrayExecutablePrefix)
	}
	return lock, nil
}

func parseTrayLock(raw string) (trayLock, error) {
	fields := strings.Split(strings.TrimSpace(raw), "|")
	if len(fields) != 3 {
		return trayLock{}, errors.New("lockfile is malformed")
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	port, err := strconv.Atoi(fields[0])
	if err != nil {
		return trayLock{}, fmt.Errorf("invalid port %q in lockfile", fields[0])
	}
	if port < 1 || port > 65535 {
		return trayLock{}, fmt.Errorf("port %d in lockfile is out of range", port)
	}
	pid, err := strconv.Atoi(fields[1])
	if err != nil {
		return trayLock{}, fmt.Errorf("invalid pid %q in lockfile", fields[1])
	}
	if fields[2] == "" {
		return trayLock{}, errors.New("lockfile has an empty secret")
	}
	return trayLock{port: port, pid: pid, secret: fields[2]}, nil
}

func (n *Notifier) send(lock trayLock, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, lock.endpoint(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Studystreak-Secret", lock.secret)

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("tray unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("tray rejected notification (%d): %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
