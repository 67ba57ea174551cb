// Package logsource reads Project Zomboid server files from a local
// directory tree: the rolling console log, the rotated per-day logs, and the
// backup archives.
package logsource

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/travisw1990/spiffo-pz-bot/internal/cursor"
)

// Keywords that mark a console line as player activity.
var activityKeywords = []string{"player", "connected", "disconnected", "login", "logout"}

// onlineWindow is how recently the console log must have been written for the
// server to count as running.
const onlineWindow = 5 * time.Minute

// Source locates the server's log files on disk.
type Source struct {
	ConsoleLog string // rolling console log (server-console.txt)
	LogDir     string // rotated per-day logs (*.txt)
	BackupDir  string // backup archives, startup/ and version/ subdirectories
}

// LatestLogFile returns the most recently modified *.txt file in LogDir.
func (s Source) LatestLogFile() (string, error) {
	entries, err := os.ReadDir(s.LogDir)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", s.LogDir, err)
	}

	var newest string
	var newestMod time.Time
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = e.Name()
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no log files in %s", s.LogDir)
	}
	return filepath.Join(s.LogDir, newest), nil
}

// RecentLines returns the last max lines of the console log.
func (s Source) RecentLines(max int) ([]string, error) {
	lines, err := readLines(s.ConsoleLog)
	if err != nil {
		return nil, err
	}
	if len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	return lines, nil
}

// Search returns console lines from the last max that contain term,
// case-insensitively.
func (s Source) Search(term string, max int) ([]string, error) {
	lines, err := s.RecentLines(max)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(term)
	var matches []string
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), needle) {
			matches = append(matches, line)
		}
	}
	return matches, nil
}

// PlayerActivity returns console lines from the last max that mention
// connection or login activity.
func (s Source) PlayerActivity(max int) ([]string, error) {
	lines, err := s.RecentLines(max)
	if err != nil {
		return nil, err
	}
	var activity []string
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range activityKeywords {
			if strings.Contains(lower, kw) {
				activity = append(activity, line)
				break
			}
		}
	}
	return activity, nil
}

// ServerOnline reports whether the server looks alive. A console log written
// within the last five minutes counts as running; a recent "SERVER STARTED"
// line upgrades the verdict from "appears online" to confirmed.
func (s Source) ServerOnline(now time.Time) (bool, string, error) {
	info, err := os.Stat(s.ConsoleLog)
	if err != nil {
		return false, "", fmt.Errorf("stat %s: %w", s.ConsoleLog, err)
	}

	age := now.Sub(info.ModTime())
	minutes := int(age.Minutes())
	if age >= onlineWindow {
		return false, fmt.Sprintf("server appears offline (last log update: %d minutes ago)", minutes), nil
	}

	tail, err := s.RecentLines(10)
	if err != nil {
		return false, "", err
	}
	for _, line := range tail {
		if strings.Contains(line, "SERVER STARTED") {
			return true, fmt.Sprintf("server online (last activity: %d minutes ago)", minutes), nil
		}
	}
	return true, fmt.Sprintf("server appears online (log updated %d minutes ago)", minutes), nil
}

// ListBackups returns the *.zip archives under the startup/ and version/
// backup subdirectories, prefixed with their subdirectory name.
func (s Source) ListBackups() ([]string, error) {
	var backups []string
	for _, sub := range []string{"startup", "version"} {
		entries, err := os.ReadDir(filepath.Join(s.BackupDir, sub))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("list %s backups: %w", sub, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".zip") {
				names = append(names, sub+"/"+e.Name())
			}
		}
		sort.Strings(names)
		backups = append(backups, names...)
	}
	return backups, nil
}

// ReadNew returns the complete lines appended to path since pos, plus the
// position to persist for the next call. A changed first line means the file
// was rotated under the same path, so reading restarts from the top; a
// shrunken file means truncation and restarts too. A trailing partial line is
// left for the next call.
func ReadNew(path string, pos cursor.Position) ([]string, cursor.Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pos, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	first, complete, err := firstLine(f)
	if err != nil {
		return nil, pos, fmt.Errorf("read %s: %w", path, err)
	}

	offset := pos.Offset
	if pos.FirstLine != "" && first != pos.FirstLine {
		offset = 0
	}
	info, err := f.Stat()
	if err != nil {
		return nil, pos, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() < offset {
		offset = 0
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, pos, fmt.Errorf("seek %s: %w", path, err)
	}

	var lines []string
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pos, fmt.Errorf("read %s: %w", path, err)
		}
		offset += int64(len(line))
		lines = append(lines, strings.TrimRight(line, "\r\n"))
	}

	next := cursor.Position{Offset: offset}
	if complete {
		next.FirstLine = first
	}
	return lines, next, nil
}

// firstLine reads the first line of f. complete is false when the file has no
// newline yet, in which case the line cannot serve as a rotation fingerprint.
func firstLine(f *os.File) (line string, complete bool, err error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", false, err
	}
	line, err = bufio.NewReader(f).ReadString('\n')
	if err == io.EOF {
		return strings.TrimRight(line, "\r\n"), false, nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines, nil
}
