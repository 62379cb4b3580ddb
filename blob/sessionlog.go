/*
Copyright (C) 2026  Zewos Contributors

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package blob

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dc0d/onexit"
	"github.com/google/uuid"
)

// SessionLog is an append-only, plaintext (never AEAD-wrapped) record of
// Store API calls within one process lifetime. It is a passive sink: a
// failure to log never fails the calling Store operation.
type SessionLog struct {
	mu        sync.Mutex
	f         *os.File
	w         *bufio.Writer
	sessionID string
}

// logEntry is one JSON line written per Store API call.
type logEntry struct {
	Session string `json:"session"`
	Time    string `json:"time"`
	Op      string `json:"op"`
	Key     string `json:"key,omitempty"`
	Status  string `json:"status"`
}

// OpenSessionLog creates logs/<timestamp>.zewos and registers an onexit
// hook to flush and close it on process shutdown, mirroring the teacher's
// pattern of registering cleanup via dc0d/onexit rather than relying on a
// caller-invoked Close in every code path.
func OpenSessionLog(dir *Directory) (*SessionLog, error) {
	name := time.Now().Format("2006-01-02_15-04-05") + ".zewos"
	path := filepath.Join(dir.Logs, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return nil, fmt.Errorf("blob.OpenSessionLog: %w", err)
	}
	sl := &SessionLog{
		f:         f,
		w:         bufio.NewWriter(f),
		sessionID: uuid.NewString(),
	}
	onexit.Register(func() { sl.Close() })
	return sl, nil
}

// Record appends one log line. Errors are swallowed by design (the log is
// a passive sink); callers that care can check the returned bool.
func (sl *SessionLog) Record(op, key, status string) bool {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	entry := logEntry{
		Session: sl.sessionID,
		Time:    time.Now().UTC().Format(time.RFC3339Nano),
		Op:      op,
		Key:     key,
		Status:  status,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return false
	}
	line = append(line, '\n')
	if _, err := sl.w.Write(line); err != nil {
		return false
	}
	return sl.w.Flush() == nil
}

// Close flushes and closes the underlying log file. Safe to call more than
// once (e.g. explicitly and again via the onexit hook).
func (sl *SessionLog) Close() error {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.f == nil {
		return nil
	}
	sl.w.Flush()
	err := sl.f.Close()
	sl.f = nil
	return err
}
