package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Log manages the append-only audit log
type Log struct {
	mu       sync.Mutex
	filePath string
	file     *os.File
	nextID   uint64
	runID    string
}

// NewLog opens (or creates) the audit log under dataDir. Each Log instance
// carries a fresh run ID so events from concurrent or successive runs can be
// told apart.
func NewLog(dataDir string) (*Log, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating audit directory")
	}

	l := &Log{
		filePath: filepath.Join(dataDir, "audit.log"),
		runID:    uuid.NewString(),
	}
	if err := l.initialize(); err != nil {
		return nil, err
	}
	return l, nil
}

// initialize opens the log file and counts existing events so IDs keep
// increasing across runs.
func (l *Log) initialize() error {
	count, err := l.countEvents()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(l.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "opening audit log")
	}
	l.file = f
	l.nextID = count + 1
	return nil
}

func (l *Log) countEvents() (uint64, error) {
	f, err := os.Open(l.filePath)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "opening audit log")
	}
	defer f.Close()

	dec := json.NewDecoder(bufio.NewReader(f))
	var count uint64
	for dec.More() {
		var e Event
		if err := dec.Decode(&e); err != nil {
			return 0, errors.Wrap(err, "scanning audit log")
		}
		count++
	}
	return count, nil
}

// RunID returns the run identifier stamped on events recorded by this Log.
func (l *Log) RunID() string {
	return l.runID
}

// Record appends one event to the log.
func (l *Log) Record(user string, typ EventType, object string, detail map[string]any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := Event{
		ID:        l.nextID,
		RunID:     l.runID,
		Type:      typ,
		Timestamp: time.Now().UTC(),
		User:      user,
		Object:    object,
		Detail:    detail,
	}

	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "encoding audit event")
	}
	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "writing audit event")
	}

	l.nextID++
	return nil
}

// Events reads back every event in the log.
func (l *Log) Events() ([]Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.filePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "opening audit log")
	}
	defer f.Close()

	var events []Event
	dec := json.NewDecoder(bufio.NewReader(f))
	for dec.More() {
		var e Event
		if err := dec.Decode(&e); err != nil {
			return nil, errors.Wrap(err, "decoding audit event")
		}
		events = append(events, e)
	}
	return events, nil
}

// Close closes the underlying log file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
