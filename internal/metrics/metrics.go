/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics appends line-delimited JSON metric records to a
// host-provided path. There is no Prometheus scrape endpoint here; a
// sidecar or log shipper translates these records downstream. The only
// process-wide mutable shared state in the whole controller lives here,
// so every write is serialized.
package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// Record is one line of the metrics stream. Value is a pointer so a gauge
// set to zero still serializes a value key, while expire records omit it.
type Record struct {
	Name   string            `json:"name,omitempty"`
	Action string            `json:"action"`
	Value  *float64          `json:"value,omitempty"`
	Labels map[string]string `json:"labels,omitempty"`
	Group  string            `json:"group,omitempty"`
}

// Recorder appends Records to an append-only file.
type Recorder struct {
	mu     sync.Mutex
	out    io.Writer
	closer io.Closer
	prefix string
}

// Open opens (creating if needed) the line-JSON file at path in append
// mode. prefix is prepended to every metric name passed to Name.
func Open(path, prefix string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening metrics file %s: %w", path, err)
	}
	return &Recorder{out: f, closer: f, prefix: prefix}, nil
}

// NewWithWriter builds a Recorder over an arbitrary writer, for tests and
// for any caller that wants the records in memory instead of on disk.
func NewWithWriter(w io.Writer, prefix string) *Recorder {
	return &Recorder{out: w, prefix: prefix}
}

// Name prepends the configured prefix to a bare metric suffix, e.g.
// Name("drift_checks_total") -> "cdktsstack_drift_checks_total".
func (r *Recorder) Name(suffix string) string {
	return r.prefix + suffix
}

// CounterAdd emits a counter-add record.
func (r *Recorder) CounterAdd(name string, value float64, labels map[string]string) error {
	return r.write(Record{Name: name, Action: "add", Value: &value, Labels: labels})
}

// GaugeSet emits a gauge-set record scoped to group.
func (r *Recorder) GaugeSet(name string, value float64, labels map[string]string, group string) error {
	return r.write(Record{Name: name, Action: "set", Value: &value, Labels: labels, Group: group})
}

// GroupExpire emits a group-expire record. Sweepers call this once at the
// start of each sweep so labels belonging to resources deleted since the
// last sweep disappear instead of lingering as stale gauges.
func (r *Recorder) GroupExpire(group string) error {
	return r.write(Record{Action: "expire", Group: group})
}

// Close closes the underlying file, if any.
func (r *Recorder) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *Recorder) write(rec Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling metric record: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err = r.out.Write(line)
	return err
}
