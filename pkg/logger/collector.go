package logger

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

type CollectionConfig struct {
	Retention time.Duration // how long an aggregated entry stays visible (e.g., 15m)
	MaxUnique int           // max unique entries kept before oldest are dropped (e.g., 100)
}

type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector aggregates repeated warn/error logs in memory so they can be
// read back (status endpoint) without grepping log output. Identical entries
// are counted rather than duplicated.
type LogCollector struct {
	config *CollectionConfig
	logMap map[string]*AggregatedLogEntry
	mutex  sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	if config.Retention <= 0 {
		config.Retention = 15 * time.Minute
	}
	if config.MaxUnique <= 0 {
		config.MaxUnique = 100
	}

	ctx, cancel := context.WithCancel(context.Background())

	collector := &LogCollector{
		config: config,
		logMap: make(map[string]*AggregatedLogEntry),
		ctx:    ctx,
		cancel: cancel,
	}

	// Start periodic prune goroutine
	collector.wg.Add(1)
	go collector.periodicPrune()

	return collector
}

func (d *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := d.generateKey(level, message, fields, caller)

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if entry, exists := d.logMap[key]; exists {
		entry.Count++
		entry.LastSeen = now
		return
	}

	if len(d.logMap) >= d.config.MaxUnique {
		d.evictOldestLocked()
	}

	d.logMap[key] = &AggregatedLogEntry{
		Level:     level,
		Message:   message,
		Fields:    fields,
		Caller:    caller,
		Count:     1,
		FirstSeen: now,
		LastSeen:  now,
	}
}

// Recent returns the aggregated entries, newest first.
func (d *LogCollector) Recent() []AggregatedLogEntry {
	d.mutex.RLock()
	entries := make([]AggregatedLogEntry, 0, len(d.logMap))
	for _, e := range d.logMap {
		entries = append(entries, *e)
	}
	d.mutex.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].LastSeen.After(entries[j].LastSeen) })
	return entries
}

func (d *LogCollector) generateKey(level, message string, fields map[string]interface{}, caller string) string {
	// Create a consistent hash from level + message + fields + caller
	data := struct {
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
		Caller  string                 `json:"caller"`
	}{
		Level:   level,
		Message: message,
		Fields:  fields,
		Caller:  caller,
	}

	jsonData, _ := json.Marshal(data)
	hash := sha256.Sum256(jsonData)
	return fmt.Sprintf("%x", hash)
}

func (d *LogCollector) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, e := range d.logMap {
		if oldestKey == "" || e.LastSeen.Before(oldest) {
			oldestKey = k
			oldest = e.LastSeen
		}
	}
	if oldestKey != "" {
		delete(d.logMap, oldestKey)
	}
}

func (d *LogCollector) periodicPrune() {
	defer d.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-d.config.Retention)
			d.mutex.Lock()
			for k, e := range d.logMap {
				if e.LastSeen.Before(cutoff) {
					delete(d.logMap, k)
				}
			}
			d.mutex.Unlock()
		case <-d.ctx.Done():
			return
		}
	}
}

func (d *LogCollector) Close() {
	d.cancel()
	d.wg.Wait()
}
