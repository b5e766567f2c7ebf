// Package db records upstream call outcomes to InfluxDB when a database is
// configured. Everything here is best-effort, an unconfigured or unreachable
// database never affects the diagnostic run.
package db

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2api "github.com/influxdata/influxdb-client-go/v2/api"

	"dev.lkm.one/crosscheck/common"
)

// InfluxDBBucket - InfluxDB bucket.
const InfluxDBBucket = "crosscheck"

var client influxdb2.Client
var writeAPI influxdb2api.WriteAPIBlocking

// CallEntry - Outcome of one upstream call.
type CallEntry struct {
	Time      time.Time
	Source    string // "ise" or "dnac"
	Operation string
	Duration  time.Duration
	Success   bool
}

// Open - Connect the DB client. A config without an InfluxDB URL disables recording.
func Open(config *common.Config) {
	if config.InfluxDBURL == "" {
		return
	}
	client = influxdb2.NewClient(config.InfluxDBURL, config.InfluxDBToken)
	writeAPI = client.WriteAPIBlocking(config.InfluxDBOrg, InfluxDBBucket)
	log.Info("DB client started: ", config.InfluxDBURL)
}

// Close - Close the DB client if one was opened.
func Close() {
	if client == nil {
		return
	}
	localClient := client
	client = nil
	writeAPI = nil
	localClient.Close()
	log.Info("DB client stopped")
}

// StoreCallEntry - Attempt to store a call entry in the DB.
func StoreCallEntry(entry CallEntry) {
	log.WithFields(log.Fields{
		"source":    entry.Source,
		"operation": entry.Operation,
		"time":      entry.Time,
		"duration":  entry.Duration,
		"success":   entry.Success,
	}).Trace("Call entry")

	if writeAPI == nil {
		return
	}

	point := influxdb2.NewPointWithMeasurement("upstream_call").
		AddTag("source", entry.Source).
		AddTag("operation", entry.Operation).
		AddField("duration_seconds", float64(entry.Duration)/float64(time.Second)).
		AddField("success", entry.Success).
		SetTime(entry.Time)
	if err := writeAPI.WritePoint(context.Background(), point); err != nil {
		log.WithError(err).Error("Failed to write to database")
	}
}
