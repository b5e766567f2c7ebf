// Package core drives the end-to-end correlation run: fan out across both
// upstream systems in barrier-synchronized waves, normalize what comes back
// and assemble the diagnostic report.
package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"dev.lkm.one/crosscheck/common"
	"dev.lkm.one/crosscheck/db"
	"dev.lkm.one/crosscheck/failures"
	"dev.lkm.one/crosscheck/normalize"
	"dev.lkm.one/crosscheck/report"
	"dev.lkm.one/crosscheck/sources"
)

// ErrDiscovery - The initial active-session query failed. Without it no MAC
// can be discovered, so the run aborts.
var ErrDiscovery = errors.New("active session discovery failed")

// Engine - Correlation engine over the two upstream clients and the failure catalog.
type Engine struct {
	config        *common.Config
	sessionSource sources.SessionSource
	healthSource  sources.HealthSource
	store         *failures.Store

	// Observe - Optional hook receiving every upstream call outcome, used by
	// the serve mode for metrics.
	Observe func(source string, operation string, duration time.Duration, success bool)
}

// NewEngine - Create an engine.
func NewEngine(config *common.Config, sessionSource sources.SessionSource, healthSource sources.HealthSource, store *failures.Store) *Engine {
	return &Engine{
		config:        config,
		sessionSource: sessionSource,
		healthSource:  healthSource,
		store:         store,
	}
}

func (engine *Engine) observeCall(source string, operation string, start time.Time, err error) {
	duration := time.Since(start)
	db.StoreCallEntry(db.CallEntry{
		Time:      start,
		Source:    source,
		Operation: operation,
		Duration:  duration,
		Success:   err == nil,
	})
	if engine.Observe != nil {
		engine.Observe(source, operation, duration, err == nil)
	}
}

// RunDiagnostic - Run the full correlation pipeline for one identity.
// Only a failed active-session query is fatal, every other upstream failure
// degrades to empty data for the affected MAC.
func (engine *Engine) RunDiagnostic(ctx context.Context, identity string) (*report.DiagnosticReport, error) {
	if identity == "" {
		return nil, fmt.Errorf("empty identity")
	}
	startTime := time.Now()
	log.WithFields(log.Fields{
		"identity": identity,
	}).Info("Starting diagnostic run")

	// Wave 1: active session list and health source token, in parallel.
	var activeList *sources.ActiveSessionList
	var activeErr error
	var token string
	var tokenErr error
	var wave1 sync.WaitGroup
	wave1.Add(2)
	go func() {
		defer wave1.Done()
		start := time.Now()
		activeList, activeErr = engine.sessionSource.ActiveSessions(ctx)
		engine.observeCall("ise", "active_sessions", start, activeErr)
	}()
	go func() {
		defer wave1.Done()
		start := time.Now()
		token, tokenErr = engine.healthSource.Authenticate(ctx)
		engine.observeCall("dnac", "token", start, tokenErr)
	}()
	wave1.Wait()

	if activeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscovery, activeErr)
	}
	if tokenErr != nil {
		log.WithError(tokenErr).Warn("Health source token unavailable, skipping wireless enrichment")
	}

	// Wave 2: MAC extraction and identity enrichment, in parallel. The
	// enrichment only depends on the token, not on the session list.
	var wirelessMACs []string
	enrichDone := make(chan struct{})
	go func() {
		defer close(enrichDone)
		if tokenErr != nil {
			return
		}
		start := time.Now()
		macs, err := engine.healthSource.EnrichIdentity(ctx, token, identity)
		engine.observeCall("dnac", "enrich_identity", start, err)
		if err != nil {
			log.WithError(err).Warn("Identity enrichment failed, skipping wireless detail")
			return
		}
		wirelessMACs = common.FilterMACs(macs)
	}()
	macs := extractIdentityMACs(activeList, identity)
	<-enrichDone

	log.WithFields(log.Fields{
		"identity":      identity,
		"mac_count":     len(macs),
		"wireless_macs": len(wirelessMACs),
	}).Info("Discovered MACs")

	result := report.New()

	// Wave 3: per-MAC auth status detail. Results attach by index, never by
	// completion order.
	sessionSets := make([]*report.SessionSet, len(macs))
	detailGroup, detailCtx := errgroup.WithContext(ctx)
	detailGroup.SetLimit(engine.config.MaxInFlight)
	for i, mac := range macs {
		i, mac := i, mac
		detailGroup.Go(func() error {
			start := time.Now()
			output, err := engine.sessionSource.AuthStatus(detailCtx, mac)
			engine.observeCall("ise", "auth_status", start, err)

			set := report.NewSessionSet()
			if err != nil {
				log.WithError(err).WithFields(log.Fields{
					"mac": mac,
				}).Warn("Auth status query failed, continuing with empty record")
			} else {
				for _, element := range output.Elements {
					set.Add(normalize.Session(element, engine.store))
				}
			}
			sessionSets[i] = set
			return nil
		})
	}
	_ = detailGroup.Wait()
	for i, mac := range macs {
		result.SetSessions(mac, sessionSets[i])
	}

	// Waves 4 and 5: conditional wireless enrichment, health first, then issues.
	if tokenErr == nil && len(wirelessMACs) > 0 {
		healthRecords := make([]*common.HealthRecord, len(wirelessMACs))
		healthGroup, healthCtx := errgroup.WithContext(ctx)
		healthGroup.SetLimit(engine.config.MaxInFlight)
		for i, mac := range wirelessMACs {
			i, mac := i, mac
			healthGroup.Go(func() error {
				start := time.Now()
				detail, err := engine.healthSource.ClientHealth(healthCtx, token, mac)
				engine.observeCall("dnac", "client_health", start, err)
				if err != nil {
					log.WithError(err).WithFields(log.Fields{
						"mac": mac,
					}).Warn("Client health query failed, continuing without health data")
					return nil
				}
				record := normalize.Health(detail)
				healthRecords[i] = &record
				return nil
			})
		}
		_ = healthGroup.Wait()

		issueRecords := make([]*common.IssueRecord, len(wirelessMACs))
		issueGroup, issueCtx := errgroup.WithContext(ctx)
		issueGroup.SetLimit(engine.config.MaxInFlight)
		for i, mac := range wirelessMACs {
			i, mac := i, mac
			issueGroup.Go(func() error {
				start := time.Now()
				response, err := engine.healthSource.ClientIssues(issueCtx, token, mac)
				engine.observeCall("dnac", "client_issues", start, err)
				if err != nil {
					log.WithError(err).WithFields(log.Fields{
						"mac": mac,
					}).Warn("Client issues query failed, continuing without issue data")
					return nil
				}
				record := normalize.Issues(response)
				issueRecords[i] = &record
				return nil
			})
		}
		_ = issueGroup.Wait()

		for i, mac := range wirelessMACs {
			result.SetWireless(mac, common.WirelessSummary{
				Health: healthRecords[i],
				Issues: issueRecords[i],
			})
		}
	}

	log.WithFields(log.Fields{
		"identity": identity,
		"duration": time.Since(startTime),
	}).Info("Diagnostic run done")

	return result, nil
}

// extractIdentityMACs - Calling station IDs of active sessions belonging to
// the identity, filtered down to valid MAC addresses in discovery order.
func extractIdentityMACs(activeList *sources.ActiveSessionList, identity string) []string {
	values := make([]string, 0)
	for _, session := range activeList.Sessions {
		if session.UserName == identity {
			values = append(values, session.CallingStationID)
		}
	}
	return common.FilterMACs(values)
}
