// Package ingestion parses raw ERS and landing wire records into
// domain events, deduplicating by message identity before anything is
// persisted.
package ingestion

import (
	"strconv"
	"strings"
	"time"

	"github.com/kyogre-go/fisheries/internal/domain/event"
	"github.com/kyogre-go/fisheries/internal/domain/landing"
	"github.com/kyogre-go/fisheries/internal/domain/shared"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
	"github.com/rs/zerolog"
)

// Result reports how many records a batch produced and how many were
// superseded by a later version of the same natural key.
type Result struct {
	Inserted int
	Deduped  int
	Dropped  int
}

// ErsRecord is one raw ERS CSV-ish row: Norwegian headers, comma decimal
// separator, DD.MM.YYYY dates, "-" or empty for NULL.
type ErsRecord struct {
	VesselId         string
	MessageId        string
	MessageVersion   string
	MessageTypeCode  string
	Date             string // DD.MM.YYYY
	Time             string // HH:MM
	PortCode         string
}

// LandingRecord is one raw landing declaration row.
type LandingRecord struct {
	LandingId       string
	DocumentVersion string
	VesselId        string
	Date            string
	Time            string
	Gear            string
}

var osloLocation = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// Normalizer turns raw records into domain events/landings, logging and
// dropping malformed rows rather than failing the whole batch.
type Normalizer struct {
	log zerolog.Logger
}

func NewNormalizer(log zerolog.Logger) *Normalizer {
	return &Normalizer{log: log.With().Str("component", "ingestion").Logger()}
}

// IngestErs parses a batch of ERS records into events, keeping only the
// greatest message_version per (vessel, message_id).
func (n *Normalizer) IngestErs(records []ErsRecord) ([]event.Event, Result) {
	var (
		events []event.Event
		res    Result
	)
	for _, r := range records {
		e, err := n.parseErsRecord(r)
		if err != nil {
			n.log.Warn().Err(err).Str("message_id", r.MessageId).Msg("dropping malformed ERS record")
			res.Dropped++
			continue
		}
		events = append(events, e)
	}
	before := len(events)
	events = event.Dedupe(events)
	res.Deduped = before - len(events)
	res.Inserted = len(events)
	return events, res
}

func (n *Normalizer) parseErsRecord(r ErsRecord) (event.Event, error) {
	vesselId, err := strconv.ParseInt(r.VesselId, 10, 64)
	if err != nil {
		return event.Event{}, shared.NewSourceFormatError("ers", "vessel_id", err.Error())
	}
	version := parseIntOrZero(r.MessageVersion)
	ts, err := parseErsTimestamp(r.Date, r.Time)
	if err != nil {
		return event.Event{}, shared.NewSourceFormatError("ers", "timestamp", err.Error())
	}
	kind, err := ersKind(r.MessageTypeCode)
	if err != nil {
		return event.Event{}, err
	}
	return event.Event{
		VesselId:            event.VesselId(vesselId),
		Kind:                kind,
		ReportTimestamp:      ts,
		OccurrenceTimestamp:  ts,
		MessageId:            event.MessageId(r.MessageId),
		MessageVersion:       version,
		PortCode:             r.PortCode,
	}, nil
}

func ersKind(code string) (event.Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "DEP":
		return event.Departure, nil
	case "POR":
		return event.Arrival, nil
	case "DCA":
		return event.Haul, nil
	case "TRA":
		return event.Transshipment, nil
	case "":
		return 0, shared.NewMissingValueError("message_type_code")
	default:
		return 0, shared.NewUnknownEnumError("ers_message_type_code", code)
	}
}

// IngestLandings parses a batch of landing records into Landing values,
// using the Europe/Oslo timezone for the report timestamp and resolving
// DST-ambiguous local instants to the later offset — a fixed choice,
// not a configuration option.
func (n *Normalizer) IngestLandings(records []LandingRecord) ([]landing.Landing, Result) {
	var (
		out []landing.Landing
		res Result
	)
	for _, r := range records {
		l, err := n.parseLandingRecord(r)
		if err != nil {
			n.log.Warn().Err(err).Str("landing_id", r.LandingId).Msg("dropping malformed landing record")
			res.Dropped++
			continue
		}
		out = append(out, l)
	}
	before := len(out)
	out = landing.Dedupe(out)
	res.Deduped = before - len(out)
	res.Inserted = len(out)
	return out, res
}

func (n *Normalizer) parseLandingRecord(r LandingRecord) (landing.Landing, error) {
	if r.LandingId == "" {
		return landing.Landing{}, shared.NewMissingValueError("landing_id")
	}
	version := parseIntOrZero(r.DocumentVersion)
	ts, err := parseOsloTimestamp(r.Date, r.Time)
	if err != nil {
		return landing.Landing{}, shared.NewSourceFormatError("landing", "timestamp", err.Error())
	}
	l := landing.Landing{
		Id:               landing.Id(r.LandingId),
		Version:          version,
		LandingTimestamp: ts,
		Gear:             r.Gear,
	}
	if id, err := strconv.ParseInt(r.VesselId, 10, 64); err == nil {
		v := vessel.Id(id)
		l.VesselId = &v
	}
	return l, nil
}

// parseNumeric implements the "hyphen or empty means absent" convention
// and the comma-decimal wire format.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseIntOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func parseErsTimestamp(date, clock string) (time.Time, error) {
	return parseDDMMYYYY(date, clock, time.UTC)
}

func parseOsloTimestamp(date, clock string) (time.Time, error) {
	t, err := parseDDMMYYYY(date, clock, osloLocation)
	if err != nil {
		return time.Time{}, err
	}
	return resolveDSTAmbiguity(t), nil
}

func parseDDMMYYYY(date, clock string, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if clock == "" {
		clock = "00:00"
	}
	layout := "02.01.2006 15:04"
	return time.ParseInLocation(layout, date+" "+clock, loc)
}

// resolveDSTAmbiguity picks the later UTC offset for a local instant
// that falls in a DST fall-back overlap, matching the original's
// arbitrary-but-fixed resolution policy.
func resolveDSTAmbiguity(t time.Time) time.Time {
	name1, offset1 := t.Zone()
	_ = name1
	later := t.Add(time.Hour)
	name2, offset2 := later.Zone()
	_ = name2
	if offset2 < offset1 {
		return later
	}
	return t
}
