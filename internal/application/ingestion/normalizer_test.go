package ingestion

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyogre-go/fisheries/internal/domain/event"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(zerolog.Nop())
}

func TestIngestErsParsesDepartureAndArrival(t *testing.T) {
	n := testNormalizer()
	records := []ErsRecord{
		{VesselId: "1", MessageId: "m1", MessageVersion: "1", MessageTypeCode: "DEP", Date: "01.03.2024", Time: "08:00", PortCode: "NOBGO"},
		{VesselId: "1", MessageId: "m2", MessageVersion: "1", MessageTypeCode: "POR", Date: "01.03.2024", Time: "14:00", PortCode: "NOBGO"},
	}

	events, res := n.IngestErs(records)

	require.Len(t, events, 2)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 0, res.Dropped)

	kinds := make(map[event.Kind]bool)
	for _, e := range events {
		kinds[e.Kind] = true
	}
	assert.True(t, kinds[event.Departure])
	assert.True(t, kinds[event.Arrival])
}

func TestIngestErsDropsMalformedRecordsWithoutFailingBatch(t *testing.T) {
	n := testNormalizer()
	records := []ErsRecord{
		{VesselId: "not-a-number", MessageId: "m1", MessageTypeCode: "DEP", Date: "01.03.2024", Time: "08:00"},
		{VesselId: "1", MessageId: "m2", MessageTypeCode: "DEP", Date: "01.03.2024", Time: "08:00"},
	}

	events, res := n.IngestErs(records)

	require.Len(t, events, 1)
	assert.Equal(t, 1, res.Dropped)
}

func TestIngestErsKeepsGreatestMessageVersion(t *testing.T) {
	n := testNormalizer()
	records := []ErsRecord{
		{VesselId: "1", MessageId: "m1", MessageVersion: "1", MessageTypeCode: "DEP", Date: "01.03.2024", Time: "08:00", PortCode: "OLD"},
		{VesselId: "1", MessageId: "m1", MessageVersion: "2", MessageTypeCode: "DEP", Date: "01.03.2024", Time: "09:00", PortCode: "NEW"},
	}

	events, res := n.IngestErs(records)

	require.Len(t, events, 1)
	assert.Equal(t, 1, res.Deduped)
	assert.Equal(t, "NEW", events[0].PortCode)
}

func TestIngestErsRejectsUnknownMessageTypeCode(t *testing.T) {
	n := testNormalizer()
	records := []ErsRecord{
		{VesselId: "1", MessageId: "m1", MessageTypeCode: "ZZZ", Date: "01.03.2024", Time: "08:00"},
	}

	events, res := n.IngestErs(records)

	assert.Empty(t, events)
	assert.Equal(t, 1, res.Dropped)
}

func TestIngestLandingsParsesVesselIdAndGear(t *testing.T) {
	n := testNormalizer()
	records := []LandingRecord{
		{LandingId: "L1", DocumentVersion: "1", VesselId: "42", Date: "01.03.2024", Time: "10:00", Gear: "trawl"},
	}

	landings, res := n.IngestLandings(records)

	require.Len(t, landings, 1)
	assert.Equal(t, 1, res.Inserted)
	require.NotNil(t, landings[0].VesselId)
	assert.Equal(t, int64(42), int64(*landings[0].VesselId))
	assert.Equal(t, "trawl", landings[0].Gear)
}

func TestIngestLandingsRequiresLandingId(t *testing.T) {
	n := testNormalizer()
	records := []LandingRecord{{LandingId: "", VesselId: "1", Date: "01.03.2024", Time: "10:00"}}

	landings, res := n.IngestLandings(records)

	assert.Empty(t, landings)
	assert.Equal(t, 1, res.Dropped)
}
