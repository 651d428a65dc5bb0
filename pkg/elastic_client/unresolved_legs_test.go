package elastic_client

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/blindroute/blindroute/pkg/config"
	"github.com/blindroute/blindroute/pkg/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportUnresolvedLeg(t *testing.T) {
	var indexName string
	var document map[string]any

	reporter := NewUnresolvedLegReporter()
	reporter.index = func(name string, body io.ReadSeeker) {
		indexName = name
		require.NoError(t, json.NewDecoder(body).Decode(&document))
	}

	reporter.ReportUnresolvedLeg(resolver.UnresolvedLeg{
		BusRouteNm:     "262",
		FirstStationNm: "신설동역",
		NextStationNm:  "동묘앞",
		Reason:         "no adjacent station pair matches the leg",
		Timestamp:      time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC),
	})

	assert.Equal(t, "blindroute-unresolved-legs-2024-03", indexName)
	assert.Equal(t, "262", document["busRouteNm"])
	assert.Equal(t, "동묘앞", document["nextStationNm"])
}

func TestConnectSkipsWithoutAddress(t *testing.T) {
	require.NoError(t, Connect(config.ElasticsearchConfig{}))
	assert.Nil(t, Client)

	// Indexing without a connection is a no-op
	IndexRequest("blindroute-unresolved-legs-2024-03", nil)
	WaitUntilQueueEmpty()
}
