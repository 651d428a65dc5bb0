package elastic_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/blindroute/blindroute/pkg/resolver"
	"github.com/rs/zerolog/log"
)

// UnresolvedLegReporter indexes every leg the resolver had to drop, one monthly index
type UnresolvedLegReporter struct {
	IndexPrefix string

	index func(indexName string, document io.ReadSeeker)
}

func NewUnresolvedLegReporter() *UnresolvedLegReporter {
	return &UnresolvedLegReporter{
		IndexPrefix: "blindroute-unresolved-legs",
		index:       IndexRequest,
	}
}

func (r *UnresolvedLegReporter) ReportUnresolvedLeg(leg resolver.UnresolvedLeg) {
	document, err := json.Marshal(leg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal unresolved leg")
		return
	}

	indexName := fmt.Sprintf("%s-%d-%02d", r.IndexPrefix, leg.Timestamp.Year(), leg.Timestamp.Month())
	r.index(indexName, bytes.NewReader(document))
}
