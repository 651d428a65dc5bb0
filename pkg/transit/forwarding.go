package transit

import "fmt"

// Forwarding is one resolved, trackable bus leg of a trip.
// Both sequence numbers index into the same route's station list.
type Forwarding struct {
	FromStationNm    string `json:"fromStationNm"`
	FromStationSeq   int    `json:"fromStationSeq,string"`
	FromStationArsID string `json:"fromStationArsId"`
	ToStationNm      string `json:"toStationNm"`
	ToStationSeq     int    `json:"toStationSeq,string"`
	BusRouteNm       string `json:"busRouteNm"`
	BusRouteID       string `json:"busRouteId"`
	BusRouteDir      string `json:"busRouteDir"`
}

func (f Forwarding) Validate() error {
	if f.ToStationSeq <= f.FromStationSeq {
		return fmt.Errorf("forwarding %s: destination sequence %d is not after origin sequence %d", f.BusRouteNm, f.ToStationSeq, f.FromStationSeq)
	}
	if f.FromStationArsID == "" || f.BusRouteID == "" {
		return fmt.Errorf("forwarding %s: missing registry identifiers", f.BusRouteNm)
	}

	return nil
}

// InWindow reports whether a vehicle stop order is still inside [from, to).
func (f Forwarding) InWindow(stopOrder int) bool {
	return f.FromStationSeq <= stopOrder && stopOrder < f.ToStationSeq
}
