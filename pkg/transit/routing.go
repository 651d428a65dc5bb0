package transit

// Routing is one candidate end-to-end itinerary. Forwarding is in travel order.
type Routing struct {
	Fare       int          `json:"fare,string"`
	Time       int          `json:"time,string"`
	Forwarding []Forwarding `json:"forwarding"`

	// Bus legs of the planner itinerary that could not be matched against the registry
	UnresolvedLegs int `json:"unresolvedLegs"`
}

// Minutes is the planner's total time rounded to whole minutes.
func (r Routing) Minutes() int {
	return (r.Time + 30) / 60
}

func (r Routing) IsLastLeg(index int) bool {
	return index == len(r.Forwarding)-1
}
