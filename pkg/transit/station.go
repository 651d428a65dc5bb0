package transit

// Station is a bus stop as known by the bus registry.
// Seq only has meaning inside the station list of a single route.
type Station struct {
	Seq   string `json:"seq"`
	StID  string `json:"stId"`
	StNm  string `json:"stNm"`
	TmX   string `json:"tmX"`
	TmY   string `json:"tmY"`
	PosX  string `json:"posX"`
	PosY  string `json:"posY"`
	ArsID string `json:"arsId"`
	StDir string `json:"stDir"`
}

// Coordinates returns the WGS84 position the itinerary planner expects.
// The registry publishes longitude as tmX and latitude as tmY.
func (s Station) Coordinates() Coordinates {
	return Coordinates{X: s.TmX, Y: s.TmY}
}

type Coordinates struct {
	X string `json:"x" validate:"required,numeric"`
	Y string `json:"y" validate:"required,numeric"`
}
