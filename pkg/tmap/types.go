package tmap

import "strings"

const (
	PathTypeTransit = 2

	ModeBus    = "BUS"
	ModeWalk   = "WALK"
	ModeSubway = "SUBWAY"
)

type transitRoutesResponse struct {
	MetaData *struct {
		Plan struct {
			Itineraries []Itinerary `json:"itineraries"`
		} `json:"plan"`
	} `json:"metaData"`
	Result *struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"result"`
	Error *struct {
		ID      string `json:"id"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type Itinerary struct {
	Fare struct {
		Regular struct {
			TotalFare int `json:"totalFare"`
		} `json:"regular"`
	} `json:"fare"`
	TotalTime     int   `json:"totalTime"`
	TotalWalkTime int   `json:"totalWalkTime"`
	TransferCount int   `json:"transferCount"`
	TotalDistance int   `json:"totalDistance"`
	PathType      int   `json:"pathType"`
	Legs          []Leg `json:"legs"`
}

type Leg struct {
	Mode         string        `json:"mode"`
	SectionTime  int           `json:"sectionTime"`
	Distance     int           `json:"distance"`
	Start        Location      `json:"start"`
	End          Location      `json:"end"`
	Route        string        `json:"route,omitempty"`
	RouteID      string        `json:"routeId,omitempty"`
	Type         int           `json:"type,omitempty"`
	PassStopList *PassStopList `json:"passStopList,omitempty"`
}

type Location struct {
	Name string  `json:"name"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

type PassStopList struct {
	StationList []PassStop `json:"stationList"`
}

type PassStop struct {
	Index       int    `json:"index"`
	StationName string `json:"stationName"`
	Lon         string `json:"lon"`
	Lat         string `json:"lat"`
	StationID   string `json:"stationID"`
}

// RouteNumber extracts the public route number from a "<type>:<number>" label
func (l Leg) RouteNumber() string {
	_, number, found := strings.Cut(l.Route, ":")
	if !found {
		return strings.TrimSpace(l.Route)
	}

	return strings.TrimSpace(number)
}

func (l Leg) Stops() []PassStop {
	if l.PassStopList == nil {
		return nil
	}

	return l.PassStopList.StationList
}
