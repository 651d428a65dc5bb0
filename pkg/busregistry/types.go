package busregistry

type comMsgHeader struct {
	ErrMsg     *string `json:"errMsg"`
	ReturnCode *string `json:"returnCode"`
	SuccessYN  *string `json:"successYN"`
}

type msgHeader struct {
	HeaderMsg string `json:"headerMsg"`
	HeaderCd  string `json:"headerCd"`
	ItemCount int    `json:"itemCount"`
}

type response[T any] struct {
	ComMsgHeader comMsgHeader `json:"comMsgHeader"`
	MsgHeader    msgHeader    `json:"msgHeader"`
	MsgBody      struct {
		ItemList []T `json:"itemList"`
	} `json:"msgBody"`
}

// StationItem is a stop returned by the station-by-name search
type StationItem struct {
	StID  string `json:"stId"`
	StNm  string `json:"stNm"`
	TmX   string `json:"tmX"`
	TmY   string `json:"tmY"`
	PosX  string `json:"posX"`
	PosY  string `json:"posY"`
	ArsID string `json:"arsId"`
}

type RouteItem struct {
	BusRouteID   string `json:"busRouteId"`
	BusRouteNm   string `json:"busRouteNm"`
	BusRouteAbrv string `json:"busRouteAbrv"`
	RouteType    string `json:"routeType"`
	StStationNm  string `json:"stStationNm"`
	EdStationNm  string `json:"edStationNm"`
	Term         string `json:"term"`
	CorpNm       string `json:"corpNm"`
}

// RouteStationItem is one entry of a route's ordered station list
type RouteStationItem struct {
	BusRouteID string `json:"busRouteId"`
	BusRouteNm string `json:"busRouteNm"`
	Seq        string `json:"seq"`
	Section    string `json:"section"`
	Station    string `json:"station"`
	ArsID      string `json:"arsId"`
	StationNm  string `json:"stationNm"`
	GpsX       string `json:"gpsX"`
	GpsY       string `json:"gpsY"`
	PosX       string `json:"posX"`
	PosY       string `json:"posY"`
	Direction  string `json:"direction"`
	StationNo  string `json:"stationNo"`
	TransYn    string `json:"transYn"`
}

// ArrivalItem is the live arrival prediction of one route at one stop
type ArrivalItem struct {
	BusRouteID string `json:"busRouteId"`
	RtNm       string `json:"rtNm"`
	StID       string `json:"stId"`
	StNm       string `json:"stNm"`
	ArsID      string `json:"arsId"`
	ArrMsg1    string `json:"arrmsg1"`
	ArrMsg2    string `json:"arrmsg2"`
	VehID1     string `json:"vehId1"`
	VehID2     string `json:"vehId2"`
	NxtStn     string `json:"nxtStn"`
	Adirection string `json:"adirection"`
}

type BusPositionItem struct {
	VehID     string `json:"vehId"`
	StID      string `json:"stId"`
	StOrd     string `json:"stOrd"`
	StopFlag  string `json:"stopFlag"`
	DataTm    string `json:"dataTm"`
	TmX       string `json:"tmX"`
	TmY       string `json:"tmY"`
	PlainNo   string `json:"plainNo"`
	BusType   string `json:"busType"`
	LastStnID string `json:"lastStnId"`
}
