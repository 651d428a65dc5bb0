package transit

const (
	ArrivalServiceEnded   = "버스 운행이 종료되었습니다."
	ArrivalNoInformation  = "버스 도착 정보가 없습니다."
	ArrivalImminent       = "버스가 곧 도착 합니다."
	NextArrivalNoInfo     = "다음 버스는 도착 정보가 없습니다."
	VisitServiceEnded     = "운행종료"
	VisitArrivingSoon     = "곧 도착합니다."
	VisitArrived          = "목적지에 도착했습니다."
	RegistryServiceEnded  = "운행종료"
	RegistryImminentToken = "곧 도착"
)

// BusArrivalStatus describes the next two vehicles of one route due at a stop.
type BusArrivalStatus struct {
	Msg1   string `json:"busArrMsg1"`
	VehID1 string `json:"busVehId1"`
	Msg2   string `json:"busArrMsg2"`
	VehID2 string `json:"busVehId2"`
}

func ServiceEndedArrival() BusArrivalStatus {
	return BusArrivalStatus{
		Msg1: ArrivalServiceEnded,
		Msg2: ArrivalServiceEnded,
	}
}

type VisitState string

const (
	VisitStateServiceEnded VisitState = "serviceEnded"
	VisitStateInTransit    VisitState = "inTransit"
	VisitStateArrived      VisitState = "arrived"
)

// StationVisitStatus is derived from the boarded vehicle's live position.
type StationVisitStatus struct {
	Msg              string     `json:"stationVisMsg"`
	CurrentStopOrder string     `json:"stationOrd"`
	State            VisitState `json:"state"`
}

func ServiceEndedVisit() StationVisitStatus {
	return StationVisitStatus{
		Msg:   VisitServiceEnded,
		State: VisitStateServiceEnded,
	}
}
