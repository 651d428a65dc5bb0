package events

import "fmt"

type NotificationData struct {
	Title   string
	Message string
}

// GetNotificationData renders the push notification text for an event.
// The second return value is false for events that are not pushed.
func GetNotificationData(e NavigationEvent) (NotificationData, bool) {
	data := NotificationData{}

	switch e.Type {
	case TypeBoarded:
		data.Title = "버스 탑승"
		data.Message = fmt.Sprintf("%s 버스에 탑승했습니다. %s 정류장 하차 예약을 하세요.", e.BusRouteNm, e.StationNm)
	case TypeAlighted:
		data.Title = "하차"
		data.Message = fmt.Sprintf("%s 정류장에 도착했습니다. 지금 하차하세요.", e.StationNm)
		if e.LegIndex+1 < e.LegCount {
			data.Message = fmt.Sprintf("%s 다음 버스 예약을 진행하세요.", data.Message)
		}
	case TypeTripFinished:
		data.Title = "경로 안내 종료"
		data.Message = fmt.Sprintf("최종 목적지 %s에 도착했습니다.", e.StationNm)
	default:
		return data, false
	}

	return data, true
}
