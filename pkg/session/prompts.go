package session

import (
	"fmt"
	"strings"

	"github.com/blindroute/blindroute/pkg/transit"
)

const (
	promptReturnToChat     = "경로 탐색을 종료하고 챗봇으로 돌아갑니다."
	promptBusArrived       = "버스가 도착했습니다."
	promptStopReached      = "정류장에 도착했습니다."
	promptBusCancelled     = "버스 예약을 취소하였습니다."
	promptAlightCancelled  = "정류장 하차를 취소하였습니다."
	promptInvalidLocations = "잘못된 접근입니다. 챗봇으로 돌아갑니다."
)

var koreanOrdinals = []string{"첫번째", "두번째", "세번째", "네번째", "다섯번째", "여섯번째", "일곱번째", "여덟번째", "아홉번째", "열번째"}

func ordinal(index int) string {
	if index >= 0 && index < len(koreanOrdinals) {
		return koreanOrdinals[index]
	}
	return fmt.Sprintf("%d번째", index+1)
}

func joinSentences(parts ...string) string {
	var kept []string
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " ")
}

// sentence terminates text with a period unless it already has one
func sentence(text string) string {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasSuffix(text, ".") {
		return text
	}
	return text + "."
}

func locationPrompt(s Session) string {
	return fmt.Sprintf("출발지 %s, 도착지 %s로 경로 탐색을 시작하려면 왼쪽으로 스와이프 하세요.", s.StartName, s.DestinationName)
}

func stationPrompt(step Step, init bool, station transit.Station) string {
	intro := ""
	if init {
		kind := "출발"
		if step == StepSelectDestination {
			kind = "도착"
		}
		intro = fmt.Sprintf("%s 정류장을 선택하세요. 위아래 스와이프로 정류장을 선택할 수 있습니다.", kind)
	}

	direction := ""
	if station.StDir != "" {
		direction = fmt.Sprintf("%s 방면.", station.StDir)
	}

	return joinSentences(intro, station.StNm+",", direction, "왼쪽으로 스와이프하면 정류장을 선택합니다.")
}

func routingPrompt(init bool, index int, routing transit.Routing) string {
	intro := ""
	if init {
		intro = "경로를 선택하세요. 위아래 스와이프로 경로를 선택할 수 있습니다."
	}

	boardings := make([]string, 0, len(routing.Forwarding))
	for i, forwarding := range routing.Forwarding {
		boardings = append(boardings, fmt.Sprintf("%s 탑승 정류장: %s", ordinal(i), forwarding.FromStationNm))
	}

	summary := fmt.Sprintf("%s 경로, %d개의 버스를 탑승하며, 비용은 %d원, 시간은 %d분이 소요됩니다.",
		ordinal(index), len(routing.Forwarding), routing.Fare, routing.Minutes())

	return joinSentences(intro, summary, strings.Join(boardings, ", "), "왼쪽으로 스와이프하면 이 경로를 선택합니다.")
}

func reservationBusPrompt(leg transit.Forwarding) string {
	return fmt.Sprintf("%s 정류장에서 %s, %s 방면 버스 예약을 하려면 왼쪽으로 스와이프를 하세요.", leg.FromStationNm, leg.BusRouteNm, leg.BusRouteDir)
}

func waitingBusPrompt(init bool, leg transit.Forwarding, arrival transit.BusArrivalStatus) string {
	hint := ""
	if init {
		hint = "오른쪽으로 스와이프하면 버스 대기 예약을 취소합니다."
	}

	return joinSentences(fmt.Sprintf("%s 버스를 대기중입니다.", leg.BusRouteNm), sentence(arrival.Msg1), sentence(arrival.Msg2), hint)
}

func reservationDesPrompt(leg transit.Forwarding) string {
	return fmt.Sprintf("%s 버스를 탑승하셨으면, 왼쪽으로 스와이프하여 %s 정류장 하차 예약을 하세요.", leg.BusRouteNm, leg.ToStationNm)
}

func waitingDestinationPrompt(init bool, leg transit.Forwarding, visit transit.StationVisitStatus) string {
	hint := ""
	if init {
		hint = "오른쪽으로 스와이프하면 정류장 하차 예약을 취소합니다."
	}

	return joinSentences(fmt.Sprintf("%s 로 이동 중 입니다.", leg.ToStationNm), sentence(visit.Msg), hint)
}

func finalArrivalPrompts(leg transit.Forwarding) []string {
	return []string{
		promptStopReached,
		fmt.Sprintf("최종 목적지 %s에 도착했습니다.", leg.ToStationNm),
		promptReturnToChat,
	}
}
