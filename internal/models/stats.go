package models

type Stats struct {
	TotalParticipants int            `json:"totalParticipants"`
	WaitingUsers      int            `json:"waitingUsers"`
	TotalGroups       int            `json:"totalGroups"`
	TotalRooms        int            `json:"totalRooms"`
	MenuStats         map[string]int `json:"menuStats"`
	TimeStats         map[string]int `json:"timeStats"`
}
