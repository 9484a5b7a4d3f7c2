package domain

import "time"

type Store struct {
	ID        string    `json:"id"` // 门店编号，例如 gz-001
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	OpenTime  string    `json:"openTime"`  // HH:MM，营业开始时间
	CloseTime string    `json:"closeTime"` // HH:MM，营业结束时间
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
