package model

import "time"

type Task struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Reward      int64  `json:"reward"`
	Duration    int    `json:"duration"`
}

func (t Task) RequiredTime() time.Duration {
	return time.Duration(t.Duration) * time.Minute
}

type ShopItem struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

type Riddle struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
