package model

const (
	DefaultAdminPassword = "admin123"
	DefaultBonusMin      = 100
	DefaultBonusMax      = 500
)

type Config struct {
	AdminPassword string     `json:"adminPassword"`
	DailyBonus    BonusRange `json:"dailyBonus"`
}

type BonusRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

func DefaultConfig() *Config {
	return &Config{
		AdminPassword: DefaultAdminPassword,
		DailyBonus: BonusRange{
			Min: DefaultBonusMin,
			Max: DefaultBonusMax,
		},
	}
}
