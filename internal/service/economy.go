package service

import (
	"time"

	"github.com/phrazzld/flashquest/internal/config"
	"github.com/phrazzld/flashquest/internal/domain"
)

// Economy holds the tunable constants of the coin economy.
type Economy struct {
	PetLifespan   time.Duration
	FeedCost      int
	FeedBonus     time.Duration
	FlipReward    int
	TypeReward    int
	GameReward    int
	DevGrant      int
	ImageMaxBytes int
}

// DefaultEconomy returns the values the game ships with.
func DefaultEconomy() Economy {
	return Economy{
		PetLifespan:   domain.DefaultPetLifespan,
		FeedCost:      domain.DefaultFeedCost,
		FeedBonus:     domain.DefaultFeedBonus,
		FlipReward:    1,
		TypeReward:    10,
		GameReward:    5,
		DevGrant:      1000,
		ImageMaxBytes: domain.DefaultImageMaxBytes,
	}
}

// EconomyFromConfig converts the validated configuration section.
func EconomyFromConfig(cfg config.EconomyConfig) Economy {
	return Economy{
		PetLifespan:   cfg.PetLifespan,
		FeedCost:      cfg.FeedCost,
		FeedBonus:     cfg.FeedBonus,
		FlipReward:    cfg.FlipReward,
		TypeReward:    cfg.TypeReward,
		GameReward:    cfg.GameReward,
		DevGrant:      cfg.DevGrant,
		ImageMaxBytes: cfg.ImageMaxBytes,
	}
}
