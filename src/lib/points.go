package lib

import (
	"context"
	"log"

	"uems/src/utils"

	"github.com/redis/go-redis/v9"
)

// Points is the gamification collaborator. The platform's real implementation
// lives in another service; here it is backed by redis counters so check-ins
// can return an immediate points summary.
type Points interface {
	Award(ctx context.Context, holderID uint, points int) (total int, level int, err error)
	Total(ctx context.Context, holderID uint) (total int, level int, err error)
}

type redisPoints struct{}

// NewPoints returns the redis-backed Points collaborator.
func NewPoints() Points {
	return &redisPoints{}
}

func (p *redisPoints) Award(ctx context.Context, holderID uint, points int) (int, int, error) {
	rd := GetRedisClient()
	total, err := rd.IncrBy(ctx, PointsKey(holderID), int64(points)).Result()
	if err != nil {
		log.Printf("[points] Error awarding %d points to holder %d: %s\n", points, holderID, err.Error())
		return 0, 0, err
	}
	return int(total), utils.LevelForPoints(int(total)), nil
}

func (p *redisPoints) Total(ctx context.Context, holderID uint) (int, int, error) {
	rd := GetRedisClient()
	total, err := rd.Get(ctx, PointsKey(holderID)).Int()
	if err != nil {
		if err != redis.Nil {
			return 0, 0, err
		}
		total = 0
	}
	return total, utils.LevelForPoints(total), nil
}
