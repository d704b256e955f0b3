package blend

import "sort"

const (
	minDrawShare = 0.1
	maxDrawShare = 1.0
)

// RandomBlend is one sampled blend with its balance score.
type RandomBlend struct {
	Components   []Component `json:"components"`
	Result       Result      `json:"result"`
	BalanceScore float64     `json:"balanceScore"`
}

// FullRandom blends two or three tanks picked at random from the cellar.
func (e *Engine) FullRandom(cellar Cellar) (RandomBlend, error) {
	pool := cellar.withStock()
	if len(pool) < 2 {
		return RandomBlend{}, invalid("tanks", "needs at least 2 tanks holding wine, got %d", len(pool))
	}
	return e.fullRandom(pool), nil
}

// SelectedRandom blends exactly the chosen tanks with random volumes.
func (e *Engine) SelectedRandom(cellar Cellar, ids []string) (RandomBlend, error) {
	if len(ids) < 2 {
		return RandomBlend{}, invalid("tankIds", "needs at least 2 tanks, got %d", len(ids))
	}
	tanks, err := cellar.Select(ids)
	if err != nil {
		return RandomBlend{}, err
	}
	for _, t := range tanks {
		if t.AvailableLiters() <= 0 {
			return RandomBlend{}, invalid("tankIds", "tank %q holds no wine", t.ID)
		}
	}
	return e.sample(tanks), nil
}

// BestOfRandom draws iterations full-random blends and keeps the toShow best
// by balance score. Both counts are clamped to [1, MaxIterations] and toShow
// never exceeds iterations.
func (e *Engine) BestOfRandom(cellar Cellar, iterations, toShow int) ([]RandomBlend, error) {
	pool := cellar.withStock()
	if len(pool) < 2 {
		return nil, invalid("tanks", "needs at least 2 tanks holding wine, got %d", len(pool))
	}
	iterations = clampInt(iterations, 1, e.maxIterations)
	toShow = clampInt(toShow, 1, iterations)

	blends := make([]RandomBlend, iterations)
	for i := range blends {
		blends[i] = e.fullRandom(pool)
	}
	sort.SliceStable(blends, func(i, j int) bool {
		return blends[i].BalanceScore > blends[j].BalanceScore
	})
	return blends[:toShow], nil
}

func (e *Engine) fullRandom(pool []Tank) RandomBlend {
	size := 2 + e.rng.IntN(2)
	if size > len(pool) {
		size = len(pool)
	}
	shuffled := make([]Tank, len(pool))
	copy(shuffled, pool)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return e.sample(shuffled[:size])
}

// sample draws a volume for each tank between 10% and 100% of its stock.
func (e *Engine) sample(tanks []Tank) RandomBlend {
	components := make([]Component, len(tanks))
	for i, t := range tanks {
		share := minDrawShare + (maxDrawShare-minDrawShare)*e.rng.Float64()
		components[i] = Component{Tank: t, BlendVolume: t.AvailableLiters() * share}
	}
	result := mix(components)
	return RandomBlend{
		Components:   components,
		Result:       result,
		BalanceScore: e.balance.BalanceScore(components, result),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
