package biz

// Rank computes the ranking of every movie from its rating. movies must be
// ordered by rating ascending (ties in a stable order). The lowest rated
// movie gets ranking 1 and the highest gets len(movies).
//
// The returned map only holds movies whose ranking changes; the movies
// themselves are updated in place.
func Rank(movies []*Movie) map[int64]int {
	changed := make(map[int64]int)
	for i, m := range movies {
		ranking := i + 1
		if m.Ranking != ranking {
			m.Ranking = ranking
			changed[m.ID] = ranking
		}
	}
	return changed
}
