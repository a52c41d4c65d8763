package brackets

// GenerateLeagueSchedule pairs every team with every other team once per leg
// using the circle method. The second leg swaps home and away. With an odd
// number of teams one team rests each matchday.
func GenerateLeagueSchedule(teamIDs []string, legs int) ([]Pairing, error) {
	if len(teamIDs) < 2 || !distinct(teamIDs) {
		return nil, ErrNotEnoughTeams
	}
	if legs < 1 {
		legs = 1
	}

	slots := append([]string{}, teamIDs...)
	if len(slots)%2 == 1 {
		slots = append(slots, "") // пустой слот = выходной
	}
	n := len(slots)
	matchdays := n - 1

	pairings := make([]Pairing, 0, legs*matchdays*n/2)
	for leg := 0; leg < legs; leg++ {
		rotation := append([]string{}, slots...)
		for day := 0; day < matchdays; day++ {
			for i := 0; i < n/2; i++ {
				home, away := rotation[i], rotation[n-1-i]
				if home == "" || away == "" {
					continue
				}
				// чередуем хозяев, чтобы первая позиция не всегда играла дома
				if day%2 == 1 && i == 0 {
					home, away = away, home
				}
				if leg%2 == 1 {
					home, away = away, home
				}
				pairings = append(pairings, Pairing{
					Matchday:   leg*matchdays + day + 1,
					HomeTeamID: home,
					AwayTeamID: away,
				})
			}
			// первая позиция фиксирована, остальные сдвигаются по кругу
			last := rotation[n-1]
			copy(rotation[2:], rotation[1:n-1])
			rotation[1] = last
		}
	}
	return pairings, nil
}
