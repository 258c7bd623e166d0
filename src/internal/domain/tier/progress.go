package tier

// Progress 升級進度
type Progress struct {
	Current         Tier
	Next            Tier // 最高等級時為空
	LifetimePoints  int
	PointsToNext    int
	PercentComplete int // 0-100
}

// ProgressFor 根據累積積分計算升級進度
//
// 百分比 = (累積 - 當前門檻) / (下一門檻 - 當前門檻)，四捨五入並封頂 100；
// 最高等級固定 100%。
func ProgressFor(lifetimePoints int) Progress {
	current := ForLifetimePoints(lifetimePoints)
	p := Progress{
		Current:         current,
		LifetimePoints:  lifetimePoints,
		PercentComplete: 100,
	}

	next, ok := Next(current)
	if !ok {
		return p
	}

	currentMin := MinPoints(current)
	nextMin := MinPoints(next)
	p.Next = next
	p.PointsToNext = nextMin - lifetimePoints

	span := nextMin - currentMin
	done := lifetimePoints - currentMin
	// 整數四捨五入：(2*done*100 + span) / (2*span)
	percent := (2*done*100 + span) / (2 * span)
	if percent > 100 {
		percent = 100
	}
	p.PercentComplete = percent
	return p
}
